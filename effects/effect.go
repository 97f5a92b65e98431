package effects

import (
	"context"

	"github.com/on-the-ground/listiter/attempt"
	"github.com/on-the-ground/listiter/effects/internal/handlers"
	"github.com/on-the-ground/listiter/effects/internal/helper"
	"go.uber.org/zap"

	effectmodel "github.com/on-the-ground/listiter/effects/internal/model"
)

// WithResumablePartitionableEffectHandler registers a resumable effect handler for a given effect enum.
//
// This handler supports hash-based partitioning via PartitionKey(), and is suitable for effects
// like cursor updates where per-key ordering matters.
//
// Usage:
//
//	ctx, end := WithResumablePartitionableEffectHandler(ctx, config, MyEffectEnum, handleFn)
//	defer end()
func WithResumablePartitionableEffectHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewPartitionableResumableHandler(ctx, config, handleFn, td)
	return register(ctx, enum, handler.EffectId, handler.Close, handler, "resumable")
}

// WithResumableEffectHandler registers a resumable effect handler served by a single worker.
func WithResumableEffectHandler[P any, R any](
	ctx context.Context,
	bufferSize int,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P) (R, error),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewResumableHandler(ctx, bufferSize, handleFn, td)
	return register(ctx, enum, handler.EffectId, handler.Close, handler, "resumable")
}

// PerformResumableEffect sends a payload to the resumable effect handler.
//
// The returned channel yields exactly one result.
// Panics if no handler is registered for the given effect enum.
func PerformResumableEffect[P any, R any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) <-chan attempt.Result[R] {
	handler := helper.MustLookupHandler[handlers.ResumableHandler[P, R]](ctx, enum)
	return handler.PerformEffect(ctx, payload)
}

// AwaitResumableEffect performs the effect and blocks for its result or ctx.
func AwaitResumableEffect[P any, R any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) (R, error) {
	select {
	case res := <-PerformResumableEffect[P, R](ctx, enum, payload):
		return res.Get()
	case <-ctx.Done():
		return *new(R), ctx.Err()
	}
}

// WithFireAndForgetEffectHandler registers a fire-and-forget effect handler for a given effect enum.
//
// Suitable for one-shot effects like logging or telemetry.
// This handler executes without returning a result.
func WithFireAndForgetEffectHandler[P any](
	ctx context.Context,
	bufferSize int,
	enum effectmodel.EffectEnum,
	handleFn func(context.Context, P),
	teardown ...func(),
) (context.Context, func() context.Context) {
	td := normalizeTeardown(teardown)
	handler := handlers.NewFireAndForgetHandler(ctx, bufferSize, handleFn, td)
	return register(ctx, enum, handler.EffectId, handler.Close, handler, "fire/forget")
}

// FireAndForgetEffect triggers a fire-and-forget effect for the given enum and payload.
//
// The handler will process the payload asynchronously.
// Panics if no handler is registered for the given enum.
func FireAndForgetEffect[P any](
	ctx context.Context,
	enum effectmodel.EffectEnum,
	payload P,
) {
	handler := helper.MustLookupHandler[handlers.FireAndForgetHandler[P]](ctx, enum)
	handler.FireAndForgetEffect(ctx, payload)
}

// HasEffectHandler reports whether a handler is registered for enum.
func HasEffectHandler(ctx context.Context, enum effectmodel.EffectEnum) bool {
	return ctx.Value(enum) != nil
}

func register(
	ctx context.Context,
	enum effectmodel.EffectEnum,
	effectId string,
	closeFn func(),
	handler any,
	kind string,
) (context.Context, func() context.Context) {
	ctxWith := context.WithValue(ctx, enum, handler)
	zap.L().Debug("created effect handler",
		zap.String("kind", kind),
		zap.String("effectId", effectId),
		zap.String("enum", string(enum)),
	)

	return ctxWith, func() context.Context {
		closeFn()
		zap.L().Debug("closed effect handler",
			zap.String("kind", kind),
			zap.String("effectId", effectId),
			zap.String("enum", string(enum)),
		)
		return ctx
	}
}

// normalizeTeardown flattens optional teardown functions into a single callable.
//
// Accepts either 0 or 1 teardown functions. Panics if more than one is passed.
func normalizeTeardown(teardown []func()) func() {
	switch len(teardown) {
	case 1:
		return teardown[0]
	case 0:
		return func() {}
	default:
		panic("normalizeTeardown: only one or zero teardown functions allowed")
	}
}
