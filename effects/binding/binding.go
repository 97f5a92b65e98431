package binding

import (
	"context"
	"errors"
	"fmt"

	"github.com/on-the-ground/listiter/effects"
	effectmodel "github.com/on-the-ground/listiter/effects/internal/model"
	"github.com/on-the-ground/listiter/shared/helper"
)

// Payload defines a key-based lookup payload.
// Used as input to the Binding effect.
type Payload string

// PartitionKey routes lookups of the same key to the same worker.
func (bp Payload) PartitionKey() string {
	return string(bp)
}

// ErrKeyNotFound is returned when neither this scope nor any upper scope binds the key.
var ErrKeyNotFound = errors.New("key not found")

// WithEffectHandler registers a resumable, partitionable effect handler for bindings.
//
//   - Accepts a key-value map used for lookups.
//   - Allows fallback to upper scopes if a key is not found locally.
//   - Returns a teardown function to close the handler; it returns the context
//     the handler was registered on.
func WithEffectHandler(
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	bindingMap map[string]any,
) (context.Context, func() context.Context) {
	bindingHandler := &bindingHandler{
		bindingMap: normalizeBindingMap(bindingMap),
	}
	return effects.WithResumablePartitionableEffectHandler[Payload, any](
		ctx,
		effectmodel.NewEffectScopeConfig(config.BufferSize, config.NumWorkers),
		effectmodel.EffectBinding,
		bindingHandler.handle,
	)
}

// Effect performs a key-based lookup using the Binding effect handler.
//
// Returns either the value found or an error if the key is not found and no upper scope provides it.
func Effect(ctx context.Context, key string) (any, error) {
	return effects.AwaitResumableEffect[Payload, any](ctx, effectmodel.EffectBinding, Payload(key))
}

// EffectTyped looks up key and asserts the bound value to T.
func EffectTyped[T any](ctx context.Context, key string) (T, error) {
	return helper.GetTypedValueOf[T](func() (any, error) {
		return Effect(ctx, key)
	})
}

// EffectOr is EffectTyped with a fallback for missing keys or absent handlers.
// Values bound with the wrong type are still reported as errors.
func EffectOr[T any](ctx context.Context, key string, fallback T) (T, error) {
	if !effects.HasEffectHandler(ctx, effectmodel.EffectBinding) {
		return fallback, nil
	}
	v, err := EffectTyped[T](ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return fallback, nil
	}
	return v, err
}

// normalizeBindingMap is an internal helper for normalizing binding map.
func normalizeBindingMap(bm map[string]any) map[string]any {
	if bm == nil {
		bm = make(map[string]any)
	}
	return bm
}

// bindingHandler
type bindingHandler struct {
	bindingMap map[string]any
}

// handle looks up the key in the local bindingMap.
// - If found: returns the value.
// - If not found: delegates to an upper handler (if available).
// - Otherwise: returns ErrKeyNotFound.
func (bh bindingHandler) handle(ctx context.Context, payload Payload) (any, error) {
	key := string(payload)
	if v, ok := bh.bindingMap[key]; ok {
		return v, nil
	}
	if !effects.HasEffectHandler(ctx, effectmodel.EffectBinding) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return Effect(ctx, key)
}
