package handlers

import (
	"context"
	"fmt"

	"github.com/on-the-ground/listiter/attempt"
	effectmodel "github.com/on-the-ground/listiter/effects/internal/model"
)

// ErrHandlerClosed is returned for effects performed after the handler stopped.
var ErrHandlerClosed = fmt.Errorf("effect handler closed")

func NewResumableHandler[P any, R any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	return ResumableHandler[P, R]{
		effectScope: newEffectScope(
			ctx,
			func(ctx context.Context) WorkerDispatcher[ResumableEffectMessage[P, R]] {
				return NewSingleQueue(ctx, bufferSize, resume(handleFn))
			},
			teardown,
		),
	}
}

func NewPartitionableResumableHandler[P effectmodel.Partitionable, R any](
	ctx context.Context,
	config effectmodel.EffectScopeConfig,
	handleFn func(context.Context, P) (R, error),
	teardown func(),
) ResumableHandler[P, R] {
	return ResumableHandler[P, R]{
		effectScope: newEffectScope(
			ctx,
			func(ctx context.Context) WorkerDispatcher[ResumableEffectMessage[P, R]] {
				return NewPartitionedQueue(ctx, config.NumWorkers, config.BufferSize, resume(handleFn))
			},
			teardown,
		),
	}
}

// resume adapts handleFn into a worker that answers on the message's resume channel.
func resume[P any, R any](
	handleFn func(context.Context, P) (R, error),
) func(context.Context, ResumableEffectMessage[P, R]) {
	return func(ctx context.Context, msg ResumableEffectMessage[P, R]) {
		defer close(msg.ResumeCh)
		msg.ResumeCh <- attempt.Of(func() (R, error) {
			return handleFn(ctx, msg.Payload)
		})
	}
}

type ResumableHandler[P any, R any] struct {
	*effectScope[ResumableEffectMessage[P, R]]
}

// PerformEffect queues payload and returns the channel its result arrives on.
// If the payload cannot be queued the channel carries the reason instead.
func (rh ResumableHandler[P, R]) PerformEffect(ctx context.Context, payload P) <-chan attempt.Result[R] {
	// buffered so the worker never blocks on an abandoned caller
	resumeCh := make(chan attempt.Result[R], 1)

	msg := ResumableEffectMessage[P, R]{
		Payload:  payload,
		ResumeCh: resumeCh,
	}
	if !rh.enqueue(ctx, msg) {
		err := ctx.Err()
		if err == nil {
			err = fmt.Errorf("%w: %s", ErrHandlerClosed, rh.EffectId)
		}
		resumeCh <- attempt.Failure[R](err)
		close(resumeCh)
	}

	return resumeCh
}

var _ effectmodel.Partitionable = ResumableEffectMessage[any, any]{}

type ResumableEffectMessage[P any, R any] struct {
	Payload  P
	ResumeCh chan attempt.Result[R]
}

func (rem ResumableEffectMessage[P, R]) PartitionKey() string {
	if p, ok := any(rem.Payload).(effectmodel.Partitionable); ok {
		return p.PartitionKey()
	}
	return ""
}
