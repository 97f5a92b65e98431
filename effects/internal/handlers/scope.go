package handlers

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// effectScope owns the workers of one registered handler. Its context is
// cancelled on Close, which stops the workers and unblocks pending senders.
type effectScope[T any] struct {
	EffectId   string
	dispatcher WorkerDispatcher[T]
	done       <-chan struct{}
	closeFn    func()
	closeOnce  sync.Once
}

func (es *effectScope[T]) Close() {
	es.closeOnce.Do(func() {
		es.closeFn()
		zap.L().Debug("effect scope closed", zap.String("effectId", es.EffectId))
	})
}

// enqueue hands msg to its worker. It gives up when either the caller's
// context or the scope ends, reporting whether the message was queued.
func (es *effectScope[T]) enqueue(ctx context.Context, msg T) bool {
	select {
	case <-es.done:
		return false
	default:
	}
	select {
	case <-ctx.Done():
		return false
	case <-es.done:
		return false
	case es.dispatcher.GetChannelOf(msg) <- msg:
		return true
	}
}

// newEffectScope starts dispatcher workers on a child of ctx via newDispatcher.
// teardown runs after the workers have been told to stop.
func newEffectScope[T any](
	ctx context.Context,
	newDispatcher func(context.Context) WorkerDispatcher[T],
	teardown func(),
) *effectScope[T] {
	ctx, cancelFn := context.WithCancel(ctx)
	return &effectScope[T]{
		EffectId:   uuid.New().String(),
		dispatcher: newDispatcher(ctx),
		done:       ctx.Done(),
		closeFn: func() {
			cancelFn()
			if teardown != nil {
				teardown()
			}
		},
	}
}
