package handlers

import (
	"context"
	"sync"

	effectmodel "github.com/on-the-ground/listiter/effects/internal/model"
	"go.uber.org/zap"
)

// WorkerDispatcher picks the worker channel a message is queued on.
type WorkerDispatcher[T any] interface {
	GetChannelOf(msg T) chan T
	NumWorkers() int
}

// runWorker drains ch until ctx is done. A panicking handleFn is logged and
// the worker keeps serving.
func runWorker[T any](ctx context.Context, ch chan T, handleFn func(context.Context, T)) {
	handle := func(msg T) {
		defer func() {
			if r := recover(); r != nil {
				zap.L().Error("panic in effect worker", zap.Any("error", r))
			}
		}()
		handleFn(ctx, msg)
	}
	for {
		select {
		case msg := <-ch:
			handle(msg)
		case <-ctx.Done():
			return
		}
	}
}

// --- single queue ---

type singleQueue[T any] struct {
	effectCh chan T
}

func (q singleQueue[T]) GetChannelOf(_ T) chan T {
	return q.effectCh
}

func (q singleQueue[T]) NumWorkers() int { return 1 }

func NewSingleQueue[T any](
	ctx context.Context,
	bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	effCh := make(chan T, bufferSize)
	ready := make(chan struct{})

	go func() {
		close(ready)
		runWorker(ctx, effCh, handleFn)
	}()
	<-ready

	return singleQueue[T]{effectCh: effCh}
}

// --- partitioned queue ---

// partitionedQueue routes messages with the same PartitionKey to the same
// worker, so per-key ordering is preserved.
type partitionedQueue[T effectmodel.Partitionable] struct {
	effectChs []chan T
}

func (pq partitionedQueue[T]) GetChannelOf(msg T) chan T {
	return pq.effectChs[getIndexByHash(msg, len(pq.effectChs))]
}

func (pq partitionedQueue[T]) NumWorkers() int { return len(pq.effectChs) }

func NewPartitionedQueue[T effectmodel.Partitionable](
	ctx context.Context,
	numWorkers, bufferSize int,
	handleFn func(context.Context, T),
) WorkerDispatcher[T] {
	config := effectmodel.NewEffectScopeConfig(bufferSize, numWorkers)
	channels := make([]chan T, config.NumWorkers)
	ready := sync.WaitGroup{}
	for i := range channels {
		ch := make(chan T, config.BufferSize)
		ready.Add(1)
		go func() {
			ready.Done()
			runWorker(ctx, ch, handleFn)
		}()
		channels[i] = ch
	}
	ready.Wait()
	return partitionedQueue[T]{effectChs: channels}
}
