package handlers_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/listiter/effects/internal/handlers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// moveMsg stands in for a cursor move routed by list name.
type moveMsg struct {
	list  string
	index int
}

func (m moveMsg) PartitionKey() string { return m.list }

// recorder collects handled moves per list.
type recorder struct {
	mu    sync.Mutex
	wg    sync.WaitGroup
	moves map[string][]int
}

func newRecorder(expected int) *recorder {
	r := &recorder{moves: make(map[string][]int)}
	r.wg.Add(expected)
	return r
}

func (r *recorder) handle(_ context.Context, msg moveMsg) {
	defer r.wg.Done()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.moves[msg.list] = append(r.moves[msg.list], msg.index)
}

func (r *recorder) wait(t *testing.T) map[string][]int {
	t.Helper()
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for moves to be handled")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.moves
}

func TestPartitionedQueue_KeepsMoveOrderPerList(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lists := []string{"photos", "slides", "videos"}
	const movesPerList = 20
	rec := newRecorder(len(lists) * movesPerList)
	dispatcher := handlers.NewPartitionedQueue(ctx, 4, 8, rec.handle)
	require.Equal(t, 4, dispatcher.NumWorkers())

	var senders sync.WaitGroup
	for _, list := range lists {
		senders.Add(1)
		go func(list string) {
			defer senders.Done()
			for i := 0; i < movesPerList; i++ {
				msg := moveMsg{list: list, index: i}
				dispatcher.GetChannelOf(msg) <- msg
			}
		}(list)
	}
	senders.Wait()

	moves := rec.wait(t)
	want := make([]int, movesPerList)
	for i := range want {
		want[i] = i
	}
	for _, list := range lists {
		assert.Equal(t, want, moves[list], "moves of %s arrive in send order", list)
	}
}

func TestPartitionedQueue_SameListSameWorker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := handlers.NewPartitionedQueue(ctx, 8, 1, func(context.Context, moveMsg) {})

	for i := 0; i < 32; i++ {
		list := fmt.Sprintf("list-%d", i)
		first := dispatcher.GetChannelOf(moveMsg{list: list, index: 0})
		assert.Equal(t, first, dispatcher.GetChannelOf(moveMsg{list: list, index: 5}))
	}
}

func TestSingleQueue_HandlesEveryMove(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := newRecorder(3)
	dispatcher := handlers.NewSingleQueue(ctx, 4, rec.handle)
	require.Equal(t, 1, dispatcher.NumWorkers())

	for _, msg := range []moveMsg{{"a", 1}, {"b", 2}, {"a", 3}} {
		dispatcher.GetChannelOf(msg) <- msg
	}

	assert.Equal(t, map[string][]int{"a": {1, 3}, "b": {2}}, rec.wait(t))
}

func TestWorkerDispatcher_SurvivesHandlerPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handled := make(chan int, 1)
	dispatcher := handlers.NewSingleQueue(ctx, 2, func(_ context.Context, msg moveMsg) {
		if msg.index < 0 {
			panic("negative index")
		}
		handled <- msg.index
	})

	dispatcher.GetChannelOf(moveMsg{}) <- moveMsg{list: "a", index: -1}
	dispatcher.GetChannelOf(moveMsg{}) <- moveMsg{list: "a", index: 2}

	select {
	case got := <-handled:
		assert.Equal(t, 2, got)
	case <-time.After(time.Second):
		t.Fatal("worker stopped after handler panic")
	}
}

func TestWorkerDispatcher_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	handled := make(chan int, 1)
	dispatcher := handlers.NewSingleQueue(ctx, 1, func(_ context.Context, msg moveMsg) {
		handled <- msg.index
	})

	dispatcher.GetChannelOf(moveMsg{}) <- moveMsg{list: "a", index: 1}
	select {
	case <-handled:
	case <-time.After(time.Second):
		t.Fatal("move was not handled before cancel")
	}

	cancel()
	time.Sleep(100 * time.Millisecond) // let the worker observe ctx

	dispatcher.GetChannelOf(moveMsg{}) <- moveMsg{list: "a", index: 2} // buffered, nobody reads it
	select {
	case idx := <-handled:
		t.Fatalf("handled move %d after cancel", idx)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSingleQueue_SenderWaitsWhileBufferIsFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	entered := make(chan struct{}, 1)
	unblock := make(chan struct{})
	dispatcher := handlers.NewSingleQueue(ctx, 1, func(context.Context, moveMsg) {
		entered <- struct{}{}
		<-unblock
	})
	ch := dispatcher.GetChannelOf(moveMsg{})

	ch <- moveMsg{list: "a", index: 1} // taken by the worker, which then blocks
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("worker did not pick up the first move")
	}
	ch <- moveMsg{list: "a", index: 2} // fills the buffer

	sent := make(chan struct{})
	go func() {
		ch <- moveMsg{list: "a", index: 3}
		close(sent)
	}()

	select {
	case <-sent:
		t.Fatal("third move should wait for buffer space")
	case <-time.After(100 * time.Millisecond):
	}

	close(unblock)
	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("third move never got queued")
	}
}
