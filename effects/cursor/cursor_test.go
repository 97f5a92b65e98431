package cursor_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/on-the-ground/listiter/effects"
	"github.com/on-the-ground/listiter/effects/binding"
	"github.com/on-the-ground/listiter/effects/configkeys"
	"github.com/on-the-ground/listiter/effects/cursor"
	"github.com/on-the-ground/listiter/effects/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withCursors(t *testing.T, lists map[string]int, opts ...cursor.Option) context.Context {
	t.Helper()
	ctx := context.Background()
	ctx, endOfLog := log.WithTestEffectHandler(ctx)
	t.Cleanup(func() { endOfLog() })
	ctx, endOfCursor := cursor.WithEffectHandler(ctx, cursor.NewConfig(4, 2, 3), lists, opts...)
	t.Cleanup(func() { endOfCursor() })
	return ctx
}

func TestCursorEffect_MoveAndQuery(t *testing.T) {
	ctx := withCursors(t, map[string]int{"photos": 5})

	idx, err := cursor.EffectCurrentIndex(ctx, "photos")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	size, err := cursor.EffectSize(ctx, "photos")
	require.NoError(t, err)
	assert.Equal(t, 5, size)

	require.NoError(t, cursor.EffectMove(ctx, "photos", 3))
	idx, err = cursor.EffectCurrentIndex(ctx, "photos")
	require.NoError(t, err)
	assert.Equal(t, 3, idx)
}

func TestCursorEffect_RejectsOutOfRange(t *testing.T) {
	ctx := withCursors(t, map[string]int{"photos": 2})

	require.NoError(t, cursor.EffectMove(ctx, "photos", 1))
	assert.ErrorIs(t, cursor.EffectMove(ctx, "photos", 2), cursor.ErrIndexOutOfRange)
	assert.ErrorIs(t, cursor.EffectMove(ctx, "photos", -1), cursor.ErrIndexOutOfRange)

	idx, err := cursor.EffectCurrentIndex(ctx, "photos")
	require.NoError(t, err)
	assert.Equal(t, 1, idx, "failed moves leave the cursor alone")
}

func TestCursorEffect_UnknownList(t *testing.T) {
	ctx := withCursors(t, map[string]int{"photos": 2})

	_, err := cursor.EffectSize(ctx, "videos")
	assert.ErrorIs(t, err, cursor.ErrUnknownList)
	assert.ErrorIs(t, cursor.EffectMove(ctx, "videos", 0), cursor.ErrUnknownList)
}

func TestCursorEffect_ResizeClampsIndex(t *testing.T) {
	ctx := withCursors(t, map[string]int{"photos": 5})

	require.NoError(t, cursor.EffectMove(ctx, "photos", 4))
	require.NoError(t, cursor.EffectResize(ctx, "photos", 2))

	idx, err := cursor.EffectCurrentIndex(ctx, "photos")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	require.NoError(t, cursor.EffectResize(ctx, "photos", 0))
	idx, err = cursor.EffectCurrentIndex(ctx, "photos")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.ErrorIs(t, cursor.EffectMove(ctx, "photos", 0), cursor.ErrIndexOutOfRange)

	assert.ErrorIs(t, cursor.EffectResize(ctx, "photos", -3), cursor.ErrInvalidSize)
}

func TestCursorEffect_HistoryIsBoundedAndStamped(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	ctx := withCursors(t, map[string]int{"photos": 10}, cursor.WithClock(clock))

	for i := 1; i <= 5; i++ {
		require.NoError(t, cursor.EffectMove(ctx, "photos", i))
		clock.Advance(time.Second)
	}

	history, err := cursor.EffectHistory(ctx, "photos")
	require.NoError(t, err)
	require.Len(t, history, 3)

	assert.Equal(t, 2, history[0].From)
	assert.Equal(t, 3, history[0].To)
	assert.Equal(t, 5, history[2].To)
	for i := 1; i < len(history); i++ {
		assert.True(t, history[i-1].End().Before(history[i].Start()), "records are ordered in time")
	}
	assert.True(t, history[2].Contains(clock.Now().Add(-time.Second)))

	// the returned slice is a copy
	history[0].To = 99
	again, err := cursor.EffectHistory(ctx, "photos")
	require.NoError(t, err)
	assert.Equal(t, 3, again[0].To)
}

func TestCursorEffect_ListsAreIndependent(t *testing.T) {
	ctx := withCursors(t, map[string]int{"a": 100, "b": 100, "c": 100})

	var wg sync.WaitGroup
	for _, list := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(list string) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				assert.NoError(t, cursor.EffectMove(ctx, list, i))
			}
		}(list)
	}
	wg.Wait()

	for _, list := range []string{"a", "b", "c"} {
		idx, err := cursor.EffectCurrentIndex(ctx, list)
		require.NoError(t, err)
		assert.Equal(t, 49, idx)
	}
}

func TestCursorEffect_LogsMoves(t *testing.T) {
	ctx := context.Background()
	ctx, logs, endOfLog := log.WithObservedEffectHandler(ctx)
	defer endOfLog()
	ctx, endOfCursor := cursor.WithEffectHandler(ctx, cursor.NewConfig(1, 1, 0), map[string]int{"photos": 3})
	defer endOfCursor()

	require.NoError(t, cursor.EffectMove(ctx, "photos", 2))

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("cursor moved").Len() == 1
	}, time.Second, 10*time.Millisecond)

	entry := logs.FilterMessage("cursor moved").All()[0]
	assert.Equal(t, "photos", entry.ContextMap()["list"])

	history, err := cursor.EffectHistory(ctx, "photos")
	require.NoError(t, err)
	assert.Empty(t, history, "zero history size keeps nothing")
}

func TestConfigFromBinding(t *testing.T) {
	ctx := context.Background()

	config, err := cursor.ConfigFromBinding(ctx)
	require.NoError(t, err)
	assert.Equal(t, cursor.NewConfig(1, 1, 16), config)

	ctx, endOfBinding := binding.WithEffectHandler(ctx, effects.NewEffectScopeConfig(1, 1), map[string]any{
		configkeys.ConfigEffectCursorHandlerNumWorkers: 4,
		configkeys.ConfigEffectCursorHistorySize:       2,
	})
	defer endOfBinding()

	config, err = cursor.ConfigFromBinding(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, config.BufferSize)
	assert.Equal(t, 4, config.NumWorkers)
	assert.Equal(t, 2, config.HistorySize)

	ctx, endOfBad := binding.WithEffectHandler(ctx, effects.NewEffectScopeConfig(1, 1), map[string]any{
		configkeys.ConfigEffectCursorHandlerBufferSize: "lots",
	})
	defer endOfBad()

	_, err = cursor.ConfigFromBinding(ctx)
	assert.Error(t, err)
}
