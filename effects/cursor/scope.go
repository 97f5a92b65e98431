package cursor

import (
	"context"

	"github.com/on-the-ground/listiter/effects/log"
	"github.com/on-the-ground/listiter/iterator"
)

// ScopeOf exposes list as an iterator.Scope. Queries are performed against
// the handler registered in ctx and abandoned when the query's own context
// ends.
func ScopeOf(ctx context.Context, list string) iterator.Scope {
	return iterator.ScopeFuncs{
		CurrentIndexFn: func(qctx context.Context) (int, error) {
			hctx, done := within(ctx, qctx)
			defer done()
			return EffectCurrentIndex(hctx, list)
		},
		SizeFn: func(qctx context.Context) (int, error) {
			hctx, done := within(ctx, qctx)
			defer done()
			return EffectSize(hctx, list)
		},
	}
}

// SwitchOf returns an iterator switch callback moving list's cursor. A
// rejected move is logged, since the iterator has nowhere to report it.
func SwitchOf(ctx context.Context, list string) func(int) {
	return func(index int) {
		if err := EffectMove(ctx, list, index); err != nil {
			logEffect(ctx, log.LogWarn, "cursor move rejected", map[string]interface{}{
				"list":  list,
				"index": index,
				"err":   err.Error(),
			})
		}
	}
}

// within keeps handlerCtx's values but also ends when callCtx does.
func within(handlerCtx, callCtx context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(handlerCtx)
	if callCtx.Err() != nil {
		cancel()
	}
	stop := context.AfterFunc(callCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
