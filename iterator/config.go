package iterator

import (
	"context"
	"time"

	"github.com/on-the-ground/listiter/effects/binding"
	"github.com/on-the-ground/listiter/effects/configkeys"
)

// OptionsFromBinding overlays base with the iterator keys bound in ctx:
// configkeys.ConfigIteratorDelayMs (int, milliseconds) and
// configkeys.ConfigIteratorLoop (bool). Unbound keys keep base's values,
// and no binding handler at all simply returns base.
func OptionsFromBinding(ctx context.Context, base Options) (Options, error) {
	delayMs, err := binding.EffectOr(ctx, configkeys.ConfigIteratorDelayMs, -1)
	if err != nil {
		return base, err
	}
	if delayMs >= 0 {
		base.Delay = time.Duration(delayMs) * time.Millisecond
	}

	loop, err := binding.EffectOr(ctx, configkeys.ConfigIteratorLoop, base.Loop)
	if err != nil {
		return base, err
	}
	base.Loop = loop

	return base, nil
}
