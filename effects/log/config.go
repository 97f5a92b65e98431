package log

import (
	"context"

	"github.com/on-the-ground/listiter/effects/binding"
	"github.com/on-the-ground/listiter/effects/configkeys"
)

const defaultBufferSize = 10

// BufferSizeFromBinding reads configkeys.ConfigEffectLogHandlerBufferSize from
// the binding effect in ctx, defaulting to 10 slots.
func BufferSizeFromBinding(ctx context.Context) (int, error) {
	size, err := binding.EffectOr(ctx, configkeys.ConfigEffectLogHandlerBufferSize, defaultBufferSize)
	if err != nil {
		return 0, err
	}
	return max(size, 1), nil
}
