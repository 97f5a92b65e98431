package helper

import (
	"context"
	"fmt"

	effectmodel "github.com/on-the-ground/listiter/effects/internal/model"
	sharedHelper "github.com/on-the-ground/listiter/shared/helper"
)

// LookupHandler finds the handler registered for enum in ctx and asserts it to H.
// Fails with ErrNoEffectHandler when nothing is registered.
func LookupHandler[H any](ctx context.Context, enum effectmodel.EffectEnum) (H, error) {
	return sharedHelper.GetTypedValueOf[H](func() (any, error) {
		raw := ctx.Value(enum)
		if raw == nil {
			return nil, fmt.Errorf("%w: %v", effectmodel.ErrNoEffectHandler, enum)
		}
		return raw, nil
	})
}

// MustLookupHandler panics when no handler of type H is registered for enum.
func MustLookupHandler[H any](ctx context.Context, enum effectmodel.EffectEnum) H {
	h, err := LookupHandler[H](ctx, enum)
	if err != nil {
		panic(err)
	}
	return h
}
