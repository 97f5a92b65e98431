package iterator

import "context"

// Scope is the iterator's read-only view of the collection.
type Scope interface {
	CurrentIndex(ctx context.Context) (int, error)
	Size(ctx context.Context) (int, error)
}

// ScopeFuncs adapts a pair of functions to Scope.
type ScopeFuncs struct {
	CurrentIndexFn func(ctx context.Context) (int, error)
	SizeFn         func(ctx context.Context) (int, error)
}

var _ Scope = ScopeFuncs{}

func (s ScopeFuncs) CurrentIndex(ctx context.Context) (int, error) {
	return s.CurrentIndexFn(ctx)
}

func (s ScopeFuncs) Size(ctx context.Context) (int, error) {
	return s.SizeFn(ctx)
}
