// Package attempt turns computations that may fail or panic into values.
//
// A Result is either a success carrying a value or a failure carrying an
// error. Results are what asynchronous operations in this module send over
// their result channels, so callers can do:
//
//	res := <-it.Next(ctx)
//	idx, err := res.Get()
//
// Map, FlatMap and Recover chain further computation without unpacking.
package attempt

import (
	"errors"
	"fmt"
)

// ErrPanicked marks a failure produced by a recovered panic.
var ErrPanicked = errors.New("computation panicked")

// Result holds the outcome of a computation.
type Result[T any] struct {
	Value T
	Err   error
}

// Of runs fn and captures its outcome. A panic inside fn becomes a failure
// wrapping ErrPanicked.
func Of[T any](fn func() (T, error)) (res Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = Failure[T](panicked(r))
		}
	}()
	return From(fn())
}

// From packs a (value, error) pair.
func From[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Err: err}
}

func Success[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

func Failure[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

func (r Result[T]) IsSuccess() bool {
	return r.Err == nil
}

// Get unpacks the result.
func (r Result[T]) Get() (T, error) {
	return r.Value, r.Err
}

// OrElse returns the value on success, otherwise fallback.
func (r Result[T]) OrElse(fallback T) T {
	if r.Err != nil {
		return fallback
	}
	return r.Value
}

// Option drops the error, reporting only whether a value is present.
func (r Result[T]) Option() (T, bool) {
	if r.Err != nil {
		var zero T
		return zero, false
	}
	return r.Value, true
}

// Map applies fn to a successful value. Failures pass through untouched.
func Map[T, U any](r Result[T], fn func(T) U) Result[U] {
	if r.Err != nil {
		return Failure[U](r.Err)
	}
	return Of(func() (U, error) {
		return fn(r.Value), nil
	})
}

// FlatMap chains a computation that can itself fail.
func FlatMap[T, U any](r Result[T], fn func(T) Result[U]) Result[U] {
	if r.Err != nil {
		return Failure[U](r.Err)
	}
	return Of(func() (U, error) {
		return fn(r.Value).Get()
	})
}

// Recover gives a failure a second chance. Successes pass through untouched.
func Recover[T any](r Result[T], fn func(error) (T, error)) Result[T] {
	if r.Err == nil {
		return r
	}
	return Of(func() (T, error) {
		return fn(r.Err)
	})
}

func panicked(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("%w: %w", ErrPanicked, err)
	}
	return fmt.Errorf("%w: %v", ErrPanicked, r)
}
