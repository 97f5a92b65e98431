package beforecall

import (
	"context"

	"github.com/on-the-ground/listiter/attempt"
)

// Wrap returns a call that runs before synchronously in the caller's
// goroutine and then runs body in its own goroutine. The result channel is
// buffered, so dropping it never leaks the goroutine.
//
// before and body always run, even when ctx is already done; body is
// expected to honour ctx itself. A panic in body is delivered as an
// attempt.ErrPanicked failure.
func Wrap[R any](
	before func(),
	body func(context.Context) (R, error),
) func(context.Context) <-chan attempt.Result[R] {
	return func(ctx context.Context) <-chan attempt.Result[R] {
		if before != nil {
			before()
		}

		done := make(chan attempt.Result[R], 1)
		ready := make(chan struct{})
		go func() {
			close(ready)
			defer close(done)
			done <- attempt.Of(func() (R, error) {
				return body(ctx)
			})
		}()
		<-ready

		return done
	}
}

// Await blocks until the call finishes or ctx is done.
func Await[R any](ctx context.Context, ch <-chan attempt.Result[R]) attempt.Result[R] {
	select {
	case res, ok := <-ch:
		if !ok {
			return attempt.Failure[R](context.Canceled)
		}
		return res
	case <-ctx.Done():
		return attempt.Failure[R](ctx.Err())
	}
}
