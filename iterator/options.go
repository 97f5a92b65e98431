package iterator

import (
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// Options are the per-call knobs. The zero value means no delay, no wrap-around.
type Options struct {
	// Delay is how long Next waits for further calls before committing.
	Delay time.Duration
	// Loop makes Next wrap from the last element to the first.
	Loop bool
}

// CallOption overrides a default for a single call.
type CallOption func(*Options)

func WithDelay(delay time.Duration) CallOption {
	return func(o *Options) {
		o.Delay = delay
	}
}

func WithLoop(loop bool) CallOption {
	return func(o *Options) {
		o.Loop = loop
	}
}

func (o Options) with(callOpts []CallOption) Options {
	for _, opt := range callOpts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	return o
}

// Option configures the iterator itself at construction.
type Option func(*ListIterator)

// WithClock drives the debounce timer from clock instead of the wall clock.
func WithClock(clock clockwork.Clock) Option {
	return func(it *ListIterator) {
		if clock != nil {
			it.clock = clock
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(it *ListIterator) {
		if logger != nil {
			it.logger = logger
		}
	}
}
