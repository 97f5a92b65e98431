package delayed

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rickb777/date/v2/timespan"
)

// Delayed runs fn once after a delay. Delaying again before it fires replaces
// the previous wait; Cancel drops it. At most one timer is live at a time.
type Delayed struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	fn      func()
	timer   clockwork.Timer
	gen     uint64
	pending bool
	window  timespan.TimeSpan
}

type Option func(*Delayed)

// WithClock swaps the real clock, mostly for clockwork.FakeClock in tests.
func WithClock(clock clockwork.Clock) Option {
	return func(d *Delayed) {
		if clock != nil {
			d.clock = clock
		}
	}
}

func New(fn func(), opts ...Option) *Delayed {
	if fn == nil {
		panic("delayed: nil callback")
	}
	d := &Delayed{
		clock: clockwork.NewRealClock(),
		fn:    fn,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Delay (re)starts the wait. Negative delays are treated as zero.
func (d *Delayed) Delay(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	now := d.clock.Now()
	d.pending = true
	d.window = timespan.BetweenTimes(now, now.Add(delay))
	d.timer = d.clock.AfterFunc(delay, func() {
		// some clocks expire zero delays inline, while d.mu is still held
		go d.fire(gen)
	})
}

// Cancel drops the pending firing, if any, and reports whether one existed.
func (d *Delayed) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	wasPending := d.pending
	d.stopLocked()
	d.pending = false
	return wasPending
}

func (d *Delayed) IsPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Window returns the span between the last Delay call and its due time.
// ok is false when nothing is pending.
func (d *Delayed) Window() (span timespan.TimeSpan, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.window, d.pending
}

func (d *Delayed) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// a timer that already expired may still call fire; bumping gen makes it stale
	d.gen++
}

func (d *Delayed) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}
