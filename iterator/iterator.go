package iterator

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/on-the-ground/listiter/attempt"
	"github.com/on-the-ground/listiter/shared/beforecall"
	"github.com/on-the-ground/listiter/shared/delayed"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// none is the target meaning "no valid move".
const none = -1

// ErrScopeQuery wraps failures of the scope's index or size query.
var ErrScopeQuery = errors.New("scope query failed")

// ListIterator schedules cursor moves over a Scope. See the package doc for
// the forward/backward policy.
type ListIterator struct {
	Id string

	scope    Scope
	onSwitch func(int)
	defaults Options
	clock    clockwork.Clock
	logger   *zap.Logger
	timer    *delayed.Delayed

	mu sync.Mutex
	// target is the last computed move, or none.
	target int
	// inflight counts Next calls whose recomputation has not settled yet.
	inflight int
	// due is set when the timer fired while a recomputation was in flight;
	// the last one to settle commits.
	due bool
	// epoch advances on Back and Cancel; forward recomputations started in
	// an older epoch neither store their target nor arm the timer.
	epoch uint64
	// nextCalls counts Next calls, so a backward recomputation can tell it
	// was overtaken.
	nextCalls uint64
}

// New builds an iterator over scope. onSwitch receives every committed
// target; defaults apply to calls that do not override them.
func New(scope Scope, onSwitch func(int), defaults Options, opts ...Option) *ListIterator {
	if scope == nil {
		panic("iterator: nil scope")
	}
	if onSwitch == nil {
		panic("iterator: nil switch callback")
	}

	it := &ListIterator{
		Id:       uuid.New().String(),
		scope:    scope,
		onSwitch: onSwitch,
		defaults: defaults.with(nil),
		clock:    clockwork.NewRealClock(),
		logger:   zap.NewNop(),
		target:   none,
	}
	for _, opt := range opts {
		opt(it)
	}
	it.logger = it.logger.With(zap.String("iteratorId", it.Id))
	it.timer = delayed.New(it.fire, delayed.WithClock(it.clock))
	return it
}

// Next asks for a forward move. The debounce timer is reset before Next
// returns; the target is recomputed asynchronously and delivered on the
// returned channel, which may be ignored.
func (it *ListIterator) Next(ctx context.Context, callOpts ...CallOption) <-chan attempt.Result[int] {
	o := it.defaults.with(callOpts)
	var epoch uint64
	return beforecall.Wrap(
		func() { epoch = it.beforeNext(o) },
		func(ctx context.Context) (int, error) { return it.afterNext(ctx, o, epoch) },
	)(ctx)
}

// Back commits the pending target immediately, if any, cancelling the
// forward timer. It then recomputes a backward target for the next call.
// Back never wraps around.
func (it *ListIterator) Back(ctx context.Context) <-chan attempt.Result[int] {
	var mark backMark
	return beforecall.Wrap(
		func() { mark = it.beforeBack() },
		func(ctx context.Context) (int, error) { return it.afterBack(ctx, mark) },
	)(ctx)
}

// IsCanNext reports whether Next would have a valid target right now.
func (it *ListIterator) IsCanNext(ctx context.Context, callOpts ...CallOption) (bool, error) {
	o := it.defaults.with(callOpts)
	target, err := it.candidate(ctx, nextIndexOf, o.Loop)
	return target >= 0, err
}

// IsCanBack reports whether Back would have a valid target right now.
func (it *ListIterator) IsCanBack(ctx context.Context) (bool, error) {
	target, err := it.candidate(ctx, prevIndexOf, false)
	return target >= 0, err
}

// IsPending reports whether a forward move is scheduled and has not fired.
func (it *ListIterator) IsPending() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.due || it.timer.IsPending()
}

// Cancel drops the scheduled forward move without calling onSwitch. The
// computed target is kept for later calls. Next calls still in flight will
// not re-arm the move.
func (it *ListIterator) Cancel() {
	it.mu.Lock()
	defer it.mu.Unlock()

	it.epoch++
	it.due = false
	if it.timer.Cancel() {
		it.logger.Debug("cancelled pending transition", zap.Int("target", it.target))
	}
}

// PendingWindow reports when the scheduled forward move was armed and when
// it is due. ok is false when no move is scheduled.
func (it *ListIterator) PendingWindow() (window timespan.TimeSpan, ok bool) {
	return it.timer.Window()
}

// PendingTarget returns the last computed target; ok is false when there is
// no valid move.
func (it *ListIterator) PendingTarget() (target int, ok bool) {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.target, it.target >= 0
}

// beforeNext returns the epoch the call belongs to.
func (it *ListIterator) beforeNext(o Options) uint64 {
	it.mu.Lock()
	defer it.mu.Unlock()

	it.inflight++
	it.nextCalls++
	if it.target >= 0 {
		it.timer.Delay(o.Delay)
		it.logger.Debug("rescheduled transition", zap.Int("target", it.target), zap.Duration("delay", o.Delay))
	}
	return it.epoch
}

func (it *ListIterator) afterNext(ctx context.Context, o Options, epoch uint64) (int, error) {
	target, err := it.candidate(ctx, nextIndexOf, o.Loop)
	if commit, ok := it.settleNext(target, err, o, epoch); ok {
		it.switchTo(commit)
	}
	return target, err
}

// settleNext stores a recomputed forward target and reports whether a
// deferred commit is now due.
func (it *ListIterator) settleNext(target int, err error, o Options, epoch uint64) (int, bool) {
	it.mu.Lock()
	defer it.mu.Unlock()

	it.inflight--
	switch {
	case err != nil:
		it.logger.Debug("forward recomputation failed", zap.Error(err))
	case epoch != it.epoch:
		it.logger.Debug("dropped forward target overtaken by back or cancel", zap.Int("target", target))
	default:
		it.target = target
		switch {
		case target < 0:
			it.due = false
			it.timer.Cancel()
		case !it.due && !it.timer.IsPending():
			it.timer.Delay(o.Delay)
			it.logger.Debug("scheduled transition", zap.Int("target", target), zap.Duration("delay", o.Delay))
		}
	}

	if it.inflight == 0 && it.due {
		it.due = false
		if it.target >= 0 {
			return it.target, true
		}
	}
	return none, false
}

// fire runs on the timer goroutine.
func (it *ListIterator) fire() {
	it.mu.Lock()
	if it.inflight > 0 {
		it.due = true
		it.mu.Unlock()
		return
	}
	target := it.target
	it.mu.Unlock()

	if target < 0 {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			it.logger.Error("panic in switch callback", zap.Int("target", target), zap.Any("error", r))
		}
	}()
	it.switchTo(target)
}

// backMark identifies a Back call; its result only applies while no later
// Next, Back or Cancel happened.
type backMark struct {
	epoch, nextCalls uint64
}

func (it *ListIterator) beforeBack() backMark {
	it.mu.Lock()
	it.epoch++
	it.due = false
	it.timer.Cancel()
	target := it.target
	mark := backMark{epoch: it.epoch, nextCalls: it.nextCalls}
	it.mu.Unlock()

	if target >= 0 {
		it.switchTo(target)
	}
	return mark
}

func (it *ListIterator) afterBack(ctx context.Context, mark backMark) (int, error) {
	target, err := it.candidate(ctx, prevIndexOf, false)
	if err != nil {
		it.logger.Debug("backward recomputation failed", zap.Error(err))
		return target, err
	}

	it.mu.Lock()
	defer it.mu.Unlock()
	if mark != (backMark{epoch: it.epoch, nextCalls: it.nextCalls}) {
		it.logger.Debug("dropped backward target overtaken by a later call", zap.Int("target", target))
		return target, nil
	}
	it.target = target
	it.due = false
	it.timer.Cancel()
	return target, nil
}

func (it *ListIterator) switchTo(target int) {
	it.logger.Debug("switching", zap.Int("target", target))
	it.onSwitch(target)
}

type stepFunc func(current, size int, loop bool) int

// candidate queries index and size together and applies step.
func (it *ListIterator) candidate(ctx context.Context, step stepFunc, loop bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return none, fmt.Errorf("%w: %w", ErrScopeQuery, err)
	}

	var current, size int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res := attempt.Of(func() (int, error) { return it.scope.CurrentIndex(gctx) })
		current = res.Value
		return res.Err
	})
	g.Go(func() error {
		res := attempt.Of(func() (int, error) { return it.scope.Size(gctx) })
		size = res.Value
		return res.Err
	})
	if err := g.Wait(); err != nil {
		return none, fmt.Errorf("%w: %w", ErrScopeQuery, err)
	}
	return step(current, size, loop), nil
}

func nextIndexOf(current, size int, loop bool) int {
	if size <= 0 {
		return none
	}
	if current == size-1 {
		if loop {
			return 0
		}
		return none
	}
	return validOrNone(min(current+1, size-1))
}

func prevIndexOf(current, size int, loop bool) int {
	if size <= 0 {
		return none
	}
	if current == 0 {
		if loop {
			return size - 1
		}
		return none
	}
	return validOrNone(min(current-1, size-1))
}

func validOrNone(idx int) int {
	if idx < 0 {
		return none
	}
	return idx
}
