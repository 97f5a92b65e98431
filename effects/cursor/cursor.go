package cursor

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/on-the-ground/listiter/effects"
	"github.com/on-the-ground/listiter/effects/binding"
	"github.com/on-the-ground/listiter/effects/configkeys"
	effectmodel "github.com/on-the-ground/listiter/effects/internal/model"
	"github.com/on-the-ground/listiter/effects/log"
	"github.com/on-the-ground/listiter/shared/helper"
)

var (
	// ErrUnknownList is returned for lists the handler was not given.
	ErrUnknownList = errors.New("unknown list")
	// ErrIndexOutOfRange is returned by moves outside [0, size).
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidSize is returned for negative sizes.
	ErrInvalidSize = errors.New("invalid list size")
)

const defaultHistorySize = 16

// Config sizes the cursor handler.
type Config struct {
	effects.EffectScopeConfig
	// HistorySize caps the moves kept per list. Zero keeps none.
	HistorySize int
}

func NewConfig(bufferSize, numWorkers, historySize int) Config {
	if historySize < 0 {
		historySize = 0
	}
	return Config{
		EffectScopeConfig: effects.NewEffectScopeConfig(bufferSize, numWorkers),
		HistorySize:       historySize,
	}
}

// ConfigFromBinding reads the handler sizing from the binding effect in ctx.
// Missing keys (or no binding handler) fall back to one buffered slot, one
// worker and a history of 16 moves.
func ConfigFromBinding(ctx context.Context) (Config, error) {
	bufferSize, err := binding.EffectOr(ctx, configkeys.ConfigEffectCursorHandlerBufferSize, 1)
	if err != nil {
		return Config{}, err
	}
	numWorkers, err := binding.EffectOr(ctx, configkeys.ConfigEffectCursorHandlerNumWorkers, 1)
	if err != nil {
		return Config{}, err
	}
	historySize, err := binding.EffectOr(ctx, configkeys.ConfigEffectCursorHistorySize, defaultHistorySize)
	if err != nil {
		return Config{}, err
	}
	return NewConfig(bufferSize, numWorkers, historySize), nil
}

// Record is one committed move.
type Record struct {
	From, To int
	effects.TimeSpan
}

// Option configures the handler.
type Option func(*cursorHandler)

// WithClock stamps history records from clock.
func WithClock(clock clockwork.Clock) Option {
	return func(h *cursorHandler) {
		if clock != nil {
			h.clock = clock
		}
	}
}

// WithStore replaces the default in-memory store.
func WithStore(store Store) Option {
	return func(h *cursorHandler) {
		if store != nil {
			h.store = store
		}
	}
}

// WithEffectHandler registers a resumable, partitionable handler owning the
// cursors of lists. Each list starts at index 0 with the given size; lists
// already present in the store keep their saved state.
//
// Moves are logged through the log effect when ctx carries a log handler.
func WithEffectHandler(
	ctx context.Context,
	config Config,
	lists map[string]int,
	opts ...Option,
) (context.Context, func() context.Context) {
	h := &cursorHandler{
		store:       NewInMemoryStore(),
		historySize: max(config.HistorySize, 0),
		clock:       clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(h)
	}
	for _, name := range helper.Keys(lists) {
		if err := h.register(name, lists[name]); err != nil {
			panic(fmt.Errorf("fail to register list %q: %w", name, err))
		}
	}

	return effects.WithResumablePartitionableEffectHandler(
		ctx,
		effects.NewEffectScopeConfig(config.BufferSize, config.NumWorkers),
		effectmodel.EffectCursor,
		h.handle,
	)
}

func EffectCurrentIndex(ctx context.Context, list string) (int, error) {
	return helper.GetTypedValueOf[int](func() (any, error) {
		return effect(ctx, CurrentIndex{List: list})
	})
}

func EffectSize(ctx context.Context, list string) (int, error) {
	return helper.GetTypedValueOf[int](func() (any, error) {
		return effect(ctx, Size{List: list})
	})
}

// EffectMove sets the list's index. Out-of-range indices fail with
// ErrIndexOutOfRange and leave the cursor where it was.
func EffectMove(ctx context.Context, list string, index int) error {
	_, err := effect(ctx, Move{List: list, Index: index})
	return err
}

// EffectResize changes the list's size and clamps its index into it. An
// emptied list keeps index 0.
func EffectResize(ctx context.Context, list string, size int) error {
	_, err := effect(ctx, Resize{List: list, Size: size})
	return err
}

// EffectHistory returns a copy of the list's recent moves, oldest first.
func EffectHistory(ctx context.Context, list string) ([]Record, error) {
	return helper.GetTypedValueOf[[]Record](func() (any, error) {
		return effect(ctx, History{List: list})
	})
}

func effect(ctx context.Context, payload Payload) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return effects.AwaitResumableEffect[Payload, any](ctx, effectmodel.EffectCursor, payload)
}

type cursorHandler struct {
	store       Store
	historySize int
	clock       clockwork.Clock
}

func (h *cursorHandler) register(list string, size int) error {
	_, ok, err := h.store.Load(list)
	if err != nil || ok {
		return err
	}
	return h.store.Save(Entry{List: list, Size: max(size, 0)})
}

func (h *cursorHandler) lookup(list string) (Entry, error) {
	entry, ok, err := h.store.Load(list)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownList, list)
	}
	return entry, nil
}

func (h *cursorHandler) handle(ctx context.Context, payload Payload) (any, error) {
	entry, err := h.lookup(payload.PartitionKey())
	if err != nil {
		return nil, err
	}

	switch payload := payload.(type) {

	case CurrentIndex:
		return entry.Index, nil

	case Size:
		return entry.Size, nil

	case Move:
		if payload.Index < 0 || payload.Index >= entry.Size {
			return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, payload.Index, entry.Size)
		}
		rec := Record{From: entry.Index, To: payload.Index, TimeSpan: effects.StampOf(h.clock)}
		entry.Index = payload.Index
		entry.History = h.remember(entry.History, rec)
		if err := h.store.Save(entry); err != nil {
			return nil, err
		}
		logEffect(ctx, log.LogDebug, "cursor moved", map[string]interface{}{
			"list": payload.List,
			"from": rec.From,
			"to":   rec.To,
		})
		return entry.Index, nil

	case Resize:
		if payload.Size < 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidSize, payload.Size)
		}
		entry.Size = payload.Size
		if entry.Index >= entry.Size {
			rec := Record{From: entry.Index, To: max(entry.Size-1, 0), TimeSpan: effects.StampOf(h.clock)}
			entry.Index = rec.To
			entry.History = h.remember(entry.History, rec)
		}
		if err := h.store.Save(entry); err != nil {
			return nil, err
		}
		logEffect(ctx, log.LogDebug, "cursor resized", map[string]interface{}{
			"list":  payload.List,
			"size":  entry.Size,
			"index": entry.Index,
		})
		return entry.Size, nil

	case History:
		out := make([]Record, len(entry.History))
		copy(out, entry.History)
		return out, nil

	default:
		// sealed interface; a new payload type without a case here is a bug
		panic(fmt.Errorf("invalid cursor operation type: %T", payload))
	}
}

// remember returns a new history with rec appended, keeping at most
// historySize records. The old slice may still be shared with a saved Entry.
func (h *cursorHandler) remember(history []Record, rec Record) []Record {
	if h.historySize == 0 {
		return nil
	}
	from := max(len(history)+1-h.historySize, 0)
	out := make([]Record, 0, len(history)+1-from)
	out = append(out, history[from:]...)
	return append(out, rec)
}

func logEffect(ctx context.Context, level log.LogLevel, msg string, fields map[string]interface{}) {
	if effects.HasEffectHandler(ctx, effectmodel.EffectLog) {
		log.Effect(ctx, level, msg, fields)
	}
}
