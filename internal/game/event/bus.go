// Package event provides a typed, synchronous publish/subscribe bus with one
// handler list per event kind.
package event

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Kind identifies a category of event. The set is closed.
type Kind int

const (
	KindUnknown Kind = iota
	KindExperienceGained
	KindLevelUp
	KindCombatEnded
	KindPlayerDied
	KindSlayerTaskCompleted
)

// Kinds lists every valid Kind.
var Kinds = []Kind{
	KindExperienceGained,
	KindLevelUp,
	KindCombatEnded,
	KindPlayerDied,
	KindSlayerTaskCompleted,
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindExperienceGained:
		return "experience_gained"
	case KindLevelUp:
		return "level_up"
	case KindCombatEnded:
		return "combat_ended"
	case KindPlayerDied:
		return "player_died"
	case KindSlayerTaskCompleted:
		return "slayer_task_completed"
	default:
		return "unknown"
	}
}

// Event is a published occurrence.
type Event interface {
	Kind() Kind
}

// Handler reacts to one event. A returned error is logged by the Bus and
// does not prevent other handlers from running.
type Handler func(Event) error

// Bus dispatches events to the handlers subscribed to their kind.
// All methods are safe for concurrent use; Publish runs handlers synchronously
// in subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind][]Handler
	logger   *zap.Logger
}

// NewBus creates an empty Bus.
//
// Precondition: logger must be non-nil.
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		handlers: make(map[Kind][]Handler),
		logger:   logger,
	}
}

// Subscribe registers h for events of kind k.
//
// Precondition: h must be non-nil.
func (b *Bus) Subscribe(k Kind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[k] = append(b.handlers[k], h)
}

// SubscribeAll registers h for every kind in Kinds.
func (b *Bus) SubscribeAll(h Handler) {
	for _, k := range Kinds {
		b.Subscribe(k, h)
	}
}

// Publish invokes every handler subscribed to ev.Kind().
//
// Postcondition: Every handler was invoked exactly once, even if an earlier
// handler returned an error or panicked.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[ev.Kind()]))
	copy(hs, b.handlers[ev.Kind()])
	b.mu.RUnlock()

	for i, h := range hs {
		if err := invoke(h, ev); err != nil {
			b.logger.Warn("event handler failed",
				zap.String("kind", ev.Kind().String()),
				zap.Int("handler", i),
				zap.Error(err),
			)
		}
	}
}

// invoke runs h, converting a panic into an error.
func invoke(h Handler, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h(ev)
}

// Logged returns a Handler that logs every event it receives at info level.
func Logged(logger *zap.Logger) Handler {
	return func(ev Event) error {
		logger.Info("event",
			zap.String("kind", ev.Kind().String()),
			zap.Any("payload", ev),
		)
		return nil
	}
}
