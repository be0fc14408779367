package event_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/skirmish/internal/game/event"
)

type testEvent struct{ kind event.Kind }

func (e testEvent) Kind() event.Kind { return e.kind }

func TestBus_PublishInvokesOnlyMatchingKind(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	var got []event.Kind
	bus.Subscribe(event.KindLevelUp, func(ev event.Event) error {
		got = append(got, ev.Kind())
		return nil
	})

	bus.Publish(testEvent{kind: event.KindCombatEnded})
	bus.Publish(testEvent{kind: event.KindLevelUp})

	assert.Equal(t, []event.Kind{event.KindLevelUp}, got)
}

func TestBus_PublishPreservesSubscriptionOrder(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		bus.Subscribe(event.KindPlayerDied, func(event.Event) error {
			order = append(order, i)
			return nil
		})
	}
	bus.Publish(testEvent{kind: event.KindPlayerDied})
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestBus_FailingHandlerDoesNotBlockSiblings(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	bus := event.NewBus(zap.New(core))

	ran := 0
	bus.Subscribe(event.KindCombatEnded, func(event.Event) error {
		return errors.New("boom")
	})
	bus.Subscribe(event.KindCombatEnded, func(event.Event) error {
		panic("handler exploded")
	})
	bus.Subscribe(event.KindCombatEnded, func(event.Event) error {
		ran++
		return nil
	})

	require.NotPanics(t, func() { bus.Publish(testEvent{kind: event.KindCombatEnded}) })
	assert.Equal(t, 1, ran)
	assert.Equal(t, 2, logs.FilterMessage("event handler failed").Len())
}

func TestBus_SubscribeAll(t *testing.T) {
	bus := event.NewBus(zap.NewNop())
	seen := map[event.Kind]int{}
	bus.SubscribeAll(func(ev event.Event) error {
		seen[ev.Kind()]++
		return nil
	})
	for _, k := range event.Kinds {
		bus.Publish(testEvent{kind: k})
	}
	assert.Len(t, seen, len(event.Kinds))
}

func TestLogged_LogsKind(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := event.Logged(zap.New(core))
	require.NoError(t, h(testEvent{kind: event.KindSlayerTaskCompleted}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "slayer_task_completed", logs.All()[0].ContextMap()["kind"])
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "experience_gained", event.KindExperienceGained.String())
	assert.Equal(t, "unknown", event.KindUnknown.String())
}

// Property: with any mix of failing and succeeding handlers, every handler runs exactly once.
func TestProperty_EveryHandlerRunsOnce(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		outcomes := rapid.SliceOfN(rapid.IntRange(0, 2), 1, 10).Draw(rt, "outcomes")
		bus := event.NewBus(zap.NewNop())
		calls := make([]int, len(outcomes))
		for i, o := range outcomes {
			i, o := i, o
			bus.Subscribe(event.KindLevelUp, func(event.Event) error {
				calls[i]++
				switch o {
				case 1:
					return errors.New("fail")
				case 2:
					panic("fail")
				}
				return nil
			})
		}
		bus.Publish(testEvent{kind: event.KindLevelUp})
		for i, c := range calls {
			assert.Equal(rt, 1, c, "handler %d", i)
		}
	})
}
