package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/pokertourney/internal/action"
	"github.com/lox/pokertourney/internal/state"
)

func TestBusDeliversInOrder(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	var got []string
	bus.Subscribe(SubscriberFunc(func(e Event) { got = append(got, "a:"+e.Type().String()) }))
	bus.Subscribe(SubscriberFunc(func(e Event) { got = append(got, "b:"+e.Type().String()) }))

	bus.Publish(NewButtonMoved(1, 4))

	assert.Equal(t, []string{"a:button_moved", "b:button_moved"}, got)
}

func TestBusUnsubscribe(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	rec := &Recorder{}
	unsubscribe := bus.Subscribe(rec)
	require.Equal(t, 1, bus.Len())

	bus.Publish(NewCleaningDone(2))
	unsubscribe()
	unsubscribe()
	bus.Publish(NewCleaningDone(2))

	assert.Len(t, rec.Events(), 1)
	assert.Equal(t, 0, bus.Len())
}

func TestBusConcurrentPublish(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	rec := &Recorder{}
	bus.Subscribe(rec)

	var wg sync.WaitGroup
	for table := 1; table <= 8; table++ {
		wg.Add(1)
		go func(table int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				bus.Publish(NewTableStateChanged(table, state.Betting, state.Community))
			}
		}(table)
	}
	wg.Wait()

	assert.Len(t, rec.OfType(TypeTableStateChanged), 400)
}

func TestRecorderFilter(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	rec.Publish(NewPlayerActed(3, "h1", 7, "alice", action.CallAction(), state.Flop, 120))
	rec.Publish(NewPlayerEliminated(3, 8, "bob", 9, "LOCAL"))
	rec.Publish(NewPlayerActed(3, "h1", 9, "carol", action.FoldAction(), state.Flop, 120))

	acted := Filter[PlayerActed](rec.Events())
	require.Len(t, acted, 2)
	assert.Equal(t, "carol", acted[1].Name)
	assert.Equal(t, 3, acted[0].Table())
	assert.False(t, acted[0].Timestamp().IsZero())

	out := Filter[PlayerEliminated](rec.Events())
	require.Len(t, out, 1)
	assert.Equal(t, 9, out[0].Position)

	rec.Reset()
	assert.Empty(t, rec.Events())
}

func TestDiscard(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { Discard.Publish(NewCleaningDone(1)) })
}
