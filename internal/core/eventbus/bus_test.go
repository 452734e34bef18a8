package eventbus

import (
	"testing"

	"github.com/colonyops/hotspot/internal/core/residue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_DispatchOrder(t *testing.T) {
	bus := New()

	var calls []string
	bus.SubscribeSelectionChanged(func(SelectionChangedPayload) { calls = append(calls, "first") })
	bus.SubscribeSelectionChanged(func(SelectionChangedPayload) { calls = append(calls, "second") })

	bus.PublishSelectionChanged(SelectionChangedPayload{})

	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestEventBus_SelectionChangedAdapter(t *testing.T) {
	bus := New()

	var got residue.Selection
	bus.SubscribeSelectionChanged(func(p SelectionChangedPayload) { got = p.Selection })

	bus.SelectionChanged(residue.SelectionFromStrings([]string{"A:4"}))

	require.Equal(t, 1, got.Len())
	assert.Equal(t, []string{"A:4"}, got.Strings())
}

func TestEventBus_PanicDoesNotStopDispatch(t *testing.T) {
	bus := New()

	var panics []any
	bus.Observe(ObserverFuncs{OnPanic: func(_ Event, _ any, recovered any) { panics = append(panics, recovered) }})

	ran := false
	bus.SubscribeModeChanged(func(ModeChangedPayload) { panic("bad subscriber") })
	bus.SubscribeModeChanged(func(ModeChangedPayload) { ran = true })

	assert.NotPanics(t, func() { bus.PublishModeChanged(ModeChangedPayload{}) })
	assert.True(t, ran)
	assert.Equal(t, []any{"bad subscriber"}, panics)
}

func TestEventBus_EventsAreIsolated(t *testing.T) {
	bus := New()

	count := 0
	bus.SubscribeCanonicalFailed(func(CanonicalFailedPayload) { count++ })
	bus.PublishCanonicalLoaded(CanonicalLoadedPayload{})

	assert.Equal(t, 0, count)
}

func TestEventBus_ObserveDetach(t *testing.T) {
	bus := New()

	var seen []Event
	detach := bus.Observe(ObserverFuncs{OnPublish: func(e Event, _ any) { seen = append(seen, e) }})
	bus.Observe(ObserverFuncs{OnPanic: func(Event, any, any) { panic("observer exploded") }})

	bus.SubscribeModeChanged(func(ModeChangedPayload) { panic("subscriber exploded") })
	assert.NotPanics(t, func() { bus.PublishModeChanged(ModeChangedPayload{}) })

	detach()
	detach()
	bus.PublishCanonicalFailed(CanonicalFailedPayload{})

	assert.Equal(t, []Event{EventModeChanged}, seen)
}
