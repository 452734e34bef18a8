// Package testbus records what an event bus carried so tests can assert on it.
package testbus

import (
	"sync"
	"testing"

	"github.com/colonyops/hotspot/internal/core/eventbus"
)

// Bus is a real EventBus plus a log of every published event.
type Bus struct {
	*eventbus.EventBus

	mu  sync.Mutex
	log []record
}

type record struct {
	event   eventbus.Event
	payload any
}

// New creates a recording bus. Events are logged even without subscribers.
func New(t *testing.T) *Bus {
	t.Helper()

	tb := &Bus{EventBus: eventbus.New()}
	detach := tb.Observe(eventbus.ObserverFuncs{
		OnPublish: func(event eventbus.Event, payload any) {
			tb.mu.Lock()
			tb.log = append(tb.log, record{event: event, payload: payload})
			tb.mu.Unlock()
		},
	})
	t.Cleanup(detach)

	return tb
}

// Of returns the payloads recorded for event, oldest first.
func (tb *Bus) Of(event eventbus.Event) []any {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	var out []any
	for _, r := range tb.log {
		if r.event == event {
			out = append(out, r.payload)
		}
	}
	return out
}

// Sequence returns the recorded event names in publish order.
func (tb *Bus) Sequence() []eventbus.Event {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	out := make([]eventbus.Event, len(tb.log))
	for i, r := range tb.log {
		out[i] = r.event
	}
	return out
}

// AssertPublished fails t unless event was recorded at least once.
func (tb *Bus) AssertPublished(t *testing.T, event eventbus.Event) {
	t.Helper()
	if len(tb.Of(event)) == 0 {
		t.Errorf("event %q was not published; saw %v", event, tb.Sequence())
	}
}

// AssertNotPublished fails t if event was recorded.
func (tb *Bus) AssertNotPublished(t *testing.T, event eventbus.Event) {
	t.Helper()
	if n := len(tb.Of(event)); n > 0 {
		t.Errorf("event %q was published %d times", event, n)
	}
}

// Last returns the newest payload of type T, failing t when none was
// recorded.
func Last[T any](t *testing.T, tb *Bus) T {
	t.Helper()

	tb.mu.Lock()
	defer tb.mu.Unlock()
	for i := len(tb.log) - 1; i >= 0; i-- {
		if p, ok := tb.log[i].payload.(T); ok {
			return p
		}
	}

	var zero T
	t.Fatalf("no %T payload recorded", zero)
	return zero
}
