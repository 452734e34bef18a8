package eventbus

import (
	"sync"

	"github.com/colonyops/hotspot/internal/core/residue"
)

// EventBus dispatches typed events to subscribers synchronously.
type EventBus struct {
	mu        sync.RWMutex
	subs      map[Event][]func(any)
	observers []observerEntry
	nextID    int
}

// New creates an empty bus.
func New() *EventBus {
	return &EventBus{subs: make(map[Event][]func(any))}
}

func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()

	for _, o := range bus.snapshotObservers() {
		o.Subscribed(event)
	}
}

// send runs every subscriber of event in registration order. A panicking
// subscriber is recovered and reported to observers, and the remaining
// subscribers still run.
func (bus *EventBus) send(event Event, payload any) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[event]))
	copy(subs, bus.subs[event])
	bus.mu.RUnlock()

	for _, o := range bus.snapshotObservers() {
		o.Published(event, payload)
	}

	for _, fn := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.notifyPanic(event, payload, r)
				}
			}()
			fn(payload)
		}()
	}
}

// SubscribeSelectionChanged registers fn for EventSelectionChanged.
func (bus *EventBus) SubscribeSelectionChanged(fn func(SelectionChangedPayload)) {
	bus.subscribe(EventSelectionChanged, func(p any) { fn(p.(SelectionChangedPayload)) })
}

// PublishSelectionChanged publishes EventSelectionChanged.
func (bus *EventBus) PublishSelectionChanged(p SelectionChangedPayload) {
	bus.send(EventSelectionChanged, p)
}

// SelectionChanged publishes next as EventSelectionChanged. It lets the bus
// act as the listener of a drag controller.
func (bus *EventBus) SelectionChanged(next residue.Selection) {
	bus.PublishSelectionChanged(SelectionChangedPayload{Selection: next})
}

// SubscribeCanonicalLoaded registers fn for EventCanonicalLoaded.
func (bus *EventBus) SubscribeCanonicalLoaded(fn func(CanonicalLoadedPayload)) {
	bus.subscribe(EventCanonicalLoaded, func(p any) { fn(p.(CanonicalLoadedPayload)) })
}

// PublishCanonicalLoaded publishes EventCanonicalLoaded.
func (bus *EventBus) PublishCanonicalLoaded(p CanonicalLoadedPayload) {
	bus.send(EventCanonicalLoaded, p)
}

// SubscribeCanonicalFailed registers fn for EventCanonicalFailed.
func (bus *EventBus) SubscribeCanonicalFailed(fn func(CanonicalFailedPayload)) {
	bus.subscribe(EventCanonicalFailed, func(p any) { fn(p.(CanonicalFailedPayload)) })
}

// PublishCanonicalFailed publishes EventCanonicalFailed.
func (bus *EventBus) PublishCanonicalFailed(p CanonicalFailedPayload) {
	bus.send(EventCanonicalFailed, p)
}

// SubscribeModeChanged registers fn for EventModeChanged.
func (bus *EventBus) SubscribeModeChanged(fn func(ModeChangedPayload)) {
	bus.subscribe(EventModeChanged, func(p any) { fn(p.(ModeChangedPayload)) })
}

// PublishModeChanged publishes EventModeChanged.
func (bus *EventBus) PublishModeChanged(p ModeChangedPayload) {
	bus.send(EventModeChanged, p)
}

// SubscribeNotificationPublished registers fn for EventNotificationPublished.
func (bus *EventBus) SubscribeNotificationPublished(fn func(NotificationPublishedPayload)) {
	bus.subscribe(EventNotificationPublished, func(p any) { fn(p.(NotificationPublishedPayload)) })
}

// PublishNotificationPublished publishes EventNotificationPublished.
func (bus *EventBus) PublishNotificationPublished(p NotificationPublishedPayload) {
	bus.send(EventNotificationPublished, p)
}
