package eventbus

// Observer watches bus activity across all events. Observers see every
// publish before subscribers run.
type Observer interface {
	Published(event Event, payload any)
	Subscribed(event Event)
	Panicked(event Event, payload any, recovered any)
}

// ObserverFuncs adapts optional functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnPublish   func(event Event, payload any)
	OnSubscribe func(event Event)
	OnPanic     func(event Event, payload any, recovered any)
}

func (o ObserverFuncs) Published(event Event, payload any) {
	if o.OnPublish != nil {
		o.OnPublish(event, payload)
	}
}

func (o ObserverFuncs) Subscribed(event Event) {
	if o.OnSubscribe != nil {
		o.OnSubscribe(event)
	}
}

func (o ObserverFuncs) Panicked(event Event, payload any, recovered any) {
	if o.OnPanic != nil {
		o.OnPanic(event, payload, recovered)
	}
}

// Observe attaches o to the bus. The returned function detaches it.
func (bus *EventBus) Observe(o Observer) (detach func()) {
	bus.mu.Lock()
	bus.nextID++
	id := bus.nextID
	bus.observers = append(bus.observers, observerEntry{id: id, o: o})
	bus.mu.Unlock()

	return func() {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		for i, e := range bus.observers {
			if e.id == id {
				bus.observers = append(bus.observers[:i:i], bus.observers[i+1:]...)
				return
			}
		}
	}
}

type observerEntry struct {
	id int
	o  Observer
}

func (bus *EventBus) snapshotObservers() []Observer {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	out := make([]Observer, len(bus.observers))
	for i, e := range bus.observers {
		out[i] = e.o
	}
	return out
}

// notifyPanic reports a subscriber panic. A panicking observer is swallowed
// so that dispatch continues.
func (bus *EventBus) notifyPanic(event Event, payload any, recovered any) {
	for _, o := range bus.snapshotObservers() {
		func() {
			defer func() { _ = recover() }()
			o.Panicked(event, payload, recovered)
		}()
	}
}
