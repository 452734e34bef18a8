package eventbus

import (
	"errors"
	"fmt"

	"github.com/colonyops/hotspot/internal/core/canonical"
	"github.com/colonyops/hotspot/internal/core/notify"
	"github.com/colonyops/hotspot/internal/core/seqmap"
)

// NotificationRouter republishes canonical and mode events as
// notification.published so the picker only renders one kind of message.
type NotificationRouter struct {
	bus *EventBus
}

func NewNotificationRouter(bus *EventBus) *NotificationRouter {
	return &NotificationRouter{bus: bus}
}

// Register subscribes the router. A nil router or bus is a no-op.
func (r *NotificationRouter) Register() {
	if r == nil || r.bus == nil {
		return
	}
	r.bus.SubscribeCanonicalFailed(func(p CanonicalFailedPayload) { r.bus.PublishNotificationPublished(fetchFailedNotice(p)) })
	r.bus.SubscribeCanonicalLoaded(func(p CanonicalLoadedPayload) { r.bus.PublishNotificationPublished(loadedNotice(p)) })
	r.bus.SubscribeModeChanged(func(p ModeChangedPayload) { r.bus.PublishNotificationPublished(modeNotice(p.Mode)) })
}

func notice(level notify.Level, format string, args ...any) NotificationPublishedPayload {
	return NotificationPublishedPayload{Level: level, Message: fmt.Sprintf(format, args...)}
}

// A missing accession is expected input and only warns; anything else is a
// transport or parse failure the user should see as an error.
func fetchFailedNotice(p CanonicalFailedPayload) NotificationPublishedPayload {
	if p.Err != nil && !errors.Is(p.Err, canonical.ErrNotFound) {
		return notice(notify.LevelError, "fetching %s failed: %v", p.Accession, p.Err)
	}
	return notice(notify.LevelWarning, "canonical sequence %s unavailable; showing local numbering", p.Accession)
}

func loadedNotice(p CanonicalLoadedPayload) NotificationPublishedPayload {
	if r := p.Range; r != nil {
		return notice(notify.LevelInfo, "%s mapped to canonical %d-%d", p.Accession, r.CanonicalStart, r.CanonicalEnd)
	}
	return notice(notify.LevelWarning, "structure window not found in %s; showing local numbering", p.Accession)
}

func modeNotice(m seqmap.Mode) NotificationPublishedPayload {
	return notice(notify.LevelInfo, "%s numbering", m)
}
