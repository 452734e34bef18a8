// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within hotspot.
//
// Dispatch is synchronous: Publish runs every subscriber before returning, so
// the bus is safe to drive from the single-threaded Bubble Tea update loop and
// events are observed in the order they were published.
package eventbus

import (
	"github.com/colonyops/hotspot/internal/core/notify"
	"github.com/colonyops/hotspot/internal/core/residue"
	"github.com/colonyops/hotspot/internal/core/seqmap"
)

// Event names a kind of event carried by the bus.
type Event string

// Keep list sorted A-Z
const (
	EventCanonicalFailed       Event = "canonical.failed"
	EventCanonicalLoaded       Event = "canonical.loaded"
	EventModeChanged           Event = "mode.changed"
	EventNotificationPublished Event = "notification.published"
	EventSelectionChanged      Event = "selection.changed"
)

// SelectionChangedPayload is emitted with the complete next selection after
// a committed gesture. Subscribers replace their copy wholesale.
type SelectionChangedPayload struct {
	Selection residue.Selection
}

// CanonicalLoadedPayload is emitted when a canonical sequence arrives for the
// latest request. Range is nil when the local window was not found in it.
type CanonicalLoadedPayload struct {
	Accession string
	Sequence  seqmap.CanonicalSequence
	Range     *seqmap.Range
}

// CanonicalFailedPayload is emitted when the latest canonical fetch fails.
type CanonicalFailedPayload struct {
	Accession string
	Err       error
}

// ModeChangedPayload is emitted when the effective display mode changes.
type ModeChangedPayload struct {
	Mode seqmap.Mode
}

// NotificationPublishedPayload carries a user-facing status message.
type NotificationPublishedPayload struct {
	Level   notify.Level
	Message string
}
