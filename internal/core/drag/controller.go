// Package drag turns pointer gestures over a displayed sequence into
// selection edits.
//
// The controller owns no selection. It reads the caller's current selection
// when a gesture commits, computes the next value and hands it to a Listener.
package drag

import (
	"github.com/rs/zerolog"

	"github.com/colonyops/hotspot/internal/core/logging"
	"github.com/colonyops/hotspot/internal/core/residue"
)

// Resolver validates display positions and translates them to residues.
// seqmap.Mapper implements it.
type Resolver interface {
	Chain() string
	Selectable(pos int) bool
	Resolve(pos int) (residue.ID, bool)
}

// Listener receives the complete next selection after a commit.
type Listener interface {
	SelectionChanged(next residue.Selection)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(next residue.Selection)

// SelectionChanged implements Listener.
func (f ListenerFunc) SelectionChanged(next residue.Selection) { f(next) }

// State is the controller state.
type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	if s == StateDragging {
		return "dragging"
	}
	return "idle"
}

// Session is an in-progress gesture. Positions are 1-based display positions.
type Session struct {
	Anchor  int
	Current int
}

// Span returns the inclusive low and high display positions of the session.
func (s Session) Span() (lo, hi int) {
	return min(s.Anchor, s.Current), max(s.Anchor, s.Current)
}

// Controller is the gesture state machine. It is not safe for concurrent use;
// drive it from a single event loop.
type Controller struct {
	resolver Resolver
	current  func() residue.Selection
	listener Listener
	session  *Session
	log      zerolog.Logger
}

// New creates an idle controller. current is read once per commit to obtain
// the caller's selection; listener receives the next selection.
func New(resolver Resolver, current func() residue.Selection, listener Listener) *Controller {
	return &Controller{
		resolver: resolver,
		current:  current,
		listener: listener,
		log:      logging.Component("drag"),
	}
}

// SetResolver swaps the position resolver, for example after the display
// mode changes. Any gesture in progress is cancelled because its positions
// belong to the old numbering.
func (c *Controller) SetResolver(r Resolver) {
	c.session = nil
	c.resolver = r
}

// State returns the current state.
func (c *Controller) State() State {
	if c.session != nil {
		return StateDragging
	}
	return StateIdle
}

// Session returns the active session, if any.
func (c *Controller) Session() (Session, bool) {
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Preview returns the inclusive display span under the pointer while
// dragging. It is for highlighting only.
func (c *Controller) Preview() (lo, hi int, ok bool) {
	if c.session == nil {
		return 0, 0, false
	}
	lo, hi = c.session.Span()
	return lo, hi, true
}

// InPreview reports whether pos lies within the preview span.
func (c *Controller) InPreview(pos int) bool {
	lo, hi, ok := c.Preview()
	return ok && pos >= lo && pos <= hi
}

// PointerDown starts a gesture at pos. It does nothing unless the controller
// is idle and pos is selectable. It reports whether a gesture started.
func (c *Controller) PointerDown(pos int) bool {
	if c.session != nil || !c.resolver.Selectable(pos) {
		return false
	}
	c.session = &Session{Anchor: pos, Current: pos}
	return true
}

// PointerEnter extends the active gesture to pos. Non-selectable positions
// are ignored and the previous extent is kept.
func (c *Controller) PointerEnter(pos int) bool {
	if c.session == nil || !c.resolver.Selectable(pos) {
		return false
	}
	c.session.Current = pos
	return true
}

// PointerUp ends the gesture and commits it. A gesture that never moved
// toggles the residue under the anchor; otherwise every residue between the
// two ends is added. It returns the committed selection and whether the
// listener was called.
func (c *Controller) PointerUp() (residue.Selection, bool) {
	if c.session == nil {
		return residue.Selection{}, false
	}
	lo, hi := c.session.Span()
	c.session = nil

	low, ok := c.resolver.Resolve(lo)
	if !ok {
		return residue.Selection{}, false
	}

	var next residue.Selection
	if lo == hi {
		next = c.current().Toggle(low)
	} else {
		high, ok := c.resolver.Resolve(hi)
		if !ok {
			return residue.Selection{}, false
		}
		next = c.current().AddRange(c.resolver.Chain(), low.Number, high.Number)
	}

	c.log.Debug().
		Str("chain", c.resolver.Chain()).
		Int("from", lo).
		Int("to", hi).
		Int("size", next.Len()).
		Msg("selection committed")

	c.listener.SelectionChanged(next)
	return next, true
}

// PointerLeave cancels the active gesture without touching the selection. It
// reports whether a gesture was cancelled.
func (c *Controller) PointerLeave() bool {
	if c.session == nil {
		return false
	}
	c.session = nil
	return true
}
