package seqmap

import (
	"fmt"

	"github.com/colonyops/hotspot/internal/core/residue"
)

// Mode selects which numbering the display uses.
type Mode int

const (
	// ModeLocal shows only the local window, numbered by residue number.
	ModeLocal Mode = iota
	// ModeCanonical shows the whole canonical sequence; only the located
	// window is selectable.
	ModeCanonical
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeCanonical:
		return "canonical"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeCanonical {
		return ModeLocal
	}
	return ModeCanonical
}

// Mapper answers display questions for one local window, an optional
// canonical sequence, and a requested mode. A Mapper is immutable; build a
// new one when any input changes.
type Mapper struct {
	window    LocalWindow
	canonical *CanonicalSequence
	rng       *Range
	requested Mode
}

// NewMapper locates window within canonical (when given). Canonical mode is
// only effective when the window was found; otherwise the mapper falls back
// to local numbering.
func NewMapper(window LocalWindow, canonical *CanonicalSequence, mode Mode) Mapper {
	m := Mapper{window: window, requested: mode}
	if canonical != nil {
		if r, ok := Locate(window, *canonical); ok {
			m.canonical = canonical
			m.rng = &r
		}
	}
	return m
}

// Window returns the local window.
func (m Mapper) Window() LocalWindow {
	return m.window
}

// Chain returns the chain of the local window.
func (m Mapper) Chain() string {
	return m.window.ChainID
}

// RequestedMode returns the mode asked for at construction.
func (m Mapper) RequestedMode() Mode {
	return m.requested
}

// Mode returns the effective mode. Canonical mode degrades to local when no
// mapping range is known.
func (m Mapper) Mode() Mode {
	if m.requested == ModeCanonical && m.rng != nil {
		return ModeCanonical
	}
	return ModeLocal
}

// CanonicalAvailable reports whether canonical mode can be entered.
func (m Mapper) CanonicalAvailable() bool {
	return m.rng != nil
}

// MappedRange returns the located range, or nil when the canonical sequence
// is absent or does not contain the window.
func (m Mapper) MappedRange() *Range {
	if m.rng == nil {
		return nil
	}
	r := *m.rng
	return &r
}

// activeRange is the range positions are checked against: nil in local mode.
func (m Mapper) activeRange() *Range {
	if m.Mode() == ModeCanonical {
		return m.rng
	}
	return nil
}

// DisplaySequence returns the residue letters shown in the current mode.
func (m Mapper) DisplaySequence() string {
	if m.Mode() == ModeCanonical {
		return m.canonical.Sequence
	}
	return m.window.Sequence
}

// Len returns the number of display positions.
func (m Mapper) Len() int {
	return len(m.DisplaySequence())
}

// Selectable reports whether the 1-based display position can be picked.
func (m Mapper) Selectable(pos int) bool {
	if pos < 1 || pos > m.Len() {
		return false
	}
	return IsWithinRange(pos, m.activeRange())
}

// Resolve translates a 1-based display position into a residue ID.
func (m Mapper) Resolve(pos int) (residue.ID, bool) {
	if !m.Selectable(pos) {
		return residue.ID{}, false
	}
	number, ok := ToCanonicalPosition(pos, m.activeRange(), m.window.StartNumber)
	if !ok {
		return residue.ID{}, false
	}
	return residue.New(m.window.ChainID, number)
}

// DisplayPositionOf is the inverse of Resolve for residue numbers of the
// window's chain.
func (m Mapper) DisplayPositionOf(number int) (int, bool) {
	if number < m.window.StartNumber || number > m.window.EndNumber() {
		return 0, false
	}
	offset := number - m.window.StartNumber
	if r := m.activeRange(); r != nil {
		return r.CanonicalStart + offset, true
	}
	return offset + 1, true
}

// Label returns the number shown next to a display position: the canonical
// index in canonical mode and the residue number otherwise.
func (m Mapper) Label(pos int) int {
	if m.Mode() == ModeCanonical {
		return pos
	}
	return m.window.StartNumber + pos - 1
}
