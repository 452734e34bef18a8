// Package seqmap reconciles the residue numbering of a structurally observed
// sequence window with 1-based positions in a full-length canonical sequence.
package seqmap

import "strings"

// LocalWindow is the structurally observed fragment of one chain. StartNumber
// is the residue number of the first character of Sequence.
type LocalWindow struct {
	ChainID     string
	Sequence    string
	StartNumber int
}

// EndNumber returns the residue number of the last character.
func (w LocalWindow) EndNumber() int {
	return w.StartNumber + len(w.Sequence) - 1
}

// CanonicalSequence is a full-length reference sequence, always numbered from 1.
type CanonicalSequence struct {
	ID       string
	Sequence string
}

// Range is the inclusive, 1-based span of the canonical sequence that holds
// the local window verbatim.
type Range struct {
	CanonicalStart int
	CanonicalEnd   int
}

// Contains reports whether pos lies within the range.
func (r Range) Contains(pos int) bool {
	return pos >= r.CanonicalStart && pos <= r.CanonicalEnd
}

// Len returns the number of positions covered.
func (r Range) Len() int {
	return r.CanonicalEnd - r.CanonicalStart + 1
}

// Locate finds the first (lowest offset) exact occurrence of the local
// sequence within the canonical sequence. It returns false when the local
// sequence is empty or does not occur.
func Locate(local LocalWindow, canonical CanonicalSequence) (Range, bool) {
	if local.Sequence == "" {
		return Range{}, false
	}

	idx := strings.Index(canonical.Sequence, local.Sequence)
	if idx < 0 {
		return Range{}, false
	}

	return Range{
		CanonicalStart: idx + 1,
		CanonicalEnd:   idx + len(local.Sequence),
	}, true
}

// IsWithinRange reports whether displayPos can be selected. With no range
// every position is within range and is read as local numbering.
func IsWithinRange(displayPos int, r *Range) bool {
	if r == nil {
		return true
	}
	return r.Contains(displayPos)
}

// ToCanonicalPosition translates a display position into the local residue
// number it shows. When r is present displayPos is a canonical position and
// positions outside r yield false; without a range displayPos is a 1-based
// index into the local window.
func ToCanonicalPosition(displayPos int, r *Range, startNumber int) (int, bool) {
	if r == nil {
		return startNumber + displayPos - 1, true
	}
	if !r.Contains(displayPos) {
		return 0, false
	}
	return startNumber + (displayPos - r.CanonicalStart), true
}
