package hotspot

import (
	"github.com/colonyops/hotspot/internal/core/canonical"
	"github.com/colonyops/hotspot/internal/core/seqmap"
)

// MapReport summarizes how a structure window sits in a canonical sequence.
type MapReport struct {
	Chain           string `json:"chain"`
	Accession       string `json:"accession"`
	StartNumber     int    `json:"start_number"`
	EndNumber       int    `json:"end_number"`
	WindowLength    int    `json:"window_length"`
	CanonicalLength int    `json:"canonical_length"`
	Found           bool   `json:"found"`
	CanonicalStart  int    `json:"canonical_start,omitempty"`
	CanonicalEnd    int    `json:"canonical_end,omitempty"`
	// Offset converts residue numbers to canonical indices: index = number + Offset.
	Offset int `json:"offset"`
}

// BuildMapReport locates window in the entry's sequence.
func BuildMapReport(window seqmap.LocalWindow, entry canonical.Entry) MapReport {
	r := MapReport{
		Chain:           window.ChainID,
		Accession:       entry.Accession,
		StartNumber:     window.StartNumber,
		EndNumber:       window.EndNumber(),
		WindowLength:    len(window.Sequence),
		CanonicalLength: len(entry.Sequence),
	}

	rng, ok := seqmap.Locate(window, entry.Canonical())
	if !ok {
		return r
	}

	r.Found = true
	r.CanonicalStart = rng.CanonicalStart
	r.CanonicalEnd = rng.CanonicalEnd
	r.Offset = rng.CanonicalStart - window.StartNumber
	return r
}
