// Package canonical retrieves reference sequences for a structure's chain and
// keeps the most recent request authoritative.
package canonical

import (
	"context"
	"errors"
	"time"

	"github.com/colonyops/hotspot/internal/core/seqmap"
)

var (
	// ErrNotFound is returned when the source has no sequence for an accession.
	ErrNotFound = errors.New("canonical sequence not found")
	// ErrNotCached is returned by a Store for accessions it does not hold.
	ErrNotCached = errors.New("canonical sequence not cached")
)

// Entry is a retrieved canonical sequence with its provenance.
type Entry struct {
	Accession   string    `json:"accession"`
	EntryID     string    `json:"entry_id,omitempty"`
	Description string    `json:"description,omitempty"`
	Sequence    string    `json:"sequence"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Canonical converts the entry for use by the mapper.
func (e Entry) Canonical() seqmap.CanonicalSequence {
	return seqmap.CanonicalSequence{ID: e.Accession, Sequence: e.Sequence}
}

// Source produces canonical sequences.
type Source interface {
	Fetch(ctx context.Context, accession string) (Entry, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, accession string) (Entry, error)

// Fetch implements Source.
func (f SourceFunc) Fetch(ctx context.Context, accession string) (Entry, error) {
	return f(ctx, accession)
}

// Store persists fetched entries between runs.
type Store interface {
	// Get returns ErrNotCached when the accession is absent.
	Get(ctx context.Context, accession string) (Entry, error)
	Put(ctx context.Context, e Entry) error
	// Delete returns ErrNotCached when the accession is absent.
	Delete(ctx context.Context, accession string) error
	List(ctx context.Context) ([]Entry, error)
	// Prune removes entries fetched before cutoff and reports how many.
	Prune(ctx context.Context, cutoff time.Time) (int, error)
}
