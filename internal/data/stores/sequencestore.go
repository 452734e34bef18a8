package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/hotspot/internal/core/canonical"
	"github.com/colonyops/hotspot/internal/data/db"
)

// SequenceStore implements canonical.Store using SQLite.
type SequenceStore struct {
	db *db.DB
}

var _ canonical.Store = (*SequenceStore)(nil)

// NewSequenceStore creates a new SQLite-backed sequence cache.
func NewSequenceStore(db *db.DB) *SequenceStore {
	return &SequenceStore{db: db}
}

// Get returns the cached entry. Returns canonical.ErrNotCached if absent.
func (s *SequenceStore) Get(ctx context.Context, accession string) (canonical.Entry, error) {
	row, err := s.db.Queries().GetSequence(ctx, accession)
	if IsNotFoundError(err) {
		return canonical.Entry{}, canonical.ErrNotCached
	}
	if err != nil {
		return canonical.Entry{}, fmt.Errorf("failed to get sequence: %w", err)
	}
	return rowToEntry(row), nil
}

// Put creates or replaces an entry.
func (s *SequenceStore) Put(ctx context.Context, e canonical.Entry) error {
	fetchedAt := e.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now()
	}

	err := s.db.Queries().UpsertSequence(ctx, db.UpsertSequenceParams{
		Accession:   e.Accession,
		EntryID:     e.EntryID,
		Description: e.Description,
		Sequence:    e.Sequence,
		FetchedAt:   fetchedAt.UnixNano(),
	})
	if err != nil {
		return fmt.Errorf("failed to save sequence: %w", err)
	}
	return nil
}

// Delete removes an entry. Returns canonical.ErrNotCached if absent.
func (s *SequenceStore) Delete(ctx context.Context, accession string) error {
	n, err := s.db.Queries().DeleteSequence(ctx, accession)
	if err != nil {
		return fmt.Errorf("failed to delete sequence: %w", err)
	}
	if n == 0 {
		return canonical.ErrNotCached
	}
	return nil
}

// List returns all entries ordered by accession.
func (s *SequenceStore) List(ctx context.Context) ([]canonical.Entry, error) {
	rows, err := s.db.Queries().ListSequences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sequences: %w", err)
	}

	entries := make([]canonical.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}
	return entries, nil
}

// Prune deletes entries fetched before cutoff.
func (s *SequenceStore) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	n, err := s.db.Queries().PruneSequences(ctx, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune sequences: %w", err)
	}
	return int(n), nil
}

func rowToEntry(row db.Sequence) canonical.Entry {
	return canonical.Entry{
		Accession:   row.Accession,
		EntryID:     row.EntryID,
		Description: row.Description,
		Sequence:    row.Sequence,
		FetchedAt:   time.Unix(0, row.FetchedAt),
	}
}
