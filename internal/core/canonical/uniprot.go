package canonical

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/hotspot/internal/core/fasta"
	"github.com/colonyops/hotspot/internal/integration/uniprot"
)

// Fetcher is the subset of the UniProt client the source needs.
type Fetcher interface {
	Fetch(ctx context.Context, accession string) (fasta.Record, error)
}

// UniProtSource fetches entries over HTTP.
type UniProtSource struct {
	client Fetcher
	now    func() time.Time
}

// NewUniProtSource wraps a UniProt client.
func NewUniProtSource(client Fetcher) *UniProtSource {
	return &UniProtSource{client: client, now: time.Now}
}

// Fetch implements Source.
func (s *UniProtSource) Fetch(ctx context.Context, accession string) (Entry, error) {
	acc, err := uniprot.NormalizeAccession(accession)
	if err != nil {
		return Entry{}, err
	}

	rec, err := s.client.Fetch(ctx, acc)
	if errors.Is(err, uniprot.ErrNotFound) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, acc)
	}
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		Accession:   acc,
		EntryID:     rec.ID,
		Description: rec.Description,
		Sequence:    rec.Sequence,
		FetchedAt:   s.now(),
	}, nil
}

// FileSource serves entries from a local FASTA file, keyed by accession and
// by record ID. A single-record file answers any accession.
type FileSource struct {
	records []fasta.Record
	now     func() time.Time
}

// NewFileSource reads path (gzip and "-" supported).
func NewFileSource(path string) (*FileSource, error) {
	records, err := fasta.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{records: records, now: time.Now}, nil
}

// Accessions lists the accession of every record in file order.
func (s *FileSource) Accessions() []string {
	out := make([]string, len(s.records))
	for i, r := range s.records {
		out[i] = r.Accession()
	}
	return out
}

// Fetch implements Source.
func (s *FileSource) Fetch(_ context.Context, accession string) (Entry, error) {
	rec, ok := s.lookup(accession)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, accession)
	}
	acc := accession
	if acc == "" {
		acc = rec.Accession()
	}
	return Entry{
		Accession:   acc,
		EntryID:     rec.ID,
		Description: rec.Description,
		Sequence:    rec.Sequence,
		FetchedAt:   s.now(),
	}, nil
}

func (s *FileSource) lookup(accession string) (fasta.Record, bool) {
	if len(s.records) == 1 {
		return s.records[0], true
	}
	for _, r := range s.records {
		if r.ID == accession || r.Accession() == accession {
			return r, true
		}
	}
	return fasta.Record{}, false
}
