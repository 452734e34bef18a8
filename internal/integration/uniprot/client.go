// Package uniprot fetches canonical protein sequences from the UniProt REST API.
package uniprot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/colonyops/hotspot/internal/core/fasta"
	"github.com/colonyops/hotspot/internal/core/logging"
)

// DefaultBaseURL is the UniProtKB REST endpoint.
const DefaultBaseURL = "https://rest.uniprot.org/uniprotkb"

var (
	// ErrNotFound is returned when UniProt has no entry for an accession.
	ErrNotFound = errors.New("uniprot: accession not found")
	// ErrInvalidAccession is returned for strings that are not UniProt accessions.
	ErrInvalidAccession = errors.New("uniprot: invalid accession")
)

// accession format from https://www.uniprot.org/help/accession_numbers, with
// an optional isoform suffix.
var accessionRe = regexp.MustCompile(`^([OPQ][0-9][A-Z0-9]{3}[0-9]|[A-NR-Z][0-9]([A-Z][A-Z0-9]{2}[0-9]){1,2})(-[0-9]+)?$`)

// NormalizeAccession trims and upper-cases s and validates it.
func NormalizeAccession(s string) (string, error) {
	acc := strings.ToUpper(strings.TrimSpace(s))
	if !accessionRe.MatchString(acc) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAccession, s)
	}
	return acc, nil
}

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	UserAgent         string
}

// Client is a rate-limited UniProt client. It is safe for concurrent use.
type Client struct {
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	log       zerolog.Logger
}

// New creates a client. Zero values in opts fall back to defaults.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 3
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "hotspot"
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		http:      &http.Client{Timeout: opts.Timeout},
		limiter:   rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		userAgent: opts.UserAgent,
		log:       logging.Component("uniprot"),
	}
}

// Fetch downloads the canonical FASTA record for accession.
func (c *Client) Fetch(ctx context.Context, accession string) (fasta.Record, error) {
	acc, err := NormalizeAccession(accession)
	if err != nil {
		return fasta.Record{}, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fasta.Record{}, fmt.Errorf("uniprot: rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/%s.fasta", c.baseURL, acc)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fasta.Record{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fasta.Record{}, fmt.Errorf("request %s: %w", acc, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug().Err(err).Msg("close response body")
		}
	}()

	c.log.Debug().
		Str("accession", acc).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("fetched")

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return fasta.Record{}, fmt.Errorf("%w: %s", ErrNotFound, acc)
	case resp.StatusCode != http.StatusOK:
		return fasta.Record{}, fmt.Errorf("request %s: status %d", acc, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fasta.Record{}, fmt.Errorf("read %s body: %w", acc, err)
	}

	rec, err := fasta.First(strings.NewReader(string(body)))
	if errors.Is(err, fasta.ErrNoRecords) {
		// obsolete and merged entries answer 200 with an empty body
		return fasta.Record{}, fmt.Errorf("%w: %s", ErrNotFound, acc)
	}
	if err != nil {
		return fasta.Record{}, fmt.Errorf("parse %s: %w", acc, err)
	}
	if rec.Sequence == "" {
		return fasta.Record{}, fmt.Errorf("%w: %s has no sequence", ErrNotFound, acc)
	}

	return rec, nil
}
