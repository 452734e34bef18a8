package doctor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/hotspot/internal/core/canonical"
	"github.com/colonyops/hotspot/internal/core/config"
	"github.com/colonyops/hotspot/internal/core/fasta"
	"github.com/colonyops/hotspot/internal/data/db"
)

// ConfigCheck validates the loaded configuration.
type ConfigCheck struct {
	cfg        *config.Config
	configPath string
}

// NewConfigCheck creates a configuration check.
func NewConfigCheck(cfg *config.Config, configPath string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, configPath: configPath}
}

func (c *ConfigCheck) Name() string { return "Configuration" }

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	err := c.cfg.ValidateDeep(c.configPath)
	var fieldErrs criterio.FieldErrors
	switch {
	case err == nil:
		result.add(StatusPass, "config", c.configPath)
	case errors.As(err, &fieldErrs):
		for _, fe := range fieldErrs {
			result.add(StatusFail, fe.Field, fe.Err.Error())
		}
	default:
		result.add(StatusFail, "config", err.Error())
	}

	for _, w := range c.cfg.Warnings() {
		label := w.Category
		if w.Item != "" {
			label += "." + w.Item
		}
		result.add(StatusWarn, label, w.Message)
	}

	return result
}

// SchemaReporter reports the database schema version.
type SchemaReporter interface {
	SchemaStatus(ctx context.Context) (db.SchemaStatus, error)
}

// SchemaCheck confirms the cache database matches this build.
type SchemaCheck struct {
	db SchemaReporter
}

// NewSchemaCheck creates a schema version check.
func NewSchemaCheck(r SchemaReporter) *SchemaCheck {
	return &SchemaCheck{db: r}
}

func (c *SchemaCheck) Name() string { return "Database" }

func (c *SchemaCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	status, err := c.db.SchemaStatus(ctx)
	switch {
	case err != nil:
		result.add(StatusFail, "schema", err.Error())
	case status.Ahead():
		result.add(StatusFail, "schema", fmt.Sprintf("version %d is newer than this build (%d)", status.Current, status.Latest))
	case status.Pending() > 0:
		result.add(StatusWarn, "schema", fmt.Sprintf("%d pending", status.Pending()))
	default:
		result.add(StatusPass, "schema", fmt.Sprintf("version %d", status.Current))
	}
	return result
}

// MissLister lists remembered not-found accessions.
type MissLister interface {
	Misses(ctx context.Context) ([]canonical.Miss, error)
}

// CacheCheck reports on the sequence cache. With autofix, stale entries are
// removed through prune.
type CacheCheck struct {
	store   canonical.Store
	misses  MissLister
	ttl     time.Duration
	prune   func(ctx context.Context) (int, error)
	autofix bool
	now     func() time.Time
}

// NewCacheCheck creates a cache check. prune is called when autofix is set
// and stale entries exist.
func NewCacheCheck(store canonical.Store, misses MissLister, ttl time.Duration, prune func(ctx context.Context) (int, error), autofix bool) *CacheCheck {
	return &CacheCheck{store: store, misses: misses, ttl: ttl, prune: prune, autofix: autofix, now: time.Now}
}

func (c *CacheCheck) Name() string { return "Cache" }

func (c *CacheCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	entries, err := c.store.List(ctx)
	if err != nil {
		result.add(StatusFail, "sequences", err.Error())
		return result
	}

	stale := 0
	if c.ttl > 0 {
		for _, e := range entries {
			if c.now().Sub(e.FetchedAt) > c.ttl {
				stale++
			}
		}
	}
	result.add(StatusPass, "sequences", fmt.Sprintf("%d cached", len(entries)))

	switch {
	case stale == 0:
	case c.autofix && c.prune != nil:
		n, err := c.prune(ctx)
		if err != nil {
			result.add(StatusFail, "stale", err.Error())
		} else {
			result.add(StatusPass, "stale", fmt.Sprintf("removed %d", n))
		}
	default:
		result.Items = append(result.Items, CheckItem{
			Label:   "stale",
			Status:  StatusWarn,
			Detail:  fmt.Sprintf("%d older than %s", stale, c.ttl),
			Fixable: true,
		})
	}

	if c.misses != nil {
		misses, err := c.misses.Misses(ctx)
		if err != nil {
			result.add(StatusWarn, "misses", err.Error())
		} else {
			result.add(StatusPass, "misses", fmt.Sprintf("%d remembered", len(misses)))
		}
	}

	return result
}

// Fetcher retrieves one FASTA record. The UniProt client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, accession string) (fasta.Record, error)
}

// UniProtCheck fetches a known accession to confirm the service is reachable.
type UniProtCheck struct {
	client    Fetcher
	accession string
	timeout   time.Duration
}

// NewUniProtCheck creates a reachability check that fetches accession.
func NewUniProtCheck(client Fetcher, accession string, timeout time.Duration) *UniProtCheck {
	return &UniProtCheck{client: client, accession: accession, timeout: timeout}
}

func (c *UniProtCheck) Name() string { return "UniProt" }

func (c *UniProtCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	rec, err := c.client.Fetch(ctx, c.accession)
	if err != nil {
		result.add(StatusFail, c.accession, err.Error())
		return result
	}

	result.add(StatusPass, c.accession, fmt.Sprintf("%d aa in %s", len(rec.Sequence), time.Since(start).Round(time.Millisecond)))
	return result
}
