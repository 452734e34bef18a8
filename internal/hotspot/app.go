// Package hotspot wires the selection engine to its collaborators: structure
// files, canonical sequence sources and the local cache.
package hotspot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/hotspot/internal/core/canonical"
	"github.com/colonyops/hotspot/internal/core/config"
	"github.com/colonyops/hotspot/internal/core/eventbus"
	corekv "github.com/colonyops/hotspot/internal/core/kv"
	"github.com/colonyops/hotspot/internal/core/logging"
	"github.com/colonyops/hotspot/internal/data/db"
	"github.com/colonyops/hotspot/internal/data/stores"
	"github.com/colonyops/hotspot/internal/hotspot/sweep"
	"github.com/colonyops/hotspot/internal/integration/uniprot"
)

// memoSize bounds the sequences held in memory per process.
const memoSize = 256

// App is the central entry point for hotspot operations.
// Commands and the TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config    *config.Config
	DB        *db.DB
	KV        *stores.KVStore
	Sequences *stores.SequenceStore
	Bus       *eventbus.EventBus
	Canonical *canonical.CachedSource
	UniProt   *uniprot.Client

	log zerolog.Logger
}

// NewApp constructs an App. The canonical source reads through the sequence
// cache unless caching is disabled in cfg.
func NewApp(cfg *config.Config, database *db.DB, bus *eventbus.EventBus, userAgent string) *App {
	kvStore := stores.NewKVStore(database)
	seqStore := stores.NewSequenceStore(database)

	client := uniprot.New(uniprot.Options{
		BaseURL:           cfg.UniProt.BaseURL,
		Timeout:           cfg.UniProt.Timeout,
		RequestsPerSecond: cfg.UniProt.RequestsPerSecond,
		Burst:             cfg.UniProt.Burst,
		UserAgent:         userAgent,
	})

	var (
		store  canonical.Store
		misses corekv.KV
	)
	if cfg.Cache.IsEnabled() {
		store, misses = seqStore, kvStore
	}

	return &App{
		Config:    cfg,
		DB:        database,
		KV:        kvStore,
		Sequences: seqStore,
		Bus:       bus,
		UniProt:   client,
		Canonical: canonical.NewCachedSource(
			canonical.NewUniProtSource(client),
			store,
			misses,
			canonical.CachedOptions{TTL: cfg.Cache.TTL, MissTTL: cfg.Cache.MissTTL, MemoSize: memoSize},
		),
		log: logging.Component("hotspot"),
	}
}

// SourceFor returns the canonical source for a run and the accession to ask
// it for. A FASTA file takes precedence over UniProt; without an explicit
// accession the file's first record is used.
func (a *App) SourceFor(accession, fastaPath string) (canonical.Source, string, error) {
	if fastaPath != "" {
		src, err := canonical.NewFileSource(fastaPath)
		if err != nil {
			return nil, "", fmt.Errorf("read fasta: %w", err)
		}
		if accession == "" {
			accession = src.Accessions()[0]
		}
		return src, accession, nil
	}

	if accession == "" {
		return nil, "", nil
	}
	acc, err := uniprot.NormalizeAccession(accession)
	if err != nil {
		return nil, "", err
	}
	return a.Canonical, acc, nil
}

// SweepTasks returns the periodic cache maintenance steps.
func (a *App) SweepTasks() []sweep.Task {
	tasks := []sweep.Task{
		{Name: "kv-expired", Run: skipBusy(a.KV.SweepExpired)},
	}
	if ttl := a.Config.Cache.TTL; ttl > 0 {
		tasks = append(tasks, sweep.Task{
			Name: "sequences-stale",
			Run: skipBusy(func(ctx context.Context) (int, error) {
				return a.Sequences.Prune(ctx, time.Now().Add(-ttl))
			}),
		})
	}
	return tasks
}

// skipBusy turns a locked database into an empty run. Another hotspot
// process is writing and the next tick will retry.
func skipBusy(run func(context.Context) (int, error)) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		n, err := run(ctx)
		if stores.IsBusyError(err) {
			return 0, nil
		}
		return n, err
	}
}

// PruneResult reports what a prune removed.
type PruneResult struct {
	Sequences int `json:"sequences"`
	Expired   int `json:"expired_keys"`
}

// Prune removes cached sequences fetched before now-olderThan and every
// expired KV entry. A zero olderThan falls back to the configured TTL; when
// that is zero too no sequences are removed.
func (a *App) Prune(ctx context.Context, olderThan time.Duration) (PruneResult, error) {
	var res PruneResult

	if olderThan <= 0 {
		olderThan = a.Config.Cache.TTL
	}
	if olderThan > 0 {
		n, err := a.Sequences.Prune(ctx, time.Now().Add(-olderThan))
		if err != nil {
			return res, fmt.Errorf("prune sequences: %w", err)
		}
		res.Sequences = n
	}

	n, err := a.KV.SweepExpired(ctx)
	if err != nil {
		return res, fmt.Errorf("sweep kv: %w", err)
	}
	res.Expired = n

	a.log.Info().Int("sequences", res.Sequences).Int("expired", res.Expired).Msg("cache pruned")
	return res, nil
}

// Forget removes an accession from every cache layer. The sequence table is
// cleared even when caching is disabled so stale rows can still be removed.
func (a *App) Forget(ctx context.Context, accession string) (bool, error) {
	removed, err := a.Canonical.Evict(ctx, accession)
	if err != nil {
		return removed, err
	}
	if a.Config.Cache.IsEnabled() {
		return removed, nil
	}

	switch err := a.Sequences.Delete(ctx, accession); {
	case err == nil:
		return true, nil
	case errors.Is(err, canonical.ErrNotCached):
		return removed, nil
	default:
		return removed, err
	}
}
