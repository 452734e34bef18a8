package canonical

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	corekv "github.com/colonyops/hotspot/internal/core/kv"
	"github.com/colonyops/hotspot/internal/core/logging"
	"github.com/colonyops/hotspot/pkg/kv"
)

// MissNamespace is the KV namespace holding remembered not-found accessions.
const MissNamespace = "canonical-miss"

// Miss is a remembered not-found answer.
type Miss struct {
	Accession string     `json:"accession"`
	Reason    string     `json:"reason"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// CachedOptions configures CachedSource.
type CachedOptions struct {
	// TTL bounds the age of stored entries. Zero keeps entries forever.
	TTL time.Duration
	// MissTTL controls how long a not-found answer is remembered. Zero
	// disables negative caching.
	MissTTL time.Duration
	// MemoSize bounds the in-process memo. Zero is unbounded.
	MemoSize int
}

// CachedSource puts an in-process memo and a persistent store in front of an
// upstream source. Concurrent requests for one accession share a single
// upstream call.
type CachedSource struct {
	upstream Source
	store    Store
	misses   *corekv.Namespace[string]
	memo     *kv.Memo[string, Entry]
	group    singleflight.Group
	opts     CachedOptions
	now      func() time.Time
	log      zerolog.Logger
}

// NewCachedSource builds a cached source. store and misses may be nil.
func NewCachedSource(upstream Source, store Store, misses corekv.KV, opts CachedOptions) *CachedSource {
	c := &CachedSource{
		upstream: upstream,
		store:    store,
		memo:     kv.NewMemo[string, Entry](opts.MemoSize),
		opts:     opts,
		now:      time.Now,
		log:      logging.Component("canonical"),
	}
	if misses != nil && opts.MissTTL > 0 {
		c.misses = corekv.NewNamespace[string](misses, MissNamespace, opts.MissTTL)
	}
	return c
}

// Fetch implements Source.
func (c *CachedSource) Fetch(ctx context.Context, accession string) (Entry, error) {
	if e, ok := c.memo.Get(accession); ok {
		return e, nil
	}

	if e, ok := c.fromStore(ctx, accession); ok {
		c.memo.Set(accession, e)
		return e, nil
	}

	if c.misses != nil {
		reason, ok, err := c.misses.Lookup(ctx, accession)
		if err != nil {
			c.log.Debug().Err(err).Str("accession", accession).Msg("read miss")
		}
		if ok {
			return Entry{}, fmt.Errorf("%w: %s (cached: %s)", ErrNotFound, accession, reason)
		}
	}

	return c.fetch(ctx, accession)
}

// Refresh bypasses every cache layer and replaces the stored entry.
func (c *CachedSource) Refresh(ctx context.Context, accession string) (Entry, error) {
	c.memo.Delete(accession)
	if c.misses != nil {
		if _, err := c.misses.Remove(ctx, accession); err != nil {
			c.log.Debug().Err(err).Str("accession", accession).Msg("clear miss")
		}
	}
	return c.fetch(ctx, accession)
}

// Misses lists the remembered not-found answers.
func (c *CachedSource) Misses(ctx context.Context) ([]Miss, error) {
	if c.misses == nil {
		return nil, nil
	}

	items, err := c.misses.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list misses: %w", err)
	}

	out := make([]Miss, len(items))
	for i, it := range items {
		out[i] = Miss{Accession: it.Key, Reason: it.Value, ExpiresAt: it.ExpiresAt}
	}
	return out, nil
}

// Evict removes every cached answer for accession: the memo entry, the
// stored sequence and a remembered miss. It reports whether a stored
// sequence or miss existed.
func (c *CachedSource) Evict(ctx context.Context, accession string) (bool, error) {
	c.memo.Delete(accession)

	removed := false
	if c.store != nil {
		switch err := c.store.Delete(ctx, accession); {
		case err == nil:
			removed = true
		case !errors.Is(err, ErrNotCached):
			return false, fmt.Errorf("delete %s: %w", accession, err)
		}
	}

	if c.misses != nil {
		had, err := c.misses.Remove(ctx, accession)
		if err != nil {
			return removed, fmt.Errorf("delete miss %s: %w", accession, err)
		}
		removed = removed || had
	}
	return removed, nil
}

func (c *CachedSource) fromStore(ctx context.Context, accession string) (Entry, bool) {
	if c.store == nil {
		return Entry{}, false
	}

	e, err := c.store.Get(ctx, accession)
	if err != nil {
		if !errors.Is(err, ErrNotCached) {
			c.log.Warn().Err(err).Str("accession", accession).Msg("read cached sequence")
		}
		return Entry{}, false
	}

	if c.opts.TTL > 0 && c.now().Sub(e.FetchedAt) > c.opts.TTL {
		c.log.Debug().Str("accession", accession).Time("fetched_at", e.FetchedAt).Msg("cached sequence expired")
		return Entry{}, false
	}
	return e, true
}

func (c *CachedSource) fetch(ctx context.Context, accession string) (Entry, error) {
	v, err, shared := c.group.Do(accession, func() (any, error) {
		e, err := c.upstream.Fetch(ctx, accession)
		if err != nil {
			if errors.Is(err, ErrNotFound) && c.misses != nil {
				if serr := c.misses.Put(ctx, accession, err.Error()); serr != nil {
					c.log.Debug().Err(serr).Msg("record miss")
				}
			}
			return Entry{}, err
		}

		if c.store != nil {
			if err := c.store.Put(ctx, e); err != nil {
				c.log.Warn().Err(err).Str("accession", accession).Msg("store sequence")
			}
		}
		c.memo.Set(accession, e)
		return e, nil
	})
	if err != nil {
		return Entry{}, err
	}

	if shared {
		c.log.Debug().Str("accession", accession).Msg("shared in-flight fetch")
	}
	return v.(Entry), nil
}
