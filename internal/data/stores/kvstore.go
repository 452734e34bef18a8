package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/colonyops/hotspot/internal/core/kv"
	"github.com/colonyops/hotspot/internal/data/db"
)

var _ kv.KV = (*KVStore)(nil)

// KVStore keeps kv records in the kv_store table. Expired rows are hidden
// from reads and removed by SweepExpired.
type KVStore struct {
	db  *db.DB
	now func() time.Time
}

// NewKVStore creates a store over database.
func NewKVStore(database *db.DB) *KVStore {
	return &KVStore{db: database, now: time.Now}
}

func (s *KVStore) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}

	now := s.now()
	var expires sql.NullInt64
	if ttl > 0 {
		expires = sql.NullInt64{Int64: now.Add(ttl).UnixNano(), Valid: true}
	}

	if err := s.db.Queries().KVPut(ctx, key, data, expires, now.UnixNano()); err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}
	return nil
}

func (s *KVStore) Lookup(ctx context.Context, key string, dest any) (bool, error) {
	row, err := s.db.Queries().KVLive(ctx, key, s.now().UnixNano())
	switch {
	case IsNotFoundError(err):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("kv lookup %q: %w", key, err)
	}

	if err := json.Unmarshal(row.Value, dest); err != nil {
		return false, fmt.Errorf("kv lookup %q: %w", key, err)
	}
	return true, nil
}

func (s *KVStore) Remove(ctx context.Context, key string) (bool, error) {
	n, err := s.db.Queries().KVRemove(ctx, key)
	if err != nil {
		return false, fmt.Errorf("kv remove %q: %w", key, err)
	}
	return n > 0, nil
}

func (s *KVStore) Scan(ctx context.Context, prefix string) ([]kv.Record, error) {
	rows, err := s.db.Queries().KVScan(ctx, prefix, s.now().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("kv scan %q: %w", prefix, err)
	}

	out := make([]kv.Record, len(rows))
	for i, r := range rows {
		out[i] = kv.Record{
			Key:       r.Key,
			Value:     json.RawMessage(r.Value),
			UpdatedAt: time.Unix(0, r.UpdatedAt),
		}
		if r.ExpiresAt.Valid {
			t := time.Unix(0, r.ExpiresAt.Int64)
			out[i].ExpiresAt = &t
		}
	}
	return out, nil
}

// SweepExpired deletes every expired row and reports how many were removed.
func (s *KVStore) SweepExpired(ctx context.Context) (int, error) {
	n, err := s.db.Queries().KVSweepExpired(ctx, s.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("kv sweep: %w", err)
	}
	return int(n), nil
}
