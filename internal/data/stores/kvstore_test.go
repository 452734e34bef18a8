package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/hotspot/internal/data/db"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestKVStore(t *testing.T) (*KVStore, *clock) {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	c := &clock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewKVStore(database)
	store.now = c.now
	return store, c
}

func TestKVStore_PutLookup(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestKVStore(t)

	type miss struct {
		Reason string `json:"reason"`
		Status int    `json:"status"`
	}

	require.NoError(t, store.Put(ctx, "canonical-miss:P00000", miss{Reason: "not found", Status: 404}, 0))

	var got miss
	ok, err := store.Lookup(ctx, "canonical-miss:P00000", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, miss{Reason: "not found", Status: 404}, got)

	ok, err = store.Lookup(ctx, "canonical-miss:P99999", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	store, c := newTestKVStore(t)

	require.NoError(t, store.Put(ctx, "k", "first", time.Minute))
	c.advance(time.Second)
	require.NoError(t, store.Put(ctx, "k", "second", 0))

	c.advance(time.Hour)
	var got string
	ok, err := store.Lookup(ctx, "k", &got)
	require.NoError(t, err)
	require.True(t, ok, "replacing without a ttl clears the expiry")
	assert.Equal(t, "second", got)
}

func TestKVStore_Remove(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestKVStore(t)

	require.NoError(t, store.Put(ctx, "k", 1, 0))

	removed, err := store.Remove(ctx, "k")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Remove(ctx, "k")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestKVStore_Expiry(t *testing.T) {
	ctx := context.Background()
	store, c := newTestKVStore(t)

	require.NoError(t, store.Put(ctx, "m:short", "a", time.Minute))
	require.NoError(t, store.Put(ctx, "m:long", "b", time.Hour))
	require.NoError(t, store.Put(ctx, "m:forever", "c", 0))

	c.advance(2 * time.Minute)

	var v string
	ok, err := store.Lookup(ctx, "m:short", &v)
	require.NoError(t, err)
	assert.False(t, ok, "expired records read as absent")

	recs, err := store.Scan(ctx, "m:")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "m:forever", recs[0].Key)
	assert.Nil(t, recs[0].ExpiresAt)
	assert.Equal(t, "m:long", recs[1].Key)
	require.NotNil(t, recs[1].ExpiresAt)
	assert.True(t, recs[1].ExpiresAt.After(c.now()))

	n, err := store.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = store.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestKVStore_ScanPrefix(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestKVStore(t)

	for _, k := range []string{"b:1", "a:2", "a:1", "ab:1"} {
		require.NoError(t, store.Put(ctx, k, k, 0))
	}

	tests := []struct {
		prefix string
		want   []string
	}{
		{prefix: "a:", want: []string{"a:1", "a:2"}},
		{prefix: "a", want: []string{"a:1", "a:2", "ab:1"}},
		{prefix: "", want: []string{"a:1", "a:2", "ab:1", "b:1"}},
		{prefix: "z:", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			recs, err := store.Scan(ctx, tt.prefix)
			require.NoError(t, err)

			var keys []string
			for _, r := range recs {
				keys = append(keys, r.Key)
			}
			assert.Equal(t, tt.want, keys)
		})
	}
}
