package kv_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/hotspot/internal/core/kv"
	"github.com/colonyops/hotspot/internal/data/db"
	"github.com/colonyops/hotspot/internal/data/stores"
)

func newTestKV(t *testing.T) kv.KV {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return stores.NewKVStore(database)
}

func TestNamespace_PutLookup(t *testing.T) {
	ctx := context.Background()
	misses := kv.NewNamespace[string](newTestKV(t), "canonical-miss", 0)

	require.NoError(t, misses.Put(ctx, "P12345", "not found"))

	got, ok, err := misses.Lookup(ctx, "P12345")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "not found", got)

	_, ok, err = misses.Lookup(ctx, "Q99999")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNamespace_Isolation(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)

	misses := kv.NewNamespace[string](store, "canonical-miss", 0)
	other := kv.NewNamespace[string](store, "canonical", 0)

	require.NoError(t, misses.Put(ctx, "P1", "a"))
	require.NoError(t, other.Put(ctx, "P1", "b"))

	got, _, err := misses.Lookup(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	items, err := misses.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "P1", items[0].Key)
	assert.Equal(t, "a", items[0].Value)

	items, err = other.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].Value)
}

func TestNamespace_TTL(t *testing.T) {
	ctx := context.Background()
	store := newTestKV(t)

	short := kv.NewNamespace[string](store, "m", time.Millisecond)
	long := kv.NewNamespace[string](store, "m", time.Hour)

	require.NoError(t, short.Put(ctx, "gone", "x"))
	require.NoError(t, long.Put(ctx, "kept", "y"))
	time.Sleep(5 * time.Millisecond)

	_, ok, err := long.Lookup(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, ok)

	items, err := long.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "kept", items[0].Key)
	require.NotNil(t, items[0].ExpiresAt)
	assert.True(t, items[0].ExpiresAt.After(time.Now()))
}

func TestNamespace_Remove(t *testing.T) {
	ctx := context.Background()
	misses := kv.NewNamespace[string](newTestKV(t), "canonical-miss", 0)

	require.NoError(t, misses.Put(ctx, "P1", "x"))

	removed, err := misses.Remove(ctx, "P1")
	require.NoError(t, err)
	assert.True(t, removed)

	_, ok, err := misses.Lookup(ctx, "P1")
	require.NoError(t, err)
	assert.False(t, ok)
}
