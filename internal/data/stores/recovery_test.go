package stores

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/hotspot/internal/data/db"
)

func TestQuarantine(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		name    string
		present []string
		want    []string
	}{
		{
			name:    "database with wal and shm",
			present: []string{"", "-wal", "-shm"},
			want:    []string{"hotspot.db.corrupt.20240506-070809", "hotspot.db.corrupt.20240506-070809-wal", "hotspot.db.corrupt.20240506-070809-shm"},
		},
		{
			name:    "database only",
			present: []string{""},
			want:    []string{"hotspot.db.corrupt.20240506-070809"},
		},
		{
			name:    "orphaned wal",
			present: []string{"-wal"},
			want:    []string{"hotspot.db.corrupt.20240506-070809-wal"},
		},
		{
			name: "nothing to move",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			base := filepath.Join(dir, db.FileName)
			for _, ext := range tt.present {
				require.NoError(t, os.WriteFile(base+ext, []byte("garbage"), 0o644))
			}

			moved, err := quarantine(dir, now)
			require.NoError(t, err)

			var names []string
			for _, m := range moved {
				names = append(names, filepath.Base(m))
			}
			assert.Equal(t, tt.want, names)

			for _, ext := range []string{"", "-wal", "-shm"} {
				_, err := os.Stat(base + ext)
				assert.ErrorIs(t, err, os.ErrNotExist)
			}
		})
	}
}

func TestOpenOrRecover_CorruptFile(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	var logs bytes.Buffer
	log.Logger = zerolog.New(&logs)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, db.FileName), []byte("this is not sqlite, just bytes padding the header out"), 0o644))

	database, recovered, err := OpenOrRecover(context.Background(), dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	assert.True(t, recovered)

	backups, err := filepath.Glob(filepath.Join(dir, db.FileName+corruptSuffix+"*"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	entries, err := NewSequenceStore(database).List(context.Background())
	require.NoError(t, err, "fresh database is usable")
	assert.Empty(t, entries)

	assert.Contains(t, logs.String(), "cache database was corrupt")
	assert.Contains(t, logs.String(), `"cmp":"db"`)
}

func TestOpenOrRecover_HealthyFile(t *testing.T) {
	dir := t.TempDir()

	database, recovered, err := OpenOrRecover(context.Background(), dir, db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	assert.False(t, recovered)
}

func TestErrorClassifiers(t *testing.T) {
	assert.True(t, IsNotFoundError(fmt.Errorf("get: %w", sql.ErrNoRows)))
	assert.False(t, IsNotFoundError(os.ErrNotExist))
	assert.False(t, IsNotFoundError(nil))

	assert.True(t, IsCorruptionError(errors.New("database disk image is malformed")))
	assert.True(t, IsCorruptionError(fmt.Errorf("open: %w", errors.New("file is not a database (26)"))))
	assert.False(t, IsCorruptionError(errors.New("no such table: sequences")))
	assert.False(t, IsCorruptionError(nil))

	assert.False(t, IsBusyError(errors.New("database is locked")))
	assert.False(t, IsBusyError(nil))
}
