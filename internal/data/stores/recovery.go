package stores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/colonyops/hotspot/internal/core/logging"
	"github.com/colonyops/hotspot/internal/data/db"
)

// corruptSuffix is inserted between the database name and a timestamp when
// a damaged file is moved aside.
const corruptSuffix = ".corrupt."

// IsNotFoundError reports whether err means the row does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// IsBusyError reports whether err is SQLITE_BUSY, which happens when another
// hotspot process holds the write lock.
func IsBusyError(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_BUSY
}

// IsCorruptionError reports whether err means the cache file is unreadable.
func IsCorruptionError(err error) bool {
	if err == nil {
		return false
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_NOTADB:
			return true
		}
	}

	msg := err.Error()
	return strings.Contains(msg, "database disk image is malformed") ||
		strings.Contains(msg, "file is not a database")
}

// OpenOrRecover opens the cache database in dataDir. When the file is
// corrupt it is moved aside together with its WAL and SHM companions and a
// fresh database is created. Everything in the cache can be fetched again,
// so losing it only costs network round trips. recovered reports whether a
// file was quarantined.
func OpenOrRecover(ctx context.Context, dataDir string, opts db.OpenOptions) (database *db.DB, recovered bool, err error) {
	database, err = db.OpenContext(ctx, dataDir, opts)
	if err == nil || !IsCorruptionError(err) {
		return database, false, err
	}

	moved, qerr := quarantine(dataDir, time.Now())
	if qerr != nil {
		return nil, false, errors.Join(err, qerr)
	}
	log := logging.Component("db")
	log.Warn().Err(err).Strs("moved", moved).Msg("cache database was corrupt, starting fresh")

	database, err = db.OpenContext(ctx, dataDir, opts)
	if err != nil {
		return nil, true, err
	}
	return database, true, nil
}

// quarantine renames the database and its WAL and SHM files to
// NAME.corrupt.TIMESTAMP[-wal|-shm] and returns the new paths. Files that do
// not exist are skipped.
func quarantine(dataDir string, now time.Time) ([]string, error) {
	base := filepath.Join(dataDir, db.FileName)
	target := base + corruptSuffix + now.Format("20060102-150405")

	var moved []string
	for _, ext := range []string{"", "-wal", "-shm"} {
		from, to := base+ext, target+ext
		err := os.Rename(from, to)
		switch {
		case err == nil:
			moved = append(moved, to)
		case errors.Is(err, os.ErrNotExist):
		case ext != "":
			// A stale WAL or SHM left behind would be replayed into the
			// new database, so remove it when it cannot be moved.
			if rmErr := os.Remove(from); rmErr != nil {
				return moved, fmt.Errorf("remove %s: %w", filepath.Base(from), err)
			}
		default:
			return moved, fmt.Errorf("move %s aside: %w", filepath.Base(from), err)
		}
	}
	return moved, nil
}
