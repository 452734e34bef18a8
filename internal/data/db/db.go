package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/colonyops/hotspot/internal/core/logging"
)

// FileName is the database file created inside the data directory.
const FileName = "hotspot.db"

const (
	pingAttempts = 5
	pingBackoff  = 100 * time.Millisecond
)

// OpenOptions tunes the connection pool.
type OpenOptions struct {
	MaxOpenConns int
	MaxIdleConns int
	BusyTimeout  int // milliseconds
}

// DefaultOpenOptions returns the pool settings used by the CLI. The cache
// sees one writer at a time, so the pool stays small.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		BusyTimeout:  5000,
	}
}

func (o OpenOptions) dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout("+strconv.Itoa(o.BusyTimeout)+")")
	q.Add("_pragma", "foreign_keys(1)")
	return "file:" + path + "?" + q.Encode()
}

// DB is the cache database: a pooled connection, its queries and the schema
// it was upgraded to.
type DB struct {
	path    string
	conn    *sql.DB
	queries *Queries
	schema  *Schema
}

// Open is OpenContext with a background context.
func Open(dataDir string, opts OpenOptions) (*DB, error) {
	return OpenContext(context.Background(), dataDir, opts)
}

// OpenContext opens or creates FileName in dataDir and upgrades it to the
// embedded schema. ctx bounds the connection retries and the upgrade.
func OpenContext(ctx context.Context, dataDir string, opts OpenOptions) (*DB, error) {
	schema, err := embeddedSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	path := filepath.Join(dataDir, FileName)
	conn, err := sql.Open("sqlite", opts.dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	conn.SetMaxOpenConns(opts.MaxOpenConns)
	conn.SetMaxIdleConns(opts.MaxIdleConns)

	if err := ping(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	applied, err := schema.Upgrade(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("upgrade schema: %w", err)
	}
	if applied > 0 {
		log := logging.Component("db")
		log.Debug().Str("path", path).Int("applied", applied).Msg("schema upgraded")
	}

	return &DB{path: path, conn: conn, queries: New(conn), schema: schema}, nil
}

// Path is the database file.
func (db *DB) Path() string { return db.path }

func (db *DB) Close() error { return db.conn.Close() }

// Conn exposes the underlying pool.
func (db *DB) Conn() *sql.DB { return db.conn }

func (db *DB) Queries() *Queries { return db.queries }

// SchemaStatus reports the applied schema version against the latest known.
func (db *DB) SchemaStatus(ctx context.Context) (SchemaStatus, error) {
	return db.schema.Status(ctx, db.conn)
}

// Rollback reverts the newest n schema steps.
func (db *DB) Rollback(ctx context.Context, n int) error {
	return db.schema.Rollback(ctx, db.conn, n)
}

// WithTx runs fn inside a transaction, committing when fn returns nil.
func (db *DB) WithTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(db.queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ping retries with doubling waits. A file locked by another process
// usually frees up within a few hundred milliseconds.
func ping(ctx context.Context, conn *sql.DB) error {
	wait := pingBackoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = conn.PingContext(ctx); err == nil {
			return nil
		}
		if attempt == pingAttempts {
			return fmt.Errorf("database unreachable after %d attempts: %w", pingAttempts, err)
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return fmt.Errorf("database unreachable: %w", ctx.Err())
		case <-t.C:
		}
		wait *= 2
	}
}
