package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds every statement the stores run.
type Queries struct {
	db DBTX
}

// New binds a query set to a connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a copy of q bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Sequence is a row of the sequences table.
type Sequence struct {
	Accession   string
	EntryID     string
	Description string
	Sequence    string
	FetchedAt   int64
}

const sequenceColumns = `accession, entry_id, description, sequence, fetched_at`

func scanSequence(row interface{ Scan(...any) error }) (Sequence, error) {
	var s Sequence
	err := row.Scan(&s.Accession, &s.EntryID, &s.Description, &s.Sequence, &s.FetchedAt)
	return s, err
}

func (q *Queries) GetSequence(ctx context.Context, accession string) (Sequence, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+sequenceColumns+` FROM sequences WHERE accession = ?`, accession)
	return scanSequence(row)
}

type UpsertSequenceParams struct {
	Accession   string
	EntryID     string
	Description string
	Sequence    string
	FetchedAt   int64
}

func (q *Queries) UpsertSequence(ctx context.Context, arg UpsertSequenceParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO sequences (`+sequenceColumns+`)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(accession) DO UPDATE SET
			entry_id = excluded.entry_id,
			description = excluded.description,
			sequence = excluded.sequence,
			fetched_at = excluded.fetched_at`,
		arg.Accession, arg.EntryID, arg.Description, arg.Sequence, arg.FetchedAt,
	)
	return err
}

func (q *Queries) DeleteSequence(ctx context.Context, accession string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM sequences WHERE accession = ?`, accession)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) ListSequences(ctx context.Context) ([]Sequence, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+sequenceColumns+` FROM sequences ORDER BY accession`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Sequence
	for rows.Next() {
		s, err := scanSequence(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

// PruneSequences deletes rows fetched before the cutoff (unix nanos).
func (q *Queries) PruneSequences(ctx context.Context, cutoff int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM sequences WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// KvStore is a row of the kv_store table.
type KvStore struct {
	Key       string
	Value     []byte
	ExpiresAt sql.NullInt64
	CreatedAt int64
	UpdatedAt int64
}

const kvColumns = `key, value, expires_at, created_at, updated_at`

// KVLive returns key when it exists and has not expired at now.
func (q *Queries) KVLive(ctx context.Context, key string, now int64) (KvStore, error) {
	var r KvStore
	err := q.db.QueryRowContext(ctx,
		`SELECT `+kvColumns+` FROM kv_store WHERE key = ? AND (expires_at IS NULL OR expires_at >= ?)`,
		key, now,
	).Scan(&r.Key, &r.Value, &r.ExpiresAt, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// KVPut inserts or replaces a value; created_at is kept on replace.
func (q *Queries) KVPut(ctx context.Context, key string, value []byte, expiresAt sql.NullInt64, now int64) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO kv_store (`+kvColumns+`)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = excluded.updated_at`,
		key, value, expiresAt, now, now,
	)
	return err
}

// KVRemove deletes key and returns the number of rows removed.
func (q *Queries) KVRemove(ctx context.Context, key string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// KVScan lists live rows whose key starts with prefix, ordered by key.
func (q *Queries) KVScan(ctx context.Context, prefix string, now int64) ([]KvStore, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+kvColumns+` FROM kv_store
		WHERE substr(key, 1, length(?)) = ? AND (expires_at IS NULL OR expires_at >= ?)
		ORDER BY key`,
		prefix, prefix, now)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []KvStore
	for rows.Next() {
		var r KvStore
		if err := rows.Scan(&r.Key, &r.Value, &r.ExpiresAt, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// KVSweepExpired deletes rows that expired before now.
func (q *Queries) KVSweepExpired(ctx context.Context, now int64) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`DELETE FROM kv_store WHERE expires_at IS NOT NULL AND expires_at < ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
