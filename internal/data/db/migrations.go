package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/colonyops/hotspot/internal/core/logging"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	upMarker   = "-- +up"
	downMarker = "-- +down"
)

// Step is one schema version. Each file under migrations/ holds a single
// step named NNNN_name.sql with an up section followed by a down section.
type Step struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// Schema is the ordered list of steps. The applied version is tracked in
// the SQLite user_version pragma, so a fresh file starts at zero.
type Schema struct {
	steps []Step
}

// SchemaStatus compares the database against the embedded steps.
type SchemaStatus struct {
	Current int
	Latest  int
}

// Pending is the number of steps not yet applied.
func (s SchemaStatus) Pending() int { return max(s.Latest-s.Current, 0) }

// Ahead reports whether the file was written by a newer build.
func (s SchemaStatus) Ahead() bool { return s.Current > s.Latest }

func embeddedSchema() (*Schema, error) {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return nil, err
	}
	return LoadSchema(sub)
}

// LoadSchema reads every *.sql file in the root of fsys. Versions must be
// contiguous from 1.
func LoadSchema(fsys fs.FS) (*Schema, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, err
	}

	steps := make([]Step, 0, len(names))
	for _, name := range names {
		body, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		step, err := parseStep(name, string(body))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		steps = append(steps, step)
	}

	slices.SortFunc(steps, func(a, b Step) int { return a.Version - b.Version })
	for i, s := range steps {
		if s.Version != i+1 {
			return nil, fmt.Errorf("schema step %04d out of sequence, expected %04d", s.Version, i+1)
		}
	}

	return &Schema{steps: steps}, nil
}

func parseStep(filename, body string) (Step, error) {
	base := path.Base(filename)
	stem, ok := strings.CutSuffix(base, ".sql")
	if !ok {
		return Step{}, fmt.Errorf("expected .sql suffix")
	}

	num, name, ok := strings.Cut(stem, "_")
	if !ok || name == "" {
		return Step{}, fmt.Errorf("expected NNNN_name.sql")
	}
	version, err := strconv.Atoi(num)
	if err != nil {
		return Step{}, fmt.Errorf("version %q: %w", num, err)
	}
	if version <= 0 {
		return Step{}, fmt.Errorf("version must be positive, got %d", version)
	}

	rest, ok := strings.CutPrefix(strings.TrimSpace(body), upMarker)
	if !ok {
		return Step{}, fmt.Errorf("missing %q section", upMarker)
	}
	up, down, ok := strings.Cut(rest, downMarker)
	if !ok {
		return Step{}, fmt.Errorf("missing %q section", downMarker)
	}

	step := Step{
		Version: version,
		Name:    name,
		Up:      strings.TrimSpace(up),
		Down:    strings.TrimSpace(down),
	}
	if step.Up == "" || step.Down == "" {
		return Step{}, fmt.Errorf("empty up or down section")
	}
	return step, nil
}

// Steps returns a copy of the ordered steps.
func (s *Schema) Steps() []Step { return slices.Clone(s.steps) }

// Latest is the highest version the schema knows.
func (s *Schema) Latest() int { return len(s.steps) }

// Status reads the applied version from conn.
func (s *Schema) Status(ctx context.Context, conn *sql.DB) (SchemaStatus, error) {
	current, err := userVersion(ctx, conn)
	if err != nil {
		return SchemaStatus{}, err
	}
	return SchemaStatus{Current: current, Latest: s.Latest()}, nil
}

// Upgrade applies every pending step, each in its own transaction. It
// returns the number of steps applied. A database ahead of the schema is
// an error.
func (s *Schema) Upgrade(ctx context.Context, conn *sql.DB) (int, error) {
	status, err := s.Status(ctx, conn)
	if err != nil {
		return 0, err
	}
	if status.Ahead() {
		return 0, fmt.Errorf("database schema %d is newer than this build (%d)", status.Current, status.Latest)
	}

	log := logging.Component("db")
	applied := 0
	for _, step := range s.steps[status.Current:] {
		log.Debug().Int("version", step.Version).Str("name", step.Name).Msg("upgrading schema")
		if err := runStep(ctx, conn, step.Up, step.Version); err != nil {
			return applied, fmt.Errorf("schema %04d_%s: %w", step.Version, step.Name, err)
		}
		applied++
	}
	return applied, nil
}

// Rollback reverts the newest n applied steps.
func (s *Schema) Rollback(ctx context.Context, conn *sql.DB, n int) error {
	if n <= 0 {
		return fmt.Errorf("rollback count must be positive, got %d", n)
	}

	status, err := s.Status(ctx, conn)
	if err != nil {
		return err
	}
	if status.Ahead() {
		return fmt.Errorf("database schema %d is newer than this build (%d)", status.Current, status.Latest)
	}
	if n > status.Current {
		return fmt.Errorf("cannot roll back %d steps, only %d applied", n, status.Current)
	}

	log := logging.Component("db")
	for v := status.Current; v > status.Current-n; v-- {
		step := s.steps[v-1]
		log.Info().Int("version", step.Version).Str("name", step.Name).Msg("rolling back schema")
		if err := runStep(ctx, conn, step.Down, v-1); err != nil {
			return fmt.Errorf("rollback %04d_%s: %w", step.Version, step.Name, err)
		}
	}
	return nil
}

// runStep executes stmt and sets user_version to version in one transaction.
func runStep(ctx context.Context, conn *sql.DB, stmt string, version int) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, stmt); err != nil {
		return err
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, "PRAGMA user_version = "+strconv.Itoa(version)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return tx.Commit()
}

func userVersion(ctx context.Context, conn *sql.DB) (int, error) {
	var v int
	if err := conn.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return v, nil
}
