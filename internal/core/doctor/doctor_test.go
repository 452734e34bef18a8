package doctor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/hotspot/internal/core/canonical"
	"github.com/colonyops/hotspot/internal/core/config"
	"github.com/colonyops/hotspot/internal/core/fasta"
	"github.com/colonyops/hotspot/internal/data/db"
)

type listStore struct {
	canonical.Store
	entries []canonical.Entry
	err     error
}

func (s *listStore) List(context.Context) ([]canonical.Entry, error) { return s.entries, s.err }

type fixedMisses []canonical.Miss

func (m fixedMisses) Misses(context.Context) ([]canonical.Miss, error) { return m, nil }

type fetcherFunc func(ctx context.Context, accession string) (fasta.Record, error)

func (f fetcherFunc) Fetch(ctx context.Context, accession string) (fasta.Record, error) {
	return f(ctx, accession)
}

type schemaFunc func() (db.SchemaStatus, error)

func (f schemaFunc) SchemaStatus(context.Context) (db.SchemaStatus, error) { return f() }

func statuses(r Result) []Status {
	out := make([]Status, len(r.Items))
	for i, item := range r.Items {
		out[i] = item.Status
	}
	return out
}

func TestConfigCheck(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.DataDir = t.TempDir()

		r := NewConfigCheck(&cfg, "").Run(context.Background())
		assert.Equal(t, "Configuration", r.Name)
		assert.Equal(t, []Status{StatusPass}, statuses(r))
	})

	t.Run("field error and warning", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.DataDir = t.TempDir()
		cfg.UniProt.BaseURL = "not a url"
		cfg.UniProt.RequestsPerSecond = 50

		r := NewConfigCheck(&cfg, "").Run(context.Background())
		require.Len(t, r.Items, 2)
		assert.Equal(t, StatusFail, r.Items[0].Status)
		assert.Equal(t, "uniprot.base_url", r.Items[0].Label)
		assert.Equal(t, StatusWarn, r.Items[1].Status)
		assert.Equal(t, "UniProt.requests_per_second", r.Items[1].Label)
	})
}

func TestCacheCheck(t *testing.T) {
	now := time.Now()
	store := &listStore{entries: []canonical.Entry{
		{Accession: "P1", FetchedAt: now},
		{Accession: "P2", FetchedAt: now.Add(-48 * time.Hour)},
	}}

	t.Run("reports stale as fixable", func(t *testing.T) {
		r := NewCacheCheck(store, fixedMisses{{Accession: "Q1"}}, 24*time.Hour, nil, false).Run(context.Background())

		assert.Equal(t, []Status{StatusPass, StatusWarn, StatusPass}, statuses(r))
		assert.True(t, r.Items[1].Fixable)
		assert.Equal(t, "1 remembered", r.Items[2].Detail)
		assert.Equal(t, 1, NewReport([]Result{r}).Fixable)
	})

	t.Run("autofix prunes", func(t *testing.T) {
		pruned := false
		prune := func(context.Context) (int, error) { pruned = true; return 1, nil }

		r := NewCacheCheck(store, nil, 24*time.Hour, prune, true).Run(context.Background())

		assert.True(t, pruned)
		assert.Equal(t, []Status{StatusPass, StatusPass}, statuses(r))
		assert.Equal(t, "removed 1", r.Items[1].Detail)
	})

	t.Run("no ttl", func(t *testing.T) {
		r := NewCacheCheck(store, nil, 0, nil, false).Run(context.Background())
		assert.Equal(t, []Status{StatusPass}, statuses(r))
	})

	t.Run("store error", func(t *testing.T) {
		r := NewCacheCheck(&listStore{err: errors.New("locked")}, nil, 0, nil, false).Run(context.Background())
		assert.Equal(t, []Status{StatusFail}, statuses(r))
	})
}

func TestUniProtCheck(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		client := fetcherFunc(func(_ context.Context, acc string) (fasta.Record, error) {
			return fasta.Record{ID: acc, Sequence: "MVLS"}, nil
		})

		r := NewUniProtCheck(client, "P69905", time.Second).Run(context.Background())
		require.Len(t, r.Items, 1)
		assert.Equal(t, StatusPass, r.Items[0].Status)
		assert.Contains(t, r.Items[0].Detail, "4 aa")
	})

	t.Run("unreachable", func(t *testing.T) {
		client := fetcherFunc(func(ctx context.Context, _ string) (fasta.Record, error) {
			<-ctx.Done()
			return fasta.Record{}, ctx.Err()
		})

		r := NewUniProtCheck(client, "P69905", 10*time.Millisecond).Run(context.Background())
		assert.Equal(t, []Status{StatusFail}, statuses(r))
	})
}

func TestSchemaCheck(t *testing.T) {
	tests := []struct {
		name   string
		status db.SchemaStatus
		err    error
		want   Status
	}{
		{name: "current", status: db.SchemaStatus{Current: 2, Latest: 2}, want: StatusPass},
		{name: "pending", status: db.SchemaStatus{Current: 1, Latest: 2}, want: StatusWarn},
		{name: "ahead", status: db.SchemaStatus{Current: 3, Latest: 2}, want: StatusFail},
		{name: "error", err: errors.New("locked"), want: StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewSchemaCheck(schemaFunc(func() (db.SchemaStatus, error) { return tt.status, tt.err })).Run(context.Background())
			assert.Equal(t, []Status{tt.want}, statuses(r))
		})
	}
}

func TestRunAll(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	checks := []Check{
		NewConfigCheck(&cfg, ""),
		NewCacheCheck(&listStore{err: errors.New("boom")}, nil, 0, nil, false),
	}

	rep := RunAll(context.Background(), checks)
	require.Len(t, rep.Checks, 2)
	assert.Equal(t, 1, rep.Passed)
	assert.Equal(t, 0, rep.Warned)
	assert.Equal(t, 1, rep.Failed)
	assert.False(t, rep.Healthy)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep = RunAll(ctx, checks)
	assert.Equal(t, 2, rep.Failed)
	assert.Equal(t, "skipped", rep.Checks[0].Items[0].Label)
}

func TestNewReport(t *testing.T) {
	rep := NewReport([]Result{
		{Name: "a", Items: []CheckItem{
			{Status: StatusPass, Fixable: true},
			{Status: StatusWarn, Fixable: true},
			{Status: StatusWarn},
		}},
		{Name: "b", Items: []CheckItem{{Status: StatusFail, Fixable: true}}},
	})

	assert.Equal(t, Report{
		Healthy: false, Passed: 1, Warned: 2, Failed: 1, Fixable: 2,
		Checks: rep.Checks,
	}, rep)
	assert.True(t, NewReport(nil).Healthy)
}
