package canonical

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticSource(seqs map[string]string) Source {
	return SourceFunc(func(_ context.Context, acc string) (Entry, error) {
		s, ok := seqs[acc]
		if !ok {
			return Entry{}, ErrNotFound
		}
		return Entry{Accession: acc, Sequence: s}, nil
	})
}

func TestLoader_LastRequestWins(t *testing.T) {
	l := NewLoader(staticSource(map[string]string{"P1": "AAA", "P2": "CCC"}))

	first := l.Begin("P1")
	second := l.Begin("P2")

	// first resolves after second was issued
	r1 := l.Load(context.Background(), first)
	r2 := l.Load(context.Background(), second)

	assert.False(t, l.Accept(r1.Ticket))
	assert.True(t, l.Accept(r2.Ticket))
	assert.Equal(t, "CCC", r2.Entry.Sequence)
}

func TestLoader_Cancel(t *testing.T) {
	l := NewLoader(staticSource(map[string]string{"P1": "AAA"}))

	tk := l.Begin("P1")
	l.Cancel()

	r := l.Load(context.Background(), tk)
	require.NoError(t, r.Err)
	assert.False(t, l.Accept(r.Ticket), "cancelled responses are discarded")
}

func TestLoader_ZeroTicketNeverAccepted(t *testing.T) {
	l := NewLoader(staticSource(nil))
	assert.False(t, l.Accept(Ticket{}))
}

func TestLoader_ErrorsPassThrough(t *testing.T) {
	l := NewLoader(staticSource(nil))

	tk := l.Begin("P404")
	r := l.Load(context.Background(), tk)

	assert.True(t, errors.Is(r.Err, ErrNotFound))
	assert.True(t, l.Accept(r.Ticket))
}
