package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithScope_Merges(t *testing.T) {
	ctx := WithScope(context.Background(), Scope{Target: "6m0j.pdb", Chain: "E"})
	ctx = WithScope(ctx, Scope{Accession: "P0DTC2"})
	ctx = WithScope(ctx, Scope{Chain: "A"})

	assert.Equal(t, Scope{Target: "6m0j.pdb", Chain: "A", Accession: "P0DTC2"}, ScopeFrom(ctx))
	assert.Equal(t, Scope{}, ScopeFrom(context.Background()))
}

func TestContextHook(t *testing.T) {
	tests := []struct {
		name   string
		scope  *Scope
		want   map[string]string
		absent []string
	}{
		{
			name:  "full scope",
			scope: &Scope{Target: "6m0j.pdb", Chain: "E", Accession: "P0DTC2"},
			want:  map[string]string{"target": "6m0j.pdb", "chain": "E", "accession": "P0DTC2"},
		},
		{
			name:   "chain only",
			scope:  &Scope{Chain: "E"},
			want:   map[string]string{"chain": "E"},
			absent: []string{"target", "accession"},
		},
		{
			name:   "no scope",
			absent: []string{"target", "chain", "accession"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := context.Background()
			if tt.scope != nil {
				ctx = WithScope(ctx, *tt.scope)
			}

			l := zerolog.New(&buf).Hook(ContextHook{})
			l.Info().Ctx(ctx).Msg("mapped")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			for k, v := range tt.want {
				assert.Equal(t, v, entry[k], k)
			}
			for _, k := range tt.absent {
				assert.NotContains(t, entry, k)
			}
		})
	}
}

func TestContextHook_NoContext(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Hook(ContextHook{})
	l.Info().Msg("plain")
	assert.NotContains(t, buf.String(), "target")
}
