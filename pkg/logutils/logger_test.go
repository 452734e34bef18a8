package logutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagHook struct{}

func (tagHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) { e.Str("tag", "x") }

func TestNew_AppendsToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "hotspot.log")

	for _, msg := range []string{"first", "second"} {
		l, closer, err := New(Options{Level: "info", File: file, Hooks: []zerolog.Hook{tagHook{}}})
		require.NoError(t, err)
		l.Info().Msg(msg)
		l.Debug().Msg("filtered")
		closer()
	}

	data, err := os.ReadFile(file)
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, `"message":"first"`)
	assert.Contains(t, out, `"message":"second"`)
	assert.Contains(t, out, `"tag":"x"`)
	assert.NotContains(t, out, "filtered")
}

func TestNew_BadLevel(t *testing.T) {
	_, release, err := New(Options{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
	release()
}
