// Package logutils builds the process logger.
package logutils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error or fatal.
	Level string
	// File receives JSON lines, appended across runs. Empty means stderr.
	File string
	// Hooks run for every event, in order.
	Hooks []zerolog.Hook
}

// New returns the configured logger and a func that releases its output.
// Without a file, output goes to stderr so it never mixes with command
// output; an interactive stderr gets the human readable console format.
func New(opts Options) (zerolog.Logger, func(), error) {
	release := func() {}

	lvl, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Logger{}, release, fmt.Errorf("log level %q: %w", opts.Level, err)
	}

	out, release, err := sink(opts.File)
	if err != nil {
		return zerolog.Logger{}, func() {}, err
	}

	l := zerolog.New(out).With().Timestamp().Logger().Level(lvl)
	for _, h := range opts.Hooks {
		l = l.Hook(h)
	}
	return l, release, nil
}

func sink(file string) (io.Writer, func(), error) {
	if file == "" {
		if term.IsTerminal(int(os.Stderr.Fd())) {
			return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, func() {}, nil
		}
		return os.Stderr, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
