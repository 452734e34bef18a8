package iojson

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

// FileReader decodes a JSON document named by a CLI flag. When the flag is
// unset and Optional is false, stdin is read unless it is a terminal.
type FileReader[T any] struct {
	Name     string
	Usage    string
	Optional bool

	stdin     io.Reader
	isTTY     func() bool
	flagValue string
}

func (fr *FileReader[T]) Flag() *cli.StringFlag {
	name := fr.Name
	if name == "" {
		name = "file"
	}
	usage := fr.Usage
	if usage == "" {
		usage = "path to JSON file (reads from stdin if not provided)"
	}
	return &cli.StringFlag{
		Name:        name,
		Usage:       usage,
		Destination: &fr.flagValue,
	}
}

// Provided reports whether input is available, either from the flag or from
// piped stdin.
func (fr *FileReader[T]) Provided() bool {
	if fr.flagValue != "" {
		return true
	}
	return !fr.Optional && !fr.terminal()
}

func (fr *FileReader[T]) Read() (T, error) {
	var reader io.Reader
	var input T

	switch {
	case fr.flagValue != "" && fr.flagValue != "-":
		f, err := os.Open(fr.flagValue)
		if err != nil {
			return input, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	case fr.flagValue == "-" || !fr.Optional:
		if fr.terminal() {
			return input, fmt.Errorf("no input provided (stdin is a terminal); use --%s or pipe JSON input", fr.Flag().Name)
		}
		reader = fr.input()
	default:
		return input, nil
	}

	return Decode[T](reader)
}

func (fr *FileReader[T]) input() io.Reader {
	if fr.stdin != nil {
		return fr.stdin
	}
	return os.Stdin
}

func (fr *FileReader[T]) terminal() bool {
	if fr.isTTY != nil {
		return fr.isTTY()
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}
