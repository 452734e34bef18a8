// Package fasta reads FASTA records such as the canonical sequences served
// by UniProt.
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoRecords is returned when input holds no FASTA record.
var ErrNoRecords = errors.New("fasta: no records")

// Record is one FASTA entry. ID is the first word of the header and
// Description is the rest of the header line.
type Record struct {
	ID          string
	Description string
	Sequence    string
}

// Accession extracts the accession from UniProt style IDs ("sp|P69905|HBA_HUMAN").
// Other IDs are returned unchanged.
func (r Record) Accession() string {
	parts := strings.Split(r.ID, "|")
	if len(parts) == 3 {
		return parts[1]
	}
	return r.ID
}

// Parse reads all records from r. Sequence lines are upper-cased and
// whitespace and '*' terminators are stripped. Lines before the first
// header are ignored.
func Parse(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	const maxLine = 16 * 1024 * 1024
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		records []Record
		cur     *Record
		seq     bytes.Buffer
	)

	flush := func() {
		if cur == nil {
			return
		}
		cur.Sequence = seq.String()
		records = append(records, *cur)
		seq.Reset()
	}

	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 || line[0] == ';' {
			continue
		}
		if line[0] == '>' {
			flush()
			id, desc, _ := strings.Cut(strings.TrimSpace(string(line[1:])), " ")
			cur = &Record{ID: id, Description: strings.TrimSpace(desc)}
			continue
		}
		if cur == nil {
			continue
		}
		for _, b := range line {
			switch {
			case b == ' ' || b == '\t' || b == '*':
			case b >= 'a' && b <= 'z':
				seq.WriteByte(b - 'a' + 'A')
			default:
				seq.WriteByte(b)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("fasta: scan: %w", err)
	}
	flush()

	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// First returns the first record in r.
func First(r io.Reader) (Record, error) {
	records, err := Parse(r)
	if err != nil {
		return Record{}, err
	}
	return records[0], nil
}

// ReadFile parses the file at path. "-" reads stdin; gzip input is detected
// by magic number or a .gz suffix.
func ReadFile(path string) ([]Record, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return Parse(rc)
}

type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fasta: open %s: %w", path, err)
	}

	var sig [2]byte
	n, _ := fh.Read(sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		_ = fh.Close()
		return nil, fmt.Errorf("fasta: seek %s: %w", path, err)
	}

	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			_ = fh.Close()
			return nil, fmt.Errorf("fasta: gzip %s: %w", path, err)
		}
		return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
	}
	return fh, nil
}

// LineWidth is the sequence wrap width used by Write.
const LineWidth = 60

// Write emits rec in FASTA format with sequence lines wrapped at LineWidth.
func Write(w io.Writer, rec Record) error {
	header := ">" + rec.ID
	if rec.Description != "" {
		header += " " + rec.Description
	}

	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString(header + "\n")
	for seq := rec.Sequence; len(seq) > 0; {
		n := min(LineWidth, len(seq))
		_, _ = bw.WriteString(seq[:n] + "\n")
		seq = seq[n:]
	}
	return bw.Flush()
}
