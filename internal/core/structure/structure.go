// Package structure reads chain sequences from PDB coordinate files.
//
// Only CA atoms of ATOM records are considered: each one contributes one
// residue to its chain. Chains are kept in order of first appearance.
package structure

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/colonyops/hotspot/internal/core/seqmap"
)

// ErrNoChain is returned when a requested chain is absent from the structure.
var ErrNoChain = errors.New("structure: chain not found")

// Residue is one CA atom's residue.
type Residue struct {
	Number int
	Code   byte
}

// Chain is the ordered residue list of one chain.
type Chain struct {
	ID       string
	Residues []Residue
}

// Sequence returns the one-letter sequence of every residue in the chain,
// gaps included.
func (c Chain) Sequence() string {
	b := make([]byte, len(c.Residues))
	for i, r := range c.Residues {
		b[i] = r.Code
	}
	return string(b)
}

// Segment is a run of consecutively numbered residues.
type Segment struct {
	Start int
	End   int
}

// Len returns the number of residues in the segment.
func (s Segment) Len() int { return s.End - s.Start + 1 }

// Structure holds the chains parsed from one file.
type Structure struct {
	chains []Chain
	index  map[string]int
}

// ParseFile parses the PDB file at path.
func ParseFile(path string) (*Structure, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("structure: open %s: %w", path, err)
	}
	defer func() { _ = fh.Close() }()

	return ParsePDB(fh)
}

// ParsePDB reads CA atoms from r. Consecutive duplicate residue numbers on a
// chain (alternate locations and insertion codes) keep the first record.
func ParsePDB(r io.Reader) (*Structure, error) {
	s := &Structure{index: map[string]int{}}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "ENDMDL" {
			break
		}
		if !strings.HasPrefix(text, "ATOM") || len(text) < 26 {
			continue
		}
		if strings.TrimSpace(text[12:16]) != "CA" {
			continue
		}

		number, err := strconv.Atoi(strings.TrimSpace(text[22:26]))
		if err != nil {
			continue
		}

		chainID := strings.TrimSpace(text[21:22])
		if chainID == "" {
			chainID = "_"
		}

		s.add(chainID, Residue{Number: number, Code: OneLetter(strings.TrimSpace(text[17:20]))})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("structure: read line %d: %w", line, err)
	}
	if len(s.chains) == 0 {
		return nil, fmt.Errorf("structure: no CA atoms found")
	}
	return s, nil
}

func (s *Structure) add(chainID string, r Residue) {
	i, ok := s.index[chainID]
	if !ok {
		i = len(s.chains)
		s.index[chainID] = i
		s.chains = append(s.chains, Chain{ID: chainID})
	}

	c := &s.chains[i]
	if n := len(c.Residues); n > 0 && c.Residues[n-1].Number == r.Number {
		return
	}
	c.Residues = append(c.Residues, r)
}

// ChainIDs returns chain identifiers in order of appearance.
func (s *Structure) ChainIDs() []string {
	ids := make([]string, len(s.chains))
	for i, c := range s.chains {
		ids[i] = c.ID
	}
	return ids
}

// Chain returns the chain with the given ID.
func (s *Structure) Chain(id string) (Chain, error) {
	i, ok := s.index[id]
	if !ok {
		return Chain{}, fmt.Errorf("%w: %q (have %s)", ErrNoChain, id, strings.Join(s.ChainIDs(), ","))
	}
	return s.chains[i], nil
}

// Segments returns the contiguous residue runs of a chain.
func (s *Structure) Segments(id string) ([]Segment, error) {
	c, err := s.Chain(id)
	if err != nil {
		return nil, err
	}
	return segmentsOf(c.Residues), nil
}

func segmentsOf(residues []Residue) []Segment {
	if len(residues) == 0 {
		return nil
	}

	var out []Segment
	cur := Segment{Start: residues[0].Number, End: residues[0].Number}
	for _, r := range residues[1:] {
		if r.Number == cur.End+1 {
			cur.End = r.Number
			continue
		}
		out = append(out, cur)
		cur = Segment{Start: r.Number, End: r.Number}
	}
	return append(out, cur)
}

// Windows returns one local window per contiguous segment of the chain.
func (s *Structure) Windows(id string) ([]seqmap.LocalWindow, error) {
	c, err := s.Chain(id)
	if err != nil {
		return nil, err
	}

	segments := segmentsOf(c.Residues)
	out := make([]seqmap.LocalWindow, 0, len(segments))
	offset := 0
	for _, seg := range segments {
		n := seg.Len()
		codes := make([]byte, n)
		for i := range n {
			codes[i] = c.Residues[offset+i].Code
		}
		offset += n

		out = append(out, seqmap.LocalWindow{
			ChainID:     c.ID,
			Sequence:    string(codes),
			StartNumber: seg.Start,
		})
	}
	return out, nil
}

// Window returns the first contiguous segment of the chain. Residue numbers
// within a window increase by one per position.
func (s *Structure) Window(id string) (seqmap.LocalWindow, error) {
	windows, err := s.Windows(id)
	if err != nil {
		return seqmap.LocalWindow{}, err
	}
	return windows[0], nil
}

var threeToOne = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLN": 'Q', "GLU": 'E', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"SEC": 'U', "PYL": 'O', "MSE": 'M', "HSD": 'H', "HSE": 'H',
	"HSP": 'H', "HID": 'H', "HIE": 'H', "HIP": 'H', "CYX": 'C',
}

// OneLetter converts a three-letter residue name. Unknown names map to 'X'.
func OneLetter(name string) byte {
	if c, ok := threeToOne[strings.ToUpper(name)]; ok {
		return c
	}
	return 'X'
}
