package structure

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/hotspot/internal/core/seqmap"
)

// atom renders a fixed-column ATOM record.
func atom(serial int, name, res string, chain string, num int) string {
	return fmt.Sprintf("ATOM  %5d %-4s %3s %1s%4d    %8.3f%8.3f%8.3f  1.00  0.00           C",
		serial, name, res, chain, num, 0.0, 0.0, 0.0)
}

func pdb(lines ...string) string {
	return strings.Join(lines, "\n") + "\nEND\n"
}

func TestParsePDB(t *testing.T) {
	input := pdb(
		"HEADER    TEST",
		atom(1, "N", "ALA", "A", 10),
		atom(2, "CA", "ALA", "A", 10),
		atom(3, "CA", "CYS", "A", 11),
		atom(4, "CA", "CYS", "A", 11),
		atom(5, "CA", "ASP", "A", 12),
		atom(6, "CA", "GLU", "A", 20),
		atom(7, "CA", "LYS", "A", 21),
		"TER",
		atom(8, "CA", "TRP", "B", 1),
		atom(9, "CA", "UNK", "B", 2),
		"HETATM   10  O   HOH A 100       0.000   0.000   0.000  1.00  0.00           O",
	)

	s, err := ParsePDB(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, s.ChainIDs())

	a, err := s.Chain("A")
	require.NoError(t, err)
	assert.Equal(t, "ACDEK", a.Sequence())

	segs, err := s.Segments("A")
	require.NoError(t, err)
	assert.Equal(t, []Segment{{Start: 10, End: 12}, {Start: 20, End: 21}}, segs)

	windows, err := s.Windows("A")
	require.NoError(t, err)
	assert.Equal(t, []seqmap.LocalWindow{
		{ChainID: "A", Sequence: "ACD", StartNumber: 10},
		{ChainID: "A", Sequence: "EK", StartNumber: 20},
	}, windows)

	w, err := s.Window("B")
	require.NoError(t, err)
	assert.Equal(t, seqmap.LocalWindow{ChainID: "B", Sequence: "WX", StartNumber: 1}, w)
}

func TestParsePDB_StopsAtFirstModel(t *testing.T) {
	input := pdb(
		"MODEL        1",
		atom(1, "CA", "ALA", "A", 1),
		"ENDMDL",
		"MODEL        2",
		atom(2, "CA", "GLY", "A", 2),
		"ENDMDL",
	)

	s, err := ParsePDB(strings.NewReader(input))
	require.NoError(t, err)

	c, err := s.Chain("A")
	require.NoError(t, err)
	assert.Equal(t, "A", c.Sequence())
}

func TestParsePDB_BlankChain(t *testing.T) {
	s, err := ParsePDB(strings.NewReader(pdb(atom(1, "CA", "GLY", " ", 5))))
	require.NoError(t, err)
	assert.Equal(t, []string{"_"}, s.ChainIDs())
}

func TestParsePDB_Empty(t *testing.T) {
	_, err := ParsePDB(strings.NewReader("HEADER\nEND\n"))
	require.Error(t, err)
}

func TestStructure_UnknownChain(t *testing.T) {
	s, err := ParsePDB(strings.NewReader(pdb(atom(1, "CA", "GLY", "A", 1))))
	require.NoError(t, err)

	_, err = s.Window("Z")
	require.ErrorIs(t, err, ErrNoChain)
	assert.Contains(t, err.Error(), `"Z"`)
}

func TestOneLetter(t *testing.T) {
	tests := []struct {
		in   string
		want byte
	}{
		{"ALA", 'A'},
		{"trp", 'W'},
		{"MSE", 'M'},
		{"HOH", 'X'},
		{"", 'X'},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, OneLetter(tt.in))
		})
	}
}
