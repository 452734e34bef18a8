// Package layout splits sequences into fixed-width display rows.
package layout

import "iter"

// Row is one display row. Start is the 0-based index of the row's first
// residue within the sequence.
type Row struct {
	Start    int
	Residues string
}

// End returns the 0-based index one past the row's last residue.
func (r Row) End() int {
	return r.Start + len(r.Residues)
}

// Rows yields the rows of seq, width residues each (the last row may be
// shorter). The returned sequence can be ranged over any number of times.
// A non-positive width yields no rows.
func Rows(seq string, width int) iter.Seq[Row] {
	return func(yield func(Row) bool) {
		if width <= 0 {
			return
		}
		for start := 0; start < len(seq); start += width {
			end := min(start+width, len(seq))
			if !yield(Row{Start: start, Residues: seq[start:end]}) {
				return
			}
		}
	}
}

// Collect returns all rows of seq as a slice.
func Collect(seq string, width int) []Row {
	var rows []Row
	for r := range Rows(seq, width) {
		rows = append(rows, r)
	}
	return rows
}

// Count returns the number of rows seq occupies.
func Count(length, width int) int {
	if width <= 0 || length <= 0 {
		return 0
	}
	return (length + width - 1) / width
}

// Cell converts a 1-based display position into a 0-based row and column.
func Cell(pos, width int) (row, col int) {
	return (pos - 1) / width, (pos - 1) % width
}

// Position converts a 0-based row and column back into a 1-based display
// position. It returns false when the cell is past the end of a sequence of
// the given length.
func Position(row, col, width, length int) (int, bool) {
	if row < 0 || col < 0 || col >= width {
		return 0, false
	}
	pos := row*width + col + 1
	if pos > length {
		return 0, false
	}
	return pos, true
}
