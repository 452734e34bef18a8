package tui

import (
	"strconv"
	"strings"

	"github.com/colonyops/hotspot/internal/core/layout"
	"github.com/colonyops/hotspot/internal/core/styles"
)

// labelWidth is the rendered width of styles.PositionLabelStyle.
const labelWidth = 6

// grid maps screen cells to display positions. Residues occupy one cell
// each; when group is set a blank spacer column follows every group residues.
type grid struct {
	top    int // screen row of the first sequence row
	left   int // screen column of the first residue
	width  int // residues per row
	group  int
	length int
}

func (g grid) rows() int {
	return layout.Count(g.length, g.width)
}

func (g grid) grouped() bool {
	return g.group > 0 && g.group < g.width
}

// cells is the screen width of a full row.
func (g grid) cells() int {
	if !g.grouped() {
		return g.width
	}
	return g.width + (g.width-1)/g.group
}

// contains reports whether (x, y) falls inside the sequence area, including
// spacers and the unused tail of the last row.
func (g grid) contains(x, y int) bool {
	return y >= g.top && y < g.top+g.rows() && x >= g.left && x < g.left+g.cells()
}

// positionAt returns the 1-based display position under (x, y).
func (g grid) positionAt(x, y int) (int, bool) {
	if !g.contains(x, y) {
		return 0, false
	}
	row, cx := y-g.top, x-g.left
	col := cx
	if g.grouped() {
		period := g.group + 1
		if cx%period == g.group {
			return 0, false
		}
		col = cx/period*g.group + cx%period
	}
	return layout.Position(row, col, g.width, g.length)
}

// cellStyler picks the style for a display position.
type cellStyler func(pos int) func(...string) string

// render draws every row with its position label. label returns the number
// shown for the first residue of a row.
func (g grid) render(seq string, label func(pos int) int, style cellStyler) string {
	var b strings.Builder
	for row := range layout.Rows(seq, g.width) {
		if row.Start > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(styles.PositionLabelStyle.Render(strconv.Itoa(label(row.Start + 1))))
		for i := range len(row.Residues) {
			if g.grouped() && i > 0 && i%g.group == 0 {
				b.WriteByte(' ')
			}
			pos := row.Start + i + 1
			b.WriteString(style(pos)(row.Residues[i : i+1]))
		}
	}
	return b.String()
}
