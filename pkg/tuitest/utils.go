// Package tuitest builds input messages and normalizes views for tests of
// Bubble Tea models.
package tuitest

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// StripANSI drops escape sequences and trailing blanks so rendered views can
// be compared as plain text.
func StripANSI(s string) string {
	lines := strings.Split(ansi.Strip(s), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// KeyPress is a press of a single printable key.
func KeyPress(key rune) tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: key, Text: string(key)})
}

// KeyEnter is a press of enter.
func KeyEnter() tea.Msg {
	return tea.KeyPressMsg(tea.Key{Code: tea.KeyEnter})
}

// MouseDown is a left button press at cell x, y.
func MouseDown(x, y int) tea.Msg {
	return tea.MouseClickMsg(left(x, y))
}

// MouseMove is motion to x, y with the left button held.
func MouseMove(x, y int) tea.Msg {
	return tea.MouseMotionMsg(left(x, y))
}

// MouseUp is a left button release at x, y.
func MouseUp(x, y int) tea.Msg {
	return tea.MouseReleaseMsg(left(x, y))
}

// Click is a press and release on the same cell.
func Click(x, y int) []tea.Msg {
	return []tea.Msg{MouseDown(x, y), MouseUp(x, y)}
}

// Drag presses at the first point, moves through the middle ones and
// releases at the last. Each point is {x, y}.
func Drag(points ...[2]int) []tea.Msg {
	if len(points) == 0 {
		return nil
	}

	first, last := points[0], points[len(points)-1]
	msgs := []tea.Msg{MouseDown(first[0], first[1])}
	for _, p := range points[1:] {
		msgs = append(msgs, MouseMove(p[0], p[1]))
	}
	return append(msgs, MouseUp(last[0], last[1]))
}

func left(x, y int) tea.Mouse {
	return tea.Mouse{X: x, Y: y, Button: tea.MouseLeft}
}
