package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/hotspot/internal/core/canonical"
	"github.com/colonyops/hotspot/internal/core/eventbus"
	"github.com/colonyops/hotspot/internal/core/eventbus/testbus"
	"github.com/colonyops/hotspot/internal/core/residue"
	"github.com/colonyops/hotspot/internal/core/seqmap"
	"github.com/colonyops/hotspot/pkg/tuitest"
)

// The local window is 12 residues drawn as two rows of 10 starting at
// screen row 2, column 6. Display position p of row r sits at x=6+(p-1)%10.
var window = seqmap.LocalWindow{ChainID: "A", Sequence: "ACDEFGHIKLMN", StartNumber: 1}

func newTestModel(t *testing.T, opts Options) (*Model, *testbus.Bus) {
	t.Helper()
	tb := testbus.New(t)
	eventbus.NewNotificationRouter(tb.EventBus).Register()

	opts.Bus = tb.EventBus
	if opts.Window.Sequence == "" {
		opts.Window = window
	}
	opts.RowWidth = 10
	return New(context.Background(), opts), tb
}

func send(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.update(msg)
	}
}

// run executes cmd and flattens batches into their messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func canonicalMsg(t *testing.T, cmd tea.Cmd) canonicalResultMsg {
	t.Helper()
	for _, msg := range run(cmd) {
		if res, ok := msg.(canonicalResultMsg); ok {
			return res
		}
	}
	t.Fatal("command produced no canonical result")
	return canonicalResultMsg{}
}

func staticLoader(seq string, err error) *canonical.Loader {
	return canonical.NewLoader(canonical.SourceFunc(func(_ context.Context, acc string) (canonical.Entry, error) {
		if err != nil {
			return canonical.Entry{}, err
		}
		return canonical.Entry{Accession: acc, Sequence: seq}, nil
	}))
}

func TestModel_ClickToggles(t *testing.T) {
	m, tb := newTestModel(t, Options{})

	send(m, tuitest.Click(8, 2)...)
	assert.Equal(t, []string{"A:3"}, m.Selection().Strings())

	send(m, tuitest.Click(8, 2)...)
	assert.Empty(t, m.Selection().Strings())

	assert.Len(t, tb.Of(eventbus.EventSelectionChanged), 2)
}

func TestModel_DragAcrossRows(t *testing.T) {
	m, _ := newTestModel(t, Options{Selection: residue.SelectionFromStrings([]string{"B:7"})})

	// A:9 on the first row to A:12 on the second
	send(m, tuitest.Drag([2]int{14, 2}, [2]int{15, 2}, [2]int{6, 3}, [2]int{7, 3})...)

	assert.Equal(t, []string{"B:7", "A:9", "A:10", "A:11", "A:12"}, m.Selection().Strings())
}

func TestModel_DragPreview(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	send(m, tuitest.MouseDown(6, 2), tuitest.MouseMove(8, 2))

	assert.True(t, m.ctrl.InPreview(2))
	assert.Empty(t, m.Selection().Strings(), "nothing commits before release")
}

func TestModel_LeavingGridCancels(t *testing.T) {
	m, tb := newTestModel(t, Options{})

	send(m,
		tuitest.MouseDown(6, 2),
		tuitest.MouseMove(9, 2),
		tuitest.MouseMove(60, 2),
		tuitest.MouseUp(9, 2),
	)

	assert.Empty(t, m.Selection().Strings())
	assert.Empty(t, tb.Of(eventbus.EventSelectionChanged))
}

func TestModel_IgnoresOtherButtonsAndStrayEvents(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	send(m,
		tea.MouseClickMsg(tea.Mouse{X: 6, Y: 2, Button: tea.MouseRight}),
		tuitest.MouseMove(7, 2),
		tuitest.MouseUp(7, 2),
		tuitest.MouseDown(2, 2), // label column
		tuitest.MouseUp(6, 2),
	)

	assert.Empty(t, m.Selection().Strings())
}

func TestModel_ClearAndUndo(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	send(m, tuitest.MouseDown(6, 2), tuitest.MouseUp(6, 2))
	send(m, tuitest.KeyPress('c'))
	assert.Empty(t, m.Selection().Strings())

	send(m, tuitest.KeyPress('u'))
	assert.Equal(t, []string{"A:1"}, m.Selection().Strings())

	send(m, tuitest.KeyPress('u'))
	assert.Empty(t, m.Selection().Strings())

	send(m, tuitest.KeyPress('u'))
	assert.Empty(t, m.Selection().Strings(), "undo past the start is a no-op")
}

func TestModel_CanonicalMode(t *testing.T) {
	loader := staticLoader("MM"+window.Sequence+"KK", nil)
	m, tb := newTestModel(t, Options{Accession: "P12345", Loader: loader})

	cmd := m.update(tuitest.KeyPress('m'))
	require.True(t, m.Loading())
	assert.Equal(t, seqmap.ModeLocal, m.Mapper().Mode(), "mode waits for the sequence")

	send(m, canonicalMsg(t, cmd))

	require.False(t, m.Loading())
	assert.Equal(t, seqmap.ModeCanonical, m.Mapper().Mode())
	assert.Equal(t, 16, m.Mapper().Len())
	tb.AssertPublished(t, eventbus.EventCanonicalLoaded)
	tb.AssertPublished(t, eventbus.EventModeChanged)
	assert.Equal(t, 2, m.toasts.Len())

	t.Run("unmapped residues are inert", func(t *testing.T) {
		send(m, tuitest.MouseDown(6, 2), tuitest.MouseUp(6, 2))
		assert.Empty(t, m.Selection().Strings())
	})

	t.Run("mapped residues use structure numbering", func(t *testing.T) {
		send(m, tuitest.MouseDown(8, 2), tuitest.MouseMove(9, 2), tuitest.MouseUp(9, 2))
		assert.Equal(t, []string{"A:1", "A:2"}, m.Selection().Strings())
	})

	t.Run("toggling back needs no fetch", func(t *testing.T) {
		assert.Nil(t, m.update(tuitest.KeyPress('m')))
		assert.Equal(t, seqmap.ModeLocal, m.Mapper().Mode())

		assert.Nil(t, m.update(tuitest.KeyPress('m')))
		assert.Equal(t, seqmap.ModeCanonical, m.Mapper().Mode())
	})
}

func TestModel_ModeChangeCancelsDrag(t *testing.T) {
	loader := staticLoader("MM"+window.Sequence+"KK", nil)
	m, _ := newTestModel(t, Options{Accession: "P12345", Loader: loader})

	send(m, tuitest.MouseDown(6, 2), tuitest.MouseMove(9, 2))
	cmd := m.update(tuitest.KeyPress('m'))
	send(m, canonicalMsg(t, cmd))
	send(m, tuitest.MouseUp(9, 2))

	assert.Empty(t, m.Selection().Strings())
}

func TestModel_StaleCanonicalResultIgnored(t *testing.T) {
	loader := staticLoader("MM"+window.Sequence, nil)
	m, tb := newTestModel(t, Options{Accession: "P12345", Loader: loader})

	first := m.update(tuitest.KeyPress('m'))
	m.update(tuitest.KeyPress('m')) // cancels
	require.False(t, m.Loading())

	send(m, canonicalMsg(t, first))

	assert.Equal(t, seqmap.ModeLocal, m.Mapper().Mode())
	assert.Empty(t, tb.Of(eventbus.EventCanonicalLoaded))
}

func TestModel_CanonicalFailureStaysLocal(t *testing.T) {
	loader := staticLoader("", canonical.ErrNotFound)
	m, tb := newTestModel(t, Options{Accession: "P99999", Loader: loader})

	send(m, canonicalMsg(t, m.update(tuitest.KeyPress('m'))))

	assert.False(t, m.Loading())
	assert.Equal(t, seqmap.ModeLocal, m.Mapper().Mode())

	failed := tb.Of(eventbus.EventCanonicalFailed)
	require.Len(t, failed, 1)
	p := failed[0].(eventbus.CanonicalFailedPayload)
	assert.True(t, errors.Is(p.Err, canonical.ErrNotFound))
	assert.Equal(t, 1, m.toasts.Len())
}

func TestModel_WindowMissingFromCanonical(t *testing.T) {
	loader := staticLoader("WWWWWW", nil)
	m, tb := newTestModel(t, Options{Accession: "P12345", Loader: loader})

	send(m, canonicalMsg(t, m.update(tuitest.KeyPress('m'))))

	assert.Equal(t, seqmap.ModeLocal, m.Mapper().Mode())
	assert.Empty(t, tb.Of(eventbus.EventModeChanged))
	loaded := tb.Of(eventbus.EventCanonicalLoaded)
	require.Len(t, loaded, 1)
	assert.Nil(t, loaded[0].(eventbus.CanonicalLoadedPayload).Range)
}

func TestModel_NoCanonicalSource(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	assert.Nil(t, m.update(tuitest.KeyPress('m')))
	assert.Equal(t, seqmap.ModeLocal, m.Mapper().Mode())
	assert.Equal(t, 1, m.toasts.Len())
}

func TestModel_InitRequestsCanonical(t *testing.T) {
	loader := staticLoader("M"+window.Sequence, nil)
	m, _ := newTestModel(t, Options{Accession: "P12345", Loader: loader, Mode: seqmap.ModeCanonical})

	send(m, canonicalMsg(t, m.Init()))
	assert.Equal(t, seqmap.ModeCanonical, m.Mapper().Mode())
}

func TestModel_AcceptAndQuit(t *testing.T) {
	t.Run("accept", func(t *testing.T) {
		m, _ := newTestModel(t, Options{Selection: residue.SelectionFromStrings([]string{"A:4"})})
		m.update(tuitest.KeyEnter())

		sel, ok := m.Result()
		assert.True(t, ok)
		assert.Equal(t, []string{"A:4"}, sel.Strings())
	})

	t.Run("quit", func(t *testing.T) {
		m, _ := newTestModel(t, Options{})
		m.update(tuitest.KeyPress('q'))

		_, ok := m.Result()
		assert.False(t, ok)
	})
}

func TestModel_Render(t *testing.T) {
	m, _ := newTestModel(t, Options{
		Target:      "6m0j.pdb",
		Accession:   "P12345",
		Selection:   residue.SelectionFromStrings([]string{"A:2", "E:5"}),
		Suggestions: []residue.Suggestion{{Name: "site", Residues: []residue.ID{{Chain: "A", Number: 3}}}},
	})

	out := tuitest.StripANSI(m.render(80))
	lines := strings.Split(out, "\n")

	assert.Contains(t, lines[0], "6m0j.pdb")
	assert.Contains(t, lines[0], "chain A")
	assert.Contains(t, lines[0], "uniprot P12345")
	assert.Equal(t, "    1 ACDEFGHIKL", lines[2])
	assert.Equal(t, "   11 MN", lines[3])
	assert.Contains(t, out, "LOCAL")
	assert.Contains(t, out, "2 selected (1 on other chains)")
	assert.Contains(t, out, "A:2 E:5")
}
