// Package tui implements the interactive residue picker.
package tui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"

	"github.com/colonyops/hotspot/internal/core/canonical"
	"github.com/colonyops/hotspot/internal/core/drag"
	"github.com/colonyops/hotspot/internal/core/eventbus"
	"github.com/colonyops/hotspot/internal/core/logging"
	"github.com/colonyops/hotspot/internal/core/notify"
	"github.com/colonyops/hotspot/internal/core/residue"
	"github.com/colonyops/hotspot/internal/core/seqmap"
	"github.com/colonyops/hotspot/internal/core/styles"
)

const (
	// rowTop is the screen row of the first sequence row, below the header
	// and one blank line.
	rowTop       = 2
	historyLimit = 100
)

// Options configures a picker.
type Options struct {
	Target      string // shown in the header, usually the structure file
	Window      seqmap.LocalWindow
	Accession   string
	Loader      *canonical.Loader // nil disables canonical mode
	Selection   residue.Selection
	Suggestions []residue.Suggestion
	RowWidth    int
	GroupSize   int
	Mode        seqmap.Mode // requested on start
	Bus         *eventbus.EventBus
}

type canonicalResultMsg canonical.Result

// Model is the picker. It owns the application selection: gestures commit
// through the drag controller onto the bus and the model replaces its copy
// when selection.changed arrives.
type Model struct {
	ctx  context.Context
	opts Options
	bus  *eventbus.EventBus
	log  zerolog.Logger

	mapper    seqmap.Mapper
	canonical *seqmap.CanonicalSequence
	ctrl      *drag.Controller
	loading   bool

	selection residue.Selection
	history   []residue.Selection
	restoring bool
	suggested map[residue.ID]struct{}

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	toasts  *toastStack

	width, height int
	accepted      bool
	quitting      bool
}

// New builds a picker. The model subscribes to opts.Bus, which must not be
// shared with another picker.
func New(ctx context.Context, opts Options) *Model {
	if opts.Bus == nil {
		opts.Bus = eventbus.New()
	}
	if opts.RowWidth <= 0 {
		opts.RowWidth = 10
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.ColorSelection)

	m := &Model{
		ctx:       ctx,
		opts:      opts,
		bus:       opts.Bus,
		log:       logging.Component("tui"),
		mapper:    seqmap.NewMapper(opts.Window, nil, seqmap.ModeLocal),
		selection: opts.Selection,
		suggested: residue.SuggestedSet(opts.Suggestions),
		keys:      defaultKeyMap(),
		help:      help.New(),
		spinner:   s,
		toasts:    newToastStack(),
	}
	m.ctrl = drag.New(m.mapper, func() residue.Selection { return m.selection }, m.bus)

	m.bus.SubscribeSelectionChanged(func(p eventbus.SelectionChangedPayload) {
		m.applySelection(p.Selection)
	})
	m.bus.SubscribeNotificationPublished(func(p eventbus.NotificationPublishedPayload) {
		m.toasts.Push(notify.Notification{Level: p.Level, Message: p.Message})
	})

	return m
}

// Result returns the final selection and whether the user accepted it.
func (m *Model) Result() (residue.Selection, bool) {
	return m.selection, m.accepted
}

// Selection returns the current selection.
func (m *Model) Selection() residue.Selection {
	return m.selection
}

// Mapper returns the mapper currently used for display.
func (m *Model) Mapper() seqmap.Mapper {
	return m.mapper
}

// Loading reports whether a canonical fetch is outstanding.
func (m *Model) Loading() bool {
	return m.loading
}

func (m *Model) Init() tea.Cmd {
	if m.opts.Mode == seqmap.ModeCanonical {
		return m.requestCanonical()
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.toasts.tick())
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	case tea.MouseClickMsg:
		m.handleMouseDown(msg.Mouse())
	case tea.MouseMotionMsg:
		m.handleMouseMotion(msg.Mouse())
	case tea.MouseReleaseMsg:
		m.handleMouseUp(msg.Mouse())
	case canonicalResultMsg:
		m.handleCanonical(canonical.Result(msg))
	case toastTickMsg:
		return m.toasts.handleTick(msg)
	case spinner.TickMsg:
		if !m.loading {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.cancelLoad()
		return tea.Quit
	case key.Matches(msg, m.keys.Accept):
		m.accepted = true
		m.quitting = true
		m.cancelLoad()
		return tea.Quit
	case key.Matches(msg, m.keys.Mode):
		return m.toggleMode()
	case key.Matches(msg, m.keys.Clear):
		if m.selection.Len() > 0 {
			m.bus.SelectionChanged(residue.Selection{})
		}
	case key.Matches(msg, m.keys.Undo):
		m.undo()
	case key.Matches(msg, m.keys.Dismiss):
		m.toasts.Dismiss()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

// grid describes where the sequence is drawn.
func (m *Model) grid() grid {
	return grid{
		top:    rowTop,
		left:   labelWidth,
		width:  m.opts.RowWidth,
		group:  m.opts.GroupSize,
		length: m.mapper.Len(),
	}
}

func (m *Model) handleMouseDown(mouse tea.Mouse) {
	if mouse.Button != tea.MouseLeft {
		return
	}
	if pos, ok := m.grid().positionAt(mouse.X, mouse.Y); ok {
		m.ctrl.PointerDown(pos)
	}
}

func (m *Model) handleMouseMotion(mouse tea.Mouse) {
	if m.ctrl.State() != drag.StateDragging {
		return
	}
	g := m.grid()
	if !g.contains(mouse.X, mouse.Y) {
		m.ctrl.PointerLeave()
		return
	}
	if pos, ok := g.positionAt(mouse.X, mouse.Y); ok {
		m.ctrl.PointerEnter(pos)
	}
}

func (m *Model) handleMouseUp(mouse tea.Mouse) {
	if m.ctrl.State() != drag.StateDragging {
		return
	}
	if pos, ok := m.grid().positionAt(mouse.X, mouse.Y); ok {
		m.ctrl.PointerEnter(pos)
	}
	m.ctrl.PointerUp()
}

func (m *Model) applySelection(next residue.Selection) {
	if !m.restoring {
		m.history = append(m.history, m.selection)
		if len(m.history) > historyLimit {
			m.history = m.history[len(m.history)-historyLimit:]
		}
	}
	m.selection = next
}

func (m *Model) undo() {
	if len(m.history) == 0 {
		return
	}
	prev := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]

	m.restoring = true
	defer func() { m.restoring = false }()
	m.bus.SelectionChanged(prev)
}

// toggleMode flips between local and canonical numbering. Entering
// canonical mode for the first time fetches the sequence; pressing the key
// again while that fetch runs abandons it.
func (m *Model) toggleMode() tea.Cmd {
	if m.loading {
		m.cancelLoad()
		m.notify(notify.LevelInfo, "canonical fetch cancelled")
		return nil
	}
	if m.mapper.RequestedMode() == seqmap.ModeCanonical {
		m.setMode(seqmap.ModeLocal)
		return nil
	}
	if m.canonical != nil {
		m.setMode(seqmap.ModeCanonical)
		if !m.mapper.CanonicalAvailable() {
			m.notify(notify.LevelWarning, fmt.Sprintf("structure window not found in %s", m.opts.Accession))
		}
		return nil
	}
	return m.requestCanonical()
}

func (m *Model) requestCanonical() tea.Cmd {
	if m.opts.Loader == nil || m.opts.Accession == "" {
		m.notify(notify.LevelWarning, "no canonical sequence configured; pass --uniprot or --fasta")
		return nil
	}

	ticket := m.opts.Loader.Begin(m.opts.Accession)
	m.loading = true
	m.log.Debug().Str("accession", ticket.Accession).Msg("fetching canonical sequence")

	loader, ctx := m.opts.Loader, m.ctx
	load := func() tea.Msg {
		return canonicalResultMsg(loader.Load(ctx, ticket))
	}
	return tea.Batch(load, m.spinner.Tick)
}

func (m *Model) cancelLoad() {
	if m.loading {
		m.opts.Loader.Cancel()
		m.loading = false
	}
}

func (m *Model) handleCanonical(res canonical.Result) {
	if m.opts.Loader == nil || !m.opts.Loader.Accept(res.Ticket) {
		m.log.Debug().Str("accession", res.Ticket.Accession).Msg("discarding stale canonical result")
		return
	}
	m.loading = false

	if res.Err != nil {
		m.log.Warn().Err(res.Err).Str("accession", res.Ticket.Accession).Msg("canonical fetch failed")
		m.bus.PublishCanonicalFailed(eventbus.CanonicalFailedPayload{Accession: res.Ticket.Accession, Err: res.Err})
		return
	}

	seq := res.Entry.Canonical()
	m.canonical = &seq

	prev := m.mapper.Mode()
	m.mapper = seqmap.NewMapper(m.opts.Window, m.canonical, seqmap.ModeCanonical)
	m.ctrl.SetResolver(m.mapper)

	m.bus.PublishCanonicalLoaded(eventbus.CanonicalLoadedPayload{
		Accession: res.Ticket.Accession,
		Sequence:  seq,
		Range:     m.mapper.MappedRange(),
	})
	if m.mapper.Mode() != prev {
		m.bus.PublishModeChanged(eventbus.ModeChangedPayload{Mode: m.mapper.Mode()})
	}
}

// setMode rebuilds the mapper for mode, which cancels any gesture in progress.
func (m *Model) setMode(mode seqmap.Mode) {
	prev := m.mapper.Mode()
	m.mapper = seqmap.NewMapper(m.opts.Window, m.canonical, mode)
	m.ctrl.SetResolver(m.mapper)
	if m.mapper.Mode() != prev {
		m.bus.PublishModeChanged(eventbus.ModeChangedPayload{Mode: m.mapper.Mode()})
	}
}

func (m *Model) notify(level notify.Level, msg string) {
	m.bus.PublishNotificationPublished(eventbus.NotificationPublishedPayload{Level: level, Message: msg})
}

func (m *Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}

	w, h := m.width, m.height
	if w == 0 {
		w = 80
	}
	if h == 0 {
		h = 24
	}

	v := tea.NewView(m.toasts.Overlay(m.render(w), w, h))
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m *Model) render(width int) string {
	sections := []string{
		m.renderHeader(),
		"",
		m.grid().render(m.mapper.DisplaySequence(), m.mapper.Label, m.cellStyle),
		"",
		m.renderStatus(),
		ansi.Truncate(styles.LabelStyle.Render(m.selectionLine()), width, "…"),
		m.help.View(m.keys),
	}
	return strings.Join(sections, "\n")
}

func (m *Model) renderHeader() string {
	parts := []string{styles.HeaderStyle.Render("hotspot")}
	if m.opts.Target != "" {
		parts = append(parts, m.opts.Target)
	}
	parts = append(parts, styles.LabelStyle.Render("chain")+" "+m.mapper.Chain())
	if m.opts.Accession != "" {
		parts = append(parts, styles.LabelStyle.Render("uniprot")+" "+m.opts.Accession)
	}
	return strings.Join(parts, "  ")
}

func (m *Model) renderStatus() string {
	mode := strings.ToUpper(m.mapper.Mode().String())
	status := fmt.Sprintf("%d selected", m.selection.Len())

	if other := m.selection.Len() - len(m.selection.ForChain(m.mapper.Chain())); other > 0 {
		status += fmt.Sprintf(" (%d on other chains)", other)
	}
	if r := m.mapper.MappedRange(); r != nil && m.mapper.Mode() == seqmap.ModeCanonical {
		status += fmt.Sprintf("  window %d-%d of %d", r.CanonicalStart, r.CanonicalEnd, m.mapper.Len())
	}
	if m.loading {
		status += "  " + m.spinner.View() + " fetching " + m.opts.Accession
	}

	return styles.StatusModeStyle.Render(mode) + styles.StatusBarStyle.Render(status)
}

func (m *Model) selectionLine() string {
	if m.selection.Len() == 0 {
		return "click a residue to select it, drag to select a range"
	}
	return strings.Join(m.selection.Strings(), " ")
}

func (m *Model) cellStyle(pos int) func(...string) string {
	id, ok := m.mapper.Resolve(pos)
	switch {
	case !ok:
		return styles.ResidueUnmappedStyle.Render
	case m.ctrl.InPreview(pos):
		return styles.ResiduePreviewStyle.Render
	case m.selection.Contains(id):
		return styles.ResidueSelectedStyle.Render
	}
	if _, hot := m.suggested[id]; hot {
		return styles.ResidueSuggestedStyle.Render
	}
	return styles.ResidueStyle.Render
}
