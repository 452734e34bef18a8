package tui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"

	"github.com/colonyops/hotspot/internal/core/notify"
	"github.com/colonyops/hotspot/internal/core/styles"
)

const (
	toastLimit    = 3
	toastInterval = 250 * time.Millisecond
	toastWidth    = 48
)

type toastTickMsg time.Time

type toast struct {
	notify.Notification
}

// toastStack holds the notifications currently on screen, oldest first.
type toastStack struct {
	items   []toast
	ticking bool
	now     func() time.Time
}

func newToastStack() *toastStack {
	return &toastStack{now: time.Now}
}

// Push shows n, dropping the oldest toast once the limit is reached.
func (s *toastStack) Push(n notify.Notification) {
	now := s.now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	s.items = append(s.items, toast{Notification: n})
	if len(s.items) > toastLimit {
		s.items = s.items[len(s.items)-toastLimit:]
	}
}

// Expire removes every toast whose deadline is at or before now.
func (s *toastStack) Expire(now time.Time) {
	alive := s.items[:0]
	for _, t := range s.items {
		if t.ExpiresAt().After(now) {
			alive = append(alive, t)
		}
	}
	s.items = alive
}

// Dismiss removes the newest toast.
func (s *toastStack) Dismiss() {
	if len(s.items) > 0 {
		s.items = s.items[:len(s.items)-1]
	}
}

func (s *toastStack) Len() int { return len(s.items) }

// tick schedules the next expiry check unless one is pending or nothing is
// shown.
func (s *toastStack) tick() tea.Cmd {
	if s.ticking || len(s.items) == 0 {
		return nil
	}
	s.ticking = true
	return tea.Tick(toastInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

func (s *toastStack) handleTick(msg toastTickMsg) tea.Cmd {
	s.ticking = false
	s.Expire(time.Time(msg))
	return s.tick()
}

func (s *toastStack) View() string {
	if len(s.items) == 0 {
		return ""
	}
	out := make([]string, len(s.items))
	for i, t := range s.items {
		out[i] = renderToast(t.Notification)
	}
	return strings.Join(out, "\n")
}

func renderToast(n notify.Notification) string {
	icon, style := styles.IconNotifyInfo, styles.ToastInfoStyle
	switch n.Level {
	case notify.LevelWarning:
		icon, style = styles.IconNotifyWarning, styles.ToastWarningStyle
	case notify.LevelError:
		icon, style = styles.IconNotifyError, styles.ToastErrorStyle
	}
	return style.Width(toastWidth).Render(icon + " " + n.Message)
}

// Overlay draws the stack over the lower-right corner of background.
func (s *toastStack) Overlay(background string, width, height int) string {
	content := s.View()
	if content == "" {
		return background
	}

	layer := lipgloss.NewLayer(content).
		X(max(width-lipgloss.Width(content)-1, 0)).
		Y(max(height-lipgloss.Height(content), 0)).
		Z(1)

	return lipgloss.NewCompositor(lipgloss.NewLayer(background), layer).Render()
}
