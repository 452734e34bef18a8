// Package styles provides shared lipgloss v2 styles for CLI and TUI components.
package styles

import (
	"image/color"

	lipgloss "charm.land/lipgloss/v2"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorSelection  color.Color
	ColorSuggestion color.Color
	ColorDrag       color.Color
	ColorForeground color.Color
	ColorMuted      color.Color
	ColorBackground color.Color
	ColorSurface    color.Color
	ColorSuccess    color.Color
	ColorWarning    color.Color
	ColorError      color.Color
)

// Style exports.
var (
	// CLI styles.
	HeaderStyle  lipgloss.Style
	LabelStyle   lipgloss.Style
	DividerStyle lipgloss.Style

	TextMutedStyle          lipgloss.Style
	TextSuccessStyle        lipgloss.Style
	TextWarningStyle        lipgloss.Style
	TextErrorStyle          lipgloss.Style
	TextForegroundBoldStyle lipgloss.Style

	// Residue cells. A cell can be in more than one state; the picker
	// applies them in the order preview, selected, suggested, plain.
	ResidueStyle          lipgloss.Style
	ResidueSelectedStyle  lipgloss.Style
	ResidueSuggestedStyle lipgloss.Style
	ResiduePreviewStyle   lipgloss.Style
	ResidueUnmappedStyle  lipgloss.Style
	PositionLabelStyle    lipgloss.Style

	StatusBarStyle  lipgloss.Style
	StatusModeStyle lipgloss.Style
	HelpStyle       lipgloss.Style

	ToastInfoStyle    lipgloss.Style
	ToastWarningStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
)

// SetTheme rebuilds every exported style from p.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorSelection = p.Selection
	ColorSuggestion = p.Suggestion
	ColorDrag = p.Drag
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	HeaderStyle = lipgloss.NewStyle().
		Foreground(ColorSelection).
		Bold(true)
	LabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorSurface)

	TextMutedStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	TextSuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	TextWarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	TextErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	TextForegroundBoldStyle = lipgloss.NewStyle().Foreground(ColorForeground).Bold(true)

	ResidueStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	ResidueSelectedStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorSelection).
		Bold(true)
	ResidueSuggestedStyle = lipgloss.NewStyle().
		Foreground(ColorSuggestion).
		Underline(true)
	ResiduePreviewStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(ColorDrag)
	ResidueUnmappedStyle = lipgloss.NewStyle().
		Foreground(Blend(ColorMuted, ColorBackground, 0.4))
	PositionLabelStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(6).
		Align(lipgloss.Right).
		PaddingRight(1)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Background(ColorSurface).
		Padding(0, 1)
	StatusModeStyle = lipgloss.NewStyle().
		Foreground(ColorBackground).
		Background(ColorSuggestion).
		Bold(true).
		Padding(0, 1)
	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	ToastInfoStyle = toast.BorderForeground(ColorSelection).Foreground(ColorForeground)
	ToastWarningStyle = toast.BorderForeground(ColorWarning).Foreground(ColorWarning)
	ToastErrorStyle = toast.BorderForeground(ColorError).Foreground(ColorError)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	p, _ := GetPalette(DefaultTheme)
	SetTheme(p)
}
