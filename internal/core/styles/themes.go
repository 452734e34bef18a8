package styles

import (
	"image/color"
	"slices"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette holds the colors of a theme by role. Selection, Suggestion and
// Drag color residue cells; the rest are chrome.
type Palette struct {
	Selection  color.Color
	Suggestion color.Color
	Drag       color.Color
	Foreground color.Color
	Muted      color.Color
	Background color.Color
	Surface    color.Color
	Success    color.Color
	Warning    color.Color
	Error      color.Color
}

// DefaultTheme is used when the config names none.
const DefaultTheme = "midnight"

// theme lists hex colors. Drag and Surface may be empty, in which case they
// are mixed from the other colors.
type theme struct {
	selection, suggestion, drag string
	fg, muted, bg, surface      string
	ok, warn, err               string
}

var themes = map[string]theme{
	"midnight": {
		selection: "#5fafff", suggestion: "#ffaf5f",
		fg: "#d0d0e0", muted: "#6c6f85", bg: "#161821",
		ok: "#9ece6a", warn: "#e0af68", err: "#f7768e",
	},
	"paper": {
		selection: "#1f5fbf", suggestion: "#b35900", drag: "#cfe0f7",
		fg: "#24292f", muted: "#8c959f", bg: "#ffffff", surface: "#eaeef2",
		ok: "#1a7f37", warn: "#9a6700", err: "#cf222e",
	},
	// Okabe-Ito hues stay distinct under the common color vision deficiencies.
	"okabe-ito": {
		selection: "#0072b2", suggestion: "#e69f00", drag: "#56b4e9",
		fg: "#f0f0f0", muted: "#8a8a8a", bg: "#1c1c1c",
		ok: "#009e73", warn: "#f0e442", err: "#d55e00",
	},
	"gruvbox": {
		selection: "#83a598", suggestion: "#fabd2f",
		fg: "#ebdbb2", muted: "#665c54", bg: "#282828", surface: "#3c3836",
		ok: "#b8bb26", warn: "#fe8019", err: "#fb4934",
	},
}

func (t theme) palette() Palette {
	c := func(hex string) color.Color { return lipgloss.Color(hex) }

	p := Palette{
		Selection:  c(t.selection),
		Suggestion: c(t.suggestion),
		Foreground: c(t.fg),
		Muted:      c(t.muted),
		Background: c(t.bg),
		Success:    c(t.ok),
		Warning:    c(t.warn),
		Error:      c(t.err),
	}

	p.Surface = Blend(p.Background, p.Foreground, 0.12)
	if t.surface != "" {
		p.Surface = c(t.surface)
	}
	p.Drag = Blend(p.Surface, p.Selection, 0.35)
	if t.drag != "" {
		p.Drag = c(t.drag)
	}
	return p
}

// ThemeNames returns the built-in theme names in order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetPalette returns the palette of a built-in theme.
func GetPalette(name string) (Palette, bool) {
	t, ok := themes[name]
	if !ok {
		return Palette{}, false
	}
	return t.palette(), true
}

// Blend mixes a toward b in Lab space; t=0 returns a and t=1 returns b.
// Colors that cannot be converted return a unchanged.
func Blend(a, b color.Color, t float64) color.Color {
	ca, ok := colorful.MakeColor(a)
	if !ok {
		return a
	}
	cb, ok := colorful.MakeColor(b)
	if !ok {
		return a
	}
	return ca.BlendLab(cb, t).Clamped()
}
