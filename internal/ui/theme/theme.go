// Package theme defines the colors, styles and symbols used by terminal output.
package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// ColorPalette holds the theme colors.
type ColorPalette struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor

	Success lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	Text         lipgloss.AdaptiveColor
	TextMuted    lipgloss.AdaptiveColor
	TextFaint    lipgloss.AdaptiveColor
	TextEmphasis lipgloss.AdaptiveColor
}

// Styles holds the rendered styles derived from the palette.
type Styles struct {
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Header    lipgloss.Style
	SubHeader lipgloss.Style

	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Faint    lipgloss.Style
	Emphasis lipgloss.Style

	ListItem   lipgloss.Style
	ListBullet lipgloss.Style
	Selected   lipgloss.Style
	Cursor     lipgloss.Style

	Key       lipgloss.Style
	Value     lipgloss.Style
	Separator lipgloss.Style

	Spinner lipgloss.Style
}

// Symbols are the glyphs prefixed to messages.
type Symbols struct {
	Success string
	Error   string
	Warning string
	Info    string
	Arrow   string
	Bullet  string
}

// Theme is a complete visual style.
type Theme interface {
	Name() string
	Palette() ColorPalette
	Styles() Styles
	Symbols() Symbols
}

var (
	current     Theme
	currentOnce sync.Once
)

// Current returns the active theme.
func Current() Theme {
	currentOnce.Do(func() {
		current = NewDefaultTheme()
	})
	return current
}
