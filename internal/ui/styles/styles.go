// Package styles provides the shared lipgloss palette and status symbols
// used by the static, progress and prompt packages.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Theme is the color palette.
type Theme struct {
	Primary color.Color // titles, borders
	Accent  color.Color // selected items
	Success color.Color
	Error   color.Color
	Warning color.Color
	Muted   color.Color // secondary text
}

var (
	// DefaultTheme uses the 256-color palette.
	DefaultTheme = Theme{
		Primary: lipgloss.Color("62"),
		Accent:  lipgloss.Color("212"),
		Success: lipgloss.Color("82"),
		Error:   lipgloss.Color("196"),
		Warning: lipgloss.Color("214"),
		Muted:   lipgloss.Color("240"),
	}

	// NoneTheme keeps bold and italic but no colors (NO_COLOR).
	NoneTheme = Theme{
		Primary: lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
		Muted:   lipgloss.NoColor{},
	}
)

var current = DefaultTheme

// Styles derived from the current theme. Rebuilt by Apply.
var (
	Bold         lipgloss.Style
	AccentStyle  lipgloss.Style
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	MutedStyle   lipgloss.Style
	HeaderStyle  lipgloss.Style
)

func init() {
	Apply(DefaultTheme)
}

// Apply makes t the current theme.
func Apply(t Theme) {
	current = t
	Bold = lipgloss.NewStyle().Bold(true)
	AccentStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	WarningStyle = lipgloss.NewStyle().Foreground(t.Warning)
	MutedStyle = lipgloss.NewStyle().Foreground(t.Muted)
	HeaderStyle = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
}

// Init picks the theme from the environment: NO_COLOR set and non-empty
// disables colors.
func Init(noColor string) {
	if noColor != "" {
		Apply(NoneTheme)
		return
	}
	Apply(DefaultTheme)
}

// Current returns the active theme.
func Current() Theme {
	return current
}
