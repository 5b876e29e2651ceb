// Package styles holds the lipgloss theme and deterministic contact
// colors for the messaging TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// BaseColors defines global UI colors.
type BaseColors struct {
	Foreground string
	Muted      string
	Accent     string
	Border     string
}

// MessageColors defines colors for message provenance.
type MessageColors struct {
	Own   string
	Other string
}

// StatusColors defines colors for delivery and presence state.
type StatusColors struct {
	Online  string
	Offline string
	Pending string
	Failed  string
}

// Theme defines the TUI style tokens.
type Theme struct {
	Name string

	// ContactPalette optionally overrides the identity palette
	// (ANSI-256 codes).
	ContactPalette []string

	Base    BaseColors
	Message MessageColors
	Status  StatusColors
}

// DefaultTheme is the standard palette.
var DefaultTheme = Theme{
	Name: "default",
	Base: BaseColors{
		Foreground: "252",
		Muted:      "244",
		Accent:     "81",
		Border:     "238",
	},
	Message: MessageColors{
		Own:   "117",
		Other: "252",
	},
	Status: StatusColors{
		Online:  "78",
		Offline: "244",
		Pending: "214",
		Failed:  "203",
	},
}

// HighContrastTheme favors readability on washed-out bridge displays.
var HighContrastTheme = Theme{
	Name: "high-contrast",
	ContactPalette: []string{
		"21", "93", "129", "165", "201", "45", "51", "87",
	},
	Base: BaseColors{
		Foreground: "231",
		Muted:      "250",
		Accent:     "226",
		Border:     "255",
	},
	Message: MessageColors{
		Own:   "51",
		Other: "231",
	},
	Status: StatusColors{
		Online:  "46",
		Offline: "250",
		Pending: "220",
		Failed:  "196",
	},
}

// Themes lists available palettes by name.
var Themes = map[string]Theme{
	"default":       DefaultTheme,
	"high-contrast": HighContrastTheme,
}

// ForName returns the named theme, falling back to the default.
func ForName(name string) Theme {
	if theme, ok := Themes[name]; ok {
		return theme
	}
	return DefaultTheme
}

// Muted returns the muted text style.
func (t Theme) MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Base.Muted))
}

// AccentStyle returns the accent text style.
func (t Theme) AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Base.Accent))
}

// ErrorStyle returns the failure banner style.
func (t Theme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Status.Failed)).Bold(true)
}
