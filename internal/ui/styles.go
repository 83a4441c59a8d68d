package ui

import "github.com/charmbracelet/lipgloss"

// --- Theme Colors ---

var (
	ColorPrimary = lipgloss.Color("#7f57b4") // purple
	ColorMuted   = lipgloss.Color("#9ba0bf") // muted text
	ColorError   = lipgloss.Color("#e06c75") // red
	ColorBorder  = lipgloss.Color("#273540") // border
)

// --- Reusable Styles ---

var (
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)
)

// ApplyTheme swaps text colors for light terminals. Unknown themes keep dark.
func ApplyTheme(theme string) {
	if theme != "light" {
		return
	}
	ColorMuted = lipgloss.Color("#5d6178")
	ColorError = lipgloss.Color("#b3261e")
	MutedStyle = MutedStyle.Foreground(ColorMuted)
	ErrorStyle = ErrorStyle.Foreground(ColorError)
}
