package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	ColorPrimary   = lipgloss.Color("205") // Pink
	ColorSecondary = lipgloss.Color("241") // Gray
	ColorSuccess   = lipgloss.Color("42")  // Green
	ColorError     = lipgloss.Color("160") // Red
	ColorWarning   = lipgloss.Color("214") // Orange/Yellow
	ColorText      = lipgloss.Color("252") // White/Gray
	ColorCyan      = lipgloss.Color("87")  // Cyan for cascaded tasks
	ColorBlue      = lipgloss.Color("75")  // Blue for bars

	// Base Styles
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorSecondary)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleText    = lipgloss.NewStyle().Foreground(ColorText)

	// Gantt bar styles
	StyleBar         = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleBarProposed = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleBarDone     = lipgloss.NewStyle().Foreground(ColorSecondary)

	// Preview row styles
	StyleDirect   = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleCascaded = lipgloss.NewStyle().Foreground(ColorCyan)

	// Components
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 1)

	StyleSectionTitle = lipgloss.NewStyle().
				Foreground(ColorPrimary).
				Bold(true).
				Underline(true)
)

// Icon returns a styled icon string
func Icon(icon string, style lipgloss.Style) string {
	return style.Render(icon)
}
