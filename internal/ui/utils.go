package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// IsInteractive checks if stdout is a terminal.
// This is useful to avoid prompting when piping output or running in non-interactive environments.
func IsInteractive() bool {
	fileInfo, _ := os.Stdout.Stat()
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// TerminalWidth returns the current terminal width, or the fallback when
// stdout is not a terminal.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

// RenderPageHeader displays a consistent styled header for commands
func RenderPageHeader(title, subtitle string) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSecondary).
		MarginBottom(1)

	fmt.Println(titleStyle.Render(title))
	if subtitle != "" {
		fmt.Printf("  %s\n", StyleSubtle.Render(subtitle))
	}
}

// Panel is a styled box with an optional title.
type Panel struct {
	Title       string
	Content     string
	BorderColor lipgloss.Color
	Width       int
}

// NewPanel creates a new panel with default styling.
func NewPanel(title, content string) *Panel {
	return &Panel{
		Title:       title,
		Content:     content,
		BorderColor: ColorSecondary,
	}
}

// WithBorderColor sets the border color and returns the panel.
func (p *Panel) WithBorderColor(color lipgloss.Color) *Panel {
	p.BorderColor = color
	return p
}

// Render returns the styled panel as a string.
func (p *Panel) Render() string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.BorderColor).
		Padding(0, 1)

	if p.Width > 0 {
		style = style.Width(p.Width)
	}

	content := p.Content
	if p.Title != "" {
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
		content = titleStyle.Render(p.Title) + "\n" + p.Content
	}
	return style.Render(content)
}

// RenderSuccessPanel renders a panel with success styling (green border).
func RenderSuccessPanel(title, content string) string {
	return NewPanel(title, content).WithBorderColor(ColorSuccess).Render()
}

// RenderErrorPanel renders a panel with error styling (red border).
func RenderErrorPanel(title, content string) string {
	return NewPanel(title, content).WithBorderColor(ColorError).Render()
}

// RenderWarningPanel renders a panel with warning styling (yellow border).
func RenderWarningPanel(title, content string) string {
	return NewPanel(title, content).WithBorderColor(ColorWarning).Render()
}

// Truncate truncates a string to maxLen characters, adding ellipsis if needed.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
