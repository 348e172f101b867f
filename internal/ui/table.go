package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders data in a compact markdown-style table format,
// optimized for terminal display with fixed-width columns. RowStyles,
// when set, styles each data row individually (direct vs cascaded rows
// in cascade previews).
type Table struct {
	Headers   []string
	Rows      [][]string
	RowStyles []lipgloss.Style
	MaxWidth  int // Max width per column (0 = auto)
}

// ColumnWidths calculates optimal column widths based on content.
func (t *Table) ColumnWidths() []int {
	widths := make([]int, len(t.Headers))

	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	if t.MaxWidth > 0 {
		for i := range widths {
			if widths[i] > t.MaxWidth {
				widths[i] = t.MaxWidth
			}
		}
	}

	return widths
}

// Render outputs the table to a string.
func (t *Table) Render() string {
	if len(t.Headers) == 0 {
		return ""
	}

	widths := t.ColumnWidths()
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	defaultCell := lipgloss.NewStyle().Foreground(ColorText)
	dimStyle := lipgloss.NewStyle().Foreground(ColorSecondary)

	var headerCells []string
	for i, h := range t.Headers {
		headerCells = append(headerCells, headerStyle.Render(padRight(h, widths[i])))
	}
	sb.WriteString(" " + strings.Join(headerCells, "  ") + "\n")

	var sepParts []string
	for _, w := range widths {
		sepParts = append(sepParts, dimStyle.Render(strings.Repeat("─", w)))
	}
	sb.WriteString(" " + strings.Join(sepParts, "──") + "\n")

	for r, row := range t.Rows {
		cellStyle := defaultCell
		if r < len(t.RowStyles) {
			cellStyle = t.RowStyles[r]
		}
		var cells []string
		for i := range t.Headers {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			// Truncate if needed (guard against zero/small widths)
			if widths[i] >= 2 && len(val) > widths[i] {
				val = val[:widths[i]-1] + "…"
			} else if widths[i] == 1 && len(val) > 1 {
				val = "…"
			}
			cells = append(cells, cellStyle.Render(padRight(val, widths[i])))
		}
		sb.WriteString(" " + strings.Join(cells, "  ") + "\n")
	}

	return sb.String()
}

// padRight pads a string to the specified width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// TruncateID shortens an ID for display (first 6 chars).
func TruncateID(id string) string {
	if len(id) > 6 {
		return id[:6]
	}
	return id
}

// FormatDelta renders a day delta with an explicit sign, "±0" for zero.
func FormatDelta(days int) string {
	switch {
	case days > 0:
		return fmt.Sprintf("+%dd", days)
	case days < 0:
		return fmt.Sprintf("%dd", days)
	default:
		return "±0d"
	}
}
