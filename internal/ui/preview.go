package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/ganttwing/ganttwing/internal/schedule"
)

// RenderPreview formats a cascade preview as a table. Directly edited
// tasks are highlighted; cascaded ones are listed beneath them in
// start-date order.
func RenderPreview(entries []schedule.PreviewEntry) string {
	if len(entries) == 0 {
		return StyleSubtle.Render("no date changes") + "\n"
	}

	tbl := Table{
		Headers: []string{"Task", "Current", "Proposed", "Delta", ""},
	}
	for _, e := range entries {
		marker := ""
		style := StyleCascaded
		if e.IsDirect {
			marker = "edited"
			style = StyleDirect
		}
		tbl.Rows = append(tbl.Rows, []string{
			e.TaskName,
			fmt.Sprintf("%s..%s", e.OriginalStart, e.OriginalEnd),
			fmt.Sprintf("%s..%s", e.ProposedStart, e.ProposedEnd),
			FormatDelta(e.DeltaDays),
			marker,
		})
		tbl.RowStyles = append(tbl.RowStyles, style)
	}
	return tbl.Render()
}

// PreviewSummary is the one-line count shown under the preview table.
func PreviewSummary(entries []schedule.PreviewEntry) string {
	direct, cascaded := 0, 0
	for _, e := range entries {
		if e.IsDirect {
			direct++
		} else {
			cascaded++
		}
	}
	s := fmt.Sprintf("%d task(s) edited, %d pushed by dependencies", direct, cascaded)
	return lipgloss.NewStyle().Foreground(ColorSecondary).Render(s)
}
