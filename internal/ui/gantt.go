package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ganttwing/ganttwing/models"
)

// ProposedDates overlays a pending reschedule on a task's bar.
type ProposedDates struct {
	Start models.Date
	End   models.Date
}

// GanttChart renders tasks as horizontal bars on a shared day axis.
// Proposed maps task IDs to not-yet-applied dates, drawn as a second
// bar under the current one.
type GanttChart struct {
	Tasks    []models.Task
	Proposed map[string]ProposedDates
	DayWidth int // Cells per day (1-4)
	MaxWidth int // Total output width (0 = no limit)
}

var titleCaser = cases.Title(language.English)

// TradeLabel normalizes a trade name for display ("site prep" -> "Site Prep").
func TradeLabel(trade string) string {
	if trade == "" {
		return "-"
	}
	return titleCaser.String(trade)
}

// Render draws the chart. Tasks are drawn in the given order; callers
// sort by start date before rendering.
func (g *GanttChart) Render() string {
	if len(g.Tasks) == 0 {
		return StyleSubtle.Render("no tasks to chart") + "\n"
	}

	dayWidth := g.DayWidth
	if dayWidth < 1 {
		dayWidth = 2
	}

	minStart, maxEnd := g.span()
	totalDays := minStart.DaysUntil(maxEnd) + 1

	nameWidth := 0
	for _, task := range g.Tasks {
		if len(task.Name) > nameWidth {
			nameWidth = len(task.Name)
		}
	}
	if nameWidth > 24 {
		nameWidth = 24
	}

	if g.MaxWidth > 0 {
		avail := g.MaxWidth - nameWidth - 3
		if avail > 0 {
			// Drop day resolution rather than clipping the bars.
			for dayWidth > 1 && totalDays*dayWidth > avail {
				dayWidth--
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(g.axis(minStart, totalDays, nameWidth, dayWidth))

	for _, task := range g.Tasks {
		name := Truncate(task.Name, nameWidth)
		sb.WriteString(" " + padRight(name, nameWidth) + "  ")
		sb.WriteString(g.bar(task.StartDate, task.EndDate, minStart, totalDays, dayWidth, barStyle(task.Status)))
		sb.WriteString("\n")

		if prop, ok := g.Proposed[task.ID]; ok {
			sb.WriteString(" " + padRight("", nameWidth) + "  ")
			sb.WriteString(g.bar(prop.Start, prop.End, minStart, totalDays, dayWidth, StyleBarProposed))
			sb.WriteString(StyleSubtle.Render(fmt.Sprintf("  -> %s..%s", prop.Start, prop.End)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// span returns the earliest start and latest end across tasks and proposals.
func (g *GanttChart) span() (models.Date, models.Date) {
	minStart := g.Tasks[0].StartDate
	maxEnd := g.Tasks[0].EndDate
	for _, task := range g.Tasks {
		minStart = models.MinDate(minStart, task.StartDate)
		maxEnd = models.MaxDate(maxEnd, task.EndDate)
	}
	for _, prop := range g.Proposed {
		minStart = models.MinDate(minStart, prop.Start)
		maxEnd = models.MaxDate(maxEnd, prop.End)
	}
	return minStart, maxEnd
}

// axis renders the month/day header line above the bars.
func (g *GanttChart) axis(minStart models.Date, totalDays, nameWidth, dayWidth int) string {
	var sb strings.Builder
	sb.WriteString(" " + padRight("", nameWidth) + "  ")

	cells := make([]byte, totalDays*dayWidth)
	for i := range cells {
		cells[i] = ' '
	}
	for day := 0; day < totalDays; day++ {
		d := minStart.AddDays(day)
		if d.Time().Day() != 1 && day != 0 {
			continue
		}
		label := d.Time().Format("Jan 2")
		pos := day * dayWidth
		for i := 0; i < len(label) && pos+i < len(cells); i++ {
			cells[pos+i] = label[i]
		}
	}
	sb.WriteString(StyleSubtle.Render(string(cells)))
	sb.WriteString("\n")
	return sb.String()
}

func (g *GanttChart) bar(start, end, minStart models.Date, totalDays, dayWidth int, style lipgloss.Style) string {
	offset := minStart.DaysUntil(start)
	length := start.DaysUntil(end) + 1
	if offset < 0 {
		length += offset
		offset = 0
	}
	if offset+length > totalDays {
		length = totalDays - offset
	}
	if length < 1 {
		length = 1
	}

	pad := strings.Repeat(" ", offset*dayWidth)
	bar := strings.Repeat("█", length*dayWidth)
	tail := strings.Repeat(" ", (totalDays-offset-length)*dayWidth)
	return pad + style.Render(bar) + tail
}

func barStyle(status models.TaskStatus) lipgloss.Style {
	if status == models.StatusDone {
		return StyleBarDone
	}
	return StyleBar
}
