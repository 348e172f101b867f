/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ganttwing/ganttwing/internal/ui"
	"github.com/ganttwing/ganttwing/models"
)

var (
	listTrade  string
	listStatus string
	listGantt  bool
	listDeps   bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks, as a table or a Gantt chart",
	Long: `Lists the plan's tasks sorted by start date. With --gantt the tasks are
drawn as bars on a day axis; --deps appends the dependency edges.

Examples:
  ganttwing list
  ganttwing list --gantt
  ganttwing list --trade concrete --status planned`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listTrade, "trade", "", "only tasks of this trade")
	listCmd.Flags().StringVar(&listStatus, "status", "", "only tasks with this status")
	listCmd.Flags().BoolVar(&listGantt, "gantt", false, "render a Gantt chart instead of a table")
	listCmd.Flags().BoolVar(&listDeps, "deps", false, "also list dependency edges")
}

func listFilter() func(models.Task) bool {
	if listTrade == "" && listStatus == "" {
		return nil
	}
	return func(t models.Task) bool {
		if listTrade != "" && t.Trade != listTrade {
			return false
		}
		if listStatus != "" && string(t.Status) != listStatus {
			return false
		}
		return true
	}
}

func runList(cmd *cobra.Command, args []string) error {
	planStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = planStore.Close() }()

	tasks, err := planStore.ListTasks(listFilter(), nil)
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	if listGantt {
		chart := &ui.GanttChart{
			Tasks:    tasks,
			DayWidth: GetConfig().UI.DayWidth,
			MaxWidth: ui.TerminalWidth(120),
		}
		fmt.Print(chart.Render())
	} else {
		fmt.Print(renderTaskTable(tasks))
	}

	if listDeps {
		deps, err := planStore.ListDependencies()
		if err != nil {
			return fmt.Errorf("list dependencies: %w", err)
		}
		fmt.Print(renderDependencyTable(tasks, deps))
	}
	return nil
}

func renderTaskTable(tasks []models.Task) string {
	tbl := ui.Table{
		Headers:  []string{"ID", "Task", "Trade", "Start", "End", "Days", "Status"},
		MaxWidth: 30,
	}
	for _, t := range tasks {
		tbl.Rows = append(tbl.Rows, []string{
			ui.TruncateID(t.ID),
			t.Name,
			ui.TradeLabel(t.Trade),
			t.StartDate.String(),
			t.EndDate.String(),
			fmt.Sprintf("%d", t.DurationDays()),
			string(t.Status),
		})
	}
	return tbl.Render()
}

func renderDependencyTable(tasks []models.Task, deps []models.Dependency) string {
	names := make(map[string]string, len(tasks))
	for _, t := range tasks {
		names[t.ID] = t.Name
	}
	name := func(id string) string {
		if n, ok := names[id]; ok {
			return n
		}
		return ui.TruncateID(id)
	}

	tbl := ui.Table{
		Headers:  []string{"From", "Type", "To", "Lag"},
		MaxWidth: 30,
	}
	for _, d := range deps {
		tbl.Rows = append(tbl.Rows, []string{
			name(d.FromTaskID),
			string(d.Type),
			name(d.ToTaskID),
			fmt.Sprintf("%d", d.LagDays),
		})
	}
	return "\n" + tbl.Render()
}
