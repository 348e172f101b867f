/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ganttwing/ganttwing/internal/ui"
	"github.com/ganttwing/ganttwing/models"
)

var (
	addTrade    string
	addStart    string
	addEnd      string
	addDuration int
	addNotes    string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a task to the plan",
	Long: `Add a task with a start date and either an end date or a duration.

Examples:
  ganttwing add "Pour slab" --start 2025-09-15 --end 2025-09-16 --trade concrete
  ganttwing add "Framing" --start 2025-09-22 --duration 10 --trade carpentry`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVar(&addTrade, "trade", "", "trade responsible for the task")
	addCmd.Flags().StringVar(&addStart, "start", "", "start date (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addEnd, "end", "", "end date (YYYY-MM-DD, inclusive)")
	addCmd.Flags().IntVar(&addDuration, "duration", 0, "duration in days (alternative to --end)")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "free-form notes")
	_ = addCmd.MarkFlagRequired("start")
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return fmt.Errorf("task name cannot be empty")
	}

	start, err := models.ParseDate(addStart)
	if err != nil {
		return fmt.Errorf("invalid --start: %w", err)
	}

	var end models.Date
	switch {
	case addEnd != "" && addDuration > 0:
		return fmt.Errorf("use either --end or --duration, not both")
	case addEnd != "":
		if end, err = models.ParseDate(addEnd); err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
	case addDuration > 0:
		end = start.AddDays(addDuration - 1)
	default:
		end = start // single-day task
	}

	task := models.NewTask("", name, start, end)
	task.Trade = addTrade
	task.Notes = addNotes

	planStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = planStore.Close() }()

	created, err := planStore.CreateTask(*task)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	fmt.Printf("%s %s (%s..%s, %d day(s), id %s)\n",
		ui.StyleSuccess.Render("✔"),
		created.Name, created.StartDate, created.EndDate,
		created.DurationDays(), ui.TruncateID(created.ID))
	return nil
}
