/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ganttwing/ganttwing/internal/history"
	"github.com/ganttwing/ganttwing/internal/schedule"
)

var (
	shiftDays int
	shiftYes  bool
	shiftNote string
)

// shiftCmd represents the shift command
var shiftCmd = &cobra.Command{
	Use:   "shift [task]",
	Short: "Move a task by whole days and cascade its dependents",
	Long: `Translates a task's start and end dates by --days, then previews the
cascade: every dependent task is pushed just far enough to keep its
dependency constraints satisfied. Durations never change and no task is
ever pulled earlier. Nothing is written until the preview is confirmed.

Without a task argument an interactive picker is shown.

Examples:
  ganttwing shift 3f2a --days 3
  ganttwing shift --days -2
  ganttwing shift 3f2a --days 5 --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShift,
}

func init() {
	rootCmd.AddCommand(shiftCmd)

	shiftCmd.Flags().IntVar(&shiftDays, "days", 0, "days to move the task (negative moves it earlier)")
	shiftCmd.Flags().BoolVarP(&shiftYes, "yes", "y", false, "apply without the confirmation prompt")
	shiftCmd.Flags().StringVar(&shiftNote, "note", "", "note to store with the change history")
	_ = shiftCmd.MarkFlagRequired("days")
}

func runShift(cmd *cobra.Command, args []string) error {
	planStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = planStore.Close() }()

	task, err := resolveTask(planStore, args, "Select a task to shift")
	if err != nil {
		return err
	}

	graph, tasks, _, err := loadGraph(planStore)
	if err != nil {
		return err
	}

	result, err := schedule.Preview(graph, tasks, task.ID, shiftDays)
	if err != nil {
		return fmt.Errorf("preview shift: %w", err)
	}

	note := shiftNote
	if note == "" {
		note = fmt.Sprintf("shifted %q by %+d day(s)", task.Name, shiftDays)
	}
	return confirmAndApply(planStore, result.Entries(), history.KindShift, note, shiftYes)
}
