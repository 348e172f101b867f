/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ganttwing/ganttwing/internal/history"
	"github.com/ganttwing/ganttwing/internal/schedule"
	"github.com/ganttwing/ganttwing/models"
)

var (
	resizeStart string
	resizeEnd   string
	resizeYes   bool
	resizeNote  string
)

// resizeCmd represents the resize command
var resizeCmd = &cobra.Command{
	Use:   "resize [task]",
	Short: "Change a task's start or end date and cascade its dependents",
	Long: `Sets new dates for one task, changing its duration, then previews the
cascade over its dependents. The end date must not land before the start
date. Nothing is written until the preview is confirmed.

Examples:
  ganttwing resize 3f2a --end 2025-10-03
  ganttwing resize 3f2a --start 2025-09-20 --end 2025-09-25`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResize,
}

func init() {
	rootCmd.AddCommand(resizeCmd)

	resizeCmd.Flags().StringVar(&resizeStart, "start", "", "new start date (YYYY-MM-DD)")
	resizeCmd.Flags().StringVar(&resizeEnd, "end", "", "new end date (YYYY-MM-DD)")
	resizeCmd.Flags().BoolVarP(&resizeYes, "yes", "y", false, "apply without the confirmation prompt")
	resizeCmd.Flags().StringVar(&resizeNote, "note", "", "note to store with the change history")
}

func runResize(cmd *cobra.Command, args []string) error {
	if resizeStart == "" && resizeEnd == "" {
		return fmt.Errorf("pass --start, --end or both")
	}

	planStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = planStore.Close() }()

	task, err := resolveTask(planStore, args, "Select a task to resize")
	if err != nil {
		return err
	}

	startDelta, endDelta := 0, 0
	if resizeStart != "" {
		newStart, err := models.ParseDate(resizeStart)
		if err != nil {
			return fmt.Errorf("invalid --start: %w", err)
		}
		startDelta = task.StartDate.DaysUntil(newStart)
	}
	if resizeEnd != "" {
		newEnd, err := models.ParseDate(resizeEnd)
		if err != nil {
			return fmt.Errorf("invalid --end: %w", err)
		}
		endDelta = task.EndDate.DaysUntil(newEnd)
	}

	graph, tasks, _, err := loadGraph(planStore)
	if err != nil {
		return err
	}

	result, err := schedule.PreviewResize(graph, tasks, task.ID, startDelta, endDelta)
	if err != nil {
		return fmt.Errorf("preview resize: %w", err)
	}

	note := resizeNote
	if note == "" {
		note = fmt.Sprintf("resized %q", task.Name)
	}
	return confirmAndApply(planStore, result.Entries(), history.KindResize, note, resizeYes)
}
