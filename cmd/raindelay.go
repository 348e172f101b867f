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
	rainFrom string
	rainDays int
	rainYes  bool
	rainNote string
)

// rainDelayCmd represents the rain-delay command
var rainDelayCmd = &cobra.Command{
	Use:   "rain-delay",
	Short: "Push every task starting on or after a date by N days",
	Long: `Weather stoppages move whole stretches of the schedule at once: every
task whose start date is on or after --from is pushed out by --days, and
the cascade then settles any dependency constraints that the bulk move
disturbed. Tasks already underway before the cutoff only move if a
dependency forces them to.

Examples:
  ganttwing rain-delay --from 2025-09-22 --days 3
  ganttwing rain-delay --from 2025-09-22 --days 3 --yes`,
	RunE: runRainDelay,
}

func init() {
	rootCmd.AddCommand(rainDelayCmd)

	rainDelayCmd.Flags().StringVar(&rainFrom, "from", "", "cutoff date (YYYY-MM-DD); tasks starting on or after it are delayed")
	rainDelayCmd.Flags().IntVar(&rainDays, "days", 0, "days of delay (must be positive)")
	rainDelayCmd.Flags().BoolVarP(&rainYes, "yes", "y", false, "apply without the confirmation prompt")
	rainDelayCmd.Flags().StringVar(&rainNote, "note", "", "note to store with the change history")
	_ = rainDelayCmd.MarkFlagRequired("from")
	_ = rainDelayCmd.MarkFlagRequired("days")
}

func runRainDelay(cmd *cobra.Command, args []string) error {
	if rainDays <= 0 {
		return fmt.Errorf("--days must be positive")
	}

	cutoff, err := models.ParseDate(rainFrom)
	if err != nil {
		return fmt.Errorf("invalid --from: %w", err)
	}

	planStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = planStore.Close() }()

	_, tasks, deps, err := loadGraph(planStore)
	if err != nil {
		return err
	}

	entries := schedule.ApplyRainDelay(tasks, deps, cutoff, rainDays)
	if len(entries) == 0 {
		fmt.Println("no tasks start on or after", cutoff)
		return nil
	}

	note := rainNote
	if note == "" {
		note = fmt.Sprintf("rain delay: +%d day(s) from %s", rainDays, cutoff)
	}
	return confirmAndApply(planStore, entries, history.KindRainDelay, note, rainYes)
}
