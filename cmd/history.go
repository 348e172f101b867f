/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ganttwing/ganttwing/internal/history"
	"github.com/ganttwing/ganttwing/internal/ui"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past reschedules",
	Long: `Shows the change history, newest first. Each confirmed shift, resize or
rain delay is one change set; 'history show <id>' lists the per-task
date changes of a set.`,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <set-id>",
	Short: "Show the per-task changes of one change set",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum change sets to list (0 = all)")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	h, err := GetHistoryStore()
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	sets, err := h.List(historyLimit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	if len(sets) == 0 {
		fmt.Println("no recorded changes")
		return nil
	}

	tbl := ui.Table{
		Headers:  []string{"ID", "When", "Kind", "Tasks", "Note"},
		MaxWidth: 40,
	}
	for _, set := range sets {
		tbl.Rows = append(tbl.Rows, []string{
			ui.TruncateID(set.ID),
			set.CreatedAt.Local().Format(time.DateTime),
			string(set.Kind),
			fmt.Sprintf("%d", set.EntryCount),
			set.Note,
		})
	}
	fmt.Print(tbl.Render())
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	h, err := GetHistoryStore()
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	setID, err := resolveSetID(h, args[0])
	if err != nil {
		return err
	}

	entries, err := h.Entries(setID)
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("no change set matches %q", args[0])
	}

	tbl := ui.Table{
		Headers:  []string{"Task", "Old", "New", "Delta", ""},
		MaxWidth: 30,
	}
	for _, e := range entries {
		marker := ""
		if e.Direct {
			marker = "edited"
		}
		tbl.Rows = append(tbl.Rows, []string{
			e.TaskName,
			fmt.Sprintf("%s..%s", e.OldStart, e.OldEnd),
			fmt.Sprintf("%s..%s", e.NewStart, e.NewEnd),
			ui.FormatDelta(e.DeltaDays),
			marker,
		})
	}
	fmt.Print(tbl.Render())
	return nil
}

// resolveSetID expands an ID prefix against the recorded change sets.
func resolveSetID(h *history.Store, ref string) (string, error) {
	sets, err := h.List(0)
	if err != nil {
		return "", err
	}
	var match string
	for _, set := range sets {
		if set.ID == ref {
			return ref, nil
		}
		if len(ref) >= 4 && len(set.ID) >= len(ref) && set.ID[:len(ref)] == ref {
			if match != "" {
				return "", fmt.Errorf("change set reference %q is ambiguous", ref)
			}
			match = set.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no change set matches %q", ref)
	}
	return match, nil
}
