/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ganttwing/ganttwing/internal/ui"
)

// watchDebounce coalesces the editor write-then-rename bursts into one redraw.
const watchDebounce = 250 * time.Millisecond

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render the Gantt chart whenever the plan file changes",
	Long: `Watches the plan file and redraws the chart on every change, so a
terminal can sit next to an editor or another ganttwing session and stay
current. Stop with Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	planPath := GetPlanFilePath()
	if _, err := os.Stat(planPath); err != nil {
		return fmt.Errorf("plan file %s not found; run 'ganttwing init' first", planPath)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory, not the file: atomic saves replace the inode.
	if err := watcher.Add(filepath.Dir(planPath)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(planPath), err)
	}

	if err := redrawChart(); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	var debounce *time.Timer
	redraw := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(planPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case redraw <- struct{}{}:
				default:
				}
			})
		case <-redraw:
			if err := redrawChart(); err != nil {
				PrintError("failed to redraw chart", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			LogError("watch error", err)
		case <-sigCh:
			fmt.Println()
			return nil
		}
	}
}

func redrawChart() error {
	planStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = planStore.Close() }()

	tasks, err := planStore.ListTasks(nil, nil)
	if err != nil {
		return err
	}

	// Clear screen and home the cursor before redrawing.
	fmt.Print("\033[2J\033[H")
	fmt.Println(ui.StyleHeader.Render("ganttwing watch") +
		ui.StyleSubtle.Render("  "+time.Now().Format(time.Kitchen)))
	chart := &ui.GanttChart{
		Tasks:    tasks,
		DayWidth: GetConfig().UI.DayWidth,
		MaxWidth: ui.TerminalWidth(120),
	}
	fmt.Print(chart.Render())
	return nil
}
