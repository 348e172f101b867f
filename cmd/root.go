/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ganttwing/ganttwing/internal/history"
	"github.com/ganttwing/ganttwing/models"
	"github.com/ganttwing/ganttwing/store"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// ErrNoTasksFound is returned when an interactive selection is attempted but no tasks are available.
	ErrNoTasksFound = errors.New("no tasks found matching your criteria")
	// version is the application version.
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ganttwing",
	Short: "GanttWing schedules construction tasks with dependency-aware dates.",
	Long: `GanttWing is a command line Gantt scheduler for small construction projects.
Tasks carry start and end dates; dependencies between them (finish-to-start,
start-to-start, finish-to-finish, start-to-finish) push successor dates
forward automatically when a task moves. Every reschedule is previewed
before it is written and recorded in a local history.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.ganttwing.yaml or ./.ganttwing.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// GetPlanFilePath returns the full path to the plan file.
func GetPlanFilePath() string {
	config := GetConfig()
	if filepath.IsAbs(config.Data.File) {
		return config.Data.File
	}
	return filepath.Join(config.Project.RootDir, config.Data.File)
}

// GetHistoryFilePath returns the full path to the change history database.
func GetHistoryFilePath() string {
	config := GetConfig()
	if filepath.IsAbs(config.History.File) {
		return config.History.File
	}
	return filepath.Join(config.Project.RootDir, config.History.File)
}

// GetStore initializes and returns the plan store using the unified types.AppConfig.
func GetStore() (store.PlanStore, error) {
	s := store.NewFilePlanStore()
	config := GetConfig()

	planFilePath := GetPlanFilePath()

	err := s.Initialize(map[string]string{
		"dataFile":       planFilePath,
		"dataFileFormat": config.Data.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store at %s: %w", planFilePath, err)
	}
	return s, nil
}

// GetHistoryStore opens the change history database.
func GetHistoryStore() (*history.Store, error) {
	h, err := history.NewStore(GetHistoryFilePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return h, nil
}

// selectTaskInteractive presents a prompt to the user to select a task from a list.
// It can be filtered using the provided filter function.
func selectTaskInteractive(planStore store.PlanStore, filterFn func(models.Task) bool, label string) (models.Task, error) {
	tasks, err := planStore.ListTasks(filterFn, nil)
	if err != nil {
		return models.Task{}, fmt.Errorf("failed to list tasks for selection: %w", err)
	}

	if len(tasks) == 0 {
		return models.Task{}, ErrNoTasksFound
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   `> {{ .Name | cyan }} ({{ .StartDate }}..{{ .EndDate }}, {{ .Status }})`,
		Inactive: `  {{ .Name | faint }} ({{ .StartDate }}..{{ .EndDate }}, {{ .Status }})`,
		Selected: `{{ "✔" | green }} {{ .Name | faint }} ({{ .StartDate }})`,
		Details: `
--------- Task Details ----------
{{ "ID:\t" | faint }} {{ .ID }}
{{ "Name:\t" | faint }} {{ .Name }}
{{ "Trade:\t" | faint }} {{ .Trade }}
{{ "Dates:\t" | faint }} {{ .StartDate }}..{{ .EndDate }}
{{ "Status:\t" | faint }} {{ .Status }}`,
	}

	searcher := func(input string, index int) bool {
		task := tasks[index]
		name := strings.ToLower(task.Name)
		input = strings.ToLower(input)
		return strings.Contains(name, input) || strings.Contains(task.ID, input)
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Searcher:  searcher,
	}

	i, _, err := prompt.Run()
	if err != nil {
		return models.Task{}, err // Return error as is (includes promptui.ErrInterrupt)
	}

	return tasks[i], nil
}

// resolveTask turns an ID argument (or prefix) into a task, falling back to
// an interactive picker when no argument is given and stdout is a terminal.
func resolveTask(planStore store.PlanStore, args []string, label string) (models.Task, error) {
	if len(args) > 0 {
		return findTaskByIDOrPrefix(planStore, args[0])
	}
	return selectTaskInteractive(planStore, nil, label)
}

// findTaskByIDOrPrefix resolves a full UUID or an unambiguous prefix.
func findTaskByIDOrPrefix(planStore store.PlanStore, ref string) (models.Task, error) {
	if task, err := planStore.GetTask(ref); err == nil {
		return task, nil
	}

	matches, err := planStore.ListTasks(func(t models.Task) bool {
		return strings.HasPrefix(t.ID, ref)
	}, nil)
	if err != nil {
		return models.Task{}, err
	}
	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("no task matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("task reference %q is ambiguous (%d matches)", ref, len(matches))
	}
}
