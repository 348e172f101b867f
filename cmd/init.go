/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ganttwing/ganttwing/internal/plan"
	"github.com/ganttwing/ganttwing/internal/telemetry"
	"github.com/ganttwing/ganttwing/internal/ui"
	"github.com/ganttwing/ganttwing/models"
)

var (
	initTemplate string
	initStart    string
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a GanttWing project in the current directory",
	Long: `Creates the project directory (default .ganttwing/) with an empty plan
file and templates directory. With --template, the plan is seeded from a
starter template anchored at --start (default today).

Examples:
  ganttwing init
  ganttwing init --template foundation --start 2025-09-15`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initTemplate, "template", "", "seed the plan from a starter template")
	initCmd.Flags().StringVar(&initStart, "start", "", "project start date for the template (YYYY-MM-DD, default today)")
}

func runInit(cmd *cobra.Command, args []string) error {
	config := GetConfig()

	if err := os.MkdirAll(config.Project.RootDir, 0755); err != nil {
		return fmt.Errorf("create project directory: %w", err)
	}
	templatesDir := filepath.Join(config.Project.RootDir, config.Project.TemplatesDir)
	if err := os.MkdirAll(templatesDir, 0755); err != nil {
		return fmt.Errorf("create templates directory: %w", err)
	}

	planStore, err := GetStore()
	if err != nil {
		return err
	}
	defer func() { _ = planStore.Close() }()

	existing, err := planStore.ListTasks(nil, nil)
	if err != nil {
		return err
	}

	seeded := 0
	if initTemplate != "" {
		if len(existing) > 0 {
			return fmt.Errorf("plan already has %d task(s); refusing to seed from template", len(existing))
		}

		start := models.Today()
		if initStart != "" {
			if start, err = models.ParseDate(initStart); err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
		}

		loader := plan.NewOsLoader(templatesDir)
		tpl, err := loader.Load(initTemplate)
		if err != nil {
			return err
		}
		tasks, deps, err := tpl.Materialize(start, uuid.NewString)
		if err != nil {
			return err
		}

		for _, task := range tasks {
			if _, err := planStore.CreateTask(task); err != nil {
				return fmt.Errorf("create task %q: %w", task.Name, err)
			}
		}
		for _, dep := range deps {
			if err := planStore.AddDependency(dep); err != nil {
				return fmt.Errorf("link %q: %w", tpl.Name, err)
			}
		}
		seeded = len(tasks)
	}

	trackEvent(telemetry.EventPlanInitialized, telemetry.Properties{
		"template":   initTemplate != "",
		"task_count": seeded,
	})

	detail := fmt.Sprintf("plan file: %s", GetPlanFilePath())
	if seeded > 0 {
		detail += fmt.Sprintf("\nseeded %d task(s) from template %q", seeded, initTemplate)
	}
	fmt.Println(ui.RenderSuccessPanel("Project initialized", detail))
	return nil
}
