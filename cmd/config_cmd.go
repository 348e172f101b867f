/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ganttwing/ganttwing/internal/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Prints the configuration after merging defaults, the config file,
environment variables (prefix GANTTWING_) and flags.`,
	RunE: runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	config := GetConfig()

	source := viper.ConfigFileUsed()
	if source == "" {
		source = "(defaults and environment only)"
	}

	tbl := ui.Table{
		Headers: []string{"Setting", "Value"},
		Rows: [][]string{
			{"config file", source},
			{"project.rootDir", config.Project.RootDir},
			{"project.templatesDir", config.Project.TemplatesDir},
			{"data.file", GetPlanFilePath()},
			{"data.format", config.Data.Format},
			{"history.file", GetHistoryFilePath()},
			{"history.keep", fmt.Sprintf("%d", config.History.Keep)},
			{"ui.dayWidth", fmt.Sprintf("%d", config.UI.DayWidth)},
			{"telemetry.enabled", fmt.Sprintf("%t", config.Telemetry.Enabled)},
		},
	}
	fmt.Print(tbl.Render())
	return nil
}
