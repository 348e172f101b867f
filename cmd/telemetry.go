/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ganttwing/ganttwing/internal/telemetry"
)

// telemetryCmd represents the telemetry command
var telemetryCmd = &cobra.Command{
	Use:   "telemetry [on|off|status]",
	Short: "Manage anonymous usage telemetry",
	Long: `Telemetry is opt-in and anonymous: event names, counts and durations
only, never task names, notes or dates. The consent decision is stored
separately from the project config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTelemetry,
}

func init() {
	rootCmd.AddCommand(telemetryCmd)
}

func runTelemetry(cmd *cobra.Command, args []string) error {
	consent, err := telemetry.Load()
	if err != nil {
		return fmt.Errorf("load telemetry config: %w", err)
	}

	action := "status"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "on":
		consent.Enable()
		if err := consent.Save(); err != nil {
			return err
		}
		fmt.Println("telemetry enabled")
	case "off":
		consent.Disable()
		if err := consent.Save(); err != nil {
			return err
		}
		fmt.Println("telemetry disabled")
	case "status":
		state := "disabled"
		if consent.IsEnabled() {
			state = "enabled"
		}
		fmt.Printf("telemetry: %s\n", state)
		if consent.NeedsConsent() {
			fmt.Println("no choice recorded yet; run 'ganttwing telemetry on' to opt in")
		}
	default:
		return fmt.Errorf("unknown action %q; use on, off or status", action)
	}
	return nil
}
