/*
Copyright © 2025 GanttWing Authors
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/ganttwing/ganttwing/internal/history"
	"github.com/ganttwing/ganttwing/internal/schedule"
	"github.com/ganttwing/ganttwing/internal/telemetry"
	"github.com/ganttwing/ganttwing/internal/ui"
	"github.com/ganttwing/ganttwing/models"
	"github.com/ganttwing/ganttwing/store"
)

// loadGraph builds the dependency graph from the store's persisted edges.
func loadGraph(planStore store.PlanStore) (*schedule.Graph, []models.Task, []models.Dependency, error) {
	tasks, err := planStore.ListTasks(nil, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list tasks: %w", err)
	}
	deps, err := planStore.ListDependencies()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("list dependencies: %w", err)
	}
	return schedule.NewGraph(deps), tasks, deps, nil
}

// confirmAndApply previews the cascade, asks for confirmation, then commits
// the shifts atomically and records them in the change history. With
// skipConfirm set (the --yes flag) the preview is printed and applied
// without prompting.
func confirmAndApply(planStore store.PlanStore, entries []schedule.PreviewEntry, kind history.ChangeKind, note string, skipConfirm bool) error {
	if len(entries) == 0 {
		fmt.Println(ui.RenderPreview(entries))
		return nil
	}

	body := ui.RenderPreview(entries) + ui.PreviewSummary(entries)

	if !skipConfirm {
		if !ui.IsInteractive() {
			fmt.Println(body)
			return fmt.Errorf("not a terminal; pass --yes to apply without confirmation")
		}
		accepted, err := ui.RunConfirm("Proposed schedule changes", body)
		if err != nil {
			return fmt.Errorf("confirmation prompt: %w", err)
		}
		if !accepted {
			fmt.Println(ui.StyleSubtle.Render("no changes applied"))
			trackEvent(telemetry.EventCascadeDeclined, telemetry.Properties{"kind": string(kind)})
			return nil
		}
	} else {
		fmt.Println(body)
	}

	shifts := make([]models.DateShift, 0, len(entries))
	for _, e := range entries {
		shifts = append(shifts, models.DateShift{
			TaskID:   e.TaskID,
			NewStart: e.ProposedStart,
			NewEnd:   e.ProposedEnd,
		})
	}

	if _, err := planStore.ApplyShifts(shifts); err != nil {
		return fmt.Errorf("apply shifts: %w", err)
	}

	recordHistory(kind, note, entries)

	direct, cascaded := 0, 0
	for _, e := range entries {
		if e.IsDirect {
			direct++
		} else {
			cascaded++
		}
	}
	if client := telemetryClient(); client != nil {
		telemetry.TrackCascade(client, string(kind), direct, cascaded)
		_ = client.Close()
	}

	fmt.Println(ui.RenderSuccessPanel("Applied",
		fmt.Sprintf("%d task(s) rescheduled (%d pushed by dependencies)", len(entries), cascaded)))
	return nil
}

// recordHistory stores the committed cascade. History failures are reported
// but never roll back an applied reschedule.
func recordHistory(kind history.ChangeKind, note string, entries []schedule.PreviewEntry) {
	h, err := GetHistoryStore()
	if err != nil {
		LogError("history unavailable", err)
		return
	}
	defer func() { _ = h.Close() }()

	histEntries := make([]history.Entry, 0, len(entries))
	for _, e := range entries {
		histEntries = append(histEntries, history.Entry{
			TaskID:    e.TaskID,
			TaskName:  e.TaskName,
			OldStart:  e.OriginalStart,
			OldEnd:    e.OriginalEnd,
			NewStart:  e.ProposedStart,
			NewEnd:    e.ProposedEnd,
			DeltaDays: e.DeltaDays,
			Direct:    e.IsDirect,
		})
	}

	if _, err := h.Record(kind, note, histEntries); err != nil {
		LogError("record history", err)
		return
	}
	if keep := GetConfig().History.Keep; keep > 0 {
		if _, err := h.Purge(keep); err != nil {
			LogError("purge history", err)
		}
	}
}

// telemetryClient builds a client from config and consent state, or nil
// when telemetry is off.
func telemetryClient() telemetry.Client {
	cfg := GetConfig()
	if !cfg.Telemetry.Enabled || cfg.Telemetry.APIKey == "" {
		return nil
	}
	consent, err := telemetry.Load()
	if err != nil || !consent.IsEnabled() {
		return nil
	}
	client, err := telemetry.NewPostHogClient(telemetry.ClientConfig{
		APIKey:   cfg.Telemetry.APIKey,
		Version:  version,
		Config:   consent,
		Endpoint: cfg.Telemetry.Endpoint,
	})
	if err != nil {
		LogError("telemetry init", err)
		return nil
	}
	return client
}

func trackEvent(event string, props telemetry.Properties) {
	client := telemetryClient()
	if client == nil {
		return
	}
	client.Track(event, props)
	if err := client.Close(); err != nil && viperVerbose() {
		fmt.Fprintf(os.Stderr, "[DEBUG] telemetry close: %v\n", err)
	}
}

func viperVerbose() bool {
	return GetConfig().Verbose
}
