package telemetry

// Event names. Events carry counts and durations only, never task names,
// notes or dates.
const (
	EventCommandExecuted = "command_executed"
	EventCascadeApplied  = "cascade_applied"
	EventCascadeDeclined = "cascade_declined"
	EventRainDelay       = "rain_delay_applied"
	EventPlanInitialized = "plan_initialized"
)

// TrackCommand records one CLI invocation.
func TrackCommand(c Client, command string, durationMs int64, success bool) {
	if c == nil {
		return
	}
	c.Track(EventCommandExecuted, Properties{
		"command":     command,
		"duration_ms": durationMs,
		"success":     success,
	})
}

// TrackCascade records a confirmed reschedule: how many tasks were edited
// directly and how many were pushed by dependencies.
func TrackCascade(c Client, kind string, directCount, cascadedCount int) {
	if c == nil {
		return
	}
	c.Track(EventCascadeApplied, Properties{
		"kind":           kind,
		"direct_count":   directCount,
		"cascaded_count": cascadedCount,
	})
}
