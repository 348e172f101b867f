package schedule

import "github.com/ganttwing/ganttwing/models"

// interval is a task's effective dates during propagation.
type interval struct {
	start models.Date
	end   models.Date
}

func (iv interval) shift(days int) interval {
	return interval{start: iv.start.AddDays(days), end: iv.end.AddDays(days)}
}

// constraintShift returns the number of days the edge forces its successor
// to move, given the predecessor's effective (possibly already shifted)
// dates and the successor's current dates. Zero means the constraint is
// already satisfied.
//
// Propagation is delay-only: a predecessor moving earlier never pulls a
// successor back, even when lag or lead would geometrically allow it. The
// successor is always translated as a whole, so its duration is preserved.
func constraintShift(dep models.Dependency, source, target interval) int {
	var shortfall int
	switch dep.Type {
	case models.FinishToStart:
		// Successor may start the day after the predecessor finishes,
		// offset by lag (negative lag permits overlap).
		minStart := source.end.AddDays(1 + dep.LagDays)
		shortfall = target.start.DaysUntil(minStart)
	case models.StartToStart:
		minStart := source.start.AddDays(dep.LagDays)
		shortfall = target.start.DaysUntil(minStart)
	case models.FinishToFinish:
		minEnd := source.end.AddDays(dep.LagDays)
		shortfall = target.end.DaysUntil(minEnd)
	case models.StartToFinish:
		minEnd := source.start.AddDays(dep.LagDays)
		shortfall = target.end.DaysUntil(minEnd)
	default:
		return 0
	}
	if shortfall <= 0 {
		return 0
	}
	return shortfall
}
