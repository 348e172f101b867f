package models

// DateShift is one committed date change from a confirmed cascade preview.
// The store applies a batch of these atomically: all or none, so a partially
// rescheduled plan is never visible.
type DateShift struct {
	TaskID   string `json:"taskId"`
	NewStart Date   `json:"newStart"`
	NewEnd   Date   `json:"newEnd"`
}
