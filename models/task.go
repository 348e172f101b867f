package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TaskStatus represents the possible statuses of a schedule task.
type TaskStatus string

const (
	StatusPlanned TaskStatus = "planned"
	StatusActive  TaskStatus = "active"
	StatusDone    TaskStatus = "done"
	StatusOnHold  TaskStatus = "on-hold"
)

// CoreStatuses returns the statuses in their natural workflow order.
func CoreStatuses() []TaskStatus {
	return []TaskStatus{StatusPlanned, StatusActive, StatusDone, StatusOnHold}
}

// Task represents a dated unit of work on the schedule.
// Dates are inclusive: a task starting and ending on the same day has a
// duration of one day.
type Task struct {
	ID        string     `json:"id" yaml:"id" toml:"id" validate:"required,uuid4"`
	Name      string     `json:"name" yaml:"name" toml:"name" validate:"required,min=1,max=255"`
	Trade     string     `json:"trade,omitempty" yaml:"trade,omitempty" toml:"trade,omitempty" validate:"omitempty,max=64"`
	Status    TaskStatus `json:"status" yaml:"status" toml:"status" validate:"required,oneof=planned active done on-hold"`
	StartDate Date       `json:"startDate" yaml:"startDate" toml:"startDate"`
	EndDate   Date       `json:"endDate" yaml:"endDate" toml:"endDate"`
	Notes     string     `json:"notes,omitempty" yaml:"notes,omitempty" toml:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt" yaml:"createdAt" toml:"createdAt" validate:"required"`
	UpdatedAt time.Time  `json:"updatedAt" yaml:"updatedAt" toml:"updatedAt" validate:"required"`
}

// DurationDays returns the inclusive day count of the task interval.
// Degenerate intervals (end before start) are clamped to one day rather
// than yielding a negative duration.
func (t Task) DurationDays() int {
	d := t.StartDate.DaysUntil(t.EndDate) + 1
	if d < 1 {
		return 1
	}
	return d
}

// Plan is the serialized collection of tasks and their dependencies.
type Plan struct {
	Tasks        []Task       `json:"tasks" yaml:"tasks" toml:"tasks" validate:"dive"`
	Dependencies []Dependency `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty" validate:"dive"`
	TotalCount   int          `json:"totalCount" yaml:"totalCount" toml:"totalCount"`
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterStructValidation(validateTaskDates, Task{})
}

// validateTaskDates enforces that a task carries both dates and that the
// interval is not degenerate.
func validateTaskDates(sl validator.StructLevel) {
	task := sl.Current().Interface().(Task)
	if task.StartDate.IsZero() {
		sl.ReportError(task.StartDate, "StartDate", "startDate", "required", "")
		return
	}
	if task.EndDate.IsZero() {
		sl.ReportError(task.EndDate, "EndDate", "endDate", "required", "")
		return
	}
	if task.EndDate.Before(task.StartDate) {
		sl.ReportError(task.EndDate, "EndDate", "endDate", "gtefield", "StartDate")
	}
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		// Safeguard for tests running in isolation before init.
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}

// NewTask creates a task with defaults and fresh timestamps.
func NewTask(id, name string, start, end Date) *Task {
	now := time.Now().UTC()
	return &Task{
		ID:        id,
		Name:      name,
		Status:    StatusPlanned,
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
