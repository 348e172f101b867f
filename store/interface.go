package store

import "github.com/ganttwing/ganttwing/models"

// TaskUpdate carries optional field changes for UpdateTask. Nil fields are
// left untouched.
type TaskUpdate struct {
	Name      *string
	Trade     *string
	Status    *models.TaskStatus
	Notes     *string
	StartDate *models.Date
	EndDate   *models.Date
}

/// PlanStore defines the interface for plan persistence: the tasks, their
// dependency edges, and the atomic commit point for confirmed cascades.
type PlanStore interface {
	// Initialize configures the store with backend-specific settings such
	// as file path and data format. It must be called before any other
	// operation.
	Initialize(config map[string]string) error

	// CreateTask adds a new task to the plan. An empty ID is filled with a
	// generated UUID. It returns the stored task.
	CreateTask(task models.Task) (models.Task, error)

	// GetTask retrieves a task by its unique identifier.
	GetTask(id string) (models.Task, error)

	// UpdateTask applies the non-nil fields of update to an existing task
	// and returns the result.
	UpdateTask(id string, update TaskUpdate) (models.Task, error)

	// DeleteTask removes a task. Dependency edges referencing the task in
	// either direction are removed with it.
	DeleteTask(id string) error

	// ListTasks retrieves tasks, optionally filtered and sorted.
	// A nil filterFn selects everything; a nil sortFn returns tasks sorted
	// by start date.
	ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task)) ([]models.Task, error)

	// AddDependency inserts a typed edge between two existing tasks.
	// Self-dependencies, duplicates and edges that would close a cycle are
	// rejected with sentinel errors; the caller surfaces the rejection.
	AddDependency(dep models.Dependency) error

	// RemoveDependency deletes the edge from -> to.
	RemoveDependency(fromTaskID, toTaskID string) error

	// ListDependencies returns all edges of the plan.
	ListDependencies() ([]models.Dependency, error)

	// ApplyShifts commits a confirmed cascade preview as one atomic batch:
	// either every shift is applied and persisted, or none are. It returns
	// the updated tasks.
	ApplyShifts(shifts []models.DateShift) ([]models.Task, error)

	// Backup copies the current plan data to the destination path.
	Backup(destinationPath string) error

	// Restore replaces the current plan data with the file at sourcePath.
	Restore(sourcePath string) error

	// Close releases resources held by the store, such as file locks.
	Close() error
}
