package models

// DependencyType is the scheduling relationship between a predecessor and a
// successor task.
type DependencyType string

const (
	// FinishToStart: the successor may not start until the predecessor has
	// finished. This is the common case.
	FinishToStart DependencyType = "FS"
	// StartToStart: the successor may not start before the predecessor starts.
	StartToStart DependencyType = "SS"
	// FinishToFinish: the successor may not finish before the predecessor
	// finishes.
	FinishToFinish DependencyType = "FF"
	// StartToFinish: the successor may not finish before the predecessor
	// starts. Rare in practice.
	StartToFinish DependencyType = "SF"
)

// String returns the short form (FS, SS, FF, SF).
func (t DependencyType) String() string {
	return string(t)
}

// IsValid returns true if the type is a known value.
func (t DependencyType) IsValid() bool {
	switch t {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	default:
		return false
	}
}

// Label returns a human-readable name for display.
func (t DependencyType) Label() string {
	switch t {
	case FinishToStart:
		return "finish-to-start"
	case StartToStart:
		return "start-to-start"
	case FinishToFinish:
		return "finish-to-finish"
	case StartToFinish:
		return "start-to-finish"
	default:
		return "unknown"
	}
}

// DependencyTypes returns all valid types.
func DependencyTypes() []DependencyType {
	return []DependencyType{FinishToStart, StartToStart, FinishToFinish, StartToFinish}
}

// Dependency is a directed, typed edge between two tasks. LagDays is a
// signed offset: positive means a mandatory wait after the constraint is
// met, negative means an allowed overlap (lead).
type Dependency struct {
	FromTaskID string         `json:"fromTaskId" yaml:"fromTaskId" toml:"fromTaskId" validate:"required,uuid4"`
	ToTaskID   string         `json:"toTaskId" yaml:"toTaskId" toml:"toTaskId" validate:"required,uuid4,nefield=FromTaskID"`
	Type       DependencyType `json:"type" yaml:"type" toml:"type" validate:"required,oneof=FS SS FF SF"`
	LagDays    int            `json:"lagDays,omitempty" yaml:"lagDays,omitempty" toml:"lagDays,omitempty"`
}
