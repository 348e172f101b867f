package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	yaml "gopkg.in/yaml.v3"

	"github.com/ganttwing/ganttwing/internal/schedule"
	"github.com/ganttwing/ganttwing/models"
	"github.com/ganttwing/ganttwing/types"
)

const (
	defaultDataFile   = "plan.json"
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
	checksumSuffix    = ".checksum"
)

// FilePlanStore implements PlanStore on a single plan file. It supports
// JSON, YAML and TOML formats, uses file-level locking so concurrent
// invocations serialize, and keeps a SHA-256 checksum sidecar to detect
// corruption. Every mutating operation reloads from disk first, so the
// in-memory state never outlives the lock.
type FilePlanStore struct {
	filePath string
	tasks    map[string]models.Task
	deps     []models.Dependency
	flk      *flock.Flock
	format   string
}

// NewFilePlanStore creates a new instance. Initialize must be called before use.
func NewFilePlanStore() *FilePlanStore {
	return &FilePlanStore{
		tasks: make(map[string]models.Task),
	}
}

// Initialize configures the store. It expects a 'dataFile' path and an
// optional 'dataFileFormat' (json, yaml or toml), creates the parent
// directory and the file if missing, and loads the existing plan.
func (s *FilePlanStore) Initialize(config map[string]string) error {
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	if s.filePath == defaultDataFile && s.format != formatJSON {
		ext := filepath.Ext(s.filePath)
		s.filePath = strings.TrimSuffix(s.filePath, ext) + "." + s.format
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	s.flk = flock.New(s.filePath)

	locked, err := s.flk.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire initial lock for %s: %w", s.filePath, err)
	}
	if !locked {
		// Another process holds the lock; block until initialization can
		// complete.
		if err := s.flk.Lock(); err != nil {
			return fmt.Errorf("failed to acquire blocking initial lock for %s: %w", s.filePath, err)
		}
	}
	defer func() { _ = s.flk.Unlock() }()

	s.tasks = make(map[string]models.Task)
	s.deps = nil
	return s.loadInternal()
}

// calculateChecksum computes the SHA-256 checksum of the given data.
func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data) // Write never returns an error
	return hex.EncodeToString(hasher.Sum(nil))
}

// loadInternal reads the plan file, verifies the checksum, and unmarshals.
// Assumes the file lock is held.
func (s *FilePlanStore) loadInternal() error {
	checksumFilePath := s.filePath + checksumSuffix

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.tasks = make(map[string]models.Task)
			s.deps = nil
			_ = os.Remove(checksumFilePath)
			f, createErr := os.OpenFile(s.filePath, os.O_CREATE|os.O_RDWR, 0o644)
			if createErr != nil {
				return fmt.Errorf("failed to create plan file %s: %w", s.filePath, createErr)
			}
			_ = f.Close()
			if err := os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644); err != nil {
				fmt.Printf("Warning: could not write initial checksum file %s: %v\n", checksumFilePath, err)
			}
			return nil
		}
		return fmt.Errorf("failed to read plan file %s: %w", s.filePath, err)
	}

	if _, err := os.Stat(checksumFilePath); err == nil {
		expectedChecksumBytes, readErr := os.ReadFile(checksumFilePath)
		if readErr != nil {
			return fmt.Errorf("failed to read checksum file %s: %w", checksumFilePath, readErr)
		}
		expectedChecksum := strings.TrimSpace(string(expectedChecksumBytes))
		actualChecksum := calculateChecksum(data)
		if actualChecksum != expectedChecksum {
			return fmt.Errorf("checksum mismatch for %s - expected %s, got %s - file is corrupt or tampered", s.filePath, expectedChecksum, actualChecksum)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking checksum file %s: %w", checksumFilePath, err)
	}
	// A missing checksum file is tolerated: the data may predate checksums,
	// and the next save creates one.

	if len(data) == 0 {
		_ = os.WriteFile(checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644)
		s.tasks = make(map[string]models.Task)
		s.deps = nil
		return nil
	}

	var plan models.Plan
	switch s.format {
	case formatJSON:
		if err := json.Unmarshal(data, &plan); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from %s: %w", s.filePath, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from %s: %w", s.filePath, err)
		}
	case formatTOML:
		if err := toml.Unmarshal(data, &plan); err != nil {
			return fmt.Errorf("failed to unmarshal TOML from %s: %w", s.filePath, err)
		}
	default:
		return fmt.Errorf("unsupported data format for loading: %s", s.format)
	}

	s.tasks = make(map[string]models.Task, len(plan.Tasks))
	for _, task := range plan.Tasks {
		s.tasks[task.ID] = task
	}
	s.deps = plan.Dependencies
	return nil
}

// saveInternal writes the plan to disk atomically, then its checksum.
// Assumes the file lock is held.
func (s *FilePlanStore) saveInternal() error {
	plan := models.Plan{
		Tasks:        make([]models.Task, 0, len(s.tasks)),
		Dependencies: s.deps,
		TotalCount:   len(s.tasks),
	}
	for _, task := range s.tasks {
		plan.Tasks = append(plan.Tasks, task)
	}
	// Stable file output keeps diffs readable.
	sort.Slice(plan.Tasks, func(i, j int) bool {
		if !plan.Tasks[i].StartDate.Equal(plan.Tasks[j].StartDate) {
			return plan.Tasks[i].StartDate.Before(plan.Tasks[j].StartDate)
		}
		return plan.Tasks[i].ID < plan.Tasks[j].ID
	})

	var marshaledData []byte
	var err error

	switch s.format {
	case formatJSON:
		marshaledData, err = json.MarshalIndent(plan, "", "  ")
	case formatYAML:
		marshaledData, err = yaml.Marshal(plan)
	case formatTOML:
		buf := new(bytes.Buffer)
		if encodeErr := toml.NewEncoder(buf).Encode(plan); encodeErr == nil {
			marshaledData = buf.Bytes()
		} else {
			err = fmt.Errorf("failed to marshal TOML: %w", encodeErr)
		}
	default:
		return fmt.Errorf("unsupported data format for saving: %s", s.format)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal plan to %s: %w", s.format, err)
	}

	tempFilePath := s.filePath + ".tmp"
	checksumFilePath := s.filePath + checksumSuffix
	tempChecksumFilePath := checksumFilePath + ".tmp"

	defer func() { _ = os.Remove(tempFilePath) }()
	defer func() { _ = os.Remove(tempChecksumFilePath) }()

	if err := os.WriteFile(tempFilePath, marshaledData, 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary plan file %s: %w", tempFilePath, err)
	}
	if err := os.WriteFile(tempChecksumFilePath, []byte(calculateChecksum(marshaledData)), 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary checksum file %s: %w", tempChecksumFilePath, err)
	}

	if err := os.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary plan file %s to %s: %w", tempFilePath, s.filePath, err)
	}
	if err := os.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		return fmt.Errorf("CRITICAL: plan file %s updated, but failed to update checksum file %s: %w - store may be inconsistent", s.filePath, checksumFilePath, err)
	}

	return nil
}

// generateID creates a new universally unique identifier string.
func generateID() string {
	return uuid.NewString()
}

// CreateTask adds a new task to the plan. An empty ID is filled with a
// generated UUID; a provided ID must be unique.
func (s *FilePlanStore) CreateTask(task models.Task) (models.Task, error) {
	if err := s.flk.Lock(); err != nil {
		return models.Task{}, fmt.Errorf("could not lock file for create: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return models.Task{}, fmt.Errorf("failed to reload plan before create: %w", err)
	}

	if task.ID == "" {
		task.ID = generateID()
	} else if _, exists := s.tasks[task.ID]; exists {
		return models.Task{}, fmt.Errorf("task with ID '%s' already exists", task.ID)
	}

	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = models.StatusPlanned
	}

	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, fmt.Errorf("validation failed for new task: %w", err)
	}

	s.tasks[task.ID] = task

	if err := s.saveInternal(); err != nil {
		_ = s.loadInternal() // best-effort rollback to on-disk state
		return models.Task{}, fmt.Errorf("failed to save new task: %w", err)
	}

	return task, nil
}

// GetTask retrieves a task by its unique identifier.
func (s *FilePlanStore) GetTask(id string) (models.Task, error) {
	if err := s.flk.Lock(); err != nil {
		return models.Task{}, fmt.Errorf("failed to acquire lock for GetTask: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return models.Task{}, fmt.Errorf("failed to load plan for GetTask: %w", err)
	}

	task, ok := s.tasks[id]
	if !ok {
		return models.Task{}, fmt.Errorf("task %s: %w", id, types.ErrTaskNotFound)
	}
	return task, nil
}

// UpdateTask applies the non-nil fields of update to an existing task.
func (s *FilePlanStore) UpdateTask(id string, update TaskUpdate) (models.Task, error) {
	if err := s.flk.Lock(); err != nil {
		return models.Task{}, fmt.Errorf("could not lock file for update: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return models.Task{}, fmt.Errorf("failed to reload plan before update: %w", err)
	}

	task, exists := s.tasks[id]
	if !exists {
		return models.Task{}, fmt.Errorf("task %s: %w", id, types.ErrTaskNotFound)
	}
	originalTask := task

	if update.Name != nil {
		task.Name = *update.Name
	}
	if update.Trade != nil {
		task.Trade = *update.Trade
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.Notes != nil {
		task.Notes = *update.Notes
	}
	if update.StartDate != nil {
		task.StartDate = *update.StartDate
	}
	if update.EndDate != nil {
		task.EndDate = *update.EndDate
	}
	task.UpdatedAt = time.Now().UTC()

	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, fmt.Errorf("validation failed for updated task: %w", err)
	}

	s.tasks[id] = task

	if err := s.saveInternal(); err != nil {
		s.tasks[id] = originalTask
		return models.Task{}, fmt.Errorf("failed to save updated task: %w", err)
	}

	return task, nil
}

// DeleteTask removes a task and every dependency edge that references it.
func (s *FilePlanStore) DeleteTask(id string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock file for delete: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return fmt.Errorf("failed to reload plan before delete: %w", err)
	}

	if _, exists := s.tasks[id]; !exists {
		return fmt.Errorf("task %s: %w", id, types.ErrTaskNotFound)
	}

	delete(s.tasks, id)

	kept := s.deps[:0]
	for _, d := range s.deps {
		if d.FromTaskID != id && d.ToTaskID != id {
			kept = append(kept, d)
		}
	}
	s.deps = kept

	if err := s.saveInternal(); err != nil {
		_ = s.loadInternal()
		return fmt.Errorf("failed to save after deleting task: %w", err)
	}

	return nil
}

// ListTasks retrieves tasks, optionally filtered and sorted. With a nil
// sortFn, tasks come back ordered by start date then ID.
func (s *FilePlanStore) ListTasks(filterFn func(models.Task) bool, sortFn func([]models.Task)) ([]models.Task, error) {
	if err := s.flk.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock for ListTasks: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return nil, fmt.Errorf("failed to load plan for ListTasks: %w", err)
	}

	taskList := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if filterFn == nil || filterFn(task) {
			taskList = append(taskList, task)
		}
	}

	if sortFn != nil {
		sortFn(taskList)
	} else {
		sort.Slice(taskList, func(i, j int) bool {
			if !taskList[i].StartDate.Equal(taskList[j].StartDate) {
				return taskList[i].StartDate.Before(taskList[j].StartDate)
			}
			return taskList[i].ID < taskList[j].ID
		})
	}

	return taskList, nil
}

// AddDependency inserts a typed edge between two existing tasks. The cycle
// guard runs before insertion: a rejected edge never touches the plan.
func (s *FilePlanStore) AddDependency(dep models.Dependency) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock file for dependency create: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return fmt.Errorf("failed to reload plan before dependency create: %w", err)
	}

	if _, ok := s.tasks[dep.FromTaskID]; !ok {
		return fmt.Errorf("predecessor %s: %w", dep.FromTaskID, types.ErrTaskNotFound)
	}
	if _, ok := s.tasks[dep.ToTaskID]; !ok {
		return fmt.Errorf("successor %s: %w", dep.ToTaskID, types.ErrTaskNotFound)
	}
	if err := models.ValidateStruct(dep); err != nil {
		return fmt.Errorf("validation failed for new dependency: %w", err)
	}

	g := schedule.NewGraph(s.deps)
	if err := g.AddEdge(dep); err != nil {
		return err
	}

	s.deps = append(s.deps, dep)

	if err := s.saveInternal(); err != nil {
		_ = s.loadInternal()
		return fmt.Errorf("failed to save new dependency: %w", err)
	}

	return nil
}

// RemoveDependency deletes the edge from -> to.
func (s *FilePlanStore) RemoveDependency(fromTaskID, toTaskID string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock file for dependency delete: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return fmt.Errorf("failed to reload plan before dependency delete: %w", err)
	}

	found := false
	kept := s.deps[:0]
	for _, d := range s.deps {
		if d.FromTaskID == fromTaskID && d.ToTaskID == toTaskID {
			found = true
			continue
		}
		kept = append(kept, d)
	}
	if !found {
		return fmt.Errorf("edge %s -> %s: %w", fromTaskID, toTaskID, types.ErrDependencyNotFound)
	}
	s.deps = kept

	if err := s.saveInternal(); err != nil {
		_ = s.loadInternal()
		return fmt.Errorf("failed to save after removing dependency: %w", err)
	}

	return nil
}

// ListDependencies returns all edges of the plan.
func (s *FilePlanStore) ListDependencies() ([]models.Dependency, error) {
	if err := s.flk.Lock(); err != nil {
		return nil, fmt.Errorf("failed to acquire lock for ListDependencies: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return nil, fmt.Errorf("failed to load plan for ListDependencies: %w", err)
	}

	deps := make([]models.Dependency, len(s.deps))
	copy(deps, s.deps)
	return deps, nil
}

// ApplyShifts commits a confirmed cascade as a single batch. Every
// referenced task must exist and every shifted interval must stay valid
// before anything is written; a failure leaves the plan untouched.
func (s *FilePlanStore) ApplyShifts(shifts []models.DateShift) ([]models.Task, error) {
	if err := s.flk.Lock(); err != nil {
		return nil, fmt.Errorf("could not lock file for shift commit: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	if err := s.loadInternal(); err != nil {
		return nil, fmt.Errorf("failed to reload plan before shift commit: %w", err)
	}

	// Validate the whole batch before mutating anything.
	for _, shift := range shifts {
		if _, ok := s.tasks[shift.TaskID]; !ok {
			return nil, fmt.Errorf("task %s: %w", shift.TaskID, types.ErrTaskNotFound)
		}
		if shift.NewEnd.Before(shift.NewStart) {
			return nil, fmt.Errorf("task %s: %w", shift.TaskID, types.ErrInvalidInterval)
		}
	}

	now := time.Now().UTC()
	updated := make([]models.Task, 0, len(shifts))
	for _, shift := range shifts {
		task := s.tasks[shift.TaskID]
		task.StartDate = shift.NewStart
		task.EndDate = shift.NewEnd
		task.UpdatedAt = now
		s.tasks[shift.TaskID] = task
		updated = append(updated, task)
	}

	if err := s.saveInternal(); err != nil {
		_ = s.loadInternal() // revert to on-disk state: nothing was committed
		return nil, fmt.Errorf("failed to save shifted tasks: %w", err)
	}

	return updated, nil
}

// Backup copies the current plan data to the destination path.
func (s *FilePlanStore) Backup(destinationPath string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for backup: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	input, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read source file %s for backup: %w", s.filePath, err)
	}
	if err = os.WriteFile(destinationPath, input, 0o644); err != nil {
		return fmt.Errorf("failed to write backup file to %s: %w", destinationPath, err)
	}
	return nil
}

// Restore replaces the current plan data with the file at sourcePath. The
// stale checksum is removed; a new one is generated on the next save.
func (s *FilePlanStore) Restore(sourcePath string) error {
	if err := s.flk.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock for restore: %w", err)
	}
	defer func() { _ = s.flk.Unlock() }()

	sourceData, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to read source backup file %s: %w", sourcePath, err)
	}

	tempFilePath := s.filePath + ".tmp_restore"
	defer func() { _ = os.Remove(tempFilePath) }()

	if err = os.WriteFile(tempFilePath, sourceData, 0o644); err != nil {
		return fmt.Errorf("failed to write restored data to temporary file %s: %w", tempFilePath, err)
	}
	if err = os.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to atomically replace file %s with restored data: %w", s.filePath, err)
	}

	_ = os.Remove(s.filePath + checksumSuffix)

	return s.loadInternal()
}

// Close releases the file lock. flock.Unlock is idempotent.
func (s *FilePlanStore) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
