// Package plan loads starter plan templates: small YAML files describing
// tasks by day offsets that materialize into a dated plan.
package plan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"

	"github.com/ganttwing/ganttwing/models"
)

// DefaultTemplatesDir is the default directory for template files relative
// to the project root dir.
const DefaultTemplatesDir = "templates"

// TemplateDep references another template task by name.
type TemplateDep struct {
	Task    string                `yaml:"task"`
	Type    models.DependencyType `yaml:"type"`
	LagDays int                   `yaml:"lagDays"`
}

// TemplateTask describes one task relative to the project start date.
type TemplateTask struct {
	Name         string        `yaml:"name"`
	Trade        string        `yaml:"trade"`
	OffsetDays   int           `yaml:"offsetDays"`
	DurationDays int           `yaml:"durationDays"`
	DependsOn    []TemplateDep `yaml:"dependsOn"`
}

// Template is a named starter plan.
type Template struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Tasks       []TemplateTask `yaml:"tasks"`
}

// Loader scans and loads template files from the configured directory.
// It uses an afero.Fs interface for filesystem operations, enabling easy
// testing with in-memory filesystems.
type Loader struct {
	fs      afero.Fs
	baseDir string
}

// NewLoader creates a loader using the provided filesystem.
// Use afero.NewOsFs() for real filesystem operations, or
// afero.NewMemMapFs() for testing.
func NewLoader(fs afero.Fs, baseDir string) *Loader {
	return &Loader{fs: fs, baseDir: baseDir}
}

// NewOsLoader creates a Loader using the real operating system filesystem.
func NewOsLoader(baseDir string) *Loader {
	return NewLoader(afero.NewOsFs(), baseDir)
}

// LoadAll loads every .yaml/.yml template in the directory, recursively.
// A missing directory yields an empty slice, not an error.
func (l *Loader) LoadAll() ([]*Template, error) {
	exists, err := afero.DirExists(l.fs, l.baseDir)
	if err != nil {
		return nil, fmt.Errorf("check templates directory: %w", err)
	}
	if !exists {
		return []*Template{}, nil
	}

	var templates []*Template
	err = afero.Walk(l.fs, l.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(info.Name()))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		tpl, err := l.loadFile(path)
		if err != nil {
			return fmt.Errorf("load template %s: %w", path, err)
		}
		templates = append(templates, tpl)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// Load returns the template with the given name, searching files first and
// built-ins second.
func (l *Loader) Load(name string) (*Template, error) {
	templates, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, tpl := range templates {
		if tpl.Name == name {
			return tpl, nil
		}
	}
	for _, tpl := range Builtin() {
		if tpl.Name == name {
			return tpl, nil
		}
	}
	return nil, fmt.Errorf("template %q not found", name)
}

func (l *Loader) loadFile(path string) (*Template, error) {
	data, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, err
	}
	var tpl Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if tpl.Name == "" {
		tpl.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &tpl, nil
}

// Materialize turns the template into concrete tasks and dependencies,
// anchored at the given project start date. Task IDs are generated; the
// template's name references are resolved against them.
func (t *Template) Materialize(start models.Date, newID func() string) ([]models.Task, []models.Dependency, error) {
	if len(t.Tasks) == 0 {
		return nil, nil, fmt.Errorf("template %q has no tasks", t.Name)
	}

	idByName := make(map[string]string, len(t.Tasks))
	tasks := make([]models.Task, 0, len(t.Tasks))
	for _, tt := range t.Tasks {
		if tt.Name == "" {
			return nil, nil, fmt.Errorf("template %q: task with empty name", t.Name)
		}
		if _, dup := idByName[tt.Name]; dup {
			return nil, nil, fmt.Errorf("template %q: duplicate task name %q", t.Name, tt.Name)
		}
		duration := tt.DurationDays
		if duration < 1 {
			duration = 1
		}
		taskStart := start.AddDays(tt.OffsetDays)
		task := models.NewTask(newID(), tt.Name, taskStart, taskStart.AddDays(duration-1))
		task.Trade = tt.Trade
		idByName[tt.Name] = task.ID
		tasks = append(tasks, *task)
	}

	var deps []models.Dependency
	for _, tt := range t.Tasks {
		for _, d := range tt.DependsOn {
			fromID, ok := idByName[d.Task]
			if !ok {
				return nil, nil, fmt.Errorf("template %q: task %q depends on unknown task %q", t.Name, tt.Name, d.Task)
			}
			typ := d.Type
			if typ == "" {
				typ = models.FinishToStart
			}
			if !typ.IsValid() {
				return nil, nil, fmt.Errorf("template %q: unknown dependency type %q", t.Name, d.Type)
			}
			deps = append(deps, models.Dependency{
				FromTaskID: fromID,
				ToTaskID:   idByName[tt.Name],
				Type:       typ,
				LagDays:    d.LagDays,
			})
		}
	}

	return tasks, deps, nil
}

// Builtin returns the templates compiled into the binary, available without
// any template files on disk.
func Builtin() []*Template {
	return []*Template{
		{
			Name:        "foundation",
			Description: "Groundwork through slab pour for a small residential build",
			Tasks: []TemplateTask{
				{Name: "Site clearing", Trade: "earthworks", OffsetDays: 0, DurationDays: 3},
				{Name: "Excavation", Trade: "earthworks", OffsetDays: 3, DurationDays: 4,
					DependsOn: []TemplateDep{{Task: "Site clearing", Type: models.FinishToStart}}},
				{Name: "Formwork", Trade: "concrete", OffsetDays: 7, DurationDays: 3,
					DependsOn: []TemplateDep{{Task: "Excavation", Type: models.FinishToStart}}},
				{Name: "Rebar placement", Trade: "concrete", OffsetDays: 8, DurationDays: 3,
					DependsOn: []TemplateDep{{Task: "Formwork", Type: models.StartToStart, LagDays: 1}}},
				{Name: "Slab pour", Trade: "concrete", OffsetDays: 11, DurationDays: 1,
					DependsOn: []TemplateDep{
						{Task: "Formwork", Type: models.FinishToStart},
						{Task: "Rebar placement", Type: models.FinishToStart},
					}},
				{Name: "Curing", Trade: "concrete", OffsetDays: 12, DurationDays: 7,
					DependsOn: []TemplateDep{{Task: "Slab pour", Type: models.FinishToStart}}},
			},
		},
	}
}
