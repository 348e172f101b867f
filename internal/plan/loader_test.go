package plan

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/ganttwing/ganttwing/models"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func writeTemplate(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}
}

func TestLoader_LoadAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTemplate(t, fs, "templates/roof.yaml", `
name: roof
description: Roof structure and covering
tasks:
  - name: Trusses
    trade: carpentry
    offsetDays: 0
    durationDays: 4
  - name: Battens
    trade: carpentry
    offsetDays: 4
    durationDays: 2
    dependsOn:
      - task: Trusses
        type: FS
`)
	writeTemplate(t, fs, "templates/notes.txt", "not a template")
	writeTemplate(t, fs, "templates/sub/unnamed.yml", `
tasks:
  - name: Solo
    durationDays: 1
`)

	loader := NewLoader(fs, "templates")
	templates, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(templates))
	}

	byName := map[string]*Template{}
	for _, tpl := range templates {
		byName[tpl.Name] = tpl
	}
	if byName["roof"] == nil || len(byName["roof"].Tasks) != 2 {
		t.Errorf("roof template not loaded correctly: %+v", byName["roof"])
	}
	// Name falls back to the filename.
	if byName["unnamed"] == nil {
		t.Error("expected filename-derived template name 'unnamed'")
	}
}

func TestLoader_LoadAll_MissingDir(t *testing.T) {
	loader := NewLoader(afero.NewMemMapFs(), "does-not-exist")
	templates, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(templates) != 0 {
		t.Errorf("expected no templates, got %d", len(templates))
	}
}

func TestLoader_LoadAll_BadYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeTemplate(t, fs, "templates/bad.yaml", "tasks: [unclosed")

	if _, err := NewLoader(fs, "templates").LoadAll(); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestLoader_Load_FallsBackToBuiltin(t *testing.T) {
	loader := NewLoader(afero.NewMemMapFs(), "templates")

	tpl, err := loader.Load("foundation")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if tpl.Name != "foundation" || len(tpl.Tasks) == 0 {
		t.Errorf("unexpected builtin template: %+v", tpl)
	}

	if _, err := loader.Load("no-such"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("expected not-found error, got %v", err)
	}
}

func TestTemplate_Materialize(t *testing.T) {
	tpl := &Template{
		Name: "demo",
		Tasks: []TemplateTask{
			{Name: "Dig", Trade: "earthworks", OffsetDays: 0, DurationDays: 3},
			{Name: "Pour", Trade: "concrete", OffsetDays: 3, DurationDays: 2,
				DependsOn: []TemplateDep{{Task: "Dig", Type: models.FinishToStart, LagDays: 1}}},
		},
	}

	start := models.NewDate(2024, time.April, 1)
	tasks, deps, err := tpl.Materialize(start, seqIDs())
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if len(tasks) != 2 || len(deps) != 1 {
		t.Fatalf("got %d tasks, %d deps", len(tasks), len(deps))
	}

	if tasks[0].StartDate.String() != "2024-04-01" || tasks[0].EndDate.String() != "2024-04-03" {
		t.Errorf("Dig dates wrong: %s..%s", tasks[0].StartDate, tasks[0].EndDate)
	}
	if tasks[1].StartDate.String() != "2024-04-04" || tasks[1].EndDate.String() != "2024-04-05" {
		t.Errorf("Pour dates wrong: %s..%s", tasks[1].StartDate, tasks[1].EndDate)
	}
	if deps[0].FromTaskID != tasks[0].ID || deps[0].ToTaskID != tasks[1].ID {
		t.Errorf("dependency IDs not resolved: %+v", deps[0])
	}
	if deps[0].LagDays != 1 {
		t.Errorf("lag not carried over: %d", deps[0].LagDays)
	}
}

func TestTemplate_Materialize_DefaultsAndErrors(t *testing.T) {
	start := models.NewDate(2024, time.April, 1)

	// Omitted dependency type defaults to finish-to-start; zero duration
	// becomes a single day.
	tpl := &Template{
		Name: "defaults",
		Tasks: []TemplateTask{
			{Name: "A"},
			{Name: "B", OffsetDays: 1, DependsOn: []TemplateDep{{Task: "A"}}},
		},
	}
	tasks, deps, err := tpl.Materialize(start, seqIDs())
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	if !tasks[0].StartDate.Equal(tasks[0].EndDate) {
		t.Errorf("zero duration should yield a single day task")
	}
	if deps[0].Type != models.FinishToStart {
		t.Errorf("default type = %s, want FS", deps[0].Type)
	}

	bad := []*Template{
		{Name: "empty"},
		{Name: "dup", Tasks: []TemplateTask{{Name: "X"}, {Name: "X"}}},
		{Name: "dangling", Tasks: []TemplateTask{
			{Name: "X", DependsOn: []TemplateDep{{Task: "Missing"}}},
		}},
		{Name: "badtype", Tasks: []TemplateTask{
			{Name: "X"},
			{Name: "Y", DependsOn: []TemplateDep{{Task: "X", Type: "XX"}}},
		}},
	}
	for _, tpl := range bad {
		if _, _, err := tpl.Materialize(start, seqIDs()); err == nil {
			t.Errorf("template %q: expected error", tpl.Name)
		}
	}
}

func TestBuiltin_Materializes(t *testing.T) {
	for _, tpl := range Builtin() {
		tasks, deps, err := tpl.Materialize(models.NewDate(2024, time.May, 6), seqIDs())
		if err != nil {
			t.Fatalf("builtin %q: %v", tpl.Name, err)
		}
		if len(tasks) == 0 {
			t.Errorf("builtin %q produced no tasks", tpl.Name)
		}
		for _, d := range deps {
			if !d.Type.IsValid() {
				t.Errorf("builtin %q has invalid dependency type %q", tpl.Name, d.Type)
			}
		}
	}
}
