package scenario

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vtree/internal/demo"
	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vdom"
)

const todoScenario = `root: App
props:
  title: groceries
steps:
  - name: add milk
    action: add
    args: {title: milk}
  - name: add eggs
    action: add
    args: {title: eggs}
  - name: finish milk
    action: toggle
    args: {index: 0}
  - name: only done
    state: {filter: done}
`

func TestParse(t *testing.T) {
	s, err := Parse(strings.NewReader(todoScenario))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if s.Root != "App" || len(s.Steps) != 4 {
		t.Fatalf("scenario = %+v", s)
	}
	want := Step{Name: "finish milk", Action: "toggle", Args: map[string]any{"index": 0}}
	if diff := cmp.Diff(want, s.Steps[2]); diff != "" {
		t.Errorf("step mismatch (-want +got):\n%s", diff)
	}
	if got := s.AttrProps(); len(got) != 1 || got[0].Key != "title" {
		t.Errorf("AttrProps() = %v", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"both state and action", "steps:\n  - name: x\n    state: {a: 1}\n    action: add\n"},
		{"neither", "steps:\n  - name: x\n"},
		{"unknown field", "steps:\n  - name: x\n    stat: {a: 1}\n"},
		{"malformed", "steps:\n  - name: [x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.src))
			var ve *errors.VtreeError
			if !stderrors.As(err, &ve) || ve.Code != "E140" {
				t.Errorf("Parse() error = %v, want E140", err)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	s, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse(empty) error = %v", err)
	}
	if len(s.Steps) != 0 {
		t.Errorf("Steps = %v", s.Steps)
	}
}

func TestLoad_Location(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	src := "steps:\n  - name: ok\n    state: {a: 1}\n  - name: bad\n    colour: red\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	var ve *errors.VtreeError
	if !stderrors.As(err, &ve) {
		t.Fatalf("Load() error = %v", err)
	}
	if ve.Location == nil || ve.Location.Line != 5 || ve.Location.File != path {
		t.Errorf("Location = %+v, want %s:5", ve.Location, path)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want wrapped ErrNotExist", err)
	}
}

func TestRun(t *testing.T) {
	s, err := Parse(strings.NewReader(todoScenario))
	if err != nil {
		t.Fatal(err)
	}

	results, err := s.Run(Options{Root: demo.App, Dispatch: demo.Dispatch})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var steps []string
	for _, r := range results {
		steps = append(steps, r.Step)
	}
	if diff := cmp.Diff([]string{"mount", "add milk", "add eggs", "finish milk", "only done"}, steps); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(results[0].HTML, "<h1>groceries</h1>") {
		t.Errorf("mount HTML = %s", results[0].HTML)
	}
	if results[0].Stats.Mutations() == 0 {
		t.Error("mount should mutate the document")
	}
	last := results[len(results)-1].HTML
	if !strings.Contains(last, "<label>milk</label>") || strings.Contains(last, "<label>eggs</label>") {
		t.Errorf("final HTML = %s", last)
	}
}

func TestRun_FailingStep(t *testing.T) {
	s := &Scenario{Steps: []Step{
		{Name: "fine", State: map[string]any{"draft": "x"}},
		{Name: "bad filter", State: map[string]any{"filter": "someday"}},
		{Name: "never", State: map[string]any{"draft": "y"}},
	}}

	results, err := s.Run(Options{Root: demo.App})
	if len(results) != 2 {
		t.Errorf("results = %d, want 2", len(results))
	}
	var ve *errors.VtreeError
	if !stderrors.As(err, &ve) || ve.Code != "E202" {
		t.Fatalf("Run() error = %v, want E202", err)
	}
	if !strings.Contains(ve.Detail, `"bad filter"`) {
		t.Errorf("Detail = %q", ve.Detail)
	}
	if !stderrors.Is(err, demo.ErrUnknownFilter) {
		t.Error("error should wrap the hook failure")
	}
}

func TestRun_ActionWithoutDispatcher(t *testing.T) {
	s := &Scenario{Steps: []Step{{Name: "add", Action: "add"}}}
	if _, err := s.Run(Options{Root: demo.App}); err == nil {
		t.Error("expected error without dispatcher")
	}
}

func TestRun_NoRoot(t *testing.T) {
	_, err := (&Scenario{}).Run(Options{})
	var ve *errors.VtreeError
	if !stderrors.As(err, &ve) || ve.Code != "E143" {
		t.Errorf("Run() error = %v, want E143", err)
	}
}

func TestRun_ReconcilerOptions(t *testing.T) {
	rec := &countingRecorder{}
	s := &Scenario{Steps: []Step{{Name: "type", State: map[string]any{"draft": "x"}}}}
	if _, err := s.Run(Options{Root: demo.App, Reconciler: []vdom.Option{vdom.WithRecorder(rec)}}); err != nil {
		t.Fatal(err)
	}
	if rec.cycles == 0 || rec.ops == 0 {
		t.Errorf("recorder saw %d cycles, %d ops", rec.cycles, rec.ops)
	}
}

func TestRun_Pages(t *testing.T) {
	s := &Scenario{Steps: []Step{{Name: "type", State: map[string]any{"draft": "x"}}}}
	results, err := s.Run(Options{Root: demo.App, Page: &render.PageData{Title: "Todos"}})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		page := string(r.Page)
		if !strings.HasPrefix(page, "<!DOCTYPE html>") || !strings.Contains(page, "<title>Todos</title>") {
			t.Errorf("%s page = %s", r.Step, page)
		}
	}
	if !strings.Contains(string(results[1].Page), `value="x"`) {
		t.Errorf("page after step should carry the draft: %s", results[1].Page)
	}
}
