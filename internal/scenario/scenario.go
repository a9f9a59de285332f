// Package scenario replays a YAML list of state changes against a mounted
// component and records the markup and operation counts after each step.
//
//	root: App
//	props:
//	  title: groceries
//	steps:
//	  - name: add milk
//	    action: add
//	    args: {title: milk}
//	  - name: show done
//	    state: {filter: done}
package scenario

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Scenario is a decoded scenario file.
type Scenario struct {
	// Root overrides the configured root component.
	Root string `yaml:"root,omitempty"`

	// Props are passed to the root component.
	Props map[string]any `yaml:"props,omitempty"`

	Steps []Step `yaml:"steps"`
}

// Step is one change. Exactly one of State and Action is set.
type Step struct {
	Name   string         `yaml:"name"`
	State  map[string]any `yaml:"state,omitempty"`
	Action string         `yaml:"action,omitempty"`
	Args   map[string]any `yaml:"args,omitempty"`
}

// Label returns the step name, or "step N" with N = i+1 when unnamed.
func (s Step) Label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("step %d", i+1)
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E140").WithDetail("Cannot read " + path).Wrap(err)
	}
	s, err := Parse(bytes.NewReader(data))
	if err != nil {
		var ve *errors.VtreeError
		if stderrors.As(err, &ve) {
			ve.WithLocationFromYAML(path, ve.Wrapped)
		}
		return nil, err
	}
	return s, nil
}

// Parse decodes a scenario. Unknown keys are rejected.
func Parse(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil && err != io.EOF {
		return nil, errors.New("E140").Wrap(err)
	}
	for i, step := range s.Steps {
		if (step.State == nil) == (step.Action == "") {
			return nil, errors.New("E140").
				WithDetail(fmt.Sprintf("Step %d (%q) must set exactly one of state and action.", i+1, step.Name))
		}
	}
	return &s, nil
}

// AttrProps returns the scenario props sorted by key.
func (s *Scenario) AttrProps() vdom.Props {
	keys := make([]string, 0, len(s.Props))
	for k := range s.Props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	props := make(vdom.Props, 0, len(keys))
	for _, k := range keys {
		props.Set(k, s.Props[k])
	}
	return props
}

// Result is the document after one step.
type Result struct {
	Step string
	HTML string

	// Page is the full HTML page when Options.Page is set.
	Page []byte

	Stats render.Stats
}

// Options configures Run.
type Options struct {
	// Root is the component to mount. Required.
	Root *vdom.Descriptor

	// Render configures the document.
	Render render.Config

	// Page, when set, also renders a full page after every step.
	Page *render.PageData

	// Dispatch runs action steps. Action steps fail when it is nil.
	Dispatch func(root *vdom.Instance, action string, args map[string]any) error

	// Reconciler options such as logger, tracer and recorder.
	Reconciler []vdom.Option
}

// Run mounts the root and applies every step. The first result is the
// initial mount. Run stops at the first failing step and returns the results
// collected so far along with the error.
func (s *Scenario) Run(opts Options) ([]Result, error) {
	if opts.Root == nil {
		return nil, errors.New("E143")
	}
	root, err := vdom.Build(opts.Root, s.AttrProps())
	if err != nil {
		return nil, errors.Classify(err, "E200")
	}

	doc := render.NewDocument(opts.Render)
	r := vdom.NewReconciler(doc, opts.Reconciler...)
	if err := r.RenderRoot(root, doc.Root()); err != nil {
		return nil, errors.Classify(err, "E205")
	}

	results := make([]Result, 0, len(s.Steps)+1)
	record := func(name string) error {
		html, err := doc.InnerHTML()
		if err != nil {
			return errors.New("E205").Wrap(err)
		}
		res := Result{Step: name, HTML: html, Stats: doc.Stats()}
		if opts.Page != nil {
			var buf bytes.Buffer
			if err := doc.WritePage(&buf, *opts.Page); err != nil {
				return errors.New("E205").Wrap(err)
			}
			res.Page = buf.Bytes()
		}
		results = append(results, res)
		doc.ResetStats()
		return nil
	}
	if err := record("mount"); err != nil {
		return results, err
	}

	for i, step := range s.Steps {
		name := step.Label(i)
		if err := apply(root.Comp, step, opts.Dispatch); err != nil {
			e := errors.Classify(err, "E140")
			return results, e.WithDetail(fmt.Sprintf("Step %q failed. %s", name, e.Detail))
		}
		if err := record(name); err != nil {
			return results, err
		}
	}
	return results, nil
}

func apply(root *vdom.Instance, step Step, dispatch func(*vdom.Instance, string, map[string]any) error) error {
	if step.Action == "" {
		return root.SetState(step.State)
	}
	if dispatch == nil {
		return fmt.Errorf("no dispatcher for action %q", step.Action)
	}
	return dispatch(root, step.Action, step.Args)
}
