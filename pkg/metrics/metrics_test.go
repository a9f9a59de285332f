package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vdom"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecorder_Direct(t *testing.T) {
	rec := New(WithRegistry(prometheus.NewRegistry()))

	rec.RecordOp(vdom.OpAppend)
	rec.RecordOp(vdom.OpAppend)
	rec.RecordOp(vdom.OpClear)
	rec.RecordCycle("Counter", vdom.OutcomePatch, 3*time.Millisecond)
	rec.RecordHookError("Counter", "DidUpdate")

	if got := counterValue(t, rec.ops.WithLabelValues("append")); got != 2 {
		t.Errorf("ops(append) = %v, want 2", got)
	}
	if got := counterValue(t, rec.ops.WithLabelValues("clear")); got != 1 {
		t.Errorf("ops(clear) = %v, want 1", got)
	}
	if got := counterValue(t, rec.cycles.WithLabelValues("Counter", "patch")); got != 1 {
		t.Errorf("cycles(Counter, patch) = %v, want 1", got)
	}
	if got := histogramCount(t, rec.cycleDuration.WithLabelValues("Counter")); got != 1 {
		t.Errorf("cycle_duration count = %d, want 1", got)
	}
	if got := counterValue(t, rec.hookErrors.WithLabelValues("Counter", "DidUpdate")); got != 1 {
		t.Errorf("hook_errors = %v, want 1", got)
	}
}

func TestRecorder_Options(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(
		WithRegistry(reg),
		WithNamespace("app"),
		WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.1, 1}),
	)
	rec.RecordOp(vdom.OpMaterialize)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	var found bool
	for _, f := range families {
		if f.GetName() != "app_ui_target_ops_total" {
			continue
		}
		found = true
		labels := f.GetMetric()[0].GetLabel()
		var env string
		for _, l := range labels {
			if l.GetName() == "env" {
				env = l.GetValue()
			}
		}
		if env != "test" {
			t.Errorf("const label env = %q, want %q", env, "test")
		}
	}
	if !found {
		t.Error("app_ui_target_ops_total not gathered")
	}
}

func TestRecorder_SeparateRegistries(t *testing.T) {
	// Registering twice on one registry panics; distinct registries must not.
	New(WithRegistry(prometheus.NewRegistry()))
	New(WithRegistry(prometheus.NewRegistry()))
}

func TestRecorder_WiredIntoReconciler(t *testing.T) {
	rec := New(WithRegistry(prometheus.NewRegistry()))
	doc := render.NewDocument(render.Config{})
	r := vdom.NewReconciler(doc, vdom.WithRecorder(rec))

	failing := errors.New("boom")
	fail := false
	desc := &vdom.Descriptor{
		Name: "Greeting",
		New: func() vdom.Component {
			return vdom.RenderFunc(func(c *vdom.Instance) *vdom.Node {
				return vdom.El("p", nil, "hi ", c.State()["name"])
			})
		},
		InitialState: func() vdom.State { return vdom.State{"name": "ada"} },
		Hooks: vdom.Hooks{
			DidUpdate: func(*vdom.Instance) error {
				if fail {
					return failing
				}
				return nil
			},
		},
	}
	root, err := vdom.Build(desc, nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := r.RenderRoot(root, doc.Root()); err != nil {
		t.Fatalf("RenderRoot() error = %v", err)
	}
	if got := counterValue(t, rec.ops.WithLabelValues("materialize")); got == 0 {
		t.Error("expected materialize ops to be recorded")
	}
	if got := counterValue(t, rec.cycles.WithLabelValues("Greeting", "mount")); got != 1 {
		t.Errorf("cycles(Greeting, mount) = %v, want 1", got)
	}

	if err := root.Comp.SetState(vdom.State{"name": "grace"}); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	if got := counterValue(t, rec.cycles.WithLabelValues("Greeting", "patch")); got != 1 {
		t.Errorf("cycles(Greeting, patch) = %v, want 1", got)
	}

	fail = true
	err = root.Comp.SetState(vdom.State{"name": "linus"})
	if !errors.Is(err, failing) {
		t.Fatalf("SetState() error = %v, want wrapped %v", err, failing)
	}
	if got := counterValue(t, rec.hookErrors.WithLabelValues("Greeting", "DidUpdate")); got != 1 {
		t.Errorf("hook_errors(Greeting, DidUpdate) = %v, want 1", got)
	}
}
