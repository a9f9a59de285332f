package vdom

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// eventLog collects lifecycle events in order.
type eventLog struct {
	events []string
}

func (l *eventLog) add(format string, args ...any) {
	l.events = append(l.events, fmt.Sprintf(format, args...))
}

func (l *eventLog) hooks() Hooks {
	return Hooks{
		WillMount:  func(c *Instance) error { l.add("WillMount"); return nil },
		DidMount:   func(c *Instance) error { l.add("DidMount"); return nil },
		WillUpdate: func(c *Instance) error { l.add("WillUpdate"); return nil },
		DidUpdate:  func(c *Instance) error { l.add("DidUpdate"); return nil },
		WillReceiveProps: func(c *Instance, old, next State) error {
			l.add("WillReceiveProps %v->%v", old["count"], next["count"])
			return nil
		},
		DidUnmount: func(c *Instance) error { l.add("DidUnmount %s", c.Name()); return nil },
	}
}

// counterDesc renders the count state, logging every render.
func counterDesc(log *eventLog) *Descriptor {
	return &Descriptor{
		Name: "Counter",
		New: func() Component {
			return RenderFunc(func(c *Instance) *Node {
				log.add("Render")
				return El("p", nil, fmt.Sprint(c.State()["count"]))
			})
		},
		Hooks:        log.hooks(),
		InitialState: func() State { return State{"count": 0} },
	}
}

func mountComponent(t *testing.T, desc *Descriptor, attrs Props, children ...any) (*Instance, *fakeTarget) {
	t.Helper()
	node := MustBuild(desc, attrs, children...)
	_, ft := mountTree(t, node)
	return node.Comp, ft
}

func TestMountLifecycleOrder(t *testing.T) {
	log := &eventLog{}
	var materializedBeforeDidMount bool
	var ft *fakeTarget
	desc := counterDesc(log)
	desc.Hooks.DidMount = func(c *Instance) error {
		log.add("DidMount")
		materializedBeforeDidMount = ft.count(OpAppend) > 0
		return nil
	}

	node := MustBuild(desc, nil)
	ft = newFakeTarget()
	if err := NewReconciler(ft).RenderRoot(node, ft.root); err != nil {
		t.Fatal(err)
	}

	want := []string{"WillMount", "Render", "DidMount"}
	if diff := cmp.Diff(want, log.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if !materializedBeforeDidMount {
		t.Error("DidMount fired before materialization")
	}
	if !node.Comp.Mounted() {
		t.Error("instance not marked mounted")
	}
	if node.Anchor() != node.Comp.Anchor() || node.Comp.Committed().Anchor() != node.Comp.Anchor() {
		t.Error("rendered tree should inherit the component anchor")
	}
	if got := ft.String(); got != "<p>0</p>" {
		t.Errorf("live tree = %q", got)
	}
}

func TestSetStateUpdateOrder(t *testing.T) {
	log := &eventLog{}
	c, ft := mountComponent(t, counterDesc(log), nil)
	log.events = nil

	if err := c.SetState(State{"count": 1}); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}

	want := []string{"WillReceiveProps 0->1", "WillUpdate", "Render", "DidUpdate"}
	if diff := cmp.Diff(want, log.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if got := ft.String(); got != "<p>1</p>" {
		t.Errorf("live tree = %q, want <p>1</p>", got)
	}
	if c.State()["count"] != 1 {
		t.Errorf("state = %v", c.State())
	}
}

func TestSetStateSameRenderIsNoop(t *testing.T) {
	log := &eventLog{}
	c, ft := mountComponent(t, counterDesc(log), nil)
	ft.resetOps()

	if err := c.SetState(State{"other": true}); err != nil {
		t.Fatal(err)
	}
	if len(ft.ops) != 0 {
		t.Errorf("unchanged render mutated live tree: %v", ft.ops)
	}
}

func TestShouldUpdateShortCircuit(t *testing.T) {
	log := &eventLog{}
	desc := counterDesc(log)
	desc.Hooks.ShouldUpdate = func(c *Instance, old, next State) bool { return false }
	c, ft := mountComponent(t, desc, nil)
	log.events = nil
	ft.resetOps()

	for i := 1; i <= 3; i++ {
		if err := c.SetState(State{"count": i}); err != nil {
			t.Fatal(err)
		}
	}
	if c.State()["count"] != 0 {
		t.Errorf("state changed to %v", c.State())
	}
	if len(log.events) != 0 {
		t.Errorf("hooks or render fired: %v", log.events)
	}
	if len(ft.ops) != 0 {
		t.Errorf("live tree mutated: %v", ft.ops)
	}
}

func TestShouldUpdateSeesCandidate(t *testing.T) {
	var gotOld, gotNext State
	desc := counterDesc(&eventLog{})
	desc.Hooks.ShouldUpdate = func(c *Instance, old, next State) bool {
		gotOld, gotNext = Clone(old), Clone(next)
		return true
	}
	c, _ := mountComponent(t, desc, nil)

	if err := c.SetState(State{"count": 5}); err != nil {
		t.Fatal(err)
	}
	if gotOld["count"] != 0 || gotNext["count"] != 5 {
		t.Errorf("ShouldUpdate saw old=%v next=%v", gotOld, gotNext)
	}
}

func TestSetStateBeforeMount(t *testing.T) {
	log := &eventLog{}
	c := MustBuild(counterDesc(log), nil).Comp

	err := c.SetState(State{"count": 9})
	if !errors.Is(err, ErrUnmountedUpdate) {
		t.Fatalf("error = %v, want ErrUnmountedUpdate", err)
	}
	if c.State()["count"] != 0 {
		t.Error("state mutated before mount")
	}
	if err := c.Update(); !errors.Is(err, ErrUnmountedUpdate) {
		t.Errorf("Update() error = %v, want ErrUnmountedUpdate", err)
	}
	if len(log.events) != 0 {
		t.Errorf("events fired: %v", log.events)
	}
}

func TestSetStateFromNilState(t *testing.T) {
	desc := Func("Stateless", func(c *Instance) *Node {
		return Text(fmt.Sprint(c.State()["n"]))
	})
	c, ft := mountComponent(t, desc, nil)
	if err := c.SetState(State{"n": 2}); err != nil {
		t.Fatal(err)
	}
	if got := ft.String(); got != "2" {
		t.Errorf("live tree = %q, want 2", got)
	}
}

func TestHookErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		hooks Hooks
		act   func(c *Instance) error
	}{
		{
			name:  "WillMount",
			hooks: Hooks{WillMount: func(*Instance) error { return boom }},
		},
		{
			name:  "DidMount",
			hooks: Hooks{DidMount: func(*Instance) error { return boom }},
		},
		{
			name:  "WillUpdate",
			hooks: Hooks{WillUpdate: func(*Instance) error { return boom }},
			act:   func(c *Instance) error { return c.SetState(State{"count": 1}) },
		},
		{
			name:  "DidUpdate",
			hooks: Hooks{DidUpdate: func(*Instance) error { return boom }},
			act:   func(c *Instance) error { return c.Update() },
		},
		{
			name:  "WillReceiveProps",
			hooks: Hooks{WillReceiveProps: func(*Instance, State, State) error { return boom }},
			act:   func(c *Instance) error { return c.SetState(State{"count": 1}) },
		},
		{
			name:  "ShouldUpdate",
			hooks: Hooks{ShouldUpdate: func(*Instance, State, State) bool { panic(boom) }},
			act:   func(c *Instance) error { return c.SetState(State{"count": 1}) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := counterDesc(&eventLog{})
			desc.Hooks = tt.hooks
			node := MustBuild(desc, nil)
			ft := newFakeTarget()
			rec := &countingRecorder{}
			err := NewReconciler(ft, WithRecorder(rec)).RenderRoot(node, ft.root)
			if tt.act != nil {
				if err != nil {
					t.Fatalf("mount error = %v", err)
				}
				err = tt.act(node.Comp)
			}

			if !errors.Is(err, ErrHookInvocation) {
				t.Fatalf("error = %v, want ErrHookInvocation", err)
			}
			var he *HookInvocationError
			if !errors.As(err, &he) || he.Hook != tt.name || he.Component != "Counter" {
				t.Errorf("error = %#v", err)
			}
			if tt.name != "ShouldUpdate" && !errors.Is(err, boom) {
				t.Errorf("error %v does not wrap cause", err)
			}
			if len(rec.hooks) != 1 || rec.hooks[0] != tt.name {
				t.Errorf("recorded hook errors = %v", rec.hooks)
			}
		})
	}
}

func TestHookPanicBecomesError(t *testing.T) {
	desc := counterDesc(&eventLog{})
	desc.Hooks = Hooks{DidMount: func(*Instance) error { panic("bad") }}
	node := MustBuild(desc, nil)
	ft := newFakeTarget()
	err := NewReconciler(ft).RenderRoot(node, ft.root)

	var pe *PanicError
	if !errors.As(err, &pe) || pe.Value != "bad" {
		t.Errorf("error = %v, want wrapped panic", err)
	}
	if !strings.Contains(err.Error(), "Counter.DidMount") {
		t.Errorf("error message = %q", err.Error())
	}
}

func TestNestedComponentKeepsStateAcrossParentRender(t *testing.T) {
	log := &eventLog{}
	counter := counterDesc(log)
	parent := &Descriptor{
		Name: "Parent",
		New: func() Component {
			return RenderFunc(func(c *Instance) *Node {
				return El("div", nil,
					El("h1", nil, fmt.Sprint(c.State()["title"])),
					MustBuild(counter, nil),
				)
			})
		},
		InitialState: func() State { return State{"title": "a"} },
	}

	p, ft := mountComponent(t, parent, nil)
	child := p.Committed().Children[1].Comp
	if err := child.SetState(State{"count": 7}); err != nil {
		t.Fatal(err)
	}
	if err := p.SetState(State{"title": "b"}); err != nil {
		t.Fatal(err)
	}

	if got := ft.String(); got != "<div><h1>b</h1><p>7</p></div>" {
		t.Errorf("live tree = %q", got)
	}
	if p.Committed().Children[1].Comp != child {
		t.Error("child instance was not adopted by the new tree")
	}
}

func TestPassthroughChildrenChangeUpdatesChild(t *testing.T) {
	log := &eventLog{}
	box := &Descriptor{
		Name: "Box",
		New: func() Component {
			return RenderFunc(func(c *Instance) *Node { return El("div", nil, c.Children()) })
		},
		Hooks: log.hooks(),
	}
	parent := &Descriptor{
		Name: "Parent",
		New: func() Component {
			return RenderFunc(func(c *Instance) *Node {
				return El("main", nil, MustBuild(box, nil, fmt.Sprint(c.State()["label"])))
			})
		},
		InitialState: func() State { return State{"label": "x"} },
	}

	p, ft := mountComponent(t, parent, nil)
	log.events = nil
	if err := p.SetState(State{"label": "y"}); err != nil {
		t.Fatal(err)
	}
	if got := ft.String(); got != "<main><div>y</div></main>" {
		t.Errorf("live tree = %q", got)
	}
	if diff := cmp.Diff([]string{"WillUpdate", "DidUpdate"}, log.events); diff != "" {
		t.Errorf("box events mismatch (-want +got):\n%s", diff)
	}
}

func TestKindChangeFiresDidUnmount(t *testing.T) {
	log := &eventLog{}
	leaf := &Descriptor{
		Name:  "Leaf",
		New:   func() Component { return RenderFunc(func(*Instance) *Node { return Text("leaf") }) },
		Hooks: Hooks{DidUnmount: func(c *Instance) error { log.add("DidUnmount %s", c.Name()); return nil }},
	}
	root := &Descriptor{
		Name: "Root",
		New: func() Component {
			return RenderFunc(func(c *Instance) *Node {
				if c.State()["swap"] == true {
					return El("section", nil, "swapped")
				}
				return El("div", nil, MustBuild(leaf, nil))
			})
		},
	}

	c, ft := mountComponent(t, root, nil)
	if err := c.SetState(State{"swap": true}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"DidUnmount Leaf"}, log.events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if got := ft.String(); got != "<section>swapped</section>" {
		t.Errorf("live tree = %q", got)
	}
}

func TestComponentReplacedByElement(t *testing.T) {
	inner := Func("Inner", func(*Instance) *Node { return El("b", nil, "x") })
	outer := &Descriptor{
		Name: "Outer",
		New: func() Component {
			return RenderFunc(func(c *Instance) *Node {
				if c.State()["plain"] == true {
					return El("div", nil, El("b", nil, "x"))
				}
				return El("div", nil, MustBuild(inner, nil))
			})
		},
	}

	c, ft := mountComponent(t, outer, nil)
	ft.resetOps()
	if err := c.SetState(State{"plain": true}); err != nil {
		t.Fatal(err)
	}
	if ft.count(OpClear) == 0 {
		t.Error("component replaced by element should clear its anchor")
	}
	if got := ft.String(); got != "<div><b>x</b></div>" {
		t.Errorf("live tree = %q", got)
	}
}

func TestInstanceString(t *testing.T) {
	c := MustBuild(Func("", func(*Instance) *Node { return nil }), nil).Comp
	if got := c.String(); got != "component(mounted=false)" {
		t.Errorf("String() = %q", got)
	}
}
