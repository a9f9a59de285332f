package vdom

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Component renders a virtual tree from an instance's props and state.
// Render must not have side effects beyond returning a tree.
type Component interface {
	Render(c *Instance) *Node
}

// RenderFunc adapts a function to Component.
type RenderFunc func(c *Instance) *Node

// Render implements Component.
func (f RenderFunc) Render(c *Instance) *Node {
	return f(c)
}

// AttributeSetter is implemented by components that keep incoming
// attributes in their own fields.
type AttributeSetter interface {
	SetAttribute(name string, value any)
}

// Hooks holds optional lifecycle callbacks. A nil hook is skipped.
type Hooks struct {
	WillMount        func(c *Instance) error
	DidMount         func(c *Instance) error
	WillUpdate       func(c *Instance) error
	DidUpdate        func(c *Instance) error
	WillReceiveProps func(c *Instance, oldState, newState State) error
	ShouldUpdate     func(c *Instance, oldState, newState State) bool
	DidUnmount       func(c *Instance) error
}

// Descriptor identifies a component type. Two component nodes are only ever
// the same node when they share a Descriptor.
type Descriptor struct {
	// Name labels the component in logs, traces and errors.
	Name string

	// New constructs the component. It takes no arguments.
	New func() Component

	// Hooks are the lifecycle callbacks of the component.
	Hooks Hooks

	// InitialState, if set, seeds the state of every new instance.
	InitialState func() State
}

// Func creates a stateless component descriptor from a render function.
func Func(name string, render func(c *Instance) *Node) *Descriptor {
	return &Descriptor{
		Name: name,
		New:  func() Component { return RenderFunc(render) },
	}
}

func (d *Descriptor) instantiate() (*Instance, error) {
	if d == nil || d.New == nil {
		return nil, &InvalidNodeError{Value: d, Reason: "descriptor has no constructor"}
	}
	comp := d.New()
	if comp == nil {
		return nil, &InvalidNodeError{Value: d, Reason: "constructor returned nil"}
	}
	c := &Instance{desc: d, comp: comp}
	if d.InitialState != nil {
		c.state = Clone(d.InitialState())
	}
	return c, nil
}

// Instance is a live component. It persists across renders and owns the
// committed tree its last update produced.
type Instance struct {
	desc     *Descriptor
	comp     Component
	props    Props
	children []*Node
	state    State

	mounted   bool
	committed *Node
	anchor    Anchor
	r         *Reconciler
}

func (c *Instance) node() *Node {
	return &Node{Kind: KindComponent, Tag: c.desc.Name, Comp: c}
}

// Name returns the descriptor name.
func (c *Instance) Name() string {
	if c.desc.Name == "" {
		return "component"
	}
	return c.desc.Name
}

// Descriptor returns the component type.
func (c *Instance) Descriptor() *Descriptor { return c.desc }

// Component returns the value constructed by the descriptor.
func (c *Instance) Component() Component { return c.comp }

// Props returns the attributes the instance was built with.
func (c *Instance) Props() Props { return c.props }

// Prop returns a single attribute value.
func (c *Instance) Prop(key string) any {
	v, _ := c.props.Get(key)
	return v
}

// Children returns the child nodes passed through to the instance.
func (c *Instance) Children() []*Node { return c.children }

// State returns the current state. Callers must not modify it; use SetState.
func (c *Instance) State() State { return c.state }

// Mounted reports whether Mount has completed.
func (c *Instance) Mounted() bool { return c.mounted }

// Committed returns the tree materialized by the last update.
func (c *Instance) Committed() *Node { return c.committed }

// Anchor returns the insertion point the instance was mounted at.
func (c *Instance) Anchor() Anchor { return c.anchor }

// SetAttribute records an attribute in the props and, when the component
// implements AttributeSetter, in the component itself.
func (c *Instance) SetAttribute(name string, value any) {
	c.props.Set(name, value)
	if s, ok := c.comp.(AttributeSetter); ok {
		s.SetAttribute(name, value)
	}
}

// mount runs the first update of the instance at a.
func (c *Instance) mount(r *Reconciler, a Anchor) error {
	c.r = r
	if err := c.callHook("WillMount", c.desc.Hooks.WillMount); err != nil {
		return err
	}
	c.anchor = a
	if err := c.Update(); err != nil {
		return err
	}
	c.mounted = true
	return c.callHook("DidMount", c.desc.Hooks.DidMount)
}

// Update re-renders the instance and reconciles the result against the
// committed tree.
func (c *Instance) Update() error {
	if c.r == nil || c.anchor == nil {
		return &UnmountedUpdateError{Component: c.Name(), Op: "Update"}
	}
	r := c.r
	start := time.Now()

	_, span := r.tracer.Start(context.Background(), "vtree.update",
		trace.WithAttributes(
			attribute.String("vtree.component", c.Name()),
			attribute.Bool("vtree.mounted", c.mounted),
		),
	)
	defer span.End()

	outcome, err := c.update()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	d := time.Since(start)
	span.SetAttributes(attribute.String("vtree.outcome", string(outcome)))
	r.rec.RecordCycle(c.Name(), outcome, d)
	r.logger.Debug("vdom: update",
		"component", c.Name(),
		"outcome", outcome,
		"duration", d,
	)
	return nil
}

func (c *Instance) update() (Outcome, error) {
	if c.mounted {
		if err := c.callHook("WillUpdate", c.desc.Hooks.WillUpdate); err != nil {
			return "", err
		}
	}

	next := c.comp.Render(c)
	if next == nil {
		next = Text("")
	}

	var outcome Outcome
	if c.committed == nil {
		if err := c.r.mount(next, c.anchor); err != nil {
			return "", err
		}
		outcome = OutcomeMount
	} else {
		var err error
		outcome, err = c.r.reconcile(next, c.committed, nil, nil)
		if err != nil {
			return "", err
		}
	}
	c.committed = next

	if c.mounted {
		if err := c.callHook("DidUpdate", c.desc.Hooks.DidUpdate); err != nil {
			return "", err
		}
	}
	return outcome, nil
}

// SetState merges partial into the state and updates the instance, unless
// ShouldUpdate rejects the candidate state.
func (c *Instance) SetState(partial State) error {
	if c.r == nil || c.anchor == nil {
		return &UnmountedUpdateError{Component: c.Name(), Op: "SetState"}
	}

	old := c.state
	candidate := Clone(c.state)
	if candidate == nil {
		candidate = State{}
	}
	Merge(candidate, partial)

	if h := c.desc.Hooks.ShouldUpdate; h != nil {
		ok, err := c.shouldUpdate(h, old, candidate)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	if h := c.desc.Hooks.WillReceiveProps; h != nil {
		err := c.callHook("WillReceiveProps", func(c *Instance) error {
			return h(c, old, candidate)
		})
		if err != nil {
			return err
		}
	}

	if c.state == nil {
		c.state = State{}
	}
	Merge(c.state, partial)
	return c.Update()
}

// callHook invokes hook, turning errors and panics into HookInvocationError.
func (c *Instance) callHook(name string, hook func(c *Instance) error) (err error) {
	if hook == nil {
		return nil
	}
	defer func() {
		if p := recover(); p != nil {
			err = c.hookError(name, &PanicError{Value: p})
		}
	}()
	if herr := hook(c); herr != nil {
		return c.hookError(name, herr)
	}
	return nil
}

func (c *Instance) shouldUpdate(h func(*Instance, State, State) bool, old, candidate State) (ok bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			ok, err = false, c.hookError("ShouldUpdate", &PanicError{Value: p})
		}
	}()
	return h(c, old, candidate), nil
}

func (c *Instance) hookError(name string, err error) error {
	if c.r != nil {
		c.r.rec.RecordHookError(c.Name(), name)
	}
	return &HookInvocationError{Component: c.Name(), Hook: name, Err: err}
}

// String returns a debug label for the instance.
func (c *Instance) String() string {
	return fmt.Sprintf("%s(mounted=%t)", c.Name(), c.mounted)
}
