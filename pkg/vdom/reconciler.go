package vdom

import (
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultTracerName = "vtree"

// Recorder receives reconciliation measurements.
type Recorder interface {
	RecordOp(op Op)
	RecordCycle(component string, outcome Outcome, d time.Duration)
	RecordHookError(component, hook string)
}

type nopRecorder struct{}

func (nopRecorder) RecordOp(Op)                              {}
func (nopRecorder) RecordCycle(string, Outcome, time.Duration) {}
func (nopRecorder) RecordHookError(string, string)           {}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTracer sets the tracer used for update spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Reconciler) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithRecorder sets the measurement sink.
func WithRecorder(rec Recorder) Option {
	return func(r *Reconciler) {
		if rec != nil {
			r.rec = rec
		}
	}
}

// Reconciler applies node trees to a Target.
//
// A Reconciler is not safe for concurrent use. Every call runs to completion
// before returning; callers that receive input concurrently must serialize.
type Reconciler struct {
	target Target
	logger *slog.Logger
	tracer trace.Tracer
	rec    Recorder
}

// NewReconciler creates a Reconciler bound to target.
func NewReconciler(target Target, opts ...Option) *Reconciler {
	r := &Reconciler{
		target: target,
		logger: slog.Default(),
		tracer: otel.Tracer(defaultTracerName),
		rec:    nopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RenderRoot mounts tree at the end of root's existing content.
func (r *Reconciler) RenderRoot(tree *Node, root Handle) error {
	if r.target == nil {
		return ErrNoTarget
	}
	if tree == nil {
		return &InvalidNodeError{Value: tree, Reason: "nil root"}
	}
	a, err := r.childAnchor(root, true)
	if err != nil {
		return err
	}
	return r.Mount(tree, a)
}

// Mount materializes n at a, replacing whatever a held.
func (r *Reconciler) Mount(n *Node, a Anchor) error {
	if r.target == nil {
		return ErrNoTarget
	}
	return r.mount(n, a)
}

// Reconcile brings the live content of prev into agreement with next.
// prev must have been mounted.
func (r *Reconciler) Reconcile(next, prev *Node) (Outcome, error) {
	if r.target == nil {
		return "", ErrNoTarget
	}
	if prev == nil || prev.anchor == nil {
		return "", &UnmountedUpdateError{Component: "tree", Op: "Reconcile"}
	}
	return r.reconcile(next, prev, nil, nil)
}

// reconcile patches prev into next. carry is the anchor of the previous
// sibling, used when prev is absent; parent is the live container of the
// sibling list, used when there is no previous sibling either.
func (r *Reconciler) reconcile(next, prev *Node, carry Anchor, parent Handle) (Outcome, error) {
	if next == nil {
		if prev != nil {
			return OutcomeReplace, r.remove(prev)
		}
		return OutcomeNoop, nil
	}

	if prev == nil {
		var a Anchor
		var err error
		switch {
		case carry != nil:
			a, err = r.anchorAfter(carry)
		case parent != nil:
			a, err = r.childAnchor(parent, true)
		default:
			return "", &UnmountedUpdateError{Component: describe(next), Op: "Reconcile"}
		}
		if err != nil {
			return "", err
		}
		return OutcomeMount, r.mount(next, a)
	}

	if SameTree(next, prev) {
		adopt(next, prev)
		return OutcomeNoop, nil
	}

	if !SameNode(next, prev) {
		return OutcomeReplace, r.replace(next, prev)
	}

	next.anchor = prev.anchor
	switch next.Kind {
	case KindElement:
		next.handle = prev.handle
		return OutcomePatch, r.reconcileChildren(next.Children, prev.Children, next.handle)
	case KindComponent:
		inst := prev.Comp
		if inst == nil {
			return "", &InvalidNodeError{Value: prev, Reason: "component node without instance"}
		}
		inst.children = next.Comp.children
		next.Comp = inst
		return OutcomePatch, inst.Update()
	}
	// Equal text nodes are always the same tree.
	return OutcomeNoop, nil
}

// reconcileChildren walks next by index. carry is threaded through the walk
// as the anchor of the last placed sibling.
func (r *Reconciler) reconcileChildren(next, prev []*Node, parent Handle) error {
	var carry Anchor
	for i, child := range next {
		var old *Node
		if i < len(prev) {
			old = prev[i]
			if a := old.Anchor(); a != nil {
				carry = a
			}
		}
		if _, err := r.reconcile(child, old, carry, parent); err != nil {
			return err
		}
		if old == nil {
			carry = child.anchor
		}
	}
	for i := len(next); i < len(prev); i++ {
		if err := r.remove(prev[i]); err != nil {
			return err
		}
	}
	return nil
}

// replace discards prev wholesale and mounts next at its anchor.
func (r *Reconciler) replace(next, prev *Node) error {
	r.logger.Debug("vdom: replace", "from", describe(prev), "to", describe(next))
	if err := unmountHooks(prev); err != nil {
		return err
	}
	return r.mount(next, prev.anchor)
}

// remove discards prev's live content and, when the target supports it,
// its anchor.
func (r *Reconciler) remove(prev *Node) error {
	if err := unmountHooks(prev); err != nil {
		return err
	}
	if prev.anchor == nil {
		return nil
	}
	rm, ok := r.target.(Remover)
	if !ok {
		return r.clear(prev.anchor)
	}
	r.rec.RecordOp(OpRemove)
	if err := rm.Remove(prev.anchor); err != nil {
		return fmt.Errorf("vdom: remove: %w", err)
	}
	return nil
}

// mount clears a, builds n's live representation and records the anchor.
func (r *Reconciler) mount(n *Node, a Anchor) error {
	if n.Kind == KindComponent {
		if n.Comp == nil {
			return &InvalidNodeError{Value: n, Reason: "component node without instance"}
		}
		n.anchor = a
		return n.Comp.mount(r, a)
	}

	if err := r.clear(a); err != nil {
		return err
	}
	h, err := r.materialize(n, a)
	if err != nil {
		return err
	}
	if n.Kind == KindElement {
		for _, child := range n.Children {
			ca, err := r.childAnchor(h, true)
			if err != nil {
				return err
			}
			if err := r.mount(child, ca); err != nil {
				return err
			}
		}
	}
	if err := r.append(a, h); err != nil {
		return err
	}
	n.anchor = a
	n.handle = h
	return nil
}

// adopt moves bookkeeping from prev to the identical tree next.
func adopt(next, prev *Node) {
	next.anchor = prev.anchor
	next.handle = prev.handle
	if next.Kind == KindComponent {
		next.Comp = prev.Comp
		return
	}
	for i := range next.Children {
		adopt(next.Children[i], prev.Children[i])
	}
}

// unmountHooks fires DidUnmount on every component in the outgoing subtree.
func unmountHooks(n *Node) error {
	if n == nil {
		return nil
	}
	if n.Kind == KindComponent {
		if n.Comp == nil {
			return nil
		}
		if err := n.Comp.callHook("DidUnmount", n.Comp.desc.Hooks.DidUnmount); err != nil {
			return err
		}
		return unmountHooks(n.Comp.committed)
	}
	for _, child := range n.Children {
		if err := unmountHooks(child); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reconciler) clear(a Anchor) error {
	r.rec.RecordOp(OpClear)
	if err := r.target.Clear(a); err != nil {
		return fmt.Errorf("vdom: clear: %w", err)
	}
	return nil
}

func (r *Reconciler) materialize(n *Node, a Anchor) (Handle, error) {
	r.rec.RecordOp(OpMaterialize)
	h, err := r.target.Materialize(n, a)
	if err != nil {
		return nil, fmt.Errorf("vdom: materialize %s: %w", describe(n), err)
	}
	return h, nil
}

func (r *Reconciler) childAnchor(h Handle, afterLastChild bool) (Anchor, error) {
	r.rec.RecordOp(OpChildAnchor)
	a, err := r.target.ChildAnchor(h, afterLastChild)
	if err != nil {
		return nil, fmt.Errorf("vdom: child anchor: %w", err)
	}
	return a, nil
}

func (r *Reconciler) append(a Anchor, h Handle) error {
	r.rec.RecordOp(OpAppend)
	if err := r.target.Append(a, h); err != nil {
		return fmt.Errorf("vdom: append: %w", err)
	}
	return nil
}

func (r *Reconciler) anchorAfter(a Anchor) (Anchor, error) {
	r.rec.RecordOp(OpAnchorAfter)
	next, err := r.target.AnchorAfter(a)
	if err != nil {
		return nil, fmt.Errorf("vdom: anchor after: %w", err)
	}
	return next, nil
}

// describe returns a short label for logs and errors.
func describe(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Kind {
	case KindElement:
		return "<" + n.Tag + ">"
	case KindText:
		return "#text"
	case KindComponent:
		if n.Comp != nil {
			return n.Comp.Name()
		}
	}
	return n.Kind.String()
}
