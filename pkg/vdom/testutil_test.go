package vdom

import (
	"fmt"
	"strings"
	"testing"
)

// fakeNode is a live node in fakeTarget.
type fakeNode struct {
	tag    string
	text   string
	isText bool
	slots  []*fakeSlot
}

// fakeSlot is an anchor: a run of live nodes inside a parent.
type fakeSlot struct {
	id     int
	parent *fakeNode
	nodes  []*fakeNode
}

type fakeOp struct {
	Op   Op
	Slot int
	Tag  string
}

// fakeTarget is an in-memory Target that records every operation.
type fakeTarget struct {
	root   *fakeNode
	nextID int
	ops    []fakeOp
	fail   Op
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{root: &fakeNode{tag: "root"}}
}

func (f *fakeTarget) newSlot(parent *fakeNode) *fakeSlot {
	f.nextID++
	return &fakeSlot{id: f.nextID, parent: parent}
}

func (f *fakeTarget) record(op Op, s *fakeSlot, tag string) error {
	id := 0
	if s != nil {
		id = s.id
	}
	f.ops = append(f.ops, fakeOp{Op: op, Slot: id, Tag: tag})
	if f.fail == op {
		return fmt.Errorf("%s failed", op)
	}
	return nil
}

func (f *fakeTarget) Clear(a Anchor) error {
	s := a.(*fakeSlot)
	if err := f.record(OpClear, s, ""); err != nil {
		return err
	}
	s.nodes = nil
	return nil
}

func (f *fakeTarget) Materialize(n *Node, a Anchor) (Handle, error) {
	s := a.(*fakeSlot)
	label := n.Tag
	if n.Kind == KindText {
		label = "#text"
	}
	if err := f.record(OpMaterialize, s, label); err != nil {
		return nil, err
	}
	if n.Kind == KindText {
		return &fakeNode{isText: true, text: n.Text}, nil
	}
	return &fakeNode{tag: n.Tag}, nil
}

func (f *fakeTarget) ChildAnchor(h Handle, afterLastChild bool) (Anchor, error) {
	parent := h.(*fakeNode)
	s := f.newSlot(parent)
	if err := f.record(OpChildAnchor, s, parent.tag); err != nil {
		return nil, err
	}
	if afterLastChild {
		parent.slots = append(parent.slots, s)
	} else {
		parent.slots = append([]*fakeSlot{s}, parent.slots...)
	}
	return s, nil
}

func (f *fakeTarget) Append(a Anchor, h Handle) error {
	s := a.(*fakeSlot)
	if err := f.record(OpAppend, s, ""); err != nil {
		return err
	}
	s.nodes = append(s.nodes, h.(*fakeNode))
	return nil
}

func (f *fakeTarget) AnchorAfter(a Anchor) (Anchor, error) {
	prev := a.(*fakeSlot)
	s := f.newSlot(prev.parent)
	if err := f.record(OpAnchorAfter, s, ""); err != nil {
		return nil, err
	}
	slots := prev.parent.slots
	for i, cur := range slots {
		if cur == prev {
			slots = append(slots[:i+1], append([]*fakeSlot{s}, slots[i+1:]...)...)
			break
		}
	}
	prev.parent.slots = slots
	return s, nil
}

// resetOps forgets recorded operations.
func (f *fakeTarget) resetOps() {
	f.ops = nil
}

// count returns how many times op was recorded.
func (f *fakeTarget) count(op Op) int {
	n := 0
	for _, o := range f.ops {
		if o.Op == op {
			n++
		}
	}
	return n
}

// String serializes the live tree below root.
func (f *fakeTarget) String() string {
	var b strings.Builder
	for _, s := range f.root.slots {
		writeSlot(&b, s)
	}
	return b.String()
}

func writeSlot(b *strings.Builder, s *fakeSlot) {
	for _, n := range s.nodes {
		if n.isText {
			b.WriteString(n.text)
			continue
		}
		b.WriteString("<" + n.tag + ">")
		for _, c := range n.slots {
			writeSlot(b, c)
		}
		b.WriteString("</" + n.tag + ">")
	}
}

// mountTree renders tree at the root of a fresh fakeTarget.
func mountTree(t *testing.T, tree *Node) (*Reconciler, *fakeTarget) {
	t.Helper()
	ft := newFakeTarget()
	r := NewReconciler(ft)
	if err := r.RenderRoot(tree, ft.root); err != nil {
		t.Fatalf("RenderRoot() error = %v", err)
	}
	return r, ft
}
