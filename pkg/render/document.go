package render

import (
	"errors"
	"fmt"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// ErrForeignAnchor is returned when an anchor or handle was not created by
// the document it is passed to.
var ErrForeignAnchor = errors.New("render: foreign anchor")

// Config configures a Document.
type Config struct {
	// RootTag is the tag of the root element. Defaults to "body".
	RootTag string

	// Pretty enables indented HTML output.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// RecordOps keeps an ordered log of operations, returned by Ops.
	RecordOps bool
}

// Node is a live node.
type Node struct {
	Tag    string
	Text   string
	IsText bool
	Attrs  vdom.Props

	doc   *Document
	slots []*Slot
}

// Children returns the live children of n, flattened across slots.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, s := range n.slots {
		out = append(out, s.nodes...)
	}
	return out
}

// Slot is an insertion point inside a parent node.
type Slot struct {
	ID     int
	parent *Node
	nodes  []*Node
}

// Nodes returns the live nodes currently held by the slot.
func (s *Slot) Nodes() []*Node {
	return s.nodes
}

// Stats counts operations applied to a Document.
type Stats struct {
	Clears       int
	Materialized int
	ChildAnchors int
	Appends      int
	AnchorsAfter int
	Removes      int
}

// Total returns the total number of operations.
func (s Stats) Total() int {
	return s.Clears + s.Materialized + s.ChildAnchors + s.Appends + s.AnchorsAfter + s.Removes
}

// Mutations returns the number of operations that changed visible content.
func (s Stats) Mutations() int {
	return s.Clears + s.Appends + s.Removes
}

// OpRecord is one logged operation.
type OpRecord struct {
	Op   vdom.Op
	Slot int
	Tag  string
}

// String returns a compact form such as "append@3" or "materialize@4:<li>".
func (o OpRecord) String() string {
	if o.Tag == "" {
		return fmt.Sprintf("%s@%d", o.Op, o.Slot)
	}
	return fmt.Sprintf("%s@%d:%s", o.Op, o.Slot, o.Tag)
}

// Document is an in-memory live tree implementing vdom.Target.
// It is not safe for concurrent use.
type Document struct {
	config Config
	root   *Node
	nextID int
	stats  Stats
	ops    []OpRecord
}

// NewDocument creates an empty document.
func NewDocument(config Config) *Document {
	if config.RootTag == "" {
		config.RootTag = "body"
	}
	if config.Indent == "" {
		config.Indent = "  "
	}
	d := &Document{config: config}
	d.root = &Node{Tag: config.RootTag, doc: d}
	return d
}

// Root returns the root element. It is the handle passed to RenderRoot.
func (d *Document) Root() *Node {
	return d.root
}

// Stats returns the operation counters.
func (d *Document) Stats() Stats {
	return d.stats
}

// Ops returns the logged operations. It is empty unless Config.RecordOps is set.
func (d *Document) Ops() []OpRecord {
	return d.ops
}

// ResetStats clears the counters and the operation log.
func (d *Document) ResetStats() {
	d.stats = Stats{}
	d.ops = nil
}

func (d *Document) record(op vdom.Op, s *Slot, tag string) {
	if !d.config.RecordOps {
		return
	}
	d.ops = append(d.ops, OpRecord{Op: op, Slot: s.ID, Tag: tag})
}

func (d *Document) slot(a vdom.Anchor) (*Slot, error) {
	s, ok := a.(*Slot)
	if !ok || s == nil || s.parent == nil || s.parent.doc != d {
		return nil, fmt.Errorf("%w: %T", ErrForeignAnchor, a)
	}
	return s, nil
}

func (d *Document) node(h vdom.Handle) (*Node, error) {
	n, ok := h.(*Node)
	if !ok || n == nil || n.doc != d {
		return nil, fmt.Errorf("%w: handle %T", ErrForeignAnchor, h)
	}
	return n, nil
}

func (d *Document) newSlot(parent *Node) *Slot {
	d.nextID++
	return &Slot{ID: d.nextID, parent: parent}
}

// Clear implements vdom.Target.
func (d *Document) Clear(a vdom.Anchor) error {
	s, err := d.slot(a)
	if err != nil {
		return err
	}
	d.stats.Clears++
	d.record(vdom.OpClear, s, "")
	s.nodes = nil
	return nil
}

// Materialize implements vdom.Target.
func (d *Document) Materialize(n *vdom.Node, a vdom.Anchor) (vdom.Handle, error) {
	s, err := d.slot(a)
	if err != nil {
		return nil, err
	}
	var live *Node
	switch n.Kind {
	case vdom.KindText:
		live = &Node{Text: n.Text, IsText: true, doc: d}
		d.record(vdom.OpMaterialize, s, "#text")
	case vdom.KindElement:
		live = &Node{Tag: n.Tag, Attrs: n.Props.Clone(), doc: d}
		d.record(vdom.OpMaterialize, s, "<"+n.Tag+">")
	default:
		return nil, fmt.Errorf("render: cannot materialize %s node", n.Kind)
	}
	d.stats.Materialized++
	return live, nil
}

// ChildAnchor implements vdom.Target.
func (d *Document) ChildAnchor(h vdom.Handle, afterLastChild bool) (vdom.Anchor, error) {
	parent, err := d.node(h)
	if err != nil {
		return nil, err
	}
	if parent.IsText {
		return nil, errors.New("render: text nodes have no children")
	}
	s := d.newSlot(parent)
	if afterLastChild {
		parent.slots = append(parent.slots, s)
	} else {
		parent.slots = append([]*Slot{s}, parent.slots...)
	}
	d.stats.ChildAnchors++
	d.record(vdom.OpChildAnchor, s, "")
	return s, nil
}

// Append implements vdom.Target.
func (d *Document) Append(a vdom.Anchor, h vdom.Handle) error {
	s, err := d.slot(a)
	if err != nil {
		return err
	}
	n, err := d.node(h)
	if err != nil {
		return err
	}
	s.nodes = append(s.nodes, n)
	d.stats.Appends++
	d.record(vdom.OpAppend, s, "")
	return nil
}

// AnchorAfter implements vdom.Target.
func (d *Document) AnchorAfter(a vdom.Anchor) (vdom.Anchor, error) {
	prev, err := d.slot(a)
	if err != nil {
		return nil, err
	}
	parent := prev.parent
	s := d.newSlot(parent)
	for i, cur := range parent.slots {
		if cur == prev {
			parent.slots = append(parent.slots[:i+1], append([]*Slot{s}, parent.slots[i+1:]...)...)
			break
		}
	}
	d.stats.AnchorsAfter++
	d.record(vdom.OpAnchorAfter, s, "")
	return s, nil
}

// Remove implements vdom.Remover. The slot is dropped from its parent and
// later use of the anchor fails with ErrForeignAnchor.
func (d *Document) Remove(a vdom.Anchor) error {
	s, err := d.slot(a)
	if err != nil {
		return err
	}
	d.stats.Removes++
	d.record(vdom.OpRemove, s, "")
	parent := s.parent
	for i, cur := range parent.slots {
		if cur == s {
			parent.slots = append(parent.slots[:i], parent.slots[i+1:]...)
			break
		}
	}
	s.nodes = nil
	s.parent = nil
	return nil
}

var (
	_ vdom.Target  = (*Document)(nil)
	_ vdom.Remover = (*Document)(nil)
)
