package vdom

// Target is the live tree the reconciler mutates. Implementations own the
// concrete Anchor and Handle types.
type Target interface {
	// Clear removes all live content currently associated with a.
	Clear(a Anchor) error

	// Materialize creates the live representation of n's own content (not its
	// children) for placement at a.
	Materialize(n *Node, a Anchor) (Handle, error)

	// ChildAnchor returns a new anchor inside h, either at the start of its
	// content or immediately after its current last child.
	ChildAnchor(h Handle, afterLastChild bool) (Anchor, error)

	// Append inserts finished live content at a.
	Append(a Anchor, h Handle) error

	// AnchorAfter returns a new, empty anchor positioned immediately after
	// the content of a.
	AnchorAfter(a Anchor) (Anchor, error)
}

// Remover is implemented by targets that can discard an anchor together
// with its content. The reconciler removes children dropped from the end of a
// sibling list this way; targets without it get Clear and keep the anchor.
type Remover interface {
	Remove(a Anchor) error
}

// Op names a Target operation for instrumentation.
type Op string

const (
	OpClear       Op = "clear"
	OpMaterialize Op = "materialize"
	OpChildAnchor Op = "child_anchor"
	OpAppend      Op = "append"
	OpAnchorAfter Op = "anchor_after"
	OpRemove      Op = "remove"
)

// Outcome classifies one reconciliation of a root against its predecessor.
type Outcome string

const (
	OutcomeMount   Outcome = "mount"   // first materialization
	OutcomeNoop    Outcome = "noop"    // identical trees
	OutcomeReplace Outcome = "replace" // root cleared and rebuilt
	OutcomePatch   Outcome = "patch"   // root kept, descendants patched
)
