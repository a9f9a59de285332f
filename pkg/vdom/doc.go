// Package vdom provides the virtual tree and reconciler for vtree.
//
// A UI is described as a tree of Nodes: elements, text and component
// instances. Each update renders a fresh tree, compares it with the tree
// committed by the previous update and applies the smallest mutation it can
// to a live tree through a Target.
//
// # Core Types
//
// Node is the tagged variant for elements, text and components. Props is an
// ordered attribute mapping. A Descriptor defines a component type; each
// component node carries an Instance, which persists across renders and owns
// its state and committed tree.
//
// # Building Trees
//
// Build creates a node from a tag name or a Descriptor, attributes and
// children. Children are flattened and normalized:
//
//	list := vdom.El("ul", vdom.Attrs(vdom.A("class", "todo")),
//	    vdom.El("li", nil, "first"),
//	    items, // []*vdom.Node, flattened in place
//	    nil,   // empty text
//	)
//
// # Reconciliation
//
// SameNode decides whether two nodes can be patched in place; SameTree
// decides whether nothing needs to happen at all. The Reconciler replaces a
// subtree wholesale when its root changed and otherwise recurses by child
// index, appending after the last sibling when the new tree grew.
//
// # Lifecycle
//
// Instance.SetState deep-merges a partial state (see Merge) and re-renders
// synchronously. Optional Hooks fire around mount and update; a failing hook
// aborts the operation with a HookInvocationError.
package vdom
