// Package vtest provides testing helpers for vtree components.
//
// A Harness mounts a tree on a fresh in-memory Document with operation
// recording enabled, so tests can assert on both the rendered markup and the
// exact sequence of live tree operations a cycle performed.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.Mount(t, Counter, nil)
//	    h.ResetOps()
//	    h.SetState(vdom.State{"n": 2})
//	    h.ExpectContains("2")
//	    h.ExpectMutations(2)
//	}
//
// # Render Assertions
//
// For one-off trees without a harness:
//
//	vtest.ExpectElement(t, node, "button")
//	vtest.ExpectAttribute(t, node, "class", "btn-primary")
package vtest
