package vtest

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Harness owns a fresh Document with one mounted tree.
type Harness struct {
	t    testing.TB
	Doc  *render.Document
	R    *vdom.Reconciler
	Root *vdom.Node
}

// Mount builds typ (a tag or *vdom.Descriptor) and mounts it on a new
// Document. Build or mount failures fail the test immediately.
//
// Example:
//
//	h := vtest.Mount(t, demo.App, nil)
//	h.SetState(vdom.State{"filter": "done"})
//	h.ExpectContains("0 left")
func Mount(t testing.TB, typ any, attrs vdom.Props, children ...any) *Harness {
	t.Helper()
	node, err := vdom.Build(typ, attrs, children...)
	if err != nil {
		t.Fatalf("vtest: build: %v", err)
	}
	return MountNode(t, node)
}

// MountNode mounts an already built tree on a new Document.
func MountNode(t testing.TB, node *vdom.Node, opts ...vdom.Option) *Harness {
	t.Helper()
	doc := render.NewDocument(render.Config{RecordOps: true})
	r := vdom.NewReconciler(doc, opts...)
	if err := r.RenderRoot(node, doc.Root()); err != nil {
		t.Fatalf("vtest: mount: %v", err)
	}
	return &Harness{t: t, Doc: doc, R: r, Root: node}
}

// Instance returns the root component instance, failing the test when the
// root is not a component.
func (h *Harness) Instance() *vdom.Instance {
	h.t.Helper()
	if h.Root.Kind != vdom.KindComponent || h.Root.Comp == nil {
		h.t.Fatalf("vtest: root is %s, not a component", h.Root.Kind)
	}
	return h.Root.Comp
}

// SetState merges partial into the root component state and re-renders.
func (h *Harness) SetState(partial vdom.State) {
	h.t.Helper()
	if err := h.Instance().SetState(partial); err != nil {
		h.t.Fatalf("vtest: SetState: %v", err)
	}
}

// Rerender reconciles next against the current root and makes it the new
// root.
func (h *Harness) Rerender(next *vdom.Node) vdom.Outcome {
	h.t.Helper()
	outcome, err := h.R.Reconcile(next, h.Root)
	if err != nil {
		h.t.Fatalf("vtest: reconcile: %v", err)
	}
	h.Root = next
	return outcome
}

// HTML returns the markup below the document root.
func (h *Harness) HTML() string {
	h.t.Helper()
	html, err := h.Doc.InnerHTML()
	if err != nil {
		h.t.Fatalf("vtest: render: %v", err)
	}
	return html
}

// Ops returns the recorded target operations since the last ResetOps.
func (h *Harness) Ops() []string {
	recs := h.Doc.Ops()
	out := make([]string, len(recs))
	for i, op := range recs {
		out[i] = op.String()
	}
	return out
}

// ResetOps discards recorded operations and counters.
func (h *Harness) ResetOps() {
	h.Doc.ResetStats()
}

// ExpectHTML asserts the exact markup below the root.
func (h *Harness) ExpectHTML(want string) {
	h.t.Helper()
	if got := h.HTML(); got != want {
		h.t.Errorf("rendered output mismatch (-want +got):\n%s", cmp.Diff(want, got))
	}
}

// ExpectContains asserts that rendered output contains expected substring.
func (h *Harness) ExpectContains(expected string) {
	h.t.Helper()
	html := h.HTML()
	if !strings.Contains(html, expected) {
		h.t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func (h *Harness) ExpectNotContains(unexpected string) {
	h.t.Helper()
	html := h.HTML()
	if strings.Contains(html, unexpected) {
		h.t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectOps asserts the exact operation sequence since the last ResetOps.
//
// Example:
//
//	h.ExpectOps("clear@3", "materialize@3:#text", "append@3")
func (h *Harness) ExpectOps(want ...string) {
	h.t.Helper()
	if diff := cmp.Diff(want, h.Ops()); diff != "" {
		h.t.Errorf("operations mismatch (-want +got):\n%s", diff)
	}
}

// ExpectMutations asserts the number of mutating operations since the last
// ResetOps.
func (h *Harness) ExpectMutations(want int) {
	h.t.Helper()
	if got := h.Doc.Stats().Mutations(); got != want {
		h.t.Errorf("mutations = %d, want %d (ops: %v)", got, want, h.Ops())
	}
}

// RenderToString mounts node on a throwaway Document and returns its HTML.
// It returns "" when mounting fails.
func RenderToString(node *vdom.Node) string {
	doc := render.NewDocument(render.Config{})
	if err := vdom.NewReconciler(doc).RenderRoot(node, doc.Root()); err != nil {
		return ""
	}
	html, err := doc.InnerHTML()
	if err != nil {
		return ""
	}
	return html
}

// ExpectElement asserts that rendered output contains a specific tag.
//
// Example:
//
//	vtest.ExpectElement(t, vdom.El("button", nil, "Save"), "button")
func ExpectElement(t testing.TB, node *vdom.Node, tag string) {
	t.Helper()
	html := RenderToString(node)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
func ExpectAttribute(t testing.TB, node *vdom.Node, attr, value string) {
	t.Helper()
	html := RenderToString(node)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
