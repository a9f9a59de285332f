package vtest_test

import (
	"strconv"
	"testing"

	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/vdom"
	"github.com/vango-dev/vtree/pkg/vtest"
)

var counter = &vdom.Descriptor{
	Name: "Counter",
	New: func() vdom.Component {
		return vdom.RenderFunc(func(c *vdom.Instance) *vdom.Node {
			return vdom.El("p", vdom.Attrs(vdom.A("class", "count")), c.State()["n"])
		})
	},
	InitialState: func() vdom.State { return vdom.State{"n": 1} },
}

func TestMount(t *testing.T) {
	h := vtest.Mount(t, counter, nil)

	h.ExpectHTML(`<p class="count">1</p>`)
	if !h.Instance().Mounted() {
		t.Error("expected instance to be mounted")
	}
}

func TestSetState(t *testing.T) {
	h := vtest.Mount(t, counter, nil)
	h.ResetOps()

	h.SetState(vdom.State{"n": 2})

	h.ExpectHTML(`<p class="count">2</p>`)
	h.ExpectMutations(2)

	slot := strconv.Itoa(h.Instance().Committed().Children[0].Anchor().(*render.Slot).ID)
	h.ExpectOps("clear@"+slot, "materialize@"+slot+":#text", "append@"+slot)
}

func TestSetState_Identical(t *testing.T) {
	h := vtest.Mount(t, counter, nil)
	h.ResetOps()

	h.SetState(vdom.State{"n": 1})

	h.ExpectMutations(0)
	h.ExpectOps()
}

func TestRerender(t *testing.T) {
	h := vtest.MountNode(t, vdom.El("ul", nil, vdom.El("li", nil, "a")))

	outcome := h.Rerender(vdom.El("ul", nil, vdom.El("li", nil, "a"), vdom.El("li", nil, "b")))
	if outcome != vdom.OutcomePatch {
		t.Errorf("outcome = %s, want %s", outcome, vdom.OutcomePatch)
	}
	h.ExpectHTML("<ul><li>a</li><li>b</li></ul>")

	h.ResetOps()
	if outcome := h.Rerender(vdom.El("ul", nil, vdom.El("li", nil, "a"), vdom.El("li", nil, "b"))); outcome != vdom.OutcomeNoop {
		t.Errorf("outcome = %s, want %s", outcome, vdom.OutcomeNoop)
	}
	h.ExpectOps()
}

func TestExpectContains(t *testing.T) {
	h := vtest.Mount(t, "div", vdom.Attrs(vdom.A("id", "main")), "Hello ", vdom.El("b", nil, "World"))

	h.ExpectContains("Hello")
	h.ExpectContains("<b>World</b>")
	h.ExpectNotContains("Goodbye")
}

func TestRenderToString(t *testing.T) {
	node := vdom.El("div", nil,
		vdom.El("h1", nil, "Title"),
		vdom.El("p", nil, "Content"),
	)

	html := vtest.RenderToString(node)
	if html != "<div><h1>Title</h1><p>Content</p></div>" {
		t.Errorf("RenderToString() = %q", html)
	}
}

func TestExpectElement(t *testing.T) {
	node := vdom.El("div", nil,
		vdom.El("button", nil, "Click"),
		vdom.El("input", vdom.Attrs(vdom.A("type", "text"))),
	)

	vtest.ExpectElement(t, node, "button")
	vtest.ExpectElement(t, node, "input")
}

func TestExpectAttribute(t *testing.T) {
	node := vdom.El("button", vdom.Attrs(vdom.A("class", "btn-primary"), vdom.A("type", "submit")), "Submit")

	vtest.ExpectAttribute(t, node, "class", "btn-primary")
	vtest.ExpectAttribute(t, node, "type", "submit")
}
