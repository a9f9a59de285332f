package demo

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vtree/pkg/vdom"
	"github.com/vango-dev/vtree/pkg/vtest"
)

func mustDo(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("action failed: %v", err)
	}
}

// listItems returns the Item nodes below the committed todo list.
func listItems(t *testing.T, app *vdom.Instance) []*vdom.Node {
	t.Helper()
	section := app.Committed()
	if section == nil || len(section.Children) < 2 {
		t.Fatalf("unexpected committed tree: %v", section)
	}
	return section.Children[1].Children
}

func TestAppInitialRender(t *testing.T) {
	h := vtest.Mount(t, App, nil)

	h.ExpectContains(`<h1>todos</h1>`)
	h.ExpectContains(`<span class="todo-count">0 items left</span>`)
	h.ExpectContains(`<a href="#/all" class="selected">All</a>`)
	h.ExpectContains(`data-on-input="true"`)
	h.ExpectNotContains("Clear completed")
}

func TestAppTitleProp(t *testing.T) {
	h := vtest.Mount(t, App, vdom.Attrs(vdom.A("title", "groceries")))
	h.ExpectContains(`<h1>groceries</h1>`)
}

func TestAppWorkflow(t *testing.T) {
	h := vtest.Mount(t, App, nil)
	app := h.Instance()

	mustDo(t, AddTodo(app, "milk"))
	mustDo(t, AddTodo(app, "  eggs "))
	h.ExpectContains(`<label>milk</label>`)
	h.ExpectContains(`<label>eggs</label>`)
	h.ExpectContains("2 items left")

	mustDo(t, Toggle(app, 0))
	h.ExpectContains(`<li class="todo completed" data-index="0"><input class="toggle" type="checkbox" checked><label>milk</label></li>`)
	h.ExpectContains("1 item left")
	h.ExpectContains(`<button class="clear-completed" data-on-click="true">Clear completed</button>`)

	mustDo(t, SetFilter(app, FilterDone))
	h.ExpectContains(`<label>milk</label>`)
	h.ExpectNotContains(`<label>eggs</label>`)
	h.ExpectContains(`<a href="#/done" class="selected">Done</a>`)

	mustDo(t, SetFilter(app, FilterAll))
	mustDo(t, ClearCompleted(app))
	h.ExpectNotContains(`<label>milk</label>`)
	h.ExpectContains(`<label>eggs</label>`)
	h.ExpectNotContains("Clear completed")

	want := []Todo{{Title: "milk", Done: true, Archived: true}, {Title: "eggs"}}
	if diff := cmp.Diff(want, Todos(app.State())); diff != "" {
		t.Errorf("todos mismatch (-want +got):\n%s", diff)
	}
}

func TestUnchangedItemKeepsInstance(t *testing.T) {
	h := vtest.Mount(t, App, nil)
	app := h.Instance()
	mustDo(t, AddTodo(app, "a"))
	mustDo(t, AddTodo(app, "b"))

	before := listItems(t, app)
	mustDo(t, Toggle(app, 0))
	after := listItems(t, app)

	if before[0].Comp == after[0].Comp {
		t.Error("toggled item should be a new instance")
	}
	if before[1].Comp != after[1].Comp {
		t.Error("unchanged item should keep its instance")
	}
}

func TestShouldUpdateSkipsIdenticalState(t *testing.T) {
	h := vtest.Mount(t, App, nil)
	mustDo(t, AddTodo(h.Instance(), "a"))
	h.ResetOps()

	mustDo(t, SetFilter(h.Instance(), FilterAll))
	h.ExpectOps()
}

func TestActionErrors(t *testing.T) {
	h := vtest.Mount(t, App, nil)
	app := h.Instance()
	mustDo(t, AddTodo(app, "a"))

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"empty title", func() error { return AddTodo(app, "   ") }, ErrEmptyTitle},
		{"toggle out of range", func() error { return Toggle(app, 5) }, ErrNoSuchTodo},
		{"negative toggle", func() error { return Toggle(app, -1) }, ErrNoSuchTodo},
		{"unknown filter", func() error { return SetFilter(app, "someday") }, ErrUnknownFilter},
		{"unknown filter is a hook error", func() error { return SetFilter(app, "someday") }, vdom.ErrHookInvocation},
		{"unknown action", func() error { return Dispatch(app, "explode", nil) }, ErrUnknownAction},
		{"bad index", func() error { return Dispatch(app, "toggle", map[string]any{"index": 0.5}) }, ErrNoSuchTodo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if f := app.State()["filter"]; f != FilterAll {
		t.Errorf("rejected filter changed state: %v", f)
	}
}

func TestDispatch(t *testing.T) {
	h := vtest.Mount(t, App, nil)
	app := h.Instance()

	mustDo(t, Dispatch(app, "add", map[string]any{"title": "milk"}))
	mustDo(t, Dispatch(app, "add", map[string]any{"title": "tea"}))
	mustDo(t, Dispatch(app, "toggle", map[string]any{"index": float64(1)}))
	mustDo(t, Dispatch(app, "filter", map[string]any{"filter": "active"}))

	h.ExpectContains(`<label>milk</label>`)
	h.ExpectNotContains(`<label>tea</label>`)

	mustDo(t, Dispatch(app, "clear", nil))
	if got := Remaining(app.State()); got != 1 {
		t.Errorf("Remaining() = %d, want 1", got)
	}
}

func TestJSONShapedState(t *testing.T) {
	// State decoded from JSON uses []any and map[string]any throughout.
	h := vtest.Mount(t, App, nil)
	h.SetState(vdom.State{"todos": []any{
		map[string]any{"title": "from json", "done": true},
		"not an object",
	}})

	h.ExpectContains(`<label>from json</label>`)
	h.ExpectContains("0 items left")
}

func TestFooterChildren(t *testing.T) {
	h := vtest.Mount(t, Footer, vdom.Attrs(vdom.A("remaining", 1), vdom.A("filter", FilterActive)),
		vdom.El("button", nil, "extra"))

	h.ExpectContains("1 item left")
	h.ExpectContains(`<a href="#/active" class="selected">Active</a>`)
	h.ExpectContains(`<button>extra</button></footer>`)
}

func TestLookup(t *testing.T) {
	if d, ok := Lookup("App"); !ok || d != App {
		t.Errorf("Lookup(App) = %v, %v", d, ok)
	}
	if _, ok := Lookup("Nope"); ok {
		t.Error("Lookup(Nope) should fail")
	}
	if diff := cmp.Diff([]string{"App", "Footer", "Item"}, Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
}
