package demo

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// Filters accepted in the "filter" state key.
const (
	FilterAll    = "all"
	FilterActive = "active"
	FilterDone   = "done"
)

var (
	// ErrEmptyTitle is returned by AddTodo for a blank title.
	ErrEmptyTitle = errors.New("demo: empty todo title")

	// ErrUnknownFilter is returned when the filter state is not a known filter.
	ErrUnknownFilter = errors.New("demo: unknown filter")

	// ErrNoSuchTodo is returned for an out of range todo index.
	ErrNoSuchTodo = errors.New("demo: no such todo")

	// ErrUnknownAction is returned by Dispatch.
	ErrUnknownAction = errors.New("demo: unknown action")
)

// App is the root component of the todo list.
var App = &vdom.Descriptor{
	Name: "App",
	New:  func() vdom.Component { return vdom.RenderFunc(renderApp) },
	InitialState: func() vdom.State {
		return vdom.State{"draft": "", "filter": FilterAll, "todos": []any{}}
	},
	Hooks: vdom.Hooks{
		ShouldUpdate: func(c *vdom.Instance, old, next vdom.State) bool {
			return !vdom.PropEqual(map[string]any(old), map[string]any(next))
		},
		WillReceiveProps: func(c *vdom.Instance, old, next vdom.State) error {
			if f, _ := next["filter"].(string); !validFilter(f) {
				return fmt.Errorf("%w: %q", ErrUnknownFilter, f)
			}
			return nil
		},
	},
}

// Item renders one todo. It keeps its attributes in its own fields.
var Item = &vdom.Descriptor{
	Name: "Item",
	New:  func() vdom.Component { return &item{} },
	Hooks: vdom.Hooks{
		DidMount: func(c *vdom.Instance) error {
			slog.Debug("demo: item mounted", "title", c.Prop("title"))
			return nil
		},
		DidUnmount: func(c *vdom.Instance) error {
			slog.Debug("demo: item unmounted", "title", c.Prop("title"))
			return nil
		},
	},
}

// Footer shows the remaining count, the filter links and any children.
var Footer = vdom.Func("Footer", renderFooter)

var registry = map[string]*vdom.Descriptor{
	App.Name:    App,
	Item.Name:   Item,
	Footer.Name: Footer,
}

// Lookup returns the component registered under name.
func Lookup(name string) (*vdom.Descriptor, bool) {
	d, ok := registry[name]
	return d, ok
}

// Names returns the registered component names in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validFilter(f string) bool {
	return f == FilterAll || f == FilterActive || f == FilterDone
}

func renderApp(c *vdom.Instance) *vdom.Node {
	s := c.State()
	filter, _ := s["filter"].(string)
	draft, _ := s["draft"].(string)
	todos := Todos(s)

	var items []*vdom.Node
	for i, td := range todos {
		if td.Archived || !td.visible(filter) {
			continue
		}
		items = append(items, vdom.MustBuild(Item, vdom.Attrs(
			vdom.A("index", i),
			vdom.A("title", td.Title),
			vdom.A("done", td.Done),
		)))
	}

	var clear *vdom.Node
	if Remaining(s) < countLive(todos) {
		clear = vdom.El("button", vdom.Attrs(
			vdom.A("class", "clear-completed"),
			vdom.A("onclick", func() error { return ClearCompleted(c) }),
		), "Clear completed")
	}

	title := "todos"
	if t, ok := c.Prop("title").(string); ok && t != "" {
		title = t
	}

	return vdom.El("section", vdom.Attrs(vdom.A("class", "todoapp")),
		vdom.El("header", vdom.Attrs(vdom.A("class", "header")),
			vdom.El("h1", nil, title),
			vdom.El("input", vdom.Attrs(
				vdom.A("class", "new-todo"),
				vdom.A("placeholder", "What needs to be done?"),
				vdom.A("value", draft),
				vdom.A("oninput", func(v string) error { return c.SetState(vdom.State{"draft": v}) }),
			)),
		),
		vdom.El("ul", vdom.Attrs(vdom.A("class", "todo-list")), items),
		vdom.MustBuild(Footer, vdom.Attrs(
			vdom.A("remaining", Remaining(s)),
			vdom.A("filter", filter),
		), clear),
	)
}

type item struct {
	index int
	title string
	done  bool
}

// SetAttribute implements vdom.AttributeSetter.
func (it *item) SetAttribute(name string, value any) {
	switch name {
	case "index":
		it.index, _ = value.(int)
	case "title":
		it.title, _ = value.(string)
	case "done":
		it.done, _ = value.(bool)
	}
}

// Render implements vdom.Component.
func (it *item) Render(c *vdom.Instance) *vdom.Node {
	class := "todo"
	if it.done {
		class = "todo completed"
	}
	return vdom.El("li", vdom.Attrs(vdom.A("class", class), vdom.A("data-index", it.index)),
		vdom.El("input", vdom.Attrs(
			vdom.A("class", "toggle"),
			vdom.A("type", "checkbox"),
			vdom.A("checked", it.done),
		)),
		vdom.El("label", nil, it.title),
	)
}

func renderFooter(c *vdom.Instance) *vdom.Node {
	n, _ := c.Prop("remaining").(int)
	filter, _ := c.Prop("filter").(string)
	if filter == "" {
		filter = FilterAll
	}
	word := "items"
	if n == 1 {
		word = "item"
	}

	links := make([]*vdom.Node, 0, 3)
	for _, f := range []string{FilterAll, FilterActive, FilterDone} {
		attrs := vdom.Attrs(vdom.A("href", "#/"+f))
		if f == filter {
			attrs.Set("class", "selected")
		}
		links = append(links, vdom.El("li", nil, vdom.El("a", attrs, strings.ToUpper(f[:1])+f[1:])))
	}

	return vdom.El("footer", vdom.Attrs(vdom.A("class", "footer")),
		vdom.El("span", vdom.Attrs(vdom.A("class", "todo-count")), fmt.Sprintf("%d %s left", n, word)),
		vdom.El("ul", vdom.Attrs(vdom.A("class", "filters")), links),
		c.Children(),
	)
}
