package demo

import (
	"fmt"
	"strings"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// Todo is a decoded entry of the "todos" state.
type Todo struct {
	Title    string
	Done     bool
	Archived bool
}

func (t Todo) visible(filter string) bool {
	switch filter {
	case FilterActive:
		return !t.Done
	case FilterDone:
		return t.Done
	}
	return true
}

// Todos decodes the "todos" state. Entries that are not objects are skipped.
func Todos(s vdom.State) []Todo {
	raw, _ := s["todos"].([]any)
	out := make([]Todo, 0, len(raw))
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		var td Todo
		td.Title, _ = m["title"].(string)
		td.Done, _ = m["done"].(bool)
		td.Archived, _ = m["archived"].(bool)
		out = append(out, td)
	}
	return out
}

// Remaining counts live todos that are not done.
func Remaining(s vdom.State) int {
	n := 0
	for _, td := range Todos(s) {
		if !td.Archived && !td.Done {
			n++
		}
	}
	return n
}

func countLive(todos []Todo) int {
	n := 0
	for _, td := range todos {
		if !td.Archived {
			n++
		}
	}
	return n
}

// patchTodo returns a partial todos array that leaves every entry before
// index untouched and merges change into entry index.
func patchTodo(index int, change map[string]any) []any {
	out := make([]any, index+1)
	for i := range out[:index] {
		out[i] = map[string]any{}
	}
	out[index] = change
	return out
}

func todoCount(c *vdom.Instance) int {
	raw, _ := c.State()["todos"].([]any)
	return len(raw)
}

// AddTodo appends a todo and clears the draft.
func AddTodo(c *vdom.Instance, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	return c.SetState(vdom.State{
		"draft": "",
		"todos": patchTodo(todoCount(c), map[string]any{"title": title, "done": false, "archived": false}),
	})
}

// Toggle flips the done flag of the todo at index.
func Toggle(c *vdom.Instance, index int) error {
	todos := Todos(c.State())
	if index < 0 || index >= len(todos) {
		return fmt.Errorf("%w: %d", ErrNoSuchTodo, index)
	}
	return c.SetState(vdom.State{
		"todos": patchTodo(index, map[string]any{"done": !todos[index].Done}),
	})
}

// SetFilter changes the visible subset.
func SetFilter(c *vdom.Instance, filter string) error {
	return c.SetState(vdom.State{"filter": filter})
}

// ClearCompleted archives every done todo.
func ClearCompleted(c *vdom.Instance) error {
	todos := Todos(c.State())
	partial := make([]any, len(todos))
	for i, td := range todos {
		if td.Done && !td.Archived {
			partial[i] = map[string]any{"archived": true}
		} else {
			partial[i] = map[string]any{}
		}
	}
	return c.SetState(vdom.State{"todos": partial})
}

// Dispatch runs a named action with JSON-decoded arguments. It is the entry
// point for the preview server and scenario files.
//
//	add     {"title": "milk"}
//	toggle  {"index": 0}
//	filter  {"filter": "done"}
//	clear   {}
func Dispatch(c *vdom.Instance, action string, args map[string]any) error {
	switch action {
	case "add":
		title, _ := args["title"].(string)
		return AddTodo(c, title)
	case "toggle":
		index, ok := asInt(args["index"])
		if !ok {
			return fmt.Errorf("%w: index %v", ErrNoSuchTodo, args["index"])
		}
		return Toggle(c, index)
	case "filter":
		filter, _ := args["filter"].(string)
		return SetFilter(c, filter)
	case "clear":
		return ClearCompleted(c)
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, action)
}

// asInt accepts the number types produced by encoding/json and yaml.v3.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
