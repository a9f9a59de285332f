// Package demo contains a small todo list built from vdom components. The
// vtree command mounts it for render, serve and publish.
//
// The App state has the shape
//
//	{
//	  "draft":  "",
//	  "filter": "all" | "active" | "done",
//	  "todos":  [{"title": "milk", "done": false, "archived": false}, ...]
//	}
//
// State changes go through SetState, so list edits are expressed as index
// aligned partial arrays: an empty object leaves a todo unchanged.
package demo
