package vdom

import (
	"fmt"
	"reflect"
)

// Text creates a text node.
func Text(content string) *Node {
	return &Node{
		Kind: KindText,
		Text: content,
	}
}

// T is shorthand for Text.
func T(content string) *Node { return Text(content) }

// Textf creates a formatted text node.
func Textf(format string, args ...any) *Node {
	return Text(fmt.Sprintf(format, args...))
}

// Build creates a node from a type, an attribute mapping and children.
//
// typ is either a tag name (string), producing an element, or a *Descriptor,
// producing a fresh component instance that receives every attribute through
// SetAttribute. Children may be nodes, strings, descriptors, nil, arbitrarily
// nested slices of those, or any other value, which is stringified.
func Build(typ any, attrs Props, children ...any) (*Node, error) {
	kids, err := normalizeChildren(children)
	if err != nil {
		return nil, err
	}

	switch t := typ.(type) {
	case string:
		return &Node{
			Kind:     KindElement,
			Tag:      t,
			Props:    Attrs(attrs...),
			Children: kids,
		}, nil

	case *Descriptor:
		inst, err := t.instantiate()
		if err != nil {
			return nil, err
		}
		for _, a := range attrs {
			inst.SetAttribute(a.Key, a.Value)
		}
		inst.children = kids
		return inst.node(), nil

	default:
		return nil, &InvalidNodeError{Value: typ, Reason: "type must be a tag name or *Descriptor"}
	}
}

// MustBuild is like Build but panics on error.
func MustBuild(typ any, attrs Props, children ...any) *Node {
	n, err := Build(typ, attrs, children...)
	if err != nil {
		panic(err)
	}
	return n
}

// El creates an element node. It panics if the children cannot be normalized.
func El(tag string, attrs Props, children ...any) *Node {
	return MustBuild(tag, attrs, children...)
}

// sliceID identifies a slice on the current flattening path.
type sliceID struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// normalizeChildren flattens children depth-first, left to right.
func normalizeChildren(children []any) ([]*Node, error) {
	out := make([]*Node, 0, len(children))
	visiting := make(map[sliceID]bool)
	var err error
	for _, c := range children {
		out, err = appendChild(out, c, visiting)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func appendChild(out []*Node, child any, visiting map[sliceID]bool) ([]*Node, error) {
	switch c := child.(type) {
	case nil:
		return append(out, Text("")), nil
	case *Node:
		if c == nil {
			return append(out, Text("")), nil
		}
		return append(out, c), nil
	case string:
		return append(out, Text(c)), nil
	case []byte:
		return append(out, Text(string(c))), nil
	case *Descriptor:
		n, err := Build(c, nil)
		if err != nil {
			return nil, err
		}
		return append(out, n), nil
	}

	rv := reflect.ValueOf(child)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Len() > 0 {
			id := sliceID{typ: rv.Type(), ptr: rv.Pointer(), len: rv.Len()}
			if visiting[id] {
				return nil, &InvalidNodeError{Value: child, Reason: "cyclic child sequence"}
			}
			visiting[id] = true
			defer delete(visiting, id)
		}
		var err error
		for i := 0; i < rv.Len(); i++ {
			out, err = appendChild(out, rv.Index(i).Interface(), visiting)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return append(out, Text("")), nil
		}
	}

	return append(out, Text(fmt.Sprint(child))), nil
}
