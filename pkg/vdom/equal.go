package vdom

import (
	"reflect"
	"unsafe"
)

// SameNode reports whether a and b are compatible for an in-place patch:
// same kind, same tag (or text, or component type) and equal props.
// Children are not compared.
func SameNode(a, b *Node) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindText:
		return a.Text == b.Text
	case KindElement:
		if a.Tag != b.Tag {
			return false
		}
	case KindComponent:
		if a.Comp == nil || b.Comp == nil {
			return a.Comp == b.Comp
		}
		if a.Comp.desc != b.Comp.desc {
			return false
		}
	}

	pa, pb := a.props(), b.props()
	if len(pa) != len(pb) {
		return false
	}
	for _, attr := range pa {
		bv, ok := pb.Get(attr.Key)
		if !ok || !PropEqual(attr.Value, bv) {
			return false
		}
	}
	return true
}

// SameTree reports whether a and b are structurally identical: SameNode at
// every position with equal child counts. Reconciling identical trees
// performs no live mutation.
func SameTree(a, b *Node) bool {
	if !SameNode(a, b) {
		return false
	}
	ac, bc := a.children(), b.children()
	if len(ac) != len(bc) {
		return false
	}
	for i := range ac {
		if !SameTree(ac[i], bc[i]) {
			return false
		}
	}
	return true
}

// PropEqual compares two prop values by deep structural equality.
//
// Callbacks are equal when they share the same code: two closures created
// from one function literal compare equal even if they capture different
// variables. This approximates comparing callbacks by their source text.
//
// Maps, slices, arrays, structs and pointers are walked recursively,
// including unexported struct fields, and every leaf is compared by these
// rules. Numbers compare by value regardless of their Go type, so int(1),
// int64(1) and float64(1) are equal. A nil map or slice equals an empty one.
func PropEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return valueEqual(reflect.ValueOf(a), reflect.ValueOf(b), make(map[visit]bool))
}

// visit records a pair of containers already under comparison, so cyclic
// values terminate.
type visit struct {
	a, b unsafe.Pointer
	typ  reflect.Type
}

func valueEqual(a, b reflect.Value, seen map[visit]bool) bool {
	a, b = unwrap(a), unwrap(b)
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}

	ak, bk := a.Kind(), b.Kind()
	if isNumber(ak) && isNumber(bk) {
		return numberEqual(a, b)
	}

	switch ak {
	case reflect.Map:
		if bk != reflect.Map || a.Len() != b.Len() {
			return false
		}
		if a.Len() == 0 || a.UnsafePointer() == b.UnsafePointer() {
			return true
		}
		if !enter(a, b, seen) {
			return true
		}
		keyType := b.Type().Key()
		iter := a.MapRange()
		for iter.Next() {
			k := iter.Key()
			if !k.Type().AssignableTo(keyType) {
				return false
			}
			bv := b.MapIndex(k)
			if !bv.IsValid() || !valueEqual(iter.Value(), bv, seen) {
				return false
			}
		}
		return true

	case reflect.Slice, reflect.Array:
		if (bk != reflect.Slice && bk != reflect.Array) || a.Len() != b.Len() {
			return false
		}
		if ak == reflect.Slice && bk == reflect.Slice && a.Len() > 0 {
			if a.UnsafePointer() == b.UnsafePointer() && a.Type() == b.Type() {
				return true
			}
			if !enter(a, b, seen) {
				return true
			}
		}
		for i := 0; i < a.Len(); i++ {
			if !valueEqual(a.Index(i), b.Index(i), seen) {
				return false
			}
		}
		return true
	}

	if a.Type() != b.Type() {
		return false
	}

	switch ak {
	case reflect.Func:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return a.Pointer() == b.Pointer()
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !valueEqual(a.Field(i), b.Field(i), seen) {
				return false
			}
		}
		return true
	case reflect.Pointer:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		if a.Pointer() == b.Pointer() {
			return true
		}
		if !enter(a, b, seen) {
			return true
		}
		return valueEqual(a.Elem(), b.Elem(), seen)
	case reflect.String:
		return a.String() == b.String()
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()
	case reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	}
	return false
}

// unwrap strips interface layers; a nil interface becomes the zero Value.
func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// enter marks the pair as under comparison. It returns false when the pair
// is already being compared further up the walk.
func enter(a, b reflect.Value, seen map[visit]bool) bool {
	key := visit{a.UnsafePointer(), b.UnsafePointer(), a.Type()}
	if seen[key] {
		return false
	}
	seen[key] = true
	return true
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func numberEqual(a, b reflect.Value) bool {
	switch {
	case a.CanInt() && b.CanInt():
		return a.Int() == b.Int()
	case a.CanUint() && b.CanUint():
		return a.Uint() == b.Uint()
	case a.CanInt() && b.CanUint():
		return a.Int() >= 0 && uint64(a.Int()) == b.Uint()
	case a.CanUint() && b.CanInt():
		return b.Int() >= 0 && a.Uint() == uint64(b.Int())
	}
	return toFloat(a) == toFloat(b)
}

func toFloat(v reflect.Value) float64 {
	switch {
	case v.CanInt():
		return float64(v.Int())
	case v.CanUint():
		return float64(v.Uint())
	}
	return v.Float()
}
