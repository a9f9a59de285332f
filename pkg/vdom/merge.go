package vdom

// State is a component's state mapping.
type State map[string]any

// Merge deep-merges source into target in place.
//
// Mappings (State or map[string]any) and arrays ([]any) are composites.
// When a source value is a composite and the target holds anything other
// than a composite of the same shape, the target slot is first reset to an
// empty container of the source's shape. Arrays merge index by index and
// grow to fit. All other values, callbacks included, are assigned directly.
// target never shares a container with source after the merge.
func Merge(target, source State) {
	if target == nil {
		return
	}
	mergeMap(target, source)
}

func mergeMap(dst, src map[string]any) {
	for k, sv := range src {
		dst[k] = mergeValue(dst[k], sv)
	}
}

// mergeValue returns the result of merging src onto dst.
func mergeValue(dst, src any) any {
	switch s := src.(type) {
	case State:
		return mergeValue(dst, map[string]any(s))
	case map[string]any:
		d, ok := asMap(dst)
		if !ok {
			d = make(map[string]any, len(s))
		}
		mergeMap(d, s)
		return d
	case []any:
		d, ok := dst.([]any)
		if !ok {
			d = make([]any, 0, len(s))
		}
		for i, sv := range s {
			if i < len(d) {
				d[i] = mergeValue(d[i], sv)
			} else {
				d = append(d, mergeValue(nil, sv))
			}
		}
		return d
	default:
		return src
	}
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case State:
		return m, m != nil
	case map[string]any:
		return m, m != nil
	}
	return nil, false
}

// Clone returns a deep copy of s. Only composites (see Merge) are copied;
// other values are shared.
func Clone(s State) State {
	if s == nil {
		return nil
	}
	out := make(State, len(s))
	Merge(out, s)
	return out
}
