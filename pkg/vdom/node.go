package vdom

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement   Kind = iota // <div>, <span>, etc.
	KindText                  // Plain text node
	KindComponent             // Component instance
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Anchor is an opaque insertion point in the live tree. Its concrete type is
// owned by the Target that created it.
type Anchor any

// Handle is an opaque reference to live content created by a Target.
type Handle any

// Node is a virtual tree node.
type Node struct {
	Kind     Kind      // Node type
	Tag      string    // Element tag name (e.g., "div")
	Props    Props     // Element attributes; component props live on Comp
	Children []*Node   // Element children
	Text     string    // For KindText
	Comp     *Instance // For KindComponent

	anchor Anchor
	handle Handle
}

// Anchor returns the insertion point this node was mounted at, or nil if the
// node has not been materialized.
func (n *Node) Anchor() Anchor {
	if n == nil {
		return nil
	}
	return n.anchor
}

// props returns the props participating in equality for this node.
func (n *Node) props() Props {
	if n.Kind == KindComponent && n.Comp != nil {
		return n.Comp.props
	}
	return n.Props
}

// children returns the ordered child sequence of this node. For components
// these are the passthrough children handed to the instance.
func (n *Node) children() []*Node {
	if n.Kind == KindComponent && n.Comp != nil {
		return n.Comp.children
	}
	return n.Children
}

// Attr is a single key/value prop.
type Attr struct {
	Key   string
	Value any
}

// Props is an ordered prop mapping. Keys are unique; Set on an existing key
// replaces the value in place.
type Props []Attr

// Get returns the value stored under key.
func (p Props) Get(key string) (any, bool) {
	for _, a := range p {
		if a.Key == key {
			return a.Value, true
		}
	}
	return nil, false
}

// Set stores value under key, keeping the original position of an existing key.
func (p *Props) Set(key string, value any) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Attr{Key: key, Value: value})
}

// Keys returns the prop keys in insertion order.
func (p Props) Keys() []string {
	keys := make([]string, len(p))
	for i, a := range p {
		keys[i] = a.Key
	}
	return keys
}

// Clone returns a shallow copy of p.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	copy(out, p)
	return out
}

// A creates a single attribute.
func A(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Attrs builds Props from attributes, collapsing duplicate keys.
func Attrs(attrs ...Attr) Props {
	var p Props
	for _, a := range attrs {
		p.Set(a.Key, a.Value)
	}
	return p
}
