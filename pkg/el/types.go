package el

import "github.com/vango-dev/livetree/pkg/dom"

// FragmentType is the Type of a fragment node.
const FragmentType = "#fragment"

// Node describes an element, a fragment or a component call. Type is a tag
// name, FragmentType, or a component function.
type Node struct {
	Type     any
	Props    Props
	Children []any
}

// Props holds attributes, event handlers and component props.
type Props map[string]any

// Attr is a single prop passed to E.
type Attr struct {
	Key   string
	Value any
}

// Style is an inline style object. Keys starting with ':' or '&', or
// values that are themselves Style, describe nested selectors.
type Style map[string]any

// UndefinedValue is the type of Undefined.
type UndefinedValue struct{}

// String implements fmt.Stringer.
func (UndefinedValue) String() string { return "undefined" }

// Undefined is the absent value. It renders nothing as a child and the
// text "undefined" when read from a reactive value.
var Undefined = UndefinedValue{}

// Ref receives the output node of the element it is attached to.
type Ref struct {
	Current *dom.Node
}

// RefFunc is called with the output node on mount and with nil on unmount.
type RefFunc func(*dom.Node)

// Name returns the local name given with As, or "".
func (n *Node) Name() string {
	s, _ := n.Props["as"].(string)
	return s
}

// IsComponent reports whether the node describes a component call.
func (n *Node) IsComponent() bool {
	_, ok := n.Type.(string)
	return !ok && n.Type != nil
}

// Clone returns a shallow copy with its own props map and children slice.
func (n *Node) Clone() *Node {
	out := &Node{
		Type:     n.Type,
		Props:    make(Props, len(n.Props)),
		Children: make([]any, len(n.Children)),
	}
	for k, v := range n.Props {
		out.Props[k] = v
	}
	copy(out.Children, n.Children)
	return out
}
