package dom

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement  Kind = iota + 1 // <div>, <button>, etc.
	KindText                     // Plain text node
	KindComment                  // Comment marker
	KindFragment                 // Grouping without wrapper
	KindDocument                 // Tree root
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindFragment:
		return "Fragment"
	case KindDocument:
		return "Document"
	default:
		return "Unknown"
	}
}

// Node is a live output node.
type Node struct {
	kind Kind
	tag  string
	data string

	attrs map[string]string

	parent   *Node
	children []*Node

	listeners map[string][]*listener
}

// NewDocument creates a document root.
func NewDocument() *Node {
	return &Node{kind: KindDocument}
}

// NewElement creates an element with the given tag.
func NewElement(tag string) *Node {
	return &Node{kind: KindElement, tag: strings.ToLower(tag)}
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{kind: KindText, data: text}
}

// NewComment creates a comment node.
func NewComment(text string) *Node {
	return &Node{kind: KindComment, data: text}
}

// NewFragment creates an empty fragment.
func NewFragment() *Node {
	return &Node{kind: KindFragment}
}

// Kind returns the node type.
func (n *Node) Kind() Kind { return n.kind }

// Tag returns the element tag, or "" for other kinds.
func (n *Node) Tag() string { return n.tag }

// Data returns the text of a text or comment node.
func (n *Node) Data() string { return n.data }

// SetData replaces the text of a text or comment node in place.
func (n *Node) SetData(s string) {
	n.data = s
}

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

// NextSibling returns the following sibling, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

// PrevSibling returns the preceding sibling, or nil.
func (n *Node) PrevSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i <= 0 {
		return nil
	}
	return n.parent.children[i-1]
}

func (n *Node) indexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

func (n *Node) canHaveChildren() bool {
	return n.kind == KindElement || n.kind == KindFragment || n.kind == KindDocument
}

// AppendChild appends child, moving it from its current parent.
func (n *Node) AppendChild(child *Node) {
	n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref. A nil ref appends. Inserting a
// fragment moves all of its children and leaves it empty. ref must be a
// child of n.
func (n *Node) InsertBefore(child, ref *Node) {
	if !n.canHaveChildren() {
		panic(fmt.Sprintf("dom: %s node cannot have children", n.kind))
	}
	if child == ref {
		return
	}
	if child.kind == KindFragment {
		moved := child.children
		child.children = nil
		for _, c := range moved {
			c.parent = nil
		}
		for _, c := range moved {
			n.insert(c, ref)
		}
		return
	}
	if child.kind == KindDocument {
		panic("dom: a document cannot be inserted")
	}
	for p := n; p != nil; p = p.parent {
		if p == child {
			panic("dom: cannot insert a node into its own subtree")
		}
	}
	n.insert(child, ref)
}

func (n *Node) insert(child, ref *Node) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	if ref == nil {
		n.children = append(n.children, child)
		return
	}
	i := n.indexOf(ref)
	if i < 0 {
		panic("dom: reference node is not a child of this node")
	}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
}

// RemoveChild detaches child from n. Removing a non-child is a no-op.
func (n *Node) RemoveChild(child *Node) {
	i := n.indexOf(child)
	if i < 0 {
		return
	}
	copy(n.children[i:], n.children[i+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.parent = nil
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

// ReplaceChildren removes every child and appends nodes.
func (n *Node) ReplaceChildren(nodes ...*Node) {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	for _, c := range nodes {
		n.AppendChild(c)
	}
}

// TextContent returns the concatenated text of n and its descendants.
// Comments contribute nothing.
func (n *Node) TextContent() string {
	switch n.kind {
	case KindText:
		return n.data
	case KindComment:
		return ""
	}
	var b strings.Builder
	for _, c := range n.children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// IsConnected reports whether n is attached to a document.
func (n *Node) IsConnected() bool {
	for p := n; p != nil; p = p.parent {
		if p.kind == KindDocument {
			return true
		}
	}
	return false
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// ElementChildren returns the children that are elements or text,
// skipping comment markers.
func (n *Node) ElementChildren() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		if c.kind != KindComment {
			out = append(out, c)
		}
	}
	return out
}

// String describes the node for diagnostics.
func (n *Node) String() string {
	switch n.kind {
	case KindElement:
		return "<" + n.tag + ">"
	case KindText:
		return fmt.Sprintf("#text %q", n.data)
	case KindComment:
		return fmt.Sprintf("<!--%s-->", n.data)
	case KindFragment:
		return "#fragment"
	case KindDocument:
		return "#document"
	}
	return "#unknown"
}

// SetAttribute sets an attribute on an element. Invalid names are rejected.
func (n *Node) SetAttribute(name, value string) error {
	if n.kind != KindElement {
		return fmt.Errorf("dom: cannot set attribute %q on %s node", name, n.kind)
	}
	if !validAttrName(name) {
		return fmt.Errorf("dom: invalid attribute name %q", name)
	}
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
	return nil
}

// GetAttribute returns an attribute value and whether it is set.
func (n *Node) GetAttribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// RemoveAttribute removes an attribute.
func (n *Node) RemoveAttribute(name string) {
	delete(n.attrs, name)
}

// AttributeNames returns the attribute names in sorted order.
func (n *Node) AttributeNames() []string {
	names := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// AddClass adds a class to the class attribute if not present.
func (n *Node) AddClass(class string) {
	classes := strings.Fields(n.attrs["class"])
	for _, c := range classes {
		if c == class {
			return
		}
	}
	_ = n.SetAttribute("class", strings.Join(append(classes, class), " "))
}

// RemoveClass removes a class from the class attribute.
func (n *Node) RemoveClass(class string) {
	classes := strings.Fields(n.attrs["class"])
	kept := classes[:0]
	for _, c := range classes {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		n.RemoveAttribute("class")
		return
	}
	_ = n.SetAttribute("class", strings.Join(kept, " "))
}

// HasClass reports whether class is in the class attribute.
func (n *Node) HasClass(class string) bool {
	for _, c := range strings.Fields(n.attrs["class"]) {
		if c == class {
			return true
		}
	}
	return false
}

func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r <= ' ', r == '"', r == '\'', r == '>', r == '/', r == '=', r == '<', r == 0x7f:
			return false
		}
	}
	return true
}
