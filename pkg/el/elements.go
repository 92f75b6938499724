package el

import "strings"

// E creates a node. Arguments can be: nil, Props, Attr, []Attr, or a
// child. []*Node arguments are flattened; any other slice stays a single
// child and is mounted as an array.
func E(typ any, args ...any) *Node {
	if s, ok := typ.(string); ok && s != FragmentType {
		typ = strings.ToLower(s)
	}
	node := &Node{
		Type:     typ,
		Props:    make(Props),
		Children: make([]any, 0),
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
			continue
		case Props:
			for k, val := range v {
				node.Props[k] = val
			}
		case Attr:
			if v.Key != "" {
				node.Props[v.Key] = v.Value
			}
		case []Attr:
			for _, a := range v {
				if a.Key != "" {
					node.Props[a.Key] = a.Value
				}
			}
		case []*Node:
			for _, c := range v {
				if c != nil {
					node.Children = append(node.Children, c)
				}
			}
		default:
			node.Children = append(node.Children, v)
		}
	}

	return node
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *Node {
	return E(FragmentType, children...)
}

// Div creates a <div> element.
func Div(args ...any) *Node { return E("div", args...) }

// Span creates a <span> element.
func Span(args ...any) *Node { return E("span", args...) }

// P creates a <p> element.
func P(args ...any) *Node { return E("p", args...) }

// Ul creates a <ul> element.
func Ul(args ...any) *Node { return E("ul", args...) }

// Li creates an <li> element.
func Li(args ...any) *Node { return E("li", args...) }

// Button creates a <button> element.
func Button(args ...any) *Node { return E("button", args...) }

// Input creates an <input> element.
func Input(args ...any) *Node { return E("input", args...) }

// H1 creates an <h1> element.
func H1(args ...any) *Node { return E("h1", args...) }
