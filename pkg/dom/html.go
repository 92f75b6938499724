package dom

import (
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// OuterHTML serializes n including itself. Comment markers are included.
func (n *Node) OuterHTML() string {
	var b strings.Builder
	writeNode(&b, n, true)
	return b.String()
}

// InnerHTML serializes the children of n.
func (n *Node) InnerHTML() string {
	var b strings.Builder
	for _, c := range n.children {
		writeNode(&b, c, true)
	}
	return b.String()
}

// VisibleHTML serializes the children of n without comment markers.
func (n *Node) VisibleHTML() string {
	var b strings.Builder
	for _, c := range n.children {
		writeNode(&b, c, false)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *Node, comments bool) {
	switch n.kind {
	case KindText:
		b.WriteString(escapeHTML(n.data))
	case KindComment:
		if comments {
			b.WriteString("<!--")
			b.WriteString(strings.ReplaceAll(n.data, "--", "- -"))
			b.WriteString("-->")
		}
	case KindFragment, KindDocument:
		for _, c := range n.children {
			writeNode(b, c, comments)
		}
	case KindElement:
		b.WriteByte('<')
		b.WriteString(n.tag)
		for _, name := range n.AttributeNames() {
			b.WriteByte(' ')
			b.WriteString(name)
			b.WriteString(`="`)
			b.WriteString(escapeAttr(n.attrs[name]))
			b.WriteByte('"')
		}
		b.WriteByte('>')
		if voidElements[n.tag] {
			return
		}
		for _, c := range n.children {
			writeNode(b, c, comments)
		}
		b.WriteString("</")
		b.WriteString(n.tag)
		b.WriteByte('>')
	}
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for attribute values, including whitespace
// characters that could break attribute parsing.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}
