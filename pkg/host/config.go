package host

import (
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/el"
)

// Config overrides named descendants of a component. Keys are the names
// given with el.As.
type Config map[string]Override

// Override replaces props and children of a named node. Event handler
// and ref props are added to the node's own instead of replacing them.
// Config is forwarded to the node when it is a component.
type Override struct {
	Props    el.Props
	Children []any
	Config   Config
}

// Pass carries an override into a component as its only child.
type Pass struct {
	Props    el.Props
	Children []any
	Config   Config
}

// applyOverride returns a copy of n with ov applied.
func applyOverride(n *el.Node, ov Override) *el.Node {
	out := n.Clone()
	if !out.IsComponent() {
		mergeProps(out.Props, ov.Props)
		if ov.Children != nil {
			out.Children = ov.Children
		}
		return out
	}

	children := out.Children
	if ov.Children != nil {
		children = ov.Children
	}
	out.Children = []any{&Pass{Props: ov.Props, Children: children, Config: ov.Config}}
	return out
}

// mergeProps writes src into dst. Handlers and refs accumulate.
func mergeProps(dst, src el.Props) {
	for k, v := range src {
		existing, ok := dst[k]
		switch {
		case !ok || existing == nil:
			dst[k] = v
		case k == "ref":
			el.CheckRef(v)
			dst[k] = chainRefs(existing, v)
		case el.IsEventProp(k):
			dst[k] = appendHandler(existing, v)
		default:
			dst[k] = v
		}
	}
}

func chainRefs(a, b any) el.RefFunc {
	return func(n *dom.Node) {
		el.SetRef(a, n)
		el.SetRef(b, n)
	}
}

func appendHandler(existing, next any) []any {
	if list, ok := existing.([]any); ok {
		return append(append([]any(nil), list...), next)
	}
	return []any{existing, next}
}
