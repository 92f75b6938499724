package host

import (
	"strconv"

	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/el"
	"github.com/vango-dev/livetree/pkg/reactive"
	"github.com/vango-dev/livetree/pkg/style"
)

// StaticHost mounts a built element or fragment once, then mounts the
// dynamic children and attributes Build left unhandled.
type StaticHost struct {
	base
	built *el.Built

	children []Host
	childAt  map[*dom.Node]Host
	attrs    []*reactive.Autorun
}

func newStaticHost(built *el.Built, placeholder *dom.Node, ctx PathContext) *StaticHost {
	return &StaticHost{
		base:    newBase(KindStatic, placeholder, ctx),
		built:   built,
		childAt: make(map[*dom.Node]Host),
	}
}

// Element implements Host. For a fragment whose first node is a dynamic
// child, this is that child's leading node.
func (h *StaticHost) Element() *dom.Node {
	if !h.rendered || len(h.built.Roots) == 0 {
		return h.placeholder
	}
	first := h.built.Roots[0]
	if c, ok := h.childAt[first]; ok {
		return c.Element()
	}
	return first
}

// Built returns the mounted tree.
func (h *StaticHost) Built() *el.Built {
	return h.built
}

// Render implements Host.
func (h *StaticHost) Render() {
	h.beginRender()
	h.insert(h.built.Node)

	logger := h.ctx.logger()
	for _, err := range h.built.AttrErrors {
		logger.Warn("attribute rejected", "error", err)
	}

	for _, attr := range h.built.UnhandledAttr {
		h.bindAttr(attr)
	}

	childCtx := h.ctx.WithHost(h)
	for _, uc := range h.built.UnhandledChildren {
		c := CreateHost(uc.Value, uc.Placeholder, childCtx.WithIndex(uc.Path...))
		h.children = append(h.children, c)
		h.childAt[uc.Placeholder] = c
		c.Render()
	}

	for _, ref := range h.built.Refs {
		ref.Set(ref.Node)
	}
}

// bindAttr keeps one attribute in sync with its reactive value.
func (h *StaticHost) bindAttr(attr el.UnhandledAttr) {
	var id string
	if attr.Name == "style" {
		id = h.styleID(attr.Path)
	}
	logger := h.ctx.logger()
	styles := h.ctx.styles()

	run := autorun(func(*reactive.Run) {
		value := resolve(attr.Value)

		if attr.Name == "style" {
			if decl, ok := styleMap(value); ok && style.HasNested(decl) {
				if err := styles.Apply(id, attr.Node, decl); err != nil {
					logger.Warn("style rejected", "attr", attr.Name, "error", err)
				}
				return
			}
		}

		text, ok := el.AttrString(value)
		if !ok {
			attr.Node.RemoveAttribute(attr.Name)
			return
		}
		if err := attr.Node.SetAttribute(attr.Name, text); err != nil {
			logger.Warn("attribute rejected", "attr", attr.Name, "error", err)
		}
	})
	h.attrs = append(h.attrs, run)
}

// styleID is stable for a fixed structural position and unique per
// instance below dynamically created hosts.
func (h *StaticHost) styleID(path []int) string {
	if h.ctx.Unstable() {
		return style.InstanceID()
	}
	parts := make([]string, 0, len(path)+1)
	parts = append(parts, h.ctx.Key())
	for _, i := range path {
		parts = append(parts, strconv.Itoa(i))
	}
	return style.StableID(parts...)
}

// Destroy implements Host.
func (h *StaticHost) Destroy(parentHandle bool) {
	if !h.beginDestroy() {
		return
	}
	start := h.Element()

	for _, run := range h.attrs {
		run.Dispose()
	}
	h.attrs = nil

	for _, ref := range h.built.Refs {
		ref.Set(nil)
	}
	styles := h.ctx.styles()
	for _, n := range h.built.DetachStyled {
		styles.Detach(n)
	}

	for _, c := range h.children {
		c.Destroy(true)
	}
	h.children = nil

	if !parentHandle {
		removeSpan(start, h.placeholder)
		h.placeholder.Remove()
	}
}

// resolve reads reactive values and calls value functions, recursively
// for style objects.
func resolve(value any) any {
	switch v := value.(type) {
	case reactive.Readable:
		return resolve(v.ReadAny())
	case el.Style:
		out := make(el.Style, len(v))
		for k, inner := range v {
			out[k] = resolve(inner)
		}
		return out
	}
	if fn, ok := el.Thunk(value); ok {
		return resolve(fn())
	}
	return value
}

func styleMap(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case el.Style:
		return v, true
	case map[string]any:
		return v, true
	}
	return nil, false
}
