package host

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/el"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// Component is a render function. It runs once per mount.
type Component = func(*Context) any

// typeIDs numbers component functions in order of first use. It only grows.
var (
	typeIDsMu sync.Mutex
	typeIDs   = make(map[uintptr]int)
)

func typeID(fn Component) int {
	ptr := reflect.ValueOf(fn).Pointer()
	typeIDsMu.Lock()
	defer typeIDsMu.Unlock()
	id, ok := typeIDs[ptr]
	if !ok {
		id = len(typeIDs) + 1
		typeIDs[ptr] = id
	}
	return id
}

// ComponentHost runs a component once and owns the single host its
// result mounts as.
type ComponentHost struct {
	base
	fn     Component
	node   *el.Node
	typeID int

	context *Context
	frame   *reactive.Owner
	innerPh *dom.Node
	inner   Host
	ref     any

	mounted        bool
	effects        []func() func()
	effectCleanups []func()
	layouts        []func() func()
	layoutCleanups []func()
	offAttach      func()
}

func newComponentHost(fn Component, node *el.Node, placeholder *dom.Node, ctx PathContext) *ComponentHost {
	frame := reactive.NewOwner(nil)
	for p := ctx.HostPath; p != nil; p = p.Parent() {
		if ch, ok := p.Value().(*ComponentHost); ok {
			frame.Inherit(ch.frame)
			break
		}
	}
	return &ComponentHost{
		base:   newBase(KindComponent, placeholder, ctx),
		fn:     fn,
		node:   node,
		typeID: typeID(fn),
		frame:  frame,
	}
}

// Element implements Host.
func (h *ComponentHost) Element() *dom.Node {
	if h.inner == nil {
		return h.placeholder
	}
	return h.inner.Element()
}

// Inner returns the host the component's result is mounted as.
func (h *ComponentHost) Inner() Host {
	return h.inner
}

// Frame returns the owner of computations created while rendering.
func (h *ComponentHost) Frame() *reactive.Owner {
	return h.frame
}

// TypeID returns the process-wide number of the component function.
func (h *ComponentHost) TypeID() int {
	return h.typeID
}

// Render implements Host.
func (h *ComponentHost) Render() {
	h.beginRender()

	props := make(el.Props, len(h.node.Props))
	for k, v := range h.node.Props {
		props[k] = v
	}
	children := h.node.Children
	config, _ := props["config"].(Config)
	delete(props, "config")

	if len(children) == 1 {
		if pass, ok := children[0].(*Pass); ok {
			mergeProps(props, pass.Props)
			children = pass.Children
			if pass.Config != nil {
				config = pass.Config
			}
		}
	}

	h.ref = props["ref"]
	el.CheckRef(h.ref)
	delete(props, "ref")

	h.context = &Context{
		host:     h,
		Props:    props,
		Children: children,
		Refs:     reactive.NewMap[string, *dom.Node](),
		config:   config,
		names:    make(map[string]bool),
	}

	var out any
	reactive.WithOwner(h.frame, func() {
		reactive.Untracked(func() {
			out = h.fn(h.context)
		})
	})

	h.innerPh = dom.NewComment(fmt.Sprintf("c%d", h.typeID))
	h.insert(h.innerPh)
	detached(func() {
		reactive.Untracked(func() {
			h.inner = CreateHost(out, h.innerPh, h.ctx.WithHost(h))
			h.inner.Render()
		})
	})
	h.mounted = true

	el.SetRef(h.ref, h.Element())

	for _, fn := range h.effects {
		if cleanup := fn(); cleanup != nil {
			h.effectCleanups = append(h.effectCleanups, cleanup)
		}
	}
	h.effects = nil

	if len(h.layouts) > 0 {
		if h.ctx.attached() {
			h.runLayouts()
		} else {
			h.offAttach = h.ctx.Root.On(EventAttach, func(any) { h.runLayouts() })
		}
	}
}

func (h *ComponentHost) runLayouts() {
	if h.offAttach != nil {
		h.offAttach()
		h.offAttach = nil
	}
	layouts := h.layouts
	h.layouts = nil
	for _, fn := range layouts {
		if cleanup := fn(); cleanup != nil {
			h.layoutCleanups = append(h.layoutCleanups, cleanup)
		}
	}
}

// Destroy implements Host.
func (h *ComponentHost) Destroy(parentHandle bool) {
	if !h.beginDestroy() {
		return
	}
	h.frame.Dispose()

	if h.inner != nil {
		h.inner.Destroy(parentHandle)
	}

	if h.offAttach != nil {
		h.offAttach()
		h.offAttach = nil
	}
	runReversed(h.layoutCleanups)
	h.layoutCleanups = nil
	runReversed(h.effectCleanups)
	h.effectCleanups = nil

	if !parentHandle {
		if h.innerPh != nil {
			h.innerPh.Remove()
		}
		h.placeholder.Remove()
	}
	el.SetRef(h.ref, nil)
}

func runReversed(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
