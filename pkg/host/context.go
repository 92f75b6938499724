package host

import (
	"log/slog"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/el"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// Context is passed to a component's render function.
type Context struct {
	host *ComponentHost

	// Props are the component's props, with config and ref removed.
	Props el.Props

	// Children are the children the component was called with.
	Children []any

	// Refs holds the nodes registered through Ref.
	Refs *reactive.Map[string, *dom.Node]

	config Config
	names  map[string]bool
}

// E creates a node like el.E and applies the override configured for its
// local name, if any. Each name may be used once per component.
func (c *Context) E(typ any, args ...any) *el.Node {
	n := el.E(typ, args...)
	name := n.Name()
	if name == "" {
		return n
	}
	if c.names[name] {
		panic(errors.New("H004").WithValue(name))
	}
	c.names[name] = true

	if ov, ok := c.config[name]; ok {
		return applyOverride(n, ov)
	}
	return n
}

// Prop returns a prop value.
func (c *Context) Prop(key string) any {
	return c.Props[key]
}

// Ref returns a handler that stores its node in Refs under name.
func (c *Context) Ref(name string) el.RefFunc {
	return func(n *dom.Node) {
		if n == nil {
			c.Refs.Delete(name)
			return
		}
		c.Refs.Set(name, n)
	}
}

// UseEffect runs fn after the component has mounted. The cleanup fn
// returns, if any, runs when the component is destroyed.
func (c *Context) UseEffect(fn func() func()) {
	h := c.host
	if h.mounted {
		if cleanup := fn(); cleanup != nil {
			h.effectCleanups = append(h.effectCleanups, cleanup)
		}
		return
	}
	h.effects = append(h.effects, fn)
}

// UseLayoutEffect runs fn once the root is attached to a document, or
// after mount if it already is.
func (c *Context) UseLayoutEffect(fn func() func()) {
	h := c.host
	if h.mounted && h.ctx.attached() {
		if cleanup := fn(); cleanup != nil {
			h.layoutCleanups = append(h.layoutCleanups, cleanup)
		}
		return
	}
	h.layouts = append(h.layouts, fn)
	if h.mounted && h.offAttach == nil {
		h.offAttach = h.ctx.Root.On(EventAttach, func(any) { h.runLayouts() })
	}
}

// Provide makes value visible to descendant components through Use.
func (c *Context) Provide(key, value any) {
	c.host.frame.Provide(key, value)
}

// Use finds the nearest value provided for key by this component or an
// ancestor component.
func (c *Context) Use(key any) (any, bool) {
	return c.host.frame.Lookup(key)
}

// Autorun creates an autorun owned by the component.
func (c *Context) Autorun(fn func(*reactive.Run)) *reactive.Autorun {
	var a *reactive.Autorun
	reactive.WithOwner(c.host.frame, func() {
		a = reactive.NewAutorun(fn)
	})
	return a
}

// UseComputed creates a computed value owned by c's component.
func UseComputed[T any](c *Context, fn func() T) *reactive.Computed[T] {
	var v *reactive.Computed[T]
	reactive.WithOwner(c.host.frame, func() {
		v = reactive.NewComputed(fn)
	})
	return v
}

// Owner returns the component's frame. Computations created with it
// current are disposed with the component.
func (c *Context) Owner() *reactive.Owner {
	return c.host.frame
}

// Element returns the component's leading node once mounted.
func (c *Context) Element() *dom.Node {
	return c.host.Element()
}

// Root returns the root the component is mounted under.
func (c *Context) Root() *Root {
	return c.host.ctx.Root
}

// Logger returns the root's logger.
func (c *Context) Logger() *slog.Logger {
	return c.host.ctx.logger()
}
