package host

import (
	"reflect"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/el"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// Reusable asks CreateHost to move an already rendered host to a new
// position instead of creating a new one.
type Reusable struct {
	Host Host
}

// Reuse tags h for relocation.
func Reuse(h Host) *Reusable {
	if r, ok := h.(reused); ok {
		h = r.Host
	}
	return &Reusable{Host: h}
}

// reused is a relocated host. It is already rendered, so Render is a no-op.
type reused struct {
	Host
}

func (reused) Render() {}

// CreateHost classifies value and creates its host at placeholder, which
// must be a comment node attached to a parent. The host is not rendered.
func CreateHost(value any, placeholder *dom.Node, ctx PathContext) Host {
	if placeholder == nil || placeholder.Kind() != dom.KindComment {
		panic(errors.New("H001").WithValue(placeholder))
	}
	if placeholder.Parent() == nil {
		panic(errors.New("H001").WithDetail("The placeholder has no parent node."))
	}

	switch v := value.(type) {
	case *el.Built:
		return newStaticHost(v, placeholder, ctx)
	case *dom.Node:
		return newStaticHost(wrapNode(v), placeholder, ctx)
	case *el.Node:
		if !v.IsComponent() {
			return newStaticHost(el.Build(v).(*el.Built), placeholder, ctx)
		}
	}

	if text, ok := el.Primitive(value); ok {
		return newPrimitiveHost(text, placeholder, ctx)
	}

	if c, ok := value.(reactive.Collection); ok && c.Kind() == reactive.KindArray {
		return newArrayHost(c, placeholder, ctx)
	}
	if items, ok := sliceItems(value); ok {
		return newStaticArrayHost(items, placeholder, ctx)
	}

	switch value.(type) {
	case nil, el.UndefinedValue:
		return newEmptyHost(placeholder, ctx)
	}

	if c, ok := value.(reactive.Collection); ok && c.Kind() == reactive.KindList {
		return newListHost(c, placeholder, ctx)
	}

	if r, ok := value.(*Reusable); ok {
		relocate(r.Host, placeholder)
		return reused{r.Host}
	}

	if n, ok := value.(*el.Node); ok {
		fn, ok := n.Type.(Component)
		if !ok {
			panic(errors.New("H006").WithValue(n.Type).WithDetailf("Component type %T is not func(*host.Context) any.", n.Type))
		}
		return newComponentHost(fn, n, placeholder, ctx)
	}

	if r, ok := value.(reactive.Readable); ok {
		return newAtomHost(r, placeholder, ctx)
	}

	if fn, ok := el.Thunk(value); ok {
		return newFuncHost(func(*reactive.Run) any { return fn() }, placeholder, ctx)
	}
	if fn, ok := runFunc(value); ok {
		return newFuncHost(fn, placeholder, ctx)
	}

	panic(errors.New("H006").WithValue(value))
}

var runType = reflect.TypeOf((*reactive.Run)(nil))

// runFunc adapts a function taking a *reactive.Run and returning one value.
func runFunc(value any) (func(*reactive.Run) any, bool) {
	if fn, ok := value.(func(*reactive.Run) any); ok {
		return fn, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, false
	}
	t := rv.Type()
	if t.NumIn() != 1 || t.In(0) != runType || t.NumOut() != 1 {
		return nil, false
	}
	return func(r *reactive.Run) any {
		return rv.Call([]reflect.Value{reflect.ValueOf(r)})[0].Interface()
	}, true
}

// wrapNode treats a bare output node as a built tree with nothing unhandled.
func wrapNode(n *dom.Node) *el.Built {
	roots := []*dom.Node{n}
	if n.Kind() == dom.KindFragment {
		roots = n.Children()
	}
	return &el.Built{Node: n, Roots: roots}
}

// sliceItems returns the elements of a plain slice or array value.
func sliceItems(value any) ([]any, bool) {
	if items, ok := value.([]any); ok {
		return items, true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
	default:
		return nil, false
	}
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, true
}

// relocate moves h's region, placeholder included, before target and
// removes target.
func relocate(h Host, target *dom.Node) {
	parent := target.Parent()
	for _, n := range spanNodes(h.Element(), h.Placeholder()) {
		parent.InsertBefore(n, target)
	}
	target.Remove()
}
