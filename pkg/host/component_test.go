package host

import (
	"testing"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/el"
	"github.com/vango-dev/livetree/pkg/reactive"
)

func TestComponentRendersOnce(t *testing.T) {
	root, container := newTestRoot(t)
	src := reactive.NewAtom(1)
	calls := 0

	comp := func(c *Context) any {
		calls++
		src.Get()
		return el.P(c.Prop("label"), src)
	}

	h, err := root.Render(el.E(comp, el.Props{"label": "n="}))
	if err != nil {
		t.Fatal(err)
	}
	ch := h.(*ComponentHost)
	if ch.Inner().Kind() != KindStatic || ch.Element().Tag() != "p" {
		t.Fatalf("Element() = %v", ch.Element())
	}

	src.Set(2)
	if calls != 1 {
		t.Errorf("render function ran %d times", calls)
	}
	if container.VisibleHTML() != "<p>n=2</p>" {
		t.Errorf("got %s", container.VisibleHTML())
	}
	expectCode(t, "H002", h.Render)

	_ = root.Destroy()
	if container.ChildCount() != 0 || src.Dependents() != 0 {
		t.Error("component should release nodes and subscriptions")
	}
}

func TestComponentDestroyDisposesComputations(t *testing.T) {
	root, _ := newTestRoot(t)
	src := reactive.NewAtom(1)
	var viaContext, viaOwner []int

	comp := func(c *Context) any {
		c.Autorun(func(*reactive.Run) { viaContext = append(viaContext, src.Get()) })
		reactive.NewAutorun(func(*reactive.Run) { viaOwner = append(viaOwner, src.Get()) })
		return "x"
	}
	if _, err := root.Render(el.E(comp)); err != nil {
		t.Fatal(err)
	}

	src.Set(2)
	if len(viaContext) != 2 || len(viaOwner) != 2 {
		t.Fatalf("runs: context=%v owner=%v", viaContext, viaOwner)
	}

	_ = root.Destroy()
	src.Set(3)
	if len(viaContext) != 2 || len(viaOwner) != 2 {
		t.Errorf("computations survived destroy: context=%v owner=%v", viaContext, viaOwner)
	}
	if src.Dependents() != 0 {
		t.Errorf("Dependents() = %d", src.Dependents())
	}
}

func TestComponentComputedStopsAfterDestroy(t *testing.T) {
	root, container := newTestRoot(t)
	dep := reactive.NewAtom(1)
	var doubled *reactive.Computed[int]

	comp := func(c *Context) any {
		doubled = UseComputed(c, func() int { return dep.Get() * 2 })
		return el.Span(doubled)
	}
	if _, err := root.Render(el.E(comp)); err != nil {
		t.Fatal(err)
	}
	dep.Set(2)
	if container.VisibleHTML() != "<span>4</span>" {
		t.Fatalf("got %s", container.VisibleHTML())
	}
	runs := doubled.Runs()

	_ = root.Destroy()
	dep.Set(3)
	dep.Set(4)
	if doubled.Runs() != runs {
		t.Errorf("computed ran %d more times after destroy", doubled.Runs()-runs)
	}
	if dep.Dependents() != 0 {
		t.Errorf("Dependents() = %d", dep.Dependents())
	}
}

func TestComponentConfigOverridesElement(t *testing.T) {
	root, container := newTestRoot(t)
	var clicks []string

	button := func(c *Context) any {
		return c.E("button",
			el.As("btn"),
			el.Props{"title": "own"},
			el.OnClick(func() { clicks = append(clicks, "own") }),
			"label",
		)
	}

	config := Config{"btn": {
		Props: el.Props{
			"title":   "configured",
			"onclick": func() { clicks = append(clicks, "config") },
		},
		Children: []any{"replaced"},
	}}
	if _, err := root.Render(el.E(button, el.Props{"config": config})); err != nil {
		t.Fatal(err)
	}

	b := container.FirstChild()
	if v, _ := b.GetAttribute("title"); v != "configured" {
		t.Errorf("title = %q", v)
	}
	if b.TextContent() != "replaced" {
		t.Errorf("children = %q", b.TextContent())
	}
	b.DispatchEvent(&dom.Event{Type: "click"})
	if !equalStrings(clicks, []string{"own", "config"}) {
		t.Errorf("clicks = %v", clicks)
	}
}

func TestComponentConfigForwardsToNestedComponents(t *testing.T) {
	inner := func(c *Context) any {
		return c.E("span", el.As("label"), c.Prop("text"))
	}
	outer := func(c *Context) any {
		return el.Div(c.E(inner, el.As("inner"), el.Props{"text": "default"}))
	}

	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"no config", nil, "<div><span>default</span></div>"},
		{"props", Config{"inner": {Props: el.Props{"text": "set"}}}, "<div><span>set</span></div>"},
		{"nested", Config{"inner": {Config: Config{"label": {Children: []any{"deep"}}}}}, "<div><span>deep</span></div>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, container := newTestRoot(t)
			props := el.Props{}
			if tt.config != nil {
				props["config"] = tt.config
			}
			if _, err := root.Render(el.E(outer, props)); err != nil {
				t.Fatal(err)
			}
			if got := container.VisibleHTML(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestComponentPassChild(t *testing.T) {
	root, container := newTestRoot(t)
	comp := func(c *Context) any {
		return el.Span(c.Prop("a"), c.Prop("b"), len(c.Children))
	}
	pass := &Pass{Props: el.Props{"b": "B"}, Children: []any{"x", "y"}}
	if _, err := root.Render(el.E(comp, el.Props{"a": "A"}, pass)); err != nil {
		t.Fatal(err)
	}
	if container.VisibleHTML() != "<span>AB2</span>" {
		t.Errorf("got %s", container.VisibleHTML())
	}
}

func TestComponentDuplicateName(t *testing.T) {
	root, _ := newTestRoot(t)
	comp := func(c *Context) any {
		c.E("a", el.As("n"))
		return c.E("b", el.As("n"))
	}
	_, err := root.Render(el.E(comp))
	if !errors.HasCode(err, "H004") {
		t.Errorf("err = %v, want H004", err)
	}
}

func TestComponentRefMismatch(t *testing.T) {
	root, _ := newTestRoot(t)
	comp := func(c *Context) any { return nil }
	_, err := root.Render(el.E(comp, el.WithRef("not a ref")))
	if !errors.HasCode(err, "H005") {
		t.Errorf("err = %v, want H005", err)
	}
}

func TestComponentEffects(t *testing.T) {
	root, _ := newTestRoot(t)
	var log []string

	comp := func(c *Context) any {
		c.UseEffect(func() func() {
			log = append(log, "effect:"+c.Element().Tag())
			return func() { log = append(log, "effect cleanup") }
		})
		c.UseLayoutEffect(func() func() {
			log = append(log, "layout")
			return func() { log = append(log, "layout cleanup") }
		})
		return el.Div()
	}
	if _, err := root.Render(el.E(comp)); err != nil {
		t.Fatal(err)
	}
	if !equalStrings(log, []string{"effect:div"}) {
		t.Fatalf("after render: %v", log)
	}

	root.Attach()
	if !equalStrings(log, []string{"effect:div", "layout"}) {
		t.Fatalf("after attach: %v", log)
	}

	_ = root.Destroy()
	want := []string{"effect:div", "layout", "layout cleanup", "effect cleanup"}
	if !equalStrings(log, want) {
		t.Errorf("after destroy: %v, want %v", log, want)
	}
}

func TestComponentLayoutEffectOnConnectedContainer(t *testing.T) {
	doc := dom.NewDocument()
	container := dom.NewElement("div")
	doc.AppendChild(container)
	root := CreateRoot(container, WithLogger(quietLogger()))

	ran := false
	comp := func(c *Context) any {
		c.UseLayoutEffect(func() func() {
			ran = c.Element().IsConnected()
			return nil
		})
		return el.Div()
	}
	if _, err := root.Render(el.E(comp)); err != nil {
		t.Fatal(err)
	}
	if !root.Attached() || !ran {
		t.Errorf("attached=%v ran=%v", root.Attached(), ran)
	}
}

func TestComponentRefs(t *testing.T) {
	root, _ := newTestRoot(t)
	ref := &el.Ref{}
	var input *dom.Node
	var refs *reactive.Map[string, *dom.Node]

	comp := func(c *Context) any {
		refs = c.Refs
		c.UseEffect(func() func() {
			input, _ = c.Refs.Peek("input")
			return nil
		})
		return el.Div(el.Input(el.WithRef(c.Ref("input"))))
	}
	if _, err := root.Render(el.E(comp, el.WithRef(ref))); err != nil {
		t.Fatal(err)
	}
	if ref.Current == nil || ref.Current.Tag() != "div" {
		t.Errorf("component ref = %v", ref.Current)
	}
	if input == nil || input.Tag() != "input" {
		t.Errorf("named ref = %v", input)
	}

	_ = root.Destroy()
	if ref.Current != nil {
		t.Error("component ref should be cleared")
	}
	if _, ok := refs.Peek("input"); ok {
		t.Error("named ref should be removed")
	}
}

func TestComponentProvideUse(t *testing.T) {
	root, container := newTestRoot(t)

	child := func(c *Context) any {
		v, ok := c.Use("theme")
		if !ok {
			return "none"
		}
		return v
	}
	parent := func(c *Context) any {
		c.Provide("theme", "dark")
		return el.Div(el.E(child))
	}

	if _, err := root.Render(el.Fragment(el.E(parent), el.E(child))); err != nil {
		t.Fatal(err)
	}
	if container.VisibleHTML() != "<div>dark</div>none" {
		t.Errorf("got %s", container.VisibleHTML())
	}
}

func TestComponentUseSkipsNonComponentHosts(t *testing.T) {
	root, container := newTestRoot(t)
	show := reactive.NewAtom(true)

	child := func(c *Context) any {
		v, _ := c.Use("theme")
		return v
	}
	middle := func(c *Context) any {
		return el.Span(el.E(child))
	}
	outer := func(c *Context) any {
		c.Provide("theme", "dark")
		return el.Div(func() any {
			if !show.Get() {
				return nil
			}
			return el.E(middle)
		})
	}

	if _, err := root.Render(el.E(outer)); err != nil {
		t.Fatal(err)
	}
	if container.VisibleHTML() != "<div><span>dark</span></div>" {
		t.Fatalf("got %s", container.VisibleHTML())
	}
	show.Set(false)
	show.Set(true)
	if err := root.Flush(); err != nil {
		t.Fatal(err)
	}
	if container.VisibleHTML() != "<div><span>dark</span></div>" {
		t.Errorf("after rerun got %s", container.VisibleHTML())
	}
}

func TestComponentUnknownType(t *testing.T) {
	root, _ := newTestRoot(t)
	_, err := root.Render(el.E(func() any { return nil }))
	if !errors.HasCode(err, "H006") {
		t.Errorf("err = %v, want H006", err)
	}
}

func TestTypeIDStable(t *testing.T) {
	comp := func(c *Context) any { return nil }
	if typeID(comp) != typeID(comp) {
		t.Error("typeID should be stable for a function")
	}
	other := func(c *Context) any { return "x" }
	if typeID(comp) == typeID(other) {
		t.Error("different functions get different ids")
	}
}
