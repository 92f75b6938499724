package host

import (
	"testing"

	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/el"
	"github.com/vango-dev/livetree/pkg/reactive"
)

func TestCreateHostClassification(t *testing.T) {
	comp := func(*Context) any { return nil }

	tests := []struct {
		name  string
		value any
		want  Kind
	}{
		{"built", el.Build(el.Div()), KindStatic},
		{"dom node", dom.NewElement("p"), KindStatic},
		{"element descriptor", el.Div("x"), KindStatic},
		{"string", "s", KindPrimitive},
		{"int", 3, KindPrimitive},
		{"bool", true, KindPrimitive},
		{"reactive array", reactive.NewArray[int](), KindArray},
		{"slice", []int{1, 2}, KindStaticArray},
		{"nil", nil, KindEmpty},
		{"undefined", el.Undefined, KindEmpty},
		{"reactive list", reactive.NewList[int](), KindList},
		{"component", el.E(comp), KindComponent},
		{"atom", reactive.NewAtom(1), KindAtom},
		{"computed", reactive.NewComputed(func() int { return 1 }), KindAtom},
		{"func", func() any { return nil }, KindFunc},
		{"run func", func(*reactive.Run) any { return nil }, KindFunc},
		{"typed func", func() string { return "" }, KindFunc},
		{"typed run func", func(*reactive.Run) *el.Node { return nil }, KindFunc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ph := attachedPlaceholder()
			h := CreateHost(tt.value, ph, PathContext{})
			if h.Kind() != tt.want {
				t.Errorf("Kind() = %v, want %v", h.Kind(), tt.want)
			}
			if h.Placeholder() != ph || h.Element() != ph {
				t.Error("an unrendered host is represented by its placeholder")
			}
		})
	}
}

func TestCreateHostPreconditions(t *testing.T) {
	t.Run("placeholder must be a comment", func(t *testing.T) {
		parent := dom.NewElement("div")
		text := dom.NewText("x")
		parent.AppendChild(text)
		expectCode(t, "H001", func() { CreateHost("x", text, PathContext{}) })
	})

	t.Run("placeholder must be attached", func(t *testing.T) {
		expectCode(t, "H001", func() { CreateHost("x", dom.NewComment("x"), PathContext{}) })
	})

	t.Run("unknown value", func(t *testing.T) {
		_, ph := attachedPlaceholder()
		expectCode(t, "H006", func() { CreateHost(struct{ X int }{1}, ph, PathContext{}) })
	})

	t.Run("function taking an argument", func(t *testing.T) {
		_, ph := attachedPlaceholder()
		expectCode(t, "H006", func() { CreateHost(func(int) any { return nil }, ph, PathContext{}) })
	})

	t.Run("function without a result", func(t *testing.T) {
		_, ph := attachedPlaceholder()
		expectCode(t, "H006", func() { CreateHost(func() {}, ph, PathContext{}) })
	})

	t.Run("component with the wrong signature", func(t *testing.T) {
		_, ph := attachedPlaceholder()
		expectCode(t, "H006", func() { CreateHost(el.E(func() {}), ph, PathContext{}) })
	})
}

func TestReuseRelocates(t *testing.T) {
	parent := dom.NewElement("div")
	first := dom.NewComment("a")
	second := dom.NewComment("b")
	parent.AppendChild(first)
	parent.AppendChild(dom.NewText("|"))
	parent.AppendChild(second)

	h := CreateHost(el.Span("moved"), first, PathContext{})
	h.Render()
	if parent.VisibleHTML() != "<span>moved</span>|" {
		t.Fatalf("before: %s", parent.VisibleHTML())
	}

	target := dom.NewComment("target")
	parent.AppendChild(target)
	got := CreateHost(Reuse(h), target, PathContext{})
	got.Render()

	if parent.VisibleHTML() != "|<span>moved</span>" {
		t.Errorf("after: %s", parent.VisibleHTML())
	}
	if target.Parent() != nil {
		t.Error("the relocation placeholder should be removed")
	}
	if got.Placeholder() != first || got.Kind() != KindStatic {
		t.Error("the reused host keeps its own placeholder")
	}
	if Reuse(got).Host != h {
		t.Error("reusing a reused host unwraps it")
	}
}
