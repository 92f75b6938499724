package style

import (
	"testing"

	"github.com/vango-dev/livetree/pkg/dom"
)

func TestInline(t *testing.T) {
	tests := []struct {
		name string
		decl map[string]any
		want string
	}{
		{"empty", map[string]any{}, ""},
		{"sorted and kebab", map[string]any{"fontSize": "12px", "color": "red"}, "color: red; font-size: 12px"},
		{"numbers", map[string]any{"opacity": 0.5, "z-index": 3}, "opacity: 0.5; z-index: 3"},
		{"skips nested", map[string]any{"color": "red", ":hover": map[string]any{"color": "blue"}}, "color: red"},
		{"skips nil", map[string]any{"color": nil}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Inline(tt.decl); got != tt.want {
				t.Errorf("Inline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasNested(t *testing.T) {
	if HasNested(map[string]any{"color": "red"}) {
		t.Error("flat style reported as nested")
	}
	if !HasNested(map[string]any{":hover": map[string]any{}}) {
		t.Error("pseudo selector not detected")
	}
	if !HasNested(map[string]any{"span": map[string]any{"color": "red"}}) {
		t.Error("descendant block not detected")
	}
}

func TestManagerApplyAndDetach(t *testing.T) {
	sheet := NewSheet()
	m := NewManager("x-", sheet)
	node := dom.NewElement("button")

	decl := map[string]any{
		"color":    "red",
		":hover":   map[string]any{"color": "blue"},
		"& > span": map[string]any{"fontWeight": "bold"},
		"svg":      map[string]any{"fill": "none"},
	}
	if err := m.Apply("a1", node, decl); err != nil {
		t.Fatal(err)
	}

	if got, _ := node.GetAttribute("style"); got != "color: red" {
		t.Errorf("style = %q", got)
	}
	if !node.HasClass("x-a1") {
		t.Error("scoped class not added")
	}
	want := ".x-a1 > span{font-weight: bold}\n.x-a1 svg{fill: none}\n.x-a1:hover{color: blue}\n"
	if got := sheet.CSS(); got != want {
		t.Errorf("CSS() =\n%s\nwant\n%s", got, want)
	}

	decl[":hover"] = map[string]any{"color": "green"}
	if err := m.Apply("a1", node, decl); err != nil {
		t.Fatal(err)
	}
	if rule, _ := sheet.Rule(".x-a1:hover"); rule != "color: green" {
		t.Errorf("rule = %q", rule)
	}
	if sheet.Len() != 3 || m.Tracked() != 1 {
		t.Errorf("Len = %d, Tracked = %d", sheet.Len(), m.Tracked())
	}

	m.Detach(node)
	if node.HasClass("x-a1") || m.Tracked() != 0 {
		t.Error("Detach should remove the scoped class")
	}
	if sheet.Len() != 3 {
		t.Error("rules are never evicted")
	}
}

func TestIDs(t *testing.T) {
	if StableID("0", "1") != StableID("0", "1") {
		t.Error("StableID must be deterministic")
	}
	if StableID("0", "1") == StableID("0", "2") {
		t.Error("StableID should differ per position")
	}
	a, b := InstanceID(), InstanceID()
	if a == b || len(a) != 12 {
		t.Errorf("InstanceID() = %q, %q", a, b)
	}
}
