package host

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/el"
	"github.com/vango-dev/livetree/pkg/reactive"
)

func TestListHostPatches(t *testing.T) {
	root, container := newTestRoot(t)
	list := reactive.NewList(el.Div(1), el.Div(2), el.Div(3))

	h, err := root.Render(list)
	if err != nil {
		t.Fatal(err)
	}
	if h.Kind() != KindList {
		t.Fatalf("Kind() = %v", h.Kind())
	}

	check := func(step string, want ...string) {
		t.Helper()
		if got := texts(container); !equalStrings(got, want) {
			t.Fatalf("after %s: got %v, want %v", step, got, want)
		}
	}
	check("render", "1", "2", "3")

	list.Push(el.Div(4), el.Div(5))
	check("push", "1", "2", "3", "4", "5")

	list.Pop()
	check("pop", "1", "2", "3", "4")

	list.Unshift(el.Div(-1), el.Div(0))
	check("unshift", "-1", "0", "1", "2", "3", "4")

	list.Shift()
	check("shift", "0", "1", "2", "3", "4")

	one := container.ElementChildren()[1]
	list.Splice(2, 1, el.Div(9), el.Div(99), el.Div(999))
	check("splice", "0", "1", "9", "99", "999", "3", "4")
	if container.ElementChildren()[1] != one {
		t.Error("untouched items keep their nodes")
	}

	list.Set(0, el.Div("zero"))
	check("set", "zero", "1", "9", "99", "999", "3", "4")

	if n := len(h.(*ListHost).Children()); n != 7 {
		t.Errorf("Children() = %d hosts", n)
	}

	if err := root.Destroy(); err != nil {
		t.Fatal(err)
	}
	if container.ChildCount() != 0 {
		t.Errorf("container keeps %s", container.InnerHTML())
	}
	if list.Dependents() != 0 {
		t.Errorf("Dependents() = %d after destroy", list.Dependents())
	}
}

func TestListHostMove(t *testing.T) {
	root, container := newTestRoot(t)
	list := reactive.NewList("a", "b", "c", "d")
	if _, err := root.Render(el.Ul(list)); err != nil {
		t.Fatal(err)
	}
	ul := container.FirstChild()
	before := ul.Children()

	list.Move(0, 2)
	if ul.VisibleHTML() != "bcad" {
		t.Fatalf("got %s", ul.VisibleHTML())
	}
	var a *dom.Node
	for _, n := range ul.Children() {
		if n.Kind() == dom.KindText && n.Data() == "a" {
			a = n
		}
	}
	if a == nil || a != before[0] {
		t.Error("moved item keeps its text node")
	}

	list.Move(3, 0)
	if ul.VisibleHTML() != "dbca" {
		t.Errorf("got %s", ul.VisibleHTML())
	}
	_ = root.Destroy()
}

func TestListHostBulkClear(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(WithRegistry(reg))
	root, container := newTestRoot(t, WithMetrics(metrics))
	list := reactive.NewList(el.Li("a"), el.Li("b"), el.Li("c"))

	if _, err := root.Render(list); err != nil {
		t.Fatal(err)
	}
	end := container.LastChild()

	list.Splice(0, 3)
	if got := plainCounterValue(t, metrics.bulkClears); got != 1 {
		t.Errorf("bulk clears = %v, want 1", got)
	}
	if container.ChildCount() != 1 || container.FirstChild() != end {
		t.Fatalf("only the end marker should remain, got %s", container.InnerHTML())
	}

	list.Push(el.Li("d"))
	if got := texts(container); !equalStrings(got, []string{"d"}) {
		t.Errorf("got %v", got)
	}
	if got := counterValue(t, metrics.patches, "splice"); got != 1 {
		t.Errorf("splice patches = %v", got)
	}
	_ = root.Destroy()
}

func TestListHostPartialRemovalKeepsSiblings(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(WithRegistry(reg))
	root, container := newTestRoot(t, WithMetrics(metrics))
	list := reactive.NewList("a", "b")

	if _, err := root.Render(el.Fragment(el.Span("x"), list)); err != nil {
		t.Fatal(err)
	}
	if container.VisibleHTML() != "<span>x</span>ab" {
		t.Fatalf("got %s", container.VisibleHTML())
	}

	list.Replace(nil)
	if container.VisibleHTML() != "<span>x</span>" {
		t.Errorf("got %s", container.VisibleHTML())
	}
	if got := plainCounterValue(t, metrics.bulkClears); got != 0 {
		t.Errorf("bulk clears = %v, want 0", got)
	}

	list.Push("c")
	if container.VisibleHTML() != "<span>x</span>c" {
		t.Errorf("got %s", container.VisibleHTML())
	}
	_ = root.Destroy()
}

func TestListHostNestedLists(t *testing.T) {
	root, container := newTestRoot(t)
	inner := reactive.NewList("x")
	outer := reactive.NewList[any]("a", inner)

	if _, err := root.Render(outer); err != nil {
		t.Fatal(err)
	}
	inner.Push("y")
	outer.Unshift("0")
	if container.VisibleHTML() != "0axy" {
		t.Fatalf("got %s", container.VisibleHTML())
	}

	outer.Pop()
	if container.VisibleHTML() != "0a" {
		t.Errorf("got %s", container.VisibleHTML())
	}
	if inner.Dependents() != 0 {
		t.Error("removed inner list should be released")
	}
	_ = root.Destroy()
}

// model mirrors a collection as plain strings.
type model []string

func (m model) splice(start, deleteCount int, items ...string) model {
	out := append(model{}, m[:start]...)
	out = append(out, items...)
	return append(out, m[start+deleteCount:]...)
}

func (m model) move(from, to int) model {
	item := m[from]
	rest := append(append(model{}, m[:from]...), m[from+1:]...)
	return append(append(append(model{}, rest[:to]...), item), rest[to:]...)
}

// TestCollectionHostsFollowRandomOps applies seeded random mutations to a
// reactive list and a reactive array and checks the rendered items against
// a plain slice after every step.
func TestCollectionHostsFollowRandomOps(t *testing.T) {
	unwrap := strings.NewReplacer("<li>", "", "</li>", "|")

	for seed := int64(1); seed <= 100; seed++ {
		rng := rand.New(rand.NewSource(seed))
		root, container := newTestRoot(t)
		list := reactive.NewList[any]()
		arr := reactive.NewArray[any]()

		// The ol holds the list alone so clears take the bulk path; the
		// array shares its parent with a sibling.
		if _, err := root.Render(el.Fragment(el.E("ol", list), el.Ul(arr, el.Li("end")))); err != nil {
			t.Fatal(err)
		}

		var want model
		next := 0
		fresh := func(n int) []string {
			out := make([]string, n)
			for i := range out {
				next++
				out[i] = strconv.Itoa(next)
			}
			return out
		}
		// items builds separate values for each collection, since a built
		// node can only be mounted once.
		items := func(texts []string) []any {
			out := make([]any, len(texts))
			for i, s := range texts {
				out[i] = el.Li(s)
			}
			return out
		}

		for step := 0; step < 60; step++ {
			texts := fresh(rng.Intn(3))
			var op string
			switch rng.Intn(7) {
			case 0:
				op = "push"
				list.Push(items(texts)...)
				arr.Push(items(texts)...)
				want = append(want, texts...)
			case 1:
				op = "pop"
				list.Pop()
				arr.Pop()
				if len(want) > 0 {
					want = want[:len(want)-1]
				}
			case 2:
				op = "shift"
				list.Shift()
				arr.Shift()
				if len(want) > 0 {
					want = want[1:]
				}
			case 3:
				op = "unshift"
				list.Unshift(items(texts)...)
				arr.Unshift(items(texts)...)
				want = want.splice(0, 0, texts...)
			case 4:
				op = "splice"
				start := rng.Intn(len(want) + 1)
				count := rng.Intn(len(want) - start + 1)
				if rng.Intn(4) == 0 {
					start, count = 0, len(want)
				}
				list.Splice(start, count, items(texts)...)
				arr.Splice(start, count, items(texts)...)
				want = want.splice(start, count, texts...)
			case 5:
				op = "move"
				if len(want) > 1 {
					from, to := rng.Intn(len(want)), rng.Intn(len(want))
					list.Move(from, to)
					arr.Move(from, to)
					want = want.move(from, to)
				}
			case 6:
				op = "set"
				if len(want) > 0 {
					i := rng.Intn(len(want))
					s := fresh(1)[0]
					list.Set(i, el.Li(s))
					arr.SetAt(i, el.Li(s))
					want[i] = s
				}
			}

			expected := ""
			for _, s := range want {
				expected += s + "|"
			}
			ol := container.FirstChild()
			ul := ol.NextSibling()
			if got := unwrap.Replace(ol.VisibleHTML()); got != expected {
				t.Fatalf("seed %d step %d %s: list %q, want %q", seed, step, op, got, expected)
			}
			if got := unwrap.Replace(ul.VisibleHTML()); got != expected+"end|" {
				t.Fatalf("seed %d step %d %s: array %q, want %q", seed, step, op, got, expected+"end|")
			}
		}

		if err := root.Destroy(); err != nil {
			t.Fatal(err)
		}
		if container.ChildCount() != 0 || list.Dependents() != 0 || arr.Dependents() != 0 {
			t.Fatalf("seed %d: destroy left %d nodes, %d and %d dependents",
				seed, container.ChildCount(), list.Dependents(), arr.Dependents())
		}
	}
}
