package preview

import (
	"fmt"
	"sort"

	"github.com/vango-dev/livetree/pkg/el"
	"github.com/vango-dev/livetree/pkg/host"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// Step is one scripted mutation.
type Step struct {
	Name string
	Do   func()
}

// Scenario describes a renderable value and the steps applied to it.
type Scenario struct {
	Name        string
	Description string

	// Setup returns a fresh value and the steps that drive it. Each call
	// creates new reactive state.
	Setup func() (any, []Step)
}

var scenarios = map[string]Scenario{
	"list": {
		Name:        "list",
		Description: "A reactive list of divs driven through every structural operation",
		Setup:       listScenario,
	},
	"atom": {
		Name:        "atom",
		Description: "A single reactive value set to a string, undefined and null",
		Setup:       atomScenario,
	},
	"func": {
		Name:        "func",
		Description: "A function host switching between text, a list and nothing",
		Setup:       funcScenario,
	},
	"component": {
		Name:        "component",
		Description: "A counter component with a computed value, effects and configured parts",
		Setup:       componentScenario,
	},
	"array": {
		Name:        "array",
		Description: "A reactive array with index assignment and moves",
		Setup:       arrayScenario,
	},
}

// Lookup returns the named scenario.
func Lookup(name string) (Scenario, bool) {
	s, ok := scenarios[name]
	return s, ok
}

// Names returns the scenario names, sorted.
func Names() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func listScenario() (any, []Step) {
	list := reactive.NewList(el.Div(1), el.Div(2), el.Div(3))
	return list, []Step{
		{"push(4, 5)", func() { list.Push(el.Div(4), el.Div(5)) }},
		{"pop()", func() { list.Pop() }},
		{"unshift(-1, 0)", func() { list.Unshift(el.Div(-1), el.Div(0)) }},
		{"shift()", func() { list.Shift() }},
		{"splice(2, 1, 9, 99, 999)", func() { list.Splice(2, 1, el.Div(9), el.Div(99), el.Div(999)) }},
		{"splice(0, 7)", func() { list.Splice(0, 7) }},
	}
}

func atomScenario() (any, []Step) {
	value := reactive.NewAtom[any]("hello")
	return el.P(value), []Step{
		{"set undefined", func() { value.Set(el.Undefined) }},
		{"set null", func() { value.Set(nil) }},
		{"set 42", func() { value.Set(42) }},
	}
}

func funcScenario() (any, []Step) {
	mode := reactive.NewAtom("text")
	items := reactive.NewList("a", "b")
	view := func() any {
		switch mode.Get() {
		case "list":
			return el.Ul(items)
		case "none":
			return nil
		}
		return el.P("mode: ", mode.Peek())
	}
	return el.Div(view), []Step{
		{"show list", func() { mode.Set("list") }},
		{"push c", func() { items.Push("c") }},
		{"hide", func() { mode.Set("none") }},
		{"show text", func() { mode.Set("text") }},
	}
}

func arrayScenario() (any, []Step) {
	arr := reactive.NewArray(el.Li("a"), el.Li("b"), el.Li("c"))
	return el.Ul(arr), []Step{
		{"push(d)", func() { arr.Push(el.Li("d")) }},
		{"set [1] = B", func() { arr.SetAt(1, el.Li("B")) }},
		{"move(0, 3)", func() { arr.Move(0, 3) }},
		{"replace", func() { arr.Replace([]*el.Node{el.Li("x"), el.Li("y")}) }},
	}
}

// counter shows a count, its double and a label configurable as "label".
func counter(c *host.Context) any {
	count, _ := c.Prop("count").(*reactive.Atom[int])
	double := reactive.NewComputed(func() int { return count.Get() * 2 })

	c.UseEffect(func() func() {
		c.Logger().Debug("counter mounted", "tag", c.Element().Tag())
		return nil
	})

	return el.Div(el.Class("counter"),
		c.E("span", el.As("label"), "count"),
		": ", count, " (double ", double, ")",
	)
}

func componentScenario() (any, []Step) {
	count := reactive.NewAtom(0)
	config := host.Config{"label": {Children: []any{"clicks"}}}
	return el.E(counter, el.Props{"count": count, "config": config}), []Step{
		{"increment", func() { count.Update(func(n int) int { return n + 1 }) }},
		{"increment", func() { count.Update(func(n int) int { return n + 1 }) }},
		{"set 10", func() { count.Set(10) }},
	}
}

// describe names a step for display.
func describe(s Scenario, i int, step Step) string {
	return fmt.Sprintf("%s[%d] %s", s.Name, i+1, step.Name)
}
