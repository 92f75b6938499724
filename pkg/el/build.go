package el

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/vango-dev/livetree/internal/errors"
	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/reactive"
	"github.com/vango-dev/livetree/pkg/style"
)

// Built is a materialized element or fragment together with everything
// Build could not evaluate itself.
type Built struct {
	// Node is the element or fragment.
	Node *dom.Node

	// Roots are the top-level nodes. For a fragment these are its children
	// as built, before insertion empties it.
	Roots []*dom.Node

	UnhandledChildren []UnhandledChild
	UnhandledAttr     []UnhandledAttr
	Refs              []BoundRef

	// DetachStyled are nodes whose style object needs scoped rules.
	DetachStyled []*dom.Node

	// AttrErrors are static attributes the output tree rejected.
	AttrErrors []error
}

// UnhandledChild is a dynamic child left as a comment placeholder.
type UnhandledChild struct {
	Value       any
	Placeholder *dom.Node
	Path        []int
}

// UnhandledAttr is a dynamic attribute, or a style object with nested
// selectors, to be applied by the host layer.
type UnhandledAttr struct {
	Node  *dom.Node
	Name  string
	Value any
	Path  []int
}

// BoundRef pairs a ref handler with its node.
type BoundRef struct {
	Node *dom.Node
	Ref  any
}

// Set delivers n to the handler.
func (b BoundRef) Set(n *dom.Node) {
	SetRef(b.Ref, n)
}

// SetRef delivers n to a *Ref or RefFunc. nil handlers are ignored.
func SetRef(ref any, n *dom.Node) {
	switch r := ref.(type) {
	case *Ref:
		r.Current = n
	case RefFunc:
		r(n)
	case func(*dom.Node):
		r(n)
	}
}

// CheckRef panics with H005 unless ref is nil, a *Ref or a RefFunc.
func CheckRef(ref any) {
	switch ref.(type) {
	case nil, *Ref, RefFunc, func(*dom.Node):
		return
	}
	panic(errors.New("H005").WithValue(ref).WithDetailf("Got %T.", ref))
}

// Build materializes n. Component calls are returned unchanged as *Node;
// elements and fragments are returned as *Built.
func Build(n *Node) any {
	if n.IsComponent() {
		return n
	}
	b := &Built{}
	b.Node = b.build(n, nil)
	if b.Node.Kind() == dom.KindFragment {
		b.Roots = b.Node.Children()
	} else {
		b.Roots = []*dom.Node{b.Node}
	}
	return b
}

func (b *Built) build(n *Node, path []int) *dom.Node {
	tag, _ := n.Type.(string)

	var node *dom.Node
	if tag == FragmentType {
		node = dom.NewFragment()
	} else {
		node = dom.NewElement(tag)
		b.applyProps(node, n.Props, path)
	}

	for i, child := range n.Children {
		b.appendChild(node, child, extend(path, i))
	}
	return node
}

func (b *Built) appendChild(parent *dom.Node, child any, path []int) {
	if text, ok := Primitive(child); ok {
		parent.AppendChild(dom.NewText(text))
		return
	}
	switch v := child.(type) {
	case nil, UndefinedValue:
		return
	case *dom.Node:
		parent.AppendChild(v)
		return
	case *Node:
		if !v.IsComponent() {
			parent.AppendChild(b.build(v, path))
			return
		}
	}

	ph := dom.NewComment("slot")
	parent.AppendChild(ph)
	b.UnhandledChildren = append(b.UnhandledChildren, UnhandledChild{
		Value:       child,
		Placeholder: ph,
		Path:        path,
	})
}

func (b *Built) applyProps(node *dom.Node, props Props, path []int) {
	for _, key := range sortedKeys(props) {
		value := props[key]
		switch {
		case key == "as" || key == "key" || key == "children":
			continue
		case key == "ref":
			CheckRef(value)
			if value != nil {
				b.Refs = append(b.Refs, BoundRef{Node: node, Ref: value})
			}
		case IsEventProp(key):
			b.listen(node, strings.TrimPrefix(key, "on"), value)
		case key == "style" && isStyleObject(value):
			s := value.(Style)
			if !IsDynamic(s) && !style.HasNested(s) {
				b.setAttr(node, key, s)
				continue
			}
			b.UnhandledAttr = append(b.UnhandledAttr, UnhandledAttr{Node: node, Name: key, Value: value, Path: path})
			b.DetachStyled = append(b.DetachStyled, node)
		case IsDynamic(value):
			b.UnhandledAttr = append(b.UnhandledAttr, UnhandledAttr{Node: node, Name: key, Value: value, Path: path})
		default:
			b.setAttr(node, key, value)
		}
	}
}

func (b *Built) setAttr(node *dom.Node, key string, value any) {
	text, ok := AttrString(value)
	if !ok {
		return
	}
	if err := node.SetAttribute(key, text); err != nil {
		b.AttrErrors = append(b.AttrErrors, err)
	}
}

func (b *Built) listen(node *dom.Node, event string, handler any) {
	switch h := handler.(type) {
	case nil:
	case func(*dom.Event):
		node.AddEventListener(event, h)
	case func():
		node.AddEventListener(event, func(*dom.Event) { h() })
	case []any:
		for _, each := range h {
			b.listen(node, event, each)
		}
	default:
		b.AttrErrors = append(b.AttrErrors, fmt.Errorf("el: unsupported %s handler %T", event, handler))
	}
}

// IsDynamic reports whether an attribute value must be resolved by the
// host layer: reactive values, functions producing a value, and style
// objects holding either.
func IsDynamic(value any) bool {
	switch v := value.(type) {
	case reactive.Readable:
		return true
	case Style:
		for _, inner := range v {
			if IsDynamic(inner) {
				return true
			}
		}
		return false
	}
	_, ok := Thunk(value)
	return ok
}

// Thunk adapts any function taking no arguments and returning one value,
// such as func() string or func() *Node, to func() any.
func Thunk(value any) (func() any, bool) {
	switch fn := value.(type) {
	case nil:
		return nil, false
	case func() any:
		return fn, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, false
	}
	if t := rv.Type(); t.NumIn() != 0 || t.NumOut() != 1 {
		return nil, false
	}
	return func() any { return rv.Call(nil)[0].Interface() }, true
}

// Primitive returns the text of a string, number or boolean.
func Primitive(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, rv.Type().Bits()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	}
	return "", false
}

// AttrString converts a resolved attribute value to its attribute text.
// It reports false when the attribute should be absent.
func AttrString(value any) (string, bool) {
	switch v := value.(type) {
	case nil, UndefinedValue:
		return "", false
	case bool:
		return "", v
	case []string:
		return strings.Join(v, " "), true
	case Style:
		return style.Inline(v), true
	case fmt.Stringer:
		return v.String(), true
	}
	if s, ok := Primitive(value); ok {
		return s, true
	}
	return fmt.Sprint(value), true
}

func isStyleObject(v any) bool {
	_, ok := v.(Style)
	return ok
}

func extend(path []int, i int) []int {
	out := make([]int, len(path)+1)
	copy(out, path)
	out[len(path)] = i
	return out
}

func sortedKeys(p Props) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
