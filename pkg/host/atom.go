package host

import (
	"encoding/json"
	"fmt"

	"github.com/vango-dev/livetree/pkg/dom"
	"github.com/vango-dev/livetree/pkg/el"
	"github.com/vango-dev/livetree/pkg/reactive"
)

// AtomHost binds one reactive value to a text node.
type AtomHost struct {
	base
	source reactive.Readable

	text *dom.Node
	run  *reactive.Autorun
}

func newAtomHost(source reactive.Readable, placeholder *dom.Node, ctx PathContext) *AtomHost {
	return &AtomHost{base: newBase(KindAtom, placeholder, ctx), source: source}
}

// Element implements Host.
func (h *AtomHost) Element() *dom.Node {
	if h.text == nil {
		return h.placeholder
	}
	return h.text
}

// Render implements Host. The first evaluation inserts the text node;
// later ones rewrite it in place.
func (h *AtomHost) Render() {
	h.beginRender()
	h.run = autorun(func(*reactive.Run) {
		s := Stringify(h.source.ReadAny())
		if h.text == nil {
			h.text = dom.NewText(s)
			h.insert(h.text)
			return
		}
		h.text.SetData(s)
	})
}

// Destroy implements Host.
func (h *AtomHost) Destroy(parentHandle bool) {
	if !h.beginDestroy() {
		return
	}
	if h.run != nil {
		h.run.Dispose()
	}
	if !parentHandle {
		if h.text != nil {
			h.text.Remove()
		}
		h.placeholder.Remove()
	}
}

// Stringify converts a reactive value to the text an AtomHost shows.
// nil is "null", el.Undefined is "undefined", primitives and values with
// their own string form use it, and anything else is JSON encoded.
func Stringify(v any) string {
	if v == nil {
		return "null"
	}
	switch x := v.(type) {
	case string:
		return x
	case el.UndefinedValue:
		return "undefined"
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	}
	if text, ok := el.Primitive(v); ok {
		return text
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
