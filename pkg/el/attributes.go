package el

import "strings"

// ID sets the id attribute.
func ID(id string) Attr { return Attr{Key: "id", Value: id} }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return Attr{Key: "class", Value: strings.Join(classes, " ")} }

// StyleAttr sets the style attribute from a Style object or a string.
func StyleAttr(style any) Attr { return Attr{Key: "style", Value: style} }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return Attr{Key: "data-" + key, Value: value} }

// As gives the node a local name that ancestor configuration can target.
func As(name string) Attr { return Attr{Key: "as", Value: name} }

// Key sets a reconciliation key. It is never written to the output.
func Key(key string) Attr { return Attr{Key: "key", Value: key} }

// WithRef attaches a *Ref or RefFunc.
func WithRef(ref any) Attr { return Attr{Key: "ref", Value: ref} }

// On attaches an event handler. handler is func(*dom.Event) or func().
func On(event string, handler any) Attr {
	return Attr{Key: "on" + strings.ToLower(event), Value: handler}
}

// OnClick attaches a click handler.
func OnClick(handler any) Attr { return On("click", handler) }

// OnInput attaches an input handler.
func OnInput(handler any) Attr { return On("input", handler) }

// IsEventProp reports whether key names an event handler prop.
func IsEventProp(key string) bool {
	return len(key) > 2 && strings.HasPrefix(key, "on")
}
