package dom

// Event is dispatched to listeners registered on a node.
type Event struct {
	Type   string
	Target *Node
	Detail any

	stopped bool
}

// StopPropagation prevents the event from reaching ancestors.
func (e *Event) StopPropagation() {
	e.stopped = true
}

type listener struct {
	fn func(*Event)
}

// AddEventListener registers fn for events of type typ and returns a
// function that removes it.
func (n *Node) AddEventListener(typ string, fn func(*Event)) (remove func()) {
	if n.listeners == nil {
		n.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	n.listeners[typ] = append(n.listeners[typ], l)

	return func() {
		ls := n.listeners[typ]
		for i, existing := range ls {
			if existing == l {
				n.listeners[typ] = append(ls[:i], ls[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns the number of listeners for typ.
func (n *Node) ListenerCount(typ string) int {
	return len(n.listeners[typ])
}

// DispatchEvent delivers ev to n's listeners and then bubbles it up the
// ancestor chain until a listener stops propagation.
func (n *Node) DispatchEvent(ev *Event) {
	if ev.Target == nil {
		ev.Target = n
	}
	for cur := n; cur != nil && !ev.stopped; cur = cur.parent {
		ls := make([]*listener, len(cur.listeners[ev.Type]))
		copy(ls, cur.listeners[ev.Type])
		for _, l := range ls {
			l.fn(ev)
		}
	}
}
