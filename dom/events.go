package dom

type Event struct {
	Type   string
	Target *Node
	Detail any
}

type listener struct {
	fn      func(Event)
	removed bool
}

// Listen registers fn for events of the given type and returns its remover.
func (n *Node) Listen(typ string, fn func(Event)) (remove func()) {
	if n.listeners == nil {
		n.listeners = map[string][]*listener{}
	}
	l := &listener{fn: fn}
	n.listeners[typ] = append(n.listeners[typ], l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		list := n.listeners[typ]
		for i, other := range list {
			if other == l {
				n.listeners[typ] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// Dispatch calls the listeners registered when dispatch starts, skipping any
// removed along the way. It reports whether any listener ran.
func (n *Node) Dispatch(e Event) bool {
	e.Target = n
	list := n.listeners[e.Type]
	ran := false
	for _, l := range list {
		if l.removed {
			continue
		}
		l.fn(e)
		ran = true
	}
	return ran
}
