package component

type Event struct {
	Type   string
	Detail any
	Source *Instance
}

type handler struct {
	fn func(Event)
}

// On registers fn for the named component event and returns its remover.
func (c *Instance) On(name string, fn func(Event)) (off func()) {
	h := &handler{fn: fn}
	c.callbacks[name] = append(c.callbacks[name], h)
	return func() {
		list := c.callbacks[name]
		for i, other := range list {
			if other == h {
				c.callbacks[name] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// Fire calls the handlers for name in registration order. Handlers are read
// from the live list, so one removed by an earlier handler in the same
// dispatch does not run. It reports whether any handlers were registered.
func (c *Instance) Fire(name string, detail any) bool {
	if len(c.callbacks[name]) == 0 {
		return false
	}
	e := Event{Type: name, Detail: detail, Source: c}
	for i := 0; i < len(c.callbacks[name]); i++ {
		c.callbacks[name][i].fn(e)
	}
	return true
}
