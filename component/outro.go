package component

// OutroGroup counts the exits still running in one conditional region.
// Its callbacks run once the group is closed and nothing is still running,
// then control returns to the parent group.
type OutroGroup struct {
	remaining int
	callbacks []func()
	parent    *OutroGroup
	closed    bool
	fired     bool
}

func (g *OutroGroup) Remaining() int {
	return g.remaining
}

func (g *OutroGroup) settle() {
	if !g.closed || g.remaining > 0 || g.fired {
		return
	}
	g.fired = true
	for _, fn := range g.callbacks {
		fn()
	}
}

type outro struct {
	group     *OutroGroup
	cancelled bool
	finished  bool
}

func (o *outro) finish() {
	if o.finished {
		return
	}
	o.finished = true
	o.group.remaining--
	o.group.settle()
}

// GroupOutros opens a group nested in the current one.
func (s *Scheduler) GroupOutros() *OutroGroup {
	s.outros = &OutroGroup{parent: s.outros}
	return s.outros
}

// CheckOutros closes the current group and makes its parent current.
func (s *Scheduler) CheckOutros() {
	g := s.outros
	if g == nil {
		return
	}
	g.closed = true
	g.settle()
	s.outros = g.parent
}

// Outroing reports whether block has an exit in flight.
func (s *Scheduler) Outroing(block Fragment) bool {
	_, ok := s.outroing[block]
	return ok
}

// TransitionIn cancels any pending exit of block and starts its intro.
func (s *Scheduler) TransitionIn(block Fragment, local bool) {
	if block == nil {
		return
	}
	if o, ok := s.outroing[block]; ok {
		delete(s.outroing, block)
		o.cancelled = true
		o.finish()
	}
	if t, ok := block.(Transitioner); ok {
		t.Intro(local)
	}
}

// TransitionOut starts block's exit in the current group. When the group
// settles the block is destroyed if detach is set and then done runs. A
// block already exiting is left alone.
func (s *Scheduler) TransitionOut(block Fragment, local, detach bool, done func()) {
	if block == nil {
		return
	}
	if _, ok := s.outroing[block]; ok {
		return
	}
	if s.outros == nil {
		s.GroupOutros()
		defer s.CheckOutros()
	}

	o := &outro{group: s.outros}
	s.outroing[block] = o
	o.group.callbacks = append(o.group.callbacks, func() {
		if o.cancelled {
			return
		}
		delete(s.outroing, block)
		if done != nil {
			if detach {
				block.Destroy(true)
			}
			done()
		}
	})

	o.group.remaining++
	if t, ok := block.(Transitioner); ok {
		t.Outro(local, o.finish)
		return
	}
	o.finish()
}
