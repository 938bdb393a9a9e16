package component

import (
	"errors"
	"maps"

	"github.com/delaneyj/knowweb/store"
)

var ErrOutsideInit = errors.New("function called outside component initialization")

// Current returns the instance being constructed or updated. It panics with
// ErrOutsideInit when there is none.
func (s *Scheduler) Current() *Instance {
	if s.current == nil {
		panic(ErrOutsideInit)
	}
	return s.current
}

// OnMount registers fn to run after the current instance is first mounted.
// A returned teardown runs when the instance is destroyed.
func (s *Scheduler) OnMount(fn func() (teardown func())) {
	c := s.Current()
	c.onMount = append(c.onMount, fn)
}

func (s *Scheduler) OnDestroy(fn func()) {
	c := s.Current()
	c.onDestroy = append(c.onDestroy, fn)
}

func (s *Scheduler) BeforeUpdate(fn func()) {
	c := s.Current()
	c.beforeUpdate = append(c.beforeUpdate, fn)
}

func (s *Scheduler) AfterUpdate(fn func()) {
	c := s.Current()
	c.afterUpdate = append(c.afterUpdate, &hook{fn: fn})
}

func (s *Scheduler) SetContext(key, value any) {
	s.Current().setContext(key, value)
}

func (s *Scheduler) GetContext(key any) any {
	return s.Current().context[key]
}

func (s *Scheduler) HasContext(key any) bool {
	_, ok := s.Current().context[key]
	return ok
}

// AllContexts returns a copy of the current instance's context.
func (s *Scheduler) AllContexts() Context {
	return maps.Clone(s.Current().context)
}

func (c *Instance) setContext(key, value any) {
	if !c.contextOwned {
		next := make(Context, len(c.context)+1)
		maps.Copy(next, c.context)
		c.context = next
		c.contextOwned = true
	}
	c.context[key] = value
}

// CreateEventDispatcher returns a function that fires component events on
// the current instance.
func (s *Scheduler) CreateEventDispatcher() func(name string, detail any) bool {
	c := s.Current()
	return func(name string, detail any) bool {
		return c.Fire(name, detail)
	}
}

// Subscribe delivers store values to fn until c is destroyed.
func Subscribe[T any](c *Instance, src store.Subscribable[T], fn func(T)) {
	unsubscribe := src.Subscribe(fn, nil)
	if c.state == Destroyed {
		unsubscribe()
		return
	}
	c.onDestroy = append(c.onDestroy, unsubscribe)
}
