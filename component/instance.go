package component

import (
	"slices"

	"github.com/delaneyj/knowweb/dom"
	"github.com/delaneyj/knowweb/hydrate"
	"github.com/delaneyj/knowweb/store"
)

type State uint8

const (
	Uninitialized State = iota
	Constructing
	Ready
	Destroyed
)

func (st State) String() string {
	switch st {
	case Constructing:
		return "constructing"
	case Ready:
		return "ready"
	case Destroyed:
		return "destroyed"
	default:
		return "uninitialized"
	}
}

type Props map[string]any

// Context is the key/value map a component shares with the children created
// while it is current. It is copied on the first write after sharing.
type Context map[any]any

// FieldWriter assigns a field of one instance and schedules a re-render when
// the value changed.
type FieldWriter interface {
	Write(i int, v any)
}

// Definition describes a component type.
type Definition struct {
	Name string
	// Setup returns the initial field values. Lifecycle hooks and context
	// may be used from inside it.
	Setup func(c *Instance, props Props) []any
	// Update recomputes derived fields ahead of every patch.
	Update func(c *Instance)
	// Fragment builds the render tree for the instance's fields.
	Fragment func(c *Instance) Fragment
	// Props maps settable prop names to field indices.
	Props map[string]int
	// NotEqual decides whether a field write counts as a change. It defaults
	// to store.NotEqualAny.
	NotEqual func(prev, next any) bool
}

type Options struct {
	Target  *dom.Node
	Anchor  *dom.Node
	Props   Props
	Hydrate bool
	Intro   bool
	// Context replaces the context inherited from the current component.
	Context Context
	// CustomElement suppresses mount callbacks.
	CustomElement bool
}

type Instance struct {
	s   *Scheduler
	def *Definition

	ctx       []any
	dirty     Dirty
	state     State
	skipBound bool
	bound     map[int]func(any)
	fragment  Fragment

	onMount      []func() func()
	onDestroy    []func()
	beforeUpdate []func()
	afterUpdate  []*hook

	context      Context
	contextOwned bool

	callbacks map[string][]*handler
}

// New constructs an instance of def. With a target it also renders, mounts
// and flushes synchronously.
func (s *Scheduler) New(def *Definition, opts Options) *Instance {
	parent := s.current
	c := &Instance{
		s:         s,
		def:       def,
		dirty:     clean(),
		state:     Constructing,
		bound:     map[int]func(any){},
		callbacks: map[string][]*handler{},
	}
	switch {
	case opts.Context != nil:
		c.context = opts.Context
	case parent != nil:
		c.context = parent.context
		parent.contextOwned = false
	}

	s.current = c
	defer func() {
		s.current = parent
	}()

	props := opts.Props
	if props == nil {
		props = Props{}
	}
	if def.Setup != nil {
		c.ctx = def.Setup(c, props)
	}
	if c.ctx == nil {
		c.ctx = []any{}
	}
	if def.Update != nil {
		def.Update(c)
	}
	c.state = Ready
	for _, fn := range c.beforeUpdate {
		fn()
	}
	if def.Fragment != nil {
		c.fragment = def.Fragment(c)
	}

	if opts.Target != nil {
		if opts.Hydrate {
			s.dom.Start()
			nodes := s.dom.Children(opts.Target)
			s.ClaimComponent(c, nodes)
			nodes.DetachRemaining()
		} else {
			s.CreateComponent(c)
		}
		if opts.Intro {
			s.TransitionIn(c.fragment, false)
		}
		s.MountComponent(c, opts.Target, opts.Anchor, opts.CustomElement)
		s.dom.End()
		s.Flush()
	}
	return c
}

func (c *Instance) Name() string {
	return c.def.Name
}

func (c *Instance) State() State {
	return c.state
}

func (c *Instance) Scheduler() *Scheduler {
	return c.s
}

func (c *Instance) Fragment() Fragment {
	return c.fragment
}

// Field returns the current value of field i.
func (c *Instance) Field(i int) any {
	if i < 0 || i >= len(c.ctx) {
		return nil
	}
	return c.ctx[i]
}

// Fields exposes the live field array.
func (c *Instance) Fields() []any {
	return c.ctx
}

// Dirty returns a copy of the pending change mask.
func (c *Instance) Dirty() Dirty {
	return slices.Clone(c.dirty)
}

func (c *Instance) notEqual(prev, next any) bool {
	if c.def.NotEqual != nil {
		return c.def.NotEqual(prev, next)
	}
	return store.NotEqualAny(prev, next)
}

// Write always stores v. When the value changed it notifies any two-way
// binding on the field and, once the instance is ready, marks it dirty.
func (c *Instance) Write(i int, v any) {
	if c.ctx == nil || i < 0 || i >= len(c.ctx) {
		return
	}
	prev := c.ctx[i]
	c.ctx[i] = v
	if !c.notEqual(prev, v) {
		return
	}
	if !c.skipBound {
		if fn := c.bound[i]; fn != nil {
			fn(v)
		}
	}
	if c.state == Ready {
		c.s.makeDirty(c, i)
	}
}

// SetProps writes every known prop in props. Bindings are not notified of
// changes that came from outside.
func (c *Instance) SetProps(props Props) {
	if len(props) == 0 || c.def.Props == nil {
		return
	}
	c.skipBound = true
	defer func() {
		c.skipBound = false
	}()
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if i, ok := c.def.Props[name]; ok {
			c.Write(i, props[name])
		}
	}
}

// Bind calls fn with the prop's current value and again whenever the
// component itself changes it. It reports whether the prop exists.
func (c *Instance) Bind(name string, fn func(any)) bool {
	i, ok := c.def.Props[name]
	if !ok {
		return false
	}
	c.bound[i] = fn
	fn(c.Field(i))
	return true
}

func (c *Instance) update() {
	if c.state == Destroyed {
		return
	}
	if c.def.Update != nil {
		c.def.Update(c)
	}
	for _, fn := range c.beforeUpdate {
		fn()
	}
	dirty := c.dirty
	c.dirty = clean()
	if c.fragment != nil {
		c.fragment.Patch(c.ctx, dirty)
	}
	for _, h := range c.afterUpdate {
		c.s.addRenderHook(h)
	}
}

// Destroy tears the instance down and detaches its nodes. Later calls do
// nothing.
func (c *Instance) Destroy() {
	c.s.DestroyComponent(c, true)
}

// CreateComponent builds c's nodes from scratch.
func (s *Scheduler) CreateComponent(c *Instance) {
	if c.fragment != nil {
		c.fragment.Create()
	}
}

// ClaimComponent builds c's nodes by claiming server-rendered ones.
func (s *Scheduler) ClaimComponent(c *Instance, nodes *hydrate.Nodes) {
	if c.fragment != nil {
		c.fragment.Claim(nodes)
	}
}

// MountComponent inserts c's nodes and queues its mount callbacks, which run
// after those of any child mounted along the way.
func (s *Scheduler) MountComponent(c *Instance, target, anchor *dom.Node, customElement bool) {
	if c.fragment != nil {
		c.fragment.Mount(target, anchor)
	}
	if !customElement {
		s.AddRenderCallback(func() {
			var teardowns []func()
			for _, fn := range c.onMount {
				if td := fn(); td != nil {
					teardowns = append(teardowns, td)
				}
			}
			c.onMount = nil
			if c.state == Destroyed {
				for _, td := range teardowns {
					td()
				}
				return
			}
			c.onDestroy = append(c.onDestroy, teardowns...)
		})
	}
	for _, h := range c.afterUpdate {
		s.addRenderHook(h)
	}
}

// DestroyComponent runs c's destroy callbacks and destroys its fragment the
// first time it is called.
func (s *Scheduler) DestroyComponent(c *Instance, detaching bool) {
	if c.state == Destroyed {
		return
	}
	c.state = Destroyed
	onDestroy := c.onDestroy
	c.onDestroy = nil
	for _, fn := range onDestroy {
		fn()
	}
	if c.fragment != nil {
		c.fragment.Destroy(detaching)
	}
	c.fragment = nil
	c.ctx = []any{}
	c.beforeUpdate = nil
	c.afterUpdate = nil
	c.bound = map[int]func(any){}
}
