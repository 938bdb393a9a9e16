package router

import (
	"github.com/delaneyj/knowweb/component"
	"github.com/delaneyj/knowweb/dom"
	"github.com/delaneyj/knowweb/hydrate"
)

// Slot builds children inside parent, which is current while it runs.
type Slot func(parent *component.Instance, scope component.Props) component.Fragment

const (
	routerBasepath = iota
	routerURL
	routerChildren
)

// ClientRouter is the mounted counterpart of ServerRouter. The top-level
// router follows its Env's history once mounted.
//
// Props: basepath, url, children (Slot).
var ClientRouter = &component.Definition{
	Name: "Router",
	Props: map[string]int{
		"basepath": routerBasepath,
		"url":      routerURL,
		"children": routerChildren,
	},
	Setup: func(c *component.Instance, props component.Props) []any {
		s := c.Scheduler()
		basepath, _ := props["basepath"].(string)
		url, _ := props["url"].(string)
		children, _ := props["children"].(Slot)

		rt := fromContext(s.GetContext, Config{Basepath: basepath, URL: url})
		if rt.Top() {
			s.OnMount(rt.Listen)
			s.SetContext(locationKey, rt.Location())
		}
		s.SetContext(routerKey, rt)
		s.OnDestroy(rt.Close)
		return []any{basepath, url, children}
	},
	Fragment: func(c *component.Instance) component.Fragment {
		if children, ok := c.Field(routerChildren).(Slot); ok && children != nil {
			return children(c, nil)
		}
		return &component.Funcs{}
	},
}

const (
	routePath = iota
	routeComponent
	routeProps
	routeActive
	routeLocation
	routeChildren
	routeEntry
)

// ClientRoute mounts its component, or its children, while it is the active
// route and lets them play their exit before removing them.
//
// Props: path, component (*component.Definition), props (passed to the
// component), children (Slot, given params and location).
var ClientRoute = &component.Definition{
	Name: "Route",
	Props: map[string]int{
		"path":      routePath,
		"component": routeComponent,
		"props":     routeProps,
		"children":  routeChildren,
	},
	Setup: func(c *component.Instance, props component.Props) []any {
		s := c.Scheduler()
		rt, ok := s.GetContext(routerKey).(*Router)
		if !ok {
			panic(ErrNoRouterContext)
		}
		path, _ := props["path"].(string)
		def, _ := props["component"].(*component.Definition)
		rest, _ := props["props"].(map[string]any)
		children, _ := props["children"].(Slot)

		route := NewRoute(path, rest)
		rt.Register(route)
		s.OnDestroy(func() {
			rt.Unregister(route)
		})

		var active *Match
		var location Location
		component.Subscribe(c, rt.Active(), func(m *Match) {
			active = m
			c.Write(routeActive, m)
		})
		component.Subscribe(c, rt.Location(), func(l Location) {
			location = l
			c.Write(routeLocation, l)
		})
		return []any{path, def, rest, active, location, children, route}
	},
	Fragment: func(c *component.Instance) component.Fragment {
		f := &routeFragment{c: c}
		if m, ok := f.matched(c.Fields()); ok {
			f.block = newRouteBlock(c, m)
		}
		return f
	},
}

// routeFragment shows a block while the route is active.
type routeFragment struct {
	c      *component.Instance
	block  *routeBlock
	anchor *dom.Node
}

func (f *routeFragment) route() *Route {
	r, _ := f.c.Field(routeEntry).(*Route)
	return r
}

func (f *routeFragment) matched(ctx []any) (*Match, bool) {
	m, _ := ctx[routeActive].(*Match)
	return m, m != nil && m.Route == f.route()
}

func (f *routeFragment) Create() {
	if f.block != nil {
		f.block.Create()
	}
	f.anchor = dom.NewText("")
}

func (f *routeFragment) Claim(nodes *hydrate.Nodes) {
	if f.block != nil {
		f.block.Claim(nodes)
	}
	f.anchor = dom.NewText("")
}

func (f *routeFragment) Mount(target, anchor *dom.Node) {
	if f.block != nil {
		f.block.Mount(target, anchor)
	}
	f.c.Scheduler().DOM().Insert(target, f.anchor, anchor)
}

func (f *routeFragment) Patch(ctx []any, dirty component.Dirty) {
	s := f.c.Scheduler()
	m, ok := f.matched(ctx)
	switch {
	case ok && f.block != nil:
		f.block.update(m, ctx)
		f.block.Patch(ctx, dirty)
		if dirty.Has(routeActive) {
			s.TransitionIn(f.block, true)
		}
	case ok:
		f.block = newRouteBlock(f.c, m)
		f.block.Create()
		s.TransitionIn(f.block, true)
		f.block.Mount(f.anchor.Parent, f.anchor)
	case f.block != nil:
		s.GroupOutros()
		s.TransitionOut(f.block, true, true, func() {
			f.block = nil
		})
		s.CheckOutros()
	}
}

func (f *routeFragment) Destroy(detaching bool) {
	if f.block != nil {
		f.block.Destroy(detaching)
	}
	if detaching {
		dom.Detach(f.anchor)
	}
}

// routeBlock is what an active route renders: a component instance or the
// route's children.
type routeBlock struct {
	s     *component.Scheduler
	child *component.Instance
	frag  component.Fragment
}

func componentProps(m *Match, ctx []any) component.Props {
	props := component.Props{"location": ctx[routeLocation]}
	for k, v := range m.Params {
		props[k] = v
	}
	rest, _ := ctx[routeProps].(map[string]any)
	for k, v := range rest {
		props[k] = v
	}
	return props
}

func newRouteBlock(c *component.Instance, m *Match) *routeBlock {
	s := c.Scheduler()
	ctx := c.Fields()
	b := &routeBlock{s: s}
	if def, ok := ctx[routeComponent].(*component.Definition); ok && def != nil {
		b.child = s.New(def, component.Options{Props: componentProps(m, ctx)})
		return b
	}
	if children, ok := ctx[routeChildren].(Slot); ok && children != nil {
		b.frag = children(c, component.Props{"params": m.Params, "location": ctx[routeLocation]})
		return b
	}
	b.frag = &component.Funcs{}
	return b
}

func (b *routeBlock) update(m *Match, ctx []any) {
	if b.child != nil {
		b.child.SetProps(componentProps(m, ctx))
	}
}

func (b *routeBlock) Create() {
	if b.child != nil {
		b.s.CreateComponent(b.child)
		return
	}
	b.frag.Create()
}

func (b *routeBlock) Claim(nodes *hydrate.Nodes) {
	if b.child != nil {
		b.s.ClaimComponent(b.child, nodes)
		return
	}
	b.frag.Claim(nodes)
}

func (b *routeBlock) Mount(target, anchor *dom.Node) {
	if b.child != nil {
		b.s.MountComponent(b.child, target, anchor, false)
		return
	}
	b.frag.Mount(target, anchor)
}

func (b *routeBlock) Patch(ctx []any, dirty component.Dirty) {
	if b.frag != nil {
		b.frag.Patch(ctx, dirty)
	}
}

func (b *routeBlock) Destroy(detaching bool) {
	if b.child != nil {
		b.s.DestroyComponent(b.child, detaching)
		return
	}
	b.frag.Destroy(detaching)
}
