package router

import (
	"errors"
	"slices"
	"strings"

	"github.com/delaneyj/knowweb/component"
	"github.com/delaneyj/knowweb/store"
)

var ErrNoRouterContext = errors.New("route used outside of a router")

// Base is the path prefix a router hands to the routes below it, with the
// part of the location that prefix consumed.
type Base struct {
	Path string
	URI  string
}

type contextKey int

const (
	envKey contextKey = iota
	routerKey
	locationKey
)

// Env is what a top-level router takes from its host. Pass its Context to
// the root component.
type Env struct {
	Sys     *store.System
	History *History
}

func (e Env) Context() component.Context {
	return component.Context{envKey: e}
}

func envFrom(v any) Env {
	e, _ := v.(Env)
	if e.Sys == nil {
		e.Sys = store.NewSystem()
	}
	return e
}

// fromContext creates a router below whatever router get finds.
func fromContext(get func(key any) any, cfg Config) *Router {
	env := envFrom(get(envKey))
	parent, _ := get(routerKey).(*Router)
	location, _ := get(locationKey).(*store.Store[Location])
	sys := env.Sys
	if parent != nil {
		sys = parent.sys
	}
	cfg.History = env.History
	return New(sys, parent, location, cfg)
}

type Config struct {
	Basepath string
	// URL forces the location of a top-level router.
	URL string
	// SSR routers activate the first route that matches as it registers and
	// ignore later ones.
	SSR     bool
	History *History
}

// Router holds the routes registered below one router and the one that is
// active for the current location.
type Router struct {
	sys     *store.System
	ssr     bool
	top     bool
	history *History

	routes     *store.Store[[]*Route]
	active     *store.Store[*Match]
	location   *store.Store[Location]
	base       store.Subscribable[Base]
	routerBase *store.ReadOnly[Base]
	hasActive  bool

	curBase     Base
	curLocation Location
	curRoutes   []*Route
	unsubs      []func()
}

// New creates a router. A nil parent makes it top-level; a nil location
// makes it own the location store.
func New(sys *store.System, parent *Router, location *store.Store[Location], cfg Config) *Router {
	r := &Router{
		sys:     sys,
		ssr:     cfg.SSR,
		history: cfg.History,
		routes:  store.Writable[[]*Route](sys, nil),
		active:  store.Writable[*Match](sys, nil),
	}

	if location == nil {
		r.top = true
		switch {
		case cfg.URL != "":
			pathname, search, _ := strings.Cut(cfg.URL, "?")
			location = store.Writable(sys, Location{Pathname: pathname, Search: search, Key: "initial"})
		case cfg.History != nil:
			location = store.Writable(sys, cfg.History.Location())
		default:
			location = store.Writable(sys, Location{Pathname: "/", Key: "initial"})
		}
	}
	r.location = location

	if parent != nil {
		r.base = parent.routerBase
	} else {
		basepath := cfg.Basepath
		if basepath == "" {
			basepath = "/"
		}
		r.base = store.Writable(sys, Base{Path: basepath, URI: basepath})
	}

	r.routerBase = store.Derived2(sys, r.base, r.active, func(b Base, m *Match) Base {
		if m == nil {
			return b
		}
		path := b.Path
		if !m.Route.Default {
			path = m.Route.Path
			if i := strings.IndexByte(path, '*'); i >= 0 {
				path = path[:i]
			}
		}
		return Base{Path: path, URI: m.URI}
	})

	r.unsubs = append(r.unsubs,
		r.base.Subscribe(func(b Base) {
			r.curBase = b
			for _, route := range r.curRoutes {
				route.Path = CombinePaths(b.Path, route.pattern)
			}
			r.sync()
		}, nil),
		r.location.Subscribe(func(l Location) {
			r.curLocation = l
			r.sync()
		}, nil),
		r.routes.Subscribe(func(routes []*Route) {
			r.curRoutes = routes
			r.sync()
		}, nil),
	)
	return r
}

func (r *Router) sync() {
	if r.ssr {
		return
	}
	r.active.Set(Pick(r.curRoutes, r.curLocation.Pathname))
}

// Top reports whether the router owns its location.
func (r *Router) Top() bool {
	return r.top
}

func (r *Router) Location() *store.Store[Location] {
	return r.location
}

func (r *Router) Active() store.Subscribable[*Match] {
	return r.active
}

// Match is the active route's match, or nil.
func (r *Router) Match() *Match {
	return store.Get[*Match](r.active)
}

// RouterBase is the base nested routers build on.
func (r *Router) RouterBase() store.Subscribable[Base] {
	return r.routerBase
}

func (r *Router) Base() Base {
	return r.curBase
}

func (r *Router) Routes() []*Route {
	return slices.Clone(r.curRoutes)
}

// Register joins route's pattern to the router's base and offers it for
// matching.
func (r *Router) Register(route *Route) {
	route.Path = CombinePaths(r.curBase.Path, route.pattern)

	if r.ssr {
		if r.hasActive {
			return
		}
		if m := MatchRoute(route, r.curLocation.Pathname); m != nil {
			r.active.Set(m)
			r.hasActive = true
		}
		return
	}
	r.routes.Update(func(routes []*Route) []*Route {
		return append(slices.Clone(routes), route)
	})
}

func (r *Router) Unregister(route *Route) {
	r.routes.Update(func(routes []*Route) []*Route {
		return slices.DeleteFunc(slices.Clone(routes), func(other *Route) bool {
			return other == route
		})
	})
}

// Listen keeps a top-level router's location in step with its history.
func (r *Router) Listen() (unlisten func()) {
	if !r.top || r.history == nil {
		return func() {}
	}
	return r.history.Listen(func(l Location, _ Action) {
		r.location.Set(l)
	})
}

// Close drops the router's subscriptions.
func (r *Router) Close() {
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
}
