package router

import (
	"github.com/delaneyj/knowweb/ssr"
)

// ServerRouter renders its default slot with a router in context.
//
// Props: basepath, url.
var ServerRouter = ssr.Define("Router", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
	basepath, _ := props["basepath"].(string)
	url, _ := props["url"].(string)

	rt := fromContext(r.GetContext, Config{Basepath: basepath, URL: url, SSR: true})
	r.OnDestroy(rt.Close)

	if rt.Top() {
		r.SetContext(locationKey, rt.Location())
	}
	r.SetContext(routerKey, rt)
	return ssr.Slot(r, slots, "default", nil)
})

// ServerRoute renders when it is its router's active route: the component
// prop if one was given, otherwise the default slot with params and
// location in scope.
//
// Props: path, component; anything else is passed to the component.
var ServerRoute = ssr.Define("Route", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
	rt, ok := r.GetContext(routerKey).(*Router)
	if !ok {
		panic(ErrNoRouterContext)
	}
	path, _ := props["path"].(string)
	rest := map[string]any{}
	for k, v := range props {
		if k != "path" && k != "component" {
			rest[k] = v
		}
	}

	route := NewRoute(path, rest)
	rt.Register(route)

	m := rt.Match()
	if m == nil || m.Route != route {
		return ""
	}
	location := rt.curLocation

	if c, given := props["component"]; given && c != nil {
		comp, _ := c.(*ssr.Component)
		childProps := ssr.Props{"location": location}
		for k, v := range m.Params {
			childProps[k] = v
		}
		for k, v := range rest {
			childProps[k] = v
		}
		return ssr.ValidateComponent(comp, "svelte:component").RenderIn(r, childProps, nil)
	}
	return ssr.Slot(r, slots, "default", ssr.Props{"params": m.Params, "location": location})
})
