package router_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/delaneyj/knowweb/component"
	"github.com/delaneyj/knowweb/dom"
	"github.com/delaneyj/knowweb/hydrate"
	"github.com/delaneyj/knowweb/router"
	"github.com/delaneyj/knowweb/ssr"
	"github.com/delaneyj/knowweb/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterFollowsHistory(t *testing.T) {
	sys := store.NewSystem()
	h := router.NewHistory(router.NewMemorySource("/"))
	rt := router.New(sys, nil, nil, router.Config{History: h})
	defer rt.Close()

	home := router.NewRoute("/", nil)
	users := router.NewRoute("users/*", nil)
	rt.Register(home)
	rt.Register(users)
	assert.Equal(t, "/", home.Path)
	assert.Equal(t, "users/*/", users.Path)
	assert.Equal(t, "users/*", users.Pattern())
	require.NotNil(t, rt.Match())
	assert.Same(t, home, rt.Match().Route)

	/*
	   router  /         users/*
	             \
	   child      :id    (base follows the parent's active route)
	*/
	child := router.New(sys, rt, rt.Location(), router.Config{})
	defer child.Close()
	assert.False(t, child.Top())
	byID := router.NewRoute(":id", nil)
	child.Register(byID)
	assert.Equal(t, ":id/", byID.Path)

	unlisten := rt.Listen()
	defer unlisten()
	h.Navigate("/users/5", nil, false)

	require.NotNil(t, rt.Match())
	assert.Same(t, users, rt.Match().Route)
	assert.Equal(t, router.Base{Path: "users/", URI: "/users"}, store.Get(rt.RouterBase()))
	assert.Equal(t, router.Base{Path: "users/", URI: "/users"}, child.Base())

	assert.Equal(t, "users/:id/", byID.Path)
	m := child.Match()
	require.NotNil(t, m)
	assert.Same(t, byID, m.Route)
	assert.Equal(t, map[string]string{"id": "5"}, m.Params)

	rt.Unregister(users)
	assert.Equal(t, []*router.Route{home}, rt.Routes())
	assert.Nil(t, rt.Match())
}

func serverPage(name string) *ssr.Component {
	return ssr.Define(name, "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		text := name
		if id, ok := props["id"]; ok {
			text += " " + ssr.EscapeAny(id)
		}
		if extra, ok := props["extra"]; ok {
			text += ssr.EscapeAny(extra)
		}
		return "<p>" + text + "</p>"
	})
}

func serverApp() *ssr.Component {
	user, home := serverPage("user"), serverPage("home")
	return ssr.Define("App", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		return router.ServerRouter.RenderIn(r, ssr.Props{"url": props["url"]}, ssr.Slots{
			"default": func(r *ssr.Renderer, _ ssr.Props) string {
				return router.ServerRoute.RenderIn(r, ssr.Props{"path": "users/:id", "component": user, "extra": "!"}, nil) +
					router.ServerRoute.RenderIn(r, ssr.Props{"path": "/", "component": home}, nil) +
					router.ServerRoute.RenderIn(r, nil, ssr.Slots{
						"default": func(r *ssr.Renderer, scope ssr.Props) string {
							return "not found " + scope["location"].(router.Location).Pathname
						},
					})
			},
		})
	})
}

func TestServerRouting(t *testing.T) {
	app := serverApp()
	tests := []struct {
		url, html string
	}{
		{"/users/42", "<p>user 42!</p>"},
		{"/", "<p>home</p>"},
		{"/nope", "not found /nope"},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.html, app.Render(ssr.Props{"url": tt.url}).HTML)
		})
	}
}

func TestServerNestedRouters(t *testing.T) {
	/*
	   Router
	   └── Route blog/*
	       └── Router (base blog/)
	           └── Route :slug
	*/
	app := ssr.Define("Blog", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		return router.ServerRouter.RenderIn(r, ssr.Props{"url": "/blog/hello"}, ssr.Slots{
			"default": func(r *ssr.Renderer, _ ssr.Props) string {
				return router.ServerRoute.RenderIn(r, ssr.Props{"path": "blog/*"}, ssr.Slots{
					"default": func(r *ssr.Renderer, scope ssr.Props) string {
						rest := scope["params"].(map[string]string)["*"]
						return "[" + rest + "]" + router.ServerRouter.RenderIn(r, nil, ssr.Slots{
							"default": func(r *ssr.Renderer, _ ssr.Props) string {
								return router.ServerRoute.RenderIn(r, ssr.Props{"path": ":slug"}, ssr.Slots{
									"default": func(r *ssr.Renderer, scope ssr.Props) string {
										return "post " + scope["params"].(map[string]string)["slug"]
									},
								})
							},
						})
					},
				})
			},
		})
	})
	assert.Equal(t, "[hello]post hello", app.Render(nil).HTML)
}

func TestServerRouteMisuse(t *testing.T) {
	assert.PanicsWithValue(t, router.ErrNoRouterContext, func() {
		router.ServerRoute.Render(nil)
	})

	bad := ssr.Define("Bad", "", func(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
		return router.ServerRouter.RenderIn(r, ssr.Props{"url": "/"}, ssr.Slots{
			"default": func(r *ssr.Renderer, _ ssr.Props) string {
				return router.ServerRoute.RenderIn(r, ssr.Props{"path": "/", "component": "nope"}, nil)
			},
		})
	})
	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ssr.ErrInvalidComponent))
	}()
	bad.Render(nil)
}

// clientPage renders "<p>name id</p>", dropping the id when there is none.
func clientPage(name string) *component.Definition {
	return &component.Definition{
		Name:  name,
		Props: map[string]int{"id": 0},
		Setup: func(c *component.Instance, props component.Props) []any {
			return []any{props["id"]}
		},
		Fragment: func(c *component.Instance) component.Fragment {
			return component.NewElement(c, "p", 0, func(v any) string {
				if v == nil {
					return name
				}
				return fmt.Sprint(name, " ", v)
			})
		},
	}
}

func clientRoutes(routes ...component.Props) router.Slot {
	return func(parent *component.Instance, _ component.Props) component.Fragment {
		s := parent.Scheduler()
		kids := make([]*component.Instance, len(routes))
		for i, props := range routes {
			kids[i] = s.New(router.ClientRoute, component.Options{Props: props})
		}
		return &component.Funcs{
			CreateFunc: func() {
				for _, k := range kids {
					s.CreateComponent(k)
				}
			},
			ClaimFunc: func(nodes *hydrate.Nodes) {
				for _, k := range kids {
					s.ClaimComponent(k, nodes)
				}
			},
			MountFunc: func(target, anchor *dom.Node) {
				for _, k := range kids {
					s.MountComponent(k, target, anchor, false)
				}
			},
			DestroyFunc: func(detaching bool) {
				for _, k := range kids {
					s.DestroyComponent(k, detaching)
				}
			},
		}
	}
}

func firstElement(n *dom.Node) *dom.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == dom.ElementNode {
			return c
		}
	}
	return nil
}

func TestClientRouting(t *testing.T) {
	src := router.NewMemorySource("/")
	h := router.NewHistory(src)
	env := router.Env{Sys: store.NewSystem(), History: h}
	s := component.NewScheduler()
	body := dom.NewElement("body")

	app := s.New(router.ClientRouter, component.Options{
		Target:  body,
		Context: env.Context(),
		Props: component.Props{
			"children": clientRoutes(
				component.Props{"path": "users/:id", "component": clientPage("user")},
				component.Props{"path": "/", "component": clientPage("home")},
			),
		},
	})
	assert.Equal(t, "<p>home</p>", dom.InnerHTML(body))

	t.Run("navigate swaps the active route", func(t *testing.T) {
		h.Navigate("/users/7", nil, false)
		s.Tick()
		assert.Equal(t, "<p>user 7</p>", dom.InnerHTML(body))

		h.Navigate("/users/8", nil, false)
		s.Tick()
		assert.Equal(t, "<p>user 8</p>", dom.InnerHTML(body))
	})

	t.Run("popping history goes back", func(t *testing.T) {
		src.Go(-2)
		s.Tick()
		assert.Equal(t, "<p>home</p>", dom.InnerHTML(body))
	})

	t.Run("destroy unmounts and stops listening", func(t *testing.T) {
		app.Destroy()
		assert.Equal(t, "", dom.InnerHTML(body))
		h.Navigate("/users/9", nil, false)
		s.Tick()
		assert.Equal(t, "", dom.InnerHTML(body))
	})
}

func TestClientHydratesServerMarkup(t *testing.T) {
	html := serverApp().Render(ssr.Props{"url": "/"}).HTML
	body := dom.NewElement("body")
	require.NoError(t, dom.ParseInto(body, html))
	server := firstElement(body)
	require.NotNil(t, server)

	s := component.NewScheduler()
	s.New(router.ClientRouter, component.Options{
		Target:  body,
		Hydrate: true,
		Props: component.Props{
			"url": "/",
			"children": clientRoutes(
				component.Props{"path": "users/:id", "component": clientPage("user")},
				component.Props{"path": "/", "component": clientPage("home")},
			),
		},
	})

	assert.Equal(t, "<p>home</p>", dom.InnerHTML(body))
	assert.Same(t, server, firstElement(body))
}

func TestClientRouteOutsideRouterPanics(t *testing.T) {
	s := component.NewScheduler()
	assert.PanicsWithValue(t, router.ErrNoRouterContext, func() {
		s.New(router.ClientRoute, component.Options{})
	})
}
