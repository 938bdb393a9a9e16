package site

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/delaneyj/knowweb/component"
	"github.com/delaneyj/knowweb/config"
	"github.com/delaneyj/knowweb/router"
	"github.com/delaneyj/knowweb/site/templates"
	"github.com/delaneyj/knowweb/ssr"
)

type route struct {
	config.RouteConfig
	page *ssr.Component
}

// App renders the configured routes behind a router.
type App struct {
	title    string
	basepath string
	routes   []route
	root     *ssr.Component
}

// New builds an App from cfg. Every route must name one of Pages.
func New(cfg *config.Site) (*App, error) {
	if err := cfg.Validate(PageNames()...); err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}

	a := &App{title: cfg.Title, basepath: cfg.BasePath}
	for _, rc := range cfg.Routes {
		page, ok := Pages[rc.Page]
		if !ok {
			return nil, fmt.Errorf("site: %w %q", config.ErrUnknownPage, rc.Page)
		}
		a.routes = append(a.routes, route{RouteConfig: rc, page: page})
	}
	a.root = ssr.Define("App", `body.$scope{padding:0}`, a.render)
	return a, nil
}

type matchedKey struct{}

func (a *App) render(r *ssr.Renderer, props ssr.Props, slots ssr.Slots) string {
	routes := ssr.Slots{
		"default": func(r *ssr.Renderer, _ ssr.Props) string {
			return ssr.Each(a.routes, func(rt route, i int) string {
				sep := ""
				if i > 0 {
					sep = "\n    "
				}
				return sep + router.ServerRoute.RenderIn(r, ssr.Props{"path": rt.Path}, ssr.Slots{
					"default": func(r *ssr.Renderer, scope ssr.Props) string {
						if matched, ok := r.GetContext(matchedKey{}).(*string); ok {
							*matched = rt.Path
						}
						return rt.page.RenderIn(r, pageProps(rt, scope), nil)
					},
				})
			})
		},
	}
	return `<body class="` + r.Class() + `">` +
		router.ServerRouter.RenderIn(r, ssr.Props{"url": props["url"], "basepath": a.basepath}, routes) +
		"\n</body>"
}

// pageProps merges a route's configured props with the params it matched.
func pageProps(rt route, scope ssr.Props) ssr.Props {
	props := ssr.Props{"location": scope["location"]}
	for k, v := range rt.Props {
		props[k] = v
	}
	if params, ok := scope["params"].(map[string]string); ok {
		for k, v := range params {
			props[k] = v
		}
	}
	return props
}

// Response is one rendered location.
type Response struct {
	Status int
	// Route is the path of the route that rendered, empty when none did.
	Route  string
	Result ssr.Result
}

// Render renders url. Locations no route matches render with an empty
// router and a 404 status.
func (a *App) Render(url string) Response {
	matched, path := "", url
	if path == "" {
		path = "/"
	}
	res := a.root.Render(ssr.Props{"url": path}, ssr.WithContext(component.Context{matchedKey{}: &matched}))

	status := http.StatusOK
	if !a.matches(path) {
		status = http.StatusNotFound
	}
	return Response{Status: status, Route: matched, Result: res}
}

func (a *App) matches(url string) bool {
	for _, rt := range a.Routes() {
		if router.MatchRoute(rt, url) != nil {
			return true
		}
	}
	return false
}

// Routes are the configured routes joined to the base path, in declaration
// order.
func (a *App) Routes() []*router.Route {
	out := make([]*router.Route, len(a.routes))
	for i, rt := range a.routes {
		r := router.NewRoute(rt.Path, rt.Props)
		r.Path = router.CombinePaths(a.basepath, rt.Path)
		out[i] = r
	}
	return out
}

// PageOf names the page a configured route path renders.
func (a *App) PageOf(path string) string {
	for _, rt := range a.routes {
		if rt.Path == path {
			return rt.Page
		}
	}
	return ""
}

// WritePage writes res wrapped in the document shell.
func (a *App) WritePage(w io.Writer, res Response) {
	templates.WritePage(w, a.title, res.Result)
}

// Page renders url as a whole document.
func (a *App) Page(url string) (string, Response) {
	res := a.Render(url)
	var sb strings.Builder
	a.WritePage(&sb, res)
	return sb.String(), res
}
