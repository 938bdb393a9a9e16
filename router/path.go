// Package router matches locations against declared path patterns and keeps
// the active route of each router in stores.
//
// Patterns are split on "/". Each segment scores points, static beating
// dynamic (":name") beating splat ("*" or "*name") beating the empty root
// segment, so the most specific route is tried first whatever the
// declaration order.
package router

import (
	"net/url"
	"slices"
	"strings"
)

const (
	segmentPoints = 4
	staticPoints  = 3
	dynamicPoints = 2
	splatPenalty  = 1
	rootPoints    = 1
)

// Route is a declared path pattern. Path is the pattern joined to the
// enclosing router's base; the pattern as declared is kept so Path can be
// recomputed when the base moves.
type Route struct {
	Path    string
	Default bool
	// Props are passed through to whatever the route renders.
	Props map[string]any

	pattern string
}

// NewRoute declares a route. An empty path makes it the default route.
func NewRoute(path string, props map[string]any) *Route {
	return &Route{
		Path:    path,
		Default: path == "",
		Props:   props,
		pattern: path,
	}
}

// Pattern is the path as declared.
func (r *Route) Pattern() string {
	return r.pattern
}

// Match is a route that accepted a location.
type Match struct {
	Route  *Route
	Params map[string]string
	// URI is the part of the location the route consumed.
	URI string
}

func StripSlashes(s string) string {
	return strings.Trim(s, "/")
}

// Segmentize splits uri into its "/" separated segments, ignoring leading
// and trailing slashes. The root path is a single empty segment.
func Segmentize(uri string) []string {
	return strings.Split(StripSlashes(uri), "/")
}

func dynamicName(segment string) (string, bool) {
	if len(segment) > 1 && segment[0] == ':' {
		return segment[1:], true
	}
	return "", false
}

func isSplat(segment string) bool {
	return segment != "" && segment[0] == '*'
}

// decode undoes percent-encoding, keeping the raw segment when it is
// malformed.
func decode(segment string) string {
	v, err := url.PathUnescape(segment)
	if err != nil {
		return segment
	}
	return v
}

// Rank scores a single route. Default routes score zero.
func Rank(r *Route) int {
	if r.Default {
		return 0
	}
	score := 0
	for _, segment := range Segmentize(r.Path) {
		score += segmentPoints
		switch _, dynamic := dynamicName(segment); {
		case segment == "":
			score += rootPoints
		case dynamic:
			score += dynamicPoints
		case isSplat(segment):
			score -= segmentPoints + splatPenalty
		default:
			score += staticPoints
		}
	}
	return score
}

type Ranked struct {
	Route *Route
	Score int
	// Index is the route's declaration position.
	Index int
}

// RankRoutes orders routes by descending score. Equal scores keep their
// declaration order.
func RankRoutes(routes []*Route) []Ranked {
	ranked := make([]Ranked, len(routes))
	for i, r := range routes {
		ranked[i] = Ranked{Route: r, Score: Rank(r), Index: i}
	}
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return b.Score - a.Score
	})
	return ranked
}

// Pick returns the best match for uri among routes, the default route if
// nothing else matches, or nil. Any query string is ignored.
func Pick(routes []*Route, uri string) *Match {
	pathname, _, _ := strings.Cut(uri, "?")
	uriSegments := Segmentize(pathname)
	isRootURI := uriSegments[0] == ""

	var fallback *Match
	for _, ranked := range RankRoutes(routes) {
		route := ranked.Route
		if route.Default {
			fallback = &Match{Route: route, Params: map[string]string{}, URI: uri}
			continue
		}

		routeSegments := Segmentize(route.Path)
		params := map[string]string{}
		missed := false
		index := 0
		for n := max(len(uriSegments), len(routeSegments)); index < n; index++ {
			if index < len(routeSegments) && isSplat(routeSegments[index]) {
				name := "*"
				if seg := routeSegments[index]; seg != "*" {
					name = seg[1:]
				}
				rest := make([]string, 0, len(uriSegments)-min(index, len(uriSegments)))
				for _, seg := range uriSegments[min(index, len(uriSegments)):] {
					rest = append(rest, decode(seg))
				}
				params[name] = strings.Join(rest, "/")
				break
			}

			if index >= len(uriSegments) || index >= len(routeSegments) {
				missed = true
				break
			}

			routeSegment, uriSegment := routeSegments[index], uriSegments[index]
			if name, ok := dynamicName(routeSegment); ok && !isRootURI {
				params[name] = decode(uriSegment)
			} else if routeSegment != uriSegment {
				missed = true
				break
			}
		}

		if !missed {
			consumed := uriSegments[:min(index, len(uriSegments))]
			return &Match{
				Route:  route,
				Params: params,
				URI:    "/" + strings.Join(consumed, "/"),
			}
		}
	}
	return fallback
}

// MatchRoute matches a single route against uri.
func MatchRoute(r *Route, uri string) *Match {
	return Pick([]*Route{r}, uri)
}

// CombinePaths joins a base path and a route pattern. The result never
// starts with a slash and always ends with one.
func CombinePaths(base, path string) string {
	joined := StripSlashes(base) + "/" + StripSlashes(path)
	if path == "/" {
		joined = base
	}
	return StripSlashes(joined) + "/"
}
