// Package config reads the site description: where to listen, the base path
// and which page each route renders.
package config

import (
	"errors"
	"fmt"
	"os"

	mapset "github.com/deckarep/golang-set/v2"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoRoutes       = errors.New("no routes configured")
	ErrUnknownPage    = errors.New("unknown page")
	ErrDefaultRoutes  = errors.New("more than one default route")
	ErrDuplicatePaths = errors.New("duplicate route path")
)

const (
	DefaultAddr     = ":3000"
	DefaultBasePath = "/"
)

// RouteConfig binds a path pattern to a page. An empty path is the default
// route, rendered when nothing else matches.
type RouteConfig struct {
	Path  string         `yaml:"path"`
	Page  string         `yaml:"page"`
	Props map[string]any `yaml:"props,omitempty"`
}

type Site struct {
	Addr     string        `yaml:"addr"`
	BasePath string        `yaml:"basePath"`
	Title    string        `yaml:"title"`
	Routes   []RouteConfig `yaml:"routes"`
}

// Default is the built-in site: the RPG under "rpg" and the home page at the
// root.
func Default() *Site {
	return &Site{
		Addr:     DefaultAddr,
		BasePath: DefaultBasePath,
		Title:    "知鱼哦",
		Routes: []RouteConfig{
			{Path: "rpg", Page: "RPGHome"},
			{Path: "/", Page: "Home"},
		},
	}
}

// Load reads a YAML site file. When pages are given every route must name
// one of them.
func Load(path string, pages ...string) (*Site, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site config: %w", err)
	}
	return Parse(b, pages...)
}

// Parse is Load for YAML already in memory.
func Parse(b []byte, pages ...string) (*Site, error) {
	s := &Site{}
	if err := yaml.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("parsing site config: %w", err)
	}
	s.applyDefaults()
	if err := s.Validate(pages...); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Site) applyDefaults() {
	if s.Addr == "" {
		s.Addr = DefaultAddr
	}
	if s.BasePath == "" {
		s.BasePath = DefaultBasePath
	}
}

// Validate checks the routes. Page names are only checked against pages
// when some are given.
func (s *Site) Validate(pages ...string) error {
	if len(s.Routes) == 0 {
		return ErrNoRoutes
	}

	known := mapset.NewThreadUnsafeSet(pages...)
	seen := mapset.NewThreadUnsafeSet[string]()
	defaults := 0
	for i, rc := range s.Routes {
		if rc.Path == "" {
			defaults++
			if defaults > 1 {
				return fmt.Errorf("route %d: %w", i, ErrDefaultRoutes)
			}
		} else if !seen.Add(rc.Path) {
			return fmt.Errorf("route %d %q: %w", i, rc.Path, ErrDuplicatePaths)
		}
		if len(pages) > 0 && !known.Contains(rc.Page) {
			return fmt.Errorf("route %d %q: %w %q", i, rc.Path, ErrUnknownPage, rc.Page)
		}
	}
	return nil
}
