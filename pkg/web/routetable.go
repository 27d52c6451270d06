package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Mode selects how a front end maps a location to a route.
type Mode string

const (
	// ModeHistory matches the URL path. The server answers every route path.
	ModeHistory Mode = "history"
	// ModeHash matches the URL fragment. The server answers only the shell.
	ModeHash Mode = "hash"
)

// LinkActiveClass is the CSS class applied to the navigation link of the current route.
const LinkActiveClass = "active"

var (
	ErrDuplicatePath = errors.New("duplicate route path")
	ErrDuplicateName = errors.New("duplicate route name")
	ErrInvalidMode   = errors.New("invalid route mode")
	ErrInvalidRoute  = errors.New("invalid route")
)

// Route maps a URL path and a logical name to a view component.
type Route struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Component string `json:"component"`
	Title     string `json:"title"`
}

// RouteTable is an ordered, immutable set of routes. Paths and names are
// unique within a table.
type RouteTable struct {
	mode   Mode
	routes []Route
	paths  map[string]int
}

// NewRouteTable validates routes and returns the table.
func NewRouteTable(mode Mode, routes ...Route) (*RouteTable, error) {
	if mode != ModeHistory && mode != ModeHash {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	t := &RouteTable{
		mode:   mode,
		routes: make([]Route, 0, len(routes)),
		paths:  make(map[string]int, len(routes)),
	}
	names := make(map[string]struct{}, len(routes))

	for _, r := range routes {
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("%w: path %q must start with /", ErrInvalidRoute, r.Path)
		}
		if r.Name == "" || r.Component == "" {
			return nil, fmt.Errorf("%w: %q requires a name and component", ErrInvalidRoute, r.Path)
		}

		path := cleanPath(r.Path)
		if _, ok := t.paths[path]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, path)
		}
		if _, ok := names[r.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, r.Name)
		}

		r.Path = path
		t.paths[path] = len(t.routes)
		names[r.Name] = struct{}{}
		t.routes = append(t.routes, r)
	}

	return t, nil
}

// MustRouteTable is NewRouteTable for package-level tables. It panics on error.
func MustRouteTable(mode Mode, routes ...Route) *RouteTable {
	t, err := NewRouteTable(mode, routes...)
	if err != nil {
		panic(err)
	}
	return t
}

// Mode returns the table's URL mode.
func (t *RouteTable) Mode() Mode { return t.mode }

// Len returns the number of routes.
func (t *RouteTable) Len() int { return len(t.routes) }

// LinkActiveClass returns the class applied to the active navigation link.
func (t *RouteTable) LinkActiveClass() string { return LinkActiveClass }

// Routes returns a copy of the routes in registration order.
func (t *RouteTable) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Lookup returns the route registered at path.
func (t *RouteTable) Lookup(path string) (Route, bool) {
	i, ok := t.paths[cleanPath(path)]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

// Resolve returns the route for a location relative to the front end root.
// History tables match the path, ignoring query and fragment. Hash tables
// match the fragment, and a location without one resolves to "/".
func (t *RouteTable) Resolve(location string) (Route, bool) {
	rest, frag, _ := strings.Cut(location, "#")
	p, _, _ := strings.Cut(rest, "?")

	if t.mode == ModeHash {
		p, _, _ = strings.Cut(frag, "?")
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
	}

	p, err := url.PathUnescape(p)
	if err != nil {
		return Route{}, false
	}
	return t.Lookup(p)
}

// Href returns the link to route under basePath for the table's mode.
func (t *RouteTable) Href(basePath string, r Route) string {
	if t.mode == ModeHash {
		return basePath + "/#" + r.Path
	}
	if r.Path == "/" {
		return basePath + "/"
	}
	return basePath + r.Path
}

// Nav builds navigation links, marking current with the active class.
func (t *RouteTable) Nav(basePath string, current Route) []NavLink {
	links := make([]NavLink, len(t.routes))
	for i, r := range t.routes {
		links[i] = NavLink{
			Href:  t.Href(basePath, r),
			Name:  r.Name,
			Title: r.Title,
		}
		if r.Name == current.Name {
			links[i].Class = LinkActiveClass
		}
	}
	return links
}

// MarshalJSON renders the table for client-side routers.
func (t *RouteTable) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Mode            Mode    `json:"mode"`
		LinkActiveClass string  `json:"link_active_class"`
		Routes          []Route `json:"routes"`
	}{t.mode, LinkActiveClass, t.routes})
}

// NavLink is one rendered navigation entry.
type NavLink struct {
	Href  string
	Name  string
	Title string
	Class string
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			return "/"
		}
	}
	return p
}
