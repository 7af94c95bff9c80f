// Package router maps route paths to views.
package router

import (
	"errors"
	"fmt"
	"strings"
)

// View identifies a screen rendered inside the layout shell.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewProjects  View = "ProjectManagement"
	ViewGallery   View = "ImageGallery"
	ViewTree      View = "TreeView"
	ViewTags      View = "TagManagement"
)

type Route struct {
	Path     string
	Name     View
	Title    string
	Redirect string
	Children []Route
}

var ErrNoRoute = errors.New("no route")

// Routes returns the static route table. The layout shell owns every child route.
func Routes() []Route {
	return []Route{
		{Path: "/", Redirect: "/dashboard"},
		{
			Path: "/",
			Children: []Route{
				{Path: "/dashboard", Name: ViewDashboard, Title: "Dashboard"},
				{Path: "/projects", Name: ViewProjects, Title: "Projects"},
				{Path: "/gallery", Name: ViewGallery, Title: "Gallery"},
				{Path: "/tree", Name: ViewTree, Title: "Tree"},
				{Path: "/tags", Name: ViewTags, Title: "Tags"},
			},
		},
	}
}

// Router tracks the current route and notifies listeners on navigation.
type Router struct {
	routes    []Route
	current   Route
	listeners []func(Route)
}

func New(routes []Route) *Router {
	return &Router{routes: routes}
}

func (r *Router) Current() Route { return r.current }

// OnNavigate registers fn to run after every successful navigation.
func (r *Router) OnNavigate(fn func(Route)) {
	if fn != nil {
		r.listeners = append(r.listeners, fn)
	}
}

// Resolve follows redirects and returns the view route for path.
func (r *Router) Resolve(path string) (Route, error) {
	path = normalize(path)
	for hops := 0; hops < 8; hops++ {
		rt, ok := find(r.routes, path)
		if !ok {
			return Route{}, fmt.Errorf("%w: %s", ErrNoRoute, path)
		}
		if rt.Redirect == "" {
			return rt, nil
		}
		path = normalize(rt.Redirect)
	}
	return Route{}, fmt.Errorf("%w: redirect loop at %s", ErrNoRoute, path)
}

// Push navigates to path. Unknown paths leave the current route unchanged.
func (r *Router) Push(path string) error {
	rt, err := r.Resolve(path)
	if err != nil {
		return err
	}
	r.current = rt
	for _, fn := range r.listeners {
		fn(rt)
	}
	return nil
}

// PathFor returns the path routed to view.
func (r *Router) PathFor(v View) (string, bool) {
	var walk func([]Route) (string, bool)
	walk = func(rs []Route) (string, bool) {
		for _, rt := range rs {
			if rt.Name == v && rt.Redirect == "" && rt.Name != "" {
				return rt.Path, true
			}
			if p, ok := walk(rt.Children); ok {
				return p, true
			}
		}
		return "", false
	}
	return walk(r.routes)
}

// find prefers routes that render a view (or redirect) over bare layout parents.
func find(routes []Route, path string) (Route, bool) {
	for _, rt := range routes {
		if rt.Path == path && (rt.Name != "" || rt.Redirect != "") {
			return rt, true
		}
		if found, ok := find(rt.Children, path); ok {
			return found, true
		}
	}
	return Route{}, false
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
