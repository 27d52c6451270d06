// Package app is the history-mode front end: every route path is a server route.
package app

import (
	"net/http"

	"github.com/JaimeStill/job-broker/pkg/module"
	pkgweb "github.com/JaimeStill/job-broker/pkg/web"
	"github.com/JaimeStill/job-broker/web"
)

// Table maps the front end's paths to views.
var Table = pkgweb.MustRouteTable(pkgweb.ModeHistory,
	pkgweb.Route{Path: "/", Name: "dashboard", Component: "dashboard.html", Title: "Dashboard"},
	pkgweb.Route{Path: "/jobs", Name: "jobs", Component: "jobs.html", Title: "Jobs"},
)

var notFound = pkgweb.ViewDef{Template: "404.html", Title: "Not Found", Bundle: "app"}

// NewModule creates the app module mounted at basePath.
func NewModule(basePath string) (*module.Module, error) {
	routes := Table.Routes()
	views := make([]pkgweb.ViewDef, 0, len(routes)+1)
	for _, r := range routes {
		views = append(views, viewDef(r))
	}
	views = append(views, notFound)

	ts, err := pkgweb.NewTemplateSet(
		web.LayoutFS,
		web.ViewFS,
		web.LayoutGlob,
		web.ViewSubdir,
		basePath,
		views,
	)
	if err != nil {
		return nil, err
	}

	router, err := buildRouter(ts)
	if err != nil {
		return nil, err
	}
	return module.New(basePath, router), nil
}

func buildRouter(ts *pkgweb.TemplateSet) (http.Handler, error) {
	r := pkgweb.NewRouter()
	r.SetFallback(ts.ErrorHandler(web.Layout, notFound, http.StatusNotFound))

	for _, route := range Table.Routes() {
		pattern := route.Path
		if pattern == "/" {
			pattern = "/{$}"
		}
		r.HandleFunc("GET "+pattern, ts.ViewHandler(web.Layout, viewDef(route), func(*http.Request) pkgweb.ViewData {
			return pkgweb.ViewData{
				Nav:         Table.Nav(ts.BasePath(), route),
				ActiveClass: Table.LinkActiveClass(),
			}
		}))
	}

	if err := web.Mount(r, Table); err != nil {
		return nil, err
	}
	return r, nil
}

func viewDef(r pkgweb.Route) pkgweb.ViewDef {
	return pkgweb.ViewDef{Route: r.Path, Template: r.Component, Title: r.Title, Bundle: "app"}
}
