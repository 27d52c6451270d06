// Package console is the hash-mode front end. The server answers only the
// shell, which embeds every view and shows the one named by location.hash.
package console

import (
	"html/template"
	"net/http"

	"github.com/JaimeStill/job-broker/pkg/module"
	pkgweb "github.com/JaimeStill/job-broker/pkg/web"
	"github.com/JaimeStill/job-broker/web"
)

// Table maps the console's fragments to views.
var Table = pkgweb.MustRouteTable(pkgweb.ModeHash,
	pkgweb.Route{Path: "/", Name: "dashboard", Component: "dashboard.html", Title: "Dashboard"},
	pkgweb.Route{Path: "/jobs", Name: "jobs", Component: "jobs.html", Title: "Jobs"},
	pkgweb.Route{Path: "/users", Name: "users", Component: "users.html", Title: "Users"},
	pkgweb.Route{Path: "/runners", Name: "runners", Component: "runners.html", Title: "Runners"},
)

var (
	shell    = pkgweb.ViewDef{Route: "/{$}", Template: "shell.html", Title: "Console", Bundle: "console"}
	notFound = pkgweb.ViewDef{Template: "404.html", Title: "Not Found", Bundle: "console"}
)

type section struct {
	Route   pkgweb.Route
	Content template.HTML
}

// NewModule creates the console module mounted at basePath.
func NewModule(basePath string) (*module.Module, error) {
	views := []pkgweb.ViewDef{shell, notFound}
	for _, r := range Table.Routes() {
		views = append(views, pkgweb.ViewDef{Route: r.Path, Template: r.Component, Title: r.Title})
	}

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

	sections, err := renderSections(ts)
	if err != nil {
		return nil, err
	}

	router, err := buildRouter(ts, sections)
	if err != nil {
		return nil, err
	}
	return module.New(basePath, router), nil
}

// renderSections renders each view once at startup. Views are static.
func renderSections(ts *pkgweb.TemplateSet) ([]section, error) {
	routes := Table.Routes()
	sections := make([]section, len(routes))
	for i, r := range routes {
		html, err := ts.Fragment(r.Component, "content", pkgweb.ViewData{BasePath: ts.BasePath()})
		if err != nil {
			return nil, err
		}
		sections[i] = section{Route: r, Content: html}
	}
	return sections, nil
}

func buildRouter(ts *pkgweb.TemplateSet, sections []section) (http.Handler, error) {
	r := pkgweb.NewRouter()
	r.SetFallback(ts.ErrorHandler(web.Layout, notFound, http.StatusNotFound))

	home, _ := Table.Lookup("/")
	r.HandleFunc("GET "+shell.Route, ts.ViewHandler(web.Layout, shell, func(*http.Request) pkgweb.ViewData {
		return pkgweb.ViewData{
			Nav:         Table.Nav(ts.BasePath(), home),
			ActiveClass: Table.LinkActiveClass(),
			Data:        sections,
		}
	}))

	if err := web.Mount(r, Table); err != nil {
		return nil, err
	}
	return r, nil
}
