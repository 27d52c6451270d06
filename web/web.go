// Package web holds the layout, views, stylesheet and client router shared by
// the front-end modules. Each module owns its route table.
package web

import (
	"embed"
	"net/http"

	"github.com/JaimeStill/job-broker/pkg/routes"
	pkgweb "github.com/JaimeStill/job-broker/pkg/web"
)

// Layout is the template every view renders inside.
const Layout = "app.html"

// LayoutGlob matches the shared layouts within LayoutFS.
const LayoutGlob = "server/layouts/*.html"

// ViewSubdir is the directory of view templates within ViewFS.
const ViewSubdir = "server/views"

//go:embed server/layouts/*
var LayoutFS embed.FS

//go:embed server/views/*
var ViewFS embed.FS

//go:embed dist/*
var distFS embed.FS

//go:embed public/*
var publicFS embed.FS

var publicFiles = []string{
	"favicon.svg",
}

// Dist serves the shared assets at <module>/dist/.
func Dist() http.HandlerFunc {
	return pkgweb.DistServer(distFS, "dist", "/dist/")
}

// PublicRoutes serves favicon and other root-level files.
func PublicRoutes() []routes.Route {
	return pkgweb.PublicFileRoutes(publicFS, "public", publicFiles...)
}

// Mount registers the shared asset routes and the route table endpoint on r.
func Mount(r *pkgweb.Router, table *pkgweb.RouteTable) error {
	data, err := table.MarshalJSON()
	if err != nil {
		return err
	}

	r.HandleFunc("GET /routes.json", pkgweb.ServeEmbeddedFile(data, "application/json"))
	r.HandleFunc("GET /dist/", Dist())
	for _, route := range PublicRoutes() {
		r.HandleFunc(route.Method+" "+route.Pattern, route.Handler)
	}
	return nil
}
