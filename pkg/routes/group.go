// Package routes describes HTTP route groups and registers them on a mux
// together with their OpenAPI operations.
package routes

import (
	"net/http"

	"github.com/JaimeStill/job-broker/pkg/openapi"
)

// Group represents a collection of routes under a common URL prefix.
// Groups can contain child groups for hierarchical route organization.
type Group struct {
	Prefix      string
	Tags        []string
	Description string
	Routes      []Route
	Children    []Group
	Schemas     map[string]*openapi.Schema
}

// Route is one method and pattern relative to its group prefix.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// AddToSpec adds the group's operations and schemas to spec under basePath.
// Operations without tags inherit the group's tags.
func (g *Group) AddToSpec(basePath string, spec *openapi.Spec) {
	g.addToSpec(basePath, spec)
}

func (g *Group) addToSpec(prefix string, spec *openapi.Spec) {
	full := prefix + g.Prefix

	for _, route := range g.Routes {
		if route.OpenAPI == nil {
			continue
		}

		op := *route.OpenAPI
		if len(op.Tags) == 0 {
			op.Tags = g.Tags
		}
		spec.AddOperation(full+route.Pattern, route.Method, &op)
	}

	if len(g.Schemas) > 0 {
		spec.Components.AddSchemas(g.Schemas)
	}

	for i := range g.Children {
		g.Children[i].addToSpec(full, spec)
	}
}

// Register mounts every group route on mux and records its operations in
// spec. Mux patterns are relative to the module, spec paths include basePath.
// A nil spec skips documentation.
func Register(mux *http.ServeMux, basePath string, spec *openapi.Spec, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", group)
		if spec != nil {
			group.AddToSpec(basePath, spec)
		}
	}
}

func registerGroup(mux *http.ServeMux, prefix string, group Group) {
	full := prefix + group.Prefix
	for _, route := range group.Routes {
		mux.HandleFunc(route.Method+" "+full+route.Pattern, route.Handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, full, child)
	}
}
