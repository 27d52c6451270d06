// Package web serves server-rendered front ends: route tables, pre-parsed
// templates, a fallback-aware router and embedded static assets.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// ViewDef defines a view with its route, template file, title, and bundle name.
type ViewDef struct {
	Route    string
	Template string
	Title    string
	Bundle   string
}

// ViewData is passed to layouts and views during rendering.
// BasePath enables portable URL generation in templates via {{ .BasePath }}.
type ViewData struct {
	Title       string
	Bundle      string
	BasePath    string
	Nav         []NavLink
	ActiveClass string
	Data        any
}

// TemplateSet holds one pre-parsed template per view, each a clone of the
// shared layouts with the view parsed on top.
type TemplateSet struct {
	views    map[string]*template.Template
	basePath string
}

// NewTemplateSet parses layouts once and clones them for each view.
// A missing layout or view fails here rather than on first request.
func NewTemplateSet(layoutFS, viewFS embed.FS, layoutGlob, viewSubdir, basePath string, views []ViewDef) (*TemplateSet, error) {
	layouts, err := template.ParseFS(layoutFS, layoutGlob)
	if err != nil {
		return nil, err
	}

	viewSub, err := fs.Sub(viewFS, viewSubdir)
	if err != nil {
		return nil, err
	}

	parsed := make(map[string]*template.Template, len(views))
	for _, v := range views {
		if _, ok := parsed[v.Template]; ok {
			continue
		}
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(viewSub, v.Template); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", v.Template, err)
		}
		parsed[v.Template] = t
	}

	return &TemplateSet{
		views:    parsed,
		basePath: basePath,
	}, nil
}

// BasePath returns the mount path used for URL generation.
func (ts *TemplateSet) BasePath() string {
	return ts.basePath
}

// Render executes the named layout for view and sets an HTML content type.
func (ts *TemplateSet) Render(w http.ResponseWriter, layout, view string, data ViewData) error {
	t, ok := ts.views[view]
	if !ok {
		return fmt.Errorf("template not found: %s", view)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layout, data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// Fragment renders only the named block of view, for embedding views in a shell.
func (ts *TemplateSet) Fragment(view, block string, data ViewData) (template.HTML, error) {
	t, ok := ts.views[view]
	if !ok {
		return "", fmt.Errorf("template not found: %s", view)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, block, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// ViewHandler renders view inside layout with the given data.
func (ts *TemplateSet) ViewHandler(layout string, view ViewDef, data func(*http.Request) ViewData) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vd := ViewData{}
		if data != nil {
			vd = data(r)
		}
		vd.Title = view.Title
		vd.Bundle = view.Bundle
		vd.BasePath = ts.basePath

		if err := ts.Render(w, layout, view.Template, vd); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// ErrorHandler renders view with the given status code.
func (ts *TemplateSet) ErrorHandler(layout string, view ViewDef, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, ok := ts.views[view.Template]
		if !ok {
			http.Error(w, http.StatusText(status), status)
			return
		}

		var buf bytes.Buffer
		data := ViewData{Title: view.Title, Bundle: view.Bundle, BasePath: ts.basePath}
		if err := t.ExecuteTemplate(&buf, layout, data); err != nil {
			http.Error(w, http.StatusText(status), status)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		buf.WriteTo(w)
	}
}
