package app_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/job-broker/pkg/web"
	"github.com/JaimeStill/job-broker/web/app"
)

func TestTable(t *testing.T) {
	if app.Table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", app.Table.Len())
	}
	if app.Table.Mode() != web.ModeHistory {
		t.Errorf("Mode() = %q, want %q", app.Table.Mode(), web.ModeHistory)
	}
	if app.Table.LinkActiveClass() != "active" {
		t.Errorf("LinkActiveClass() = %q, want active", app.Table.LinkActiveClass())
	}

	want := []web.Route{
		{Path: "/", Name: "dashboard", Component: "dashboard.html", Title: "Dashboard"},
		{Path: "/jobs", Name: "jobs", Component: "jobs.html", Title: "Jobs"},
	}
	for i, r := range app.Table.Routes() {
		if r != want[i] {
			t.Errorf("route %d = %+v, want %+v", i, r, want[i])
		}
	}

	for path, name := range map[string]string{"/": "dashboard", "/jobs": "jobs"} {
		r, ok := app.Table.Resolve(path)
		if !ok || r.Name != name {
			t.Errorf("Resolve(%q) = %q, %v; want %q", path, r.Name, ok, name)
		}
	}
}

func TestModule(t *testing.T) {
	m, err := app.NewModule("/app")
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}
	handler := m.Handler()

	tests := []struct {
		name     string
		path     string
		status   int
		contains []string
	}{
		{"dashboard", "/", http.StatusOK, []string{"<h1>Dashboard</h1>", `href="/app/" data-name="dashboard" class="active"`}},
		{"jobs", "/jobs", http.StatusOK, []string{"<h1>Jobs</h1>", `href="/app/jobs" data-name="jobs" class="active"`}},
		{"unknown route", "/users", http.StatusNotFound, []string{"<h1>Not Found</h1>"}},
		{"stylesheet", "/dist/app.css", http.StatusOK, []string{".navbar"}},
		{"favicon", "/favicon.svg", http.StatusOK, []string{"<svg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			body := w.Body.String()
			for _, s := range tt.contains {
				if !strings.Contains(body, s) {
					t.Errorf("body missing %q", s)
				}
			}
		})
	}
}

func TestModule_RoutesJSON(t *testing.T) {
	m, err := app.NewModule("/app")
	if err != nil {
		t.Fatalf("NewModule() error = %v", err)
	}

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/routes.json", nil))

	var got struct {
		Mode   string      `json:"mode"`
		Routes []web.Route `json:"routes"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("routes.json is not JSON: %v", err)
	}
	if got.Mode != "history" || len(got.Routes) != 2 {
		t.Errorf("routes.json = %+v", got)
	}
}
