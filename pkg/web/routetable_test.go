package web_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/JaimeStill/job-broker/pkg/web"
)

func TestNewRouteTable(t *testing.T) {
	dashboard := web.Route{Path: "/", Name: "dashboard", Component: "dashboard.html"}
	jobs := web.Route{Path: "/jobs", Name: "jobs", Component: "jobs.html"}

	tests := []struct {
		name    string
		mode    web.Mode
		routes  []web.Route
		wantErr error
	}{
		{"valid history", web.ModeHistory, []web.Route{dashboard, jobs}, nil},
		{"valid hash", web.ModeHash, []web.Route{dashboard, jobs}, nil},
		{"empty table", web.ModeHash, nil, nil},
		{"duplicate path", web.ModeHistory, []web.Route{dashboard, {Path: "/", Name: "home", Component: "home.html"}}, web.ErrDuplicatePath},
		{"duplicate path after trim", web.ModeHistory, []web.Route{jobs, {Path: "/jobs/", Name: "queue", Component: "jobs.html"}}, web.ErrDuplicatePath},
		{"duplicate name", web.ModeHistory, []web.Route{jobs, {Path: "/queue", Name: "jobs", Component: "jobs.html"}}, web.ErrDuplicateName},
		{"unknown mode", web.Mode("abstract"), []web.Route{dashboard}, web.ErrInvalidMode},
		{"relative path", web.ModeHistory, []web.Route{{Path: "jobs", Name: "jobs", Component: "jobs.html"}}, web.ErrInvalidRoute},
		{"missing component", web.ModeHistory, []web.Route{{Path: "/jobs", Name: "jobs"}}, web.ErrInvalidRoute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := web.NewRouteTable(tt.mode, tt.routes...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewRouteTable() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRouteTable() error = %v", err)
			}
			if table.Len() != len(tt.routes) {
				t.Errorf("Len() = %d, want %d", table.Len(), len(tt.routes))
			}
			if table.Mode() != tt.mode {
				t.Errorf("Mode() = %q, want %q", table.Mode(), tt.mode)
			}
		})
	}
}

func TestMustRouteTable_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustRouteTable() should panic on a duplicate name")
		}
	}()
	web.MustRouteTable(web.ModeHash,
		web.Route{Path: "/", Name: "dashboard", Component: "a.html"},
		web.Route{Path: "/b", Name: "dashboard", Component: "b.html"},
	)
}

func TestRouteTable_Resolve(t *testing.T) {
	routes := []web.Route{
		{Path: "/", Name: "dashboard", Component: "dashboard.html"},
		{Path: "/jobs", Name: "jobs", Component: "jobs.html"},
	}
	history := web.MustRouteTable(web.ModeHistory, routes...)
	hash := web.MustRouteTable(web.ModeHash, routes...)

	tests := []struct {
		name     string
		table    *web.RouteTable
		location string
		want     string
		found    bool
	}{
		{"history root", history, "/", "dashboard", true},
		{"history empty", history, "", "dashboard", true},
		{"history path", history, "/jobs", "jobs", true},
		{"history trailing slash", history, "/jobs/", "jobs", true},
		{"history ignores query", history, "/jobs?page=2", "jobs", true},
		{"history ignores fragment", history, "/#/jobs", "dashboard", true},
		{"history unknown", history, "/runners", "", false},
		{"history double slash", history, "//jobs", "", false},
		{"history escaped path", history, "/%6Aobs", "jobs", true},
		{"history bad escape", history, "/jobs%zz", "", false},
		{"hash no fragment", hash, "/", "dashboard", true},
		{"hash root fragment", hash, "/#/", "dashboard", true},
		{"hash fragment", hash, "/#/jobs", "jobs", true},
		{"hash fragment with query", hash, "/#/jobs?user=alice", "jobs", true},
		{"hash ignores path", hash, "/jobs", "dashboard", true},
		{"hash unknown", hash, "/#/runners", "", false},
		{"hash double slash path", hash, "//jobs#/jobs", "jobs", true},
		{"hash fragment without slash", hash, "/#jobs", "jobs", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.table.Resolve(tt.location)
			if ok != tt.found {
				t.Fatalf("Resolve(%q) found = %v, want %v", tt.location, ok, tt.found)
			}
			if got.Name != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.location, got.Name, tt.want)
			}
		})
	}
}

func TestRouteTable_RoutesIsCopy(t *testing.T) {
	table := web.MustRouteTable(web.ModeHistory, web.Route{Path: "/", Name: "dashboard", Component: "dashboard.html"})

	routes := table.Routes()
	routes[0].Name = "changed"

	if got := table.Routes()[0].Name; got != "dashboard" {
		t.Errorf("table mutated through Routes(): name = %q", got)
	}
}

func TestRouteTable_Nav(t *testing.T) {
	routes := []web.Route{
		{Path: "/", Name: "dashboard", Component: "dashboard.html", Title: "Dashboard"},
		{Path: "/jobs", Name: "jobs", Component: "jobs.html", Title: "Jobs"},
	}

	tests := []struct {
		mode  web.Mode
		hrefs []string
	}{
		{web.ModeHistory, []string{"/app/", "/app/jobs"}},
		{web.ModeHash, []string{"/app/#/", "/app/#/jobs"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			table := web.MustRouteTable(tt.mode, routes...)
			nav := table.Nav("/app", routes[1])

			for i, link := range nav {
				if link.Href != tt.hrefs[i] {
					t.Errorf("nav[%d].Href = %q, want %q", i, link.Href, tt.hrefs[i])
				}
			}
			if nav[0].Class != "" || nav[1].Class != web.LinkActiveClass {
				t.Errorf("active class on wrong link: %+v", nav)
			}
		})
	}
}

func TestRouteTable_MarshalJSON(t *testing.T) {
	table := web.MustRouteTable(web.ModeHash, web.Route{Path: "/", Name: "dashboard", Component: "dashboard.html"})

	data, err := json.Marshal(table)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got struct {
		Mode            string      `json:"mode"`
		LinkActiveClass string      `json:"link_active_class"`
		Routes          []web.Route `json:"routes"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got.Mode != "hash" || got.LinkActiveClass != "active" || len(got.Routes) != 1 {
		t.Errorf("decoded = %+v", got)
	}
}
