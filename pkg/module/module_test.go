package module_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/job-broker/pkg/module"
)

func echoPath() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.URL.Path))
	})
}

func body(t *testing.T, h http.Handler, method, target string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestNew_InvalidPrefix(t *testing.T) {
	prefixes := []string{"", "/", "api", "/api/v1"}

	for _, prefix := range prefixes {
		t.Run(prefix, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("New(%q) did not panic", prefix)
				}
			}()
			module.New(prefix, echoPath())
		})
	}
}

func TestModule_Prefix(t *testing.T) {
	m := module.New("/console", echoPath())
	if m.Prefix() != "/console" {
		t.Errorf("Prefix() = %q, want %q", m.Prefix(), "/console")
	}
}

func TestModule_Serve(t *testing.T) {
	m := module.New("/api", echoPath())

	tests := []struct {
		path string
		want string
	}{
		{"/api", "/"},
		{"/api/jobs", "/jobs"},
		{"/api/jobs/12/log", "/jobs/12/log"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, got := body(t, http.HandlerFunc(m.Serve), http.MethodGet, tt.path)
			if got != tt.want {
				t.Errorf("path = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModule_MiddlewareOrder(t *testing.T) {
	var order []string

	m := module.New("/api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))

	for _, name := range []string{"first", "second"} {
		m.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	body(t, m.Handler(), http.MethodGet, "/anything")

	want := []string{"first", "second", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}
