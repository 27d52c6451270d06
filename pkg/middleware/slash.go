package middleware

import (
	"net/http"
	"strings"
)

// TrimSlash redirects slash-terminated GET and HEAD paths to their canonical
// form. "/" is kept. Other methods pass through unchanged.
func TrimSlash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := r.URL.Path
			if len(p) < 2 || !strings.HasSuffix(p, "/") {
				next.ServeHTTP(w, r)
				return
			}
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			target := strings.TrimSuffix(p, "/")
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
		})
	}
}
