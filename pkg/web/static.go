package web

import (
	"embed"
	"io/fs"
	"mime"
	"net/http"
	"path"

	"github.com/JaimeStill/job-broker/pkg/routes"
)

// DistServer serves files under subdir of fsys at urlPrefix.
func DistServer(fsys embed.FS, subdir, urlPrefix string) http.HandlerFunc {
	sub, err := fs.Sub(fsys, subdir)
	if err != nil {
		return http.NotFound
	}
	return http.StripPrefix(urlPrefix, http.FileServer(http.FS(sub))).ServeHTTP
}

// PublicFile serves a single file read from fsys at startup.
func PublicFile(fsys embed.FS, subdir, name string) http.HandlerFunc {
	data, err := fsys.ReadFile(path.Join(subdir, name))
	if err != nil {
		return http.NotFound
	}

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return ServeEmbeddedFile(data, contentType)
}

// PublicFileRoutes returns one GET route per file, served at the module root.
func PublicFileRoutes(fsys embed.FS, subdir string, files ...string) []routes.Route {
	out := make([]routes.Route, len(files))
	for i, name := range files {
		out[i] = routes.Route{
			Method:  http.MethodGet,
			Pattern: "/" + name,
			Handler: PublicFile(fsys, subdir, name),
		}
	}
	return out
}

// ServeEmbeddedFile writes data with contentType.
func ServeEmbeddedFile(data []byte, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}
