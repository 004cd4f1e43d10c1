package embedfs

import (
	"embed"
	"net/http"

	"r3d.dev/frontend/core"
)

//go:embed static
var staticFiles embed.FS

// ServeStaticFS serves the stylesheet and icons used by the download page.
func ServeStaticFS(mux *http.ServeMux) {
	mux.Handle("GET /static/", core.MaxAgeHandler(http.FileServer(http.FS(staticFiles))))
	mux.Handle("GET /favicon.ico", core.MaxAgeHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		http.ServeFileFS(w, req, staticFiles, "static/favicon.svg")
	})))
}
