package core

import (
	"encoding/json"
	"net/http"
)

type webManifestIcon struct {
	Src   string `json:"src"`
	Type  string `json:"type"`
	Sizes string `json:"sizes"`
}

type webManifest struct {
	Name       string            `json:"name"`
	ShortName  string            `json:"short_name,omitempty"`
	Lang       string            `json:"lang,omitempty"`
	StartURL   string            `json:"start_url"`
	ThemeColor string            `json:"theme_color"`
	Display    string            `json:"display"`
	Icons      []webManifestIcon `json:"icons"`
}

// ServeWebManifest serves `/app.webmanifest`, so the download page can be installed to a home screen.
func ServeWebManifest(mux *http.ServeMux, appName, shortName, lang, url, themeColor string) {
	manifest, _ := json.Marshal(webManifest{
		Name:       appName,
		ShortName:  shortName,
		Lang:       lang,
		StartURL:   url,
		ThemeColor: themeColor,
		Display:    "standalone",
		Icons: []webManifestIcon{{
			Src:   "/static/favicon.svg",
			Type:  "image/svg+xml",
			Sizes: "144x144",
		}},
	})
	mux.Handle("GET /app.webmanifest", MaxAgeHandler(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/manifest+json")
		w.Write(manifest)
	})))
}
