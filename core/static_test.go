package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestServeWebManifest(t *testing.T) {
	tests := []struct {
		name       string
		appName    string
		shortName  string
		lang       string
		url        string
		themeColor string
	}{
		{
			name:       "basic manifest",
			appName:    "幻立红白",
			shortName:  "R3D",
			lang:       "zh-CN",
			url:        "/download",
			themeColor: "#c62828",
		},
		{
			name:       "without short name or language",
			appName:    "Example App",
			url:        "/",
			themeColor: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			ServeWebManifest(mux, tt.appName, tt.shortName, tt.lang, tt.url, tt.themeColor)

			req := httptest.NewRequest(http.MethodGet, "/app.webmanifest", nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status code %d, got %d", http.StatusOK, w.Code)
			}
			if contentType := w.Header().Get("Content-Type"); contentType != "application/manifest+json" {
				t.Errorf("Expected Content-Type %q, got %q", "application/manifest+json", contentType)
			}
			if cacheControl := w.Header().Get("Cache-Control"); cacheControl != "max-age=86400" {
				t.Errorf("Expected Cache-Control %q, got %q", "max-age=86400", cacheControl)
			}

			var manifest map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &manifest); err != nil {
				t.Fatalf("Failed to parse manifest JSON: %v\nBody: %s", err, w.Body.String())
			}

			if name, ok := manifest["name"].(string); !ok || name != tt.appName {
				t.Errorf("Expected name %q, got %v", tt.appName, manifest["name"])
			}
			if startURL, ok := manifest["start_url"].(string); !ok || startURL != tt.url {
				t.Errorf("Expected start_url %q, got %v", tt.url, manifest["start_url"])
			}
			if themeColor, ok := manifest["theme_color"].(string); !ok || themeColor != tt.themeColor {
				t.Errorf("Expected theme_color %q, got %v", tt.themeColor, manifest["theme_color"])
			}
			if display, ok := manifest["display"].(string); !ok || display != "standalone" {
				t.Errorf("Expected display %q, got %v", "standalone", manifest["display"])
			}
			if _, ok := manifest["short_name"]; ok != (tt.shortName != "") {
				t.Errorf("Unexpected short_name %v", manifest["short_name"])
			}
			icons, ok := manifest["icons"].([]any)
			if !ok || len(icons) != 1 {
				t.Fatalf("Expected exactly 1 icon, got %v", manifest["icons"])
			}
			icon := icons[0].(map[string]any)
			if icon["src"] != "/static/favicon.svg" {
				t.Errorf("Expected icon src %q, got %v", "/static/favicon.svg", icon["src"])
			}
		})
	}

	t.Run("POST method not allowed", func(t *testing.T) {
		mux := http.NewServeMux()
		ServeWebManifest(mux, "Test App", "", "", "/", "#000000")

		req := httptest.NewRequest(http.MethodPost, "/app.webmanifest", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected status code %d, got %d", http.StatusMethodNotAllowed, w.Code)
		}
	})
}
