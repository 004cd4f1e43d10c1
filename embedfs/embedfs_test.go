package embedfs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestServeStaticFS(t *testing.T) {
	mux := http.NewServeMux()
	ServeStaticFS(mux)

	tests := []struct {
		path         string
		contentType  string
		cacheControl string
	}{
		{"/static/download.css", "text/css", "max-age=86400"},
		{"/static/favicon.svg", "image/svg+xml", "max-age=31536000, immutable"},
		{"/favicon.ico", "image/svg+xml", "max-age=31536000, immutable"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status code %d, got %d", http.StatusOK, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("Expected Content-Type %q, got %q", tt.contentType, ct)
			}
			if cc := w.Header().Get("Cache-Control"); cc != tt.cacheControl {
				t.Errorf("Expected Cache-Control %q, got %q", tt.cacheControl, cc)
			}
		})
	}

	t.Run("missing file", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static/missing.js", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status code %d, got %d", http.StatusNotFound, w.Code)
		}
	})
}
