package core

import (
	"log/slog"
	"net/http"
	"path"
	"time"
)

// MaxAgeHandler wraps a static file handler to set Cache-Control based on file extension.
// Stylesheets change with each release and are cached for a day; icons and images for a year.
func MaxAgeHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch path.Ext(req.URL.Path) {
		case ".css", ".webmanifest":
			w.Header().Set("Cache-Control", "max-age=86400") // 1 day
		default:
			w.Header().Set("Cache-Control", "max-age=31536000, immutable") // 1 year
		}
		h.ServeHTTP(w, req)
	})
}

// NoStore marks responses as uncacheable; used for pages that vary per visitor.
func NoStore(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Add("Vary", "User-Agent")
		w.Header().Add("Vary", "Accept-Language")
		h.ServeHTTP(w, req)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogger logs every request at DEBUG, or at WARN if it failed with a 5xx.
func RequestLogger(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, req)

		level := slog.LevelDebug
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		slog.Log(req.Context(), level, "request",
			"method", req.Method,
			"path", req.URL.Path,
			"from", ReadUserIP(req),
			"user-agent", req.Header.Get("User-Agent"),
			"status", rec.status,
			"duration", time.Since(start))
	})
}
