package download

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/justinas/alice"
	"github.com/lmittmann/tint"
	"r3d.dev/frontend/conf"
	"r3d.dev/frontend/core"
	"r3d.dev/frontend/i18n"
	"r3d.dev/frontend/platform"
	"r3d.dev/frontend/qrcode"
)

// Catalog is the list of downloads offered; replaced in tests.
var Catalog = platform.Default

func Init(mux *http.ServeMux) {
	perVisitor := alice.New(core.NoStore)

	mux.Handle("GET /download", perVisitor.ThenFunc(handleDownloadPage))
	mux.Handle("GET /download/v1", perVisitor.ThenFunc(handleDownloadV1))
	mux.HandleFunc("GET /download/{platform}", handleDownloadRedirect)
	mux.HandleFunc("GET /download/{platform}/qrcode", handleQrCode)
}

// userAgent returns the request’s User-Agent; a missing header is the same as an empty one.
func userAgent(req *http.Request) string {
	return req.Header.Get("User-Agent")
}

// GET /download
// Detects the visitor’s platform and renders the download page, recommending a matching download.
func handleDownloadPage(w http.ResponseWriter, req *http.Request) {
	ua := userAgent(req)
	key, selection := platform.Recommend(Catalog, ua)

	locale := i18n.Default.Negotiate(req.Header.Get("Accept-Language"), conf.Config.I18n.DefaultLocale)
	if l, ok := i18n.ParseLocale(req.URL.Query().Get("lang")); ok {
		locale = l
	}
	tr := i18n.Default.Translator(locale)

	slog.Info("download page served",
		"method", req.Method,
		"path", req.URL.Path,
		"user-agent", ua,
		"platform", key.String(),
		"locale", string(locale),
		"status", http.StatusOK)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", string(locale))
	if err := DownloadPageTempl(tr, selection, conf.Config.ProjectLinks()).Render(req.Context(), w); err != nil {
		slog.Error("failed to render download page", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path)
	}
}

// GET /download/v1[?ua={user-agent}]
// Returns the detected platform and the remaining platforms as JSON. The `ua` query parameter
// overrides the User-Agent header, so that detection can be checked for arbitrary strings.
func handleDownloadV1(w http.ResponseWriter, req *http.Request) {
	ua := userAgent(req)
	if req.URL.Query().Has("ua") {
		ua = req.URL.Query().Get("ua")
	}
	key, selection := platform.Recommend(Catalog, ua)

	body, err := json.Marshal(selection)
	if err != nil {
		slog.Error("failed to encode download selection", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"user-agent", ua,
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Debug("download selection served",
		"method", req.Method,
		"path", req.URL.Path,
		"user-agent", ua,
		"platform", key.String(),
		"status", http.StatusOK)
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

// lookupEntry resolves the {platform} path value, writing a 404 if it does not name a catalog entry.
func lookupEntry(w http.ResponseWriter, req *http.Request) (platform.Entry, bool) {
	key := platform.Key(req.PathValue("platform"))
	entry, ok := Catalog.Lookup(key)
	if !ok || key == platform.Unknown {
		err := fmt.Errorf("unknown platform %q", req.PathValue("platform"))
		slog.Warn("unknown platform requested", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"user-agent", userAgent(req),
			"status", http.StatusNotFound)
		http.Error(w, err.Error(), http.StatusNotFound)
		return platform.Entry{}, false
	}
	return entry, true
}

// GET /download/{platform}
// Redirects to the download URL of the given platform.
func handleDownloadRedirect(w http.ResponseWriter, req *http.Request) {
	entry, ok := lookupEntry(w, req)
	if !ok {
		return
	}
	slog.Info("download started",
		"method", req.Method,
		"path", req.URL.Path,
		"url", entry.DownloadURL,
		"platform", entry.Key.String(),
		"detected", platform.Detect(userAgent(req)).String(),
		"status", http.StatusFound)
	http.Redirect(w, req, entry.DownloadURL, http.StatusFound)
}

// GET /download/{platform}/qrcode
// Serves a QR Code pointing at the download URL of the given platform.
func handleQrCode(w http.ResponseWriter, req *http.Request) {
	entry, ok := lookupEntry(w, req)
	if !ok {
		return
	}
	qrcode.ServePNG(w, req, entry.DownloadURL)
}

func isMobile(key platform.Key) bool {
	return key == platform.Android || key == platform.IOS
}
