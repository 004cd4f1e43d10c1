package qrcode

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/lmittmann/tint"
	"github.com/yeqown/go-qrcode/v2"
	"github.com/yeqown/go-qrcode/writer/standard"
	"r3d.dev/frontend/conf"
	"r3d.dev/frontend/core"
)

// Cache holds generated PNGs keyed by the encoded URL; nil when caching is disabled.
var Cache *core.DiskCache

func Init() {
	if *conf.Config.QrCode.Cache.Enabled {
		Cache = core.NewDiskCache(
			filepath.Join(conf.Config.DataDir, "cache", "qr-codes"),
			core.WithTTL(conf.Config.QrCode.Cache.TTL),
			core.WithMaxSize(conf.Config.QrCode.Cache.MaxSizeBytes),
		)
	} // else cache will be nil
}

// ServePNG writes a QR Code for url, from the cache if possible.
// Logging attributes describe the original request, so failures can be traced back to it.
func ServePNG(w http.ResponseWriter, req *http.Request, url string) {
	if Cache != nil {
		cached, err := Cache.Find(url)
		if err != nil {
			// A broken cache should not take the download page down with it.
			slog.Error("error during cache lookup", tint.Err(err),
				"method", req.Method,
				"path", req.URL.Path,
				"url", url)
		} else if cached != nil {
			slog.Debug("cached QR Code served",
				"method", req.Method,
				"path", req.URL.Path,
				"url", url,
				"status", http.StatusOK)
			writePNG(w, cached)
			return
		}
	}

	png, err := Generate(url)
	if err != nil {
		slog.Error("error generating QR Code", tint.Err(err),
			"method", req.Method,
			"path", req.URL.Path,
			"url", url,
			"status", http.StatusInternalServerError)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if Cache != nil {
		if err := Cache.Write(url, png); err != nil {
			slog.Error("error writing to cache", tint.Err(err),
				"method", req.Method,
				"path", req.URL.Path,
				"url", url)
			// Continue serving even if caching failed
		}
	}

	slog.Info("new QR Code generated",
		"method", req.Method,
		"path", req.URL.Path,
		"url", url,
		"status", http.StatusOK)
	writePNG(w, png)
}

func writePNG(w http.ResponseWriter, png []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "max-age=86400") // 1 day; download URLs change with releases.
	w.Write(png)
}

// writeCloser wraps a bytes.Buffer and adds a no-op Close method, as required by [standard.NewWithWriter].
type writeCloser struct {
	*bytes.Buffer
}

func (wc *writeCloser) Close() error {
	return nil
}

// Generate encodes url as a QR Code PNG.
func Generate(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("cannot encode an empty url")
	}
	qrc, err := qrcode.New(url)
	if err != nil {
		return nil, fmt.Errorf("qrcode.New failed: %w", err)
	}

	var buf bytes.Buffer
	writer := standard.NewWithWriter(&writeCloser{&buf},
		standard.WithBuiltinImageEncoder(standard.PNG_FORMAT),
		standard.WithQRWidth(8),
	)
	if err := qrc.Save(writer); err != nil {
		return nil, fmt.Errorf("saving QR Code failed: %w", err)
	}
	return buf.Bytes(), nil
}
