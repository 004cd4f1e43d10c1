package qrcode

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"r3d.dev/frontend/core"
)

func TestGenerate(t *testing.T) {
	data, err := Generate("https://example.com/download/android.apk")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Generated data is not a PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dx() != bounds.Dy() {
		t.Errorf("Expected a non-empty square image, got %v", bounds)
	}
}

func TestGenerate_EmptyURL(t *testing.T) {
	if _, err := Generate(""); err == nil {
		t.Error("Expected an error for an empty URL")
	}
}

func TestServePNG_WithCache(t *testing.T) {
	original := Cache
	Cache = core.NewDiskCache(t.TempDir())
	defer func() { Cache = original }()

	url := "https://example.com/download/ios.ipa"

	req := httptest.NewRequest(http.MethodGet, "/download/ios/qrcode", nil)
	w := httptest.NewRecorder()
	ServePNG(w, req, url)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, w.Code)
	}
	if contentType := w.Header().Get("Content-Type"); contentType != "image/png" {
		t.Errorf("Expected Content-Type image/png, got %q", contentType)
	}

	cached, err := Cache.Find(url)
	if err != nil || cached == nil {
		t.Fatalf("Expected the QR Code to be cached, got %v, %v", cached, err)
	}
	if !bytes.Equal(cached, w.Body.Bytes()) {
		t.Error("Cached bytes differ from the served bytes")
	}

	// Second request is served from the cache.
	Cache.Write(url, []byte("from-cache"))
	w = httptest.NewRecorder()
	ServePNG(w, req, url)
	if w.Body.String() != "from-cache" {
		t.Errorf("Expected the cached bytes to be served, got %d bytes", w.Body.Len())
	}
}

func TestServePNG_WithoutCache(t *testing.T) {
	original := Cache
	Cache = nil
	defer func() { Cache = original }()

	req := httptest.NewRequest(http.MethodGet, "/download/linux/qrcode", nil)
	w := httptest.NewRecorder()
	ServePNG(w, req, "https://example.com/download/linux-installer.AppImage")

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, w.Code)
	}
	if _, err := png.Decode(bytes.NewReader(w.Body.Bytes())); err != nil {
		t.Errorf("Response is not a PNG: %v", err)
	}
}
