package core

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"
)

func TestSetupHealthCheck(t *testing.T) {
	t.Run("registers healthcheck endpoint", func(t *testing.T) {
		mux := http.NewServeMux()
		SetupHealthCheck(mux)

		req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		resp := w.Result()
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected status code %d, got %d", http.StatusOK, resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("Failed to read response body: %v", err)
		}
		if string(body) != "ok" {
			t.Errorf("Expected response body “ok”, got %q", string(body))
		}
	})

	t.Run("only accepts GET method", func(t *testing.T) {
		mux := http.NewServeMux()
		SetupHealthCheck(mux)

		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}
		for _, method := range methods {
			req := httptest.NewRequest(method, "/healthcheck", nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected status code %d for %s method, got %d", http.StatusMethodNotAllowed, method, w.Code)
			}
		}
	})
}

// serverPort extracts the port a test server is listening on.
func serverPort(t *testing.T, server *httptest.Server) int {
	t.Helper()
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("Failed to parse server URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("Failed to parse port: %v", err)
	}
	return port
}

func TestVerifyHealthCheck(t *testing.T) {
	t.Run("successful healthcheck", func(t *testing.T) {
		mux := http.NewServeMux()
		SetupHealthCheck(mux)
		server := httptest.NewServer(mux)
		defer server.Close()

		if exitCode := VerifyHealthCheck("", serverPort(t, server)); exitCode != 0 {
			t.Errorf("Expected exit code 0, got %d", exitCode)
		}
	})

	t.Run("explicit host", func(t *testing.T) {
		mux := http.NewServeMux()
		SetupHealthCheck(mux)
		server := httptest.NewServer(mux)
		defer server.Close()

		u, err := url.Parse(server.URL)
		if err != nil {
			t.Fatalf("Failed to parse server URL: %v", err)
		}
		if exitCode := VerifyHealthCheck(u.Hostname(), serverPort(t, server)); exitCode != 0 {
			t.Errorf("Expected exit code 0 for host %s, got %d", u.Hostname(), exitCode)
		}

		original := healthCheckTimeout
		healthCheckTimeout = 200 * time.Millisecond
		defer func() { healthCheckTimeout = original }()
		if exitCode := VerifyHealthCheck("192.0.2.1", serverPort(t, server)); exitCode != 1 {
			t.Errorf("Expected exit code 1 for a host the server is not bound to, got %d", exitCode)
		}
	})

	t.Run("server not running", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		port := serverPort(t, server)
		server.Close()

		if exitCode := VerifyHealthCheck("", port); exitCode != 1 {
			t.Errorf("Expected exit code 1 when server is not running, got %d", exitCode)
		}
	})

	t.Run("server returns error status", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, req *http.Request) {
			http.Error(w, "error", http.StatusInternalServerError)
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		if exitCode := VerifyHealthCheck("", serverPort(t, server)); exitCode != 1 {
			t.Errorf("Expected exit code 1 when server returns error, got %d", exitCode)
		}
	})

	t.Run("server timeout", func(t *testing.T) {
		original := healthCheckTimeout
		healthCheckTimeout = 50 * time.Millisecond
		defer func() { healthCheckTimeout = original }()

		release := make(chan struct{})
		mux := http.NewServeMux()
		mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, req *http.Request) {
			select {
			case <-release:
			case <-req.Context().Done():
			}
		})
		server := httptest.NewServer(mux)
		defer server.Close()
		defer close(release)

		if exitCode := VerifyHealthCheck("", serverPort(t, server)); exitCode != 1 {
			t.Errorf("Expected exit code 1 when server times out, got %d", exitCode)
		}
	})
}
