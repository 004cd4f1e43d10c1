package core

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

var healthCheckTimeout = 5 * time.Second

func SetupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthcheck", func(w http.ResponseWriter, req *http.Request) {
		slog.Debug("/healthcheck: ok", "from", ReadUserIP(req))
		w.Header().Set("Cache-Control", "no-store")
		w.Write([]byte("ok"))
	})
}

// VerifyHealthCheck probes a running instance, and returns a process exit code.
// An empty host means the server listens on all interfaces, so it is probed via localhost.
func VerifyHealthCheck(host string, port int) int {
	if host == "" {
		host = "localhost"
	}
	url := "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/healthcheck"
	client := http.Client{
		Timeout: healthCheckTimeout,
	}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("failed: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("failed: %s\n", resp.Status)
		return 1
	}

	fmt.Println("ok")
	return 0
}
