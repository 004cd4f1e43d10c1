package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata"

	"github.com/justinas/alice"
	"github.com/lmittmann/tint"
	"r3d.dev/frontend/conf"
	"r3d.dev/frontend/core"
	"r3d.dev/frontend/download"
	"r3d.dev/frontend/embedfs"
	"r3d.dev/frontend/i18n"
	"r3d.dev/frontend/qrcode"
)

func main() {
	tintHandler := tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: "2006-01-02 15:04:05.000"})
	slog.SetDefault(slog.New(tintHandler))
	slog.Info(conf.AppName, "build-timestamp", conf.BuildTimestamp)

	healthCheckFlag := flag.Bool("healthcheck", false, "verify health of running service & exit")
	configYmlFlag := flag.String("config", "r3d.yml", "path to r3d.yml")
	flag.Parse()

	// Read config before anything else; a missing file just means “use the defaults”.
	var err error
	if conf.Config, err = conf.ReadConfig(*configYmlFlag); err != nil {
		if !errors.Is(err, conf.ErrConfigNotFound) {
			slog.Error("Failed to parse config", tint.Err(err))
			os.Exit(1)
		}
		slog.Warn("No config file found; using defaults", tint.Err(err))
	}

	if *healthCheckFlag {
		os.Exit(core.VerifyHealthCheck(conf.Config.Web.Host, conf.Config.Web.Port))
	}

	// If debug mode was turned on in the config file, print logs at DEBUG or above.
	if conf.Config.Debug {
		tintHandler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: "2006-01-02 15:04:05.000",
		})
		slog.SetDefault(slog.New(tintHandler))
	}

	slog.Info("Translations loaded",
		"locales", i18n.Locales,
		"default-locale", conf.Config.I18n.DefaultLocale,
		"messages", len(i18n.Default.Keys(i18n.BaseLocale)))

	qrcode.Init()

	// Set up cron task for routine maintenance.
	go func() {
		// Do a one-off cleanup before scheduling a recurring task.
		performMaintenance()
		ticker := time.Tick(2 * time.Hour)
		for {
			<-ticker
			performMaintenance()
		}
	}()

	// Set up the Web server.
	mux := http.NewServeMux()
	core.SetupHealthCheck(mux)
	core.ServeWebManifest(mux, conf.AppName, conf.AppShortName, string(conf.Config.I18n.DefaultLocale), "/download", "#c62828")
	embedfs.ServeStaticFS(mux)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/download", http.StatusFound)
	})
	download.Init(mux)

	addr := conf.Config.ListenAddr()
	server := &http.Server{
		Addr:              addr,
		Handler:           alice.New(core.RequestLogger, core.SecurityHeaders).Then(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Set up a graceful shutdown for when the process is terminated.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		fmt.Println()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", tint.Err(err))
		}
	}()

	slog.Info("Listening", "addr", addr) // Plain HTTP; this app does not terminate SSL.
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", tint.Err(err))
		os.Exit(1)
	}
	slog.Info("Shutdown successfully!")
}
