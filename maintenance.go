package main

import (
	"log/slog"

	"github.com/lmittmann/tint"
	"r3d.dev/frontend/qrcode"
)

func performMaintenance() {
	if qrcode.Cache != nil {
		if _, err := qrcode.Cache.Prune(); err != nil {
			slog.Error("failed to prune qrcode cache", tint.Err(err))
		}
	}
	slog.Info("Maintenance completed successfully")
}
