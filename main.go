package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"travelease/config"
	"travelease/internal/app"
	"travelease/pkg/logger"
)

func main() {
	// Settings come from .env when present, then the OS environment.
	cfg := config.Load()

	logger.Init(cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx, cfg); err != nil {
		logger.Sugar.Errorf("Server stopped: %v", err)
		stop()
		logger.Sync()
		os.Exit(1)
	}
}
