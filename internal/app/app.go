// Package app wires configuration, storage, the summarizer and the live hub
// into a running service.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
	"travelease/config"
	"travelease/config/database"
	"travelease/internal/summarizer"
	"travelease/internal/summary/repository"
	"travelease/internal/summary/service"
	"travelease/pkg/logger"
	"travelease/router"
	"travelease/socket"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
var ShutdownTimeout = 10 * time.Second

// responseGrace is the write time left after the summarization budget.
const responseGrace = 15 * time.Second

// Open connects to the database and builds the summary service. A summarizer
// is attached only when its settings are valid; callers close the returned
// database.
func Open(ctx context.Context, cfg *config.Config) (*service.SummaryService, *sql.DB, error) {
	limits, err := cfg.Limits()
	if err != nil {
		return nil, nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	s, err := summarizer.New(cfg)
	if err != nil {
		logger.Sugar.Warnf("Summarizer disabled: %v", err)
	}

	svc := service.NewSummaryService(repository.NewSummaryRepository(db), s, limits, loc)
	return svc, db, nil
}

// Serve listens on cfg.Port until ctx is cancelled.
func Serve(ctx context.Context, cfg *config.Config) error {
	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("listen on :%s: %w", cfg.Port, err)
	}
	return ServeListener(ctx, cfg, ln)
}

// ServeListener runs the HTTP and WebSocket server on ln until ctx is
// cancelled, then shuts down gracefully.
func ServeListener(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	if err := cfg.ValidateServer(); err != nil {
		ln.Close()
		return err
	}

	svc, db, err := Open(ctx, cfg)
	if err != nil {
		ln.Close()
		return err
	}
	defer db.Close()

	svc.ProcessTimeout = cfg.ProcessBudget()

	hub := socket.NewHub(svc)
	hub.AllowedOrigins = cfg.CORSOrigins
	svc.Notifier = hub
	go hub.Run()
	defer hub.Stop()

	srv := &http.Server{
		Handler: router.Setup(svc, hub, router.Options{
			JWTSecret:   cfg.JWTSecret,
			CORSOrigins: cfg.CORSOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		// The response must still be writable once Process gives up.
		WriteTimeout: cfg.ProcessBudget() + responseGrace,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Sugar.Infof("Go Backend listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Sugar.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
