package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"travelease/config"
	"travelease/pkg/logger"
	"travelease/store"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Retry policy for the initial ping. Supabase connections can take a few
// seconds to come up after DNS or network blips.
var (
	PingAttempts = 5
	PingInterval = 2 * time.Second
)

// Connect opens the configured database, waits until it answers and applies
// the schema.
func Connect(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.DBDriver == "sqlite3" {
		// One writer at a time.
		db.SetMaxOpenConns(1)
	}

	if err := ping(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if err := store.Migrate(ctx, db, cfg.DBDriver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ping(ctx context.Context, db *sql.DB) error {
	var err error
	for i := 0; i < PingAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			logger.Sugar.Info("Successfully connected to the database")
			return nil
		}
		logger.Sugar.Infof("Database connection failed, retrying in %s... (%v)", PingInterval, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(PingInterval):
		}
	}
	return fmt.Errorf("could not connect to database after %d attempts: %w", PingAttempts, err)
}
