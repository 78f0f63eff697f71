package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed schema_postgres.sql
var postgresSchema string

//go:embed schema_sqlite.sql
var sqliteSchema string

// Schema returns the DDL for a database/sql driver name.
func Schema(driver string) (string, error) {
	switch driver {
	case "postgres":
		return postgresSchema, nil
	case "sqlite3":
		return sqliteSchema, nil
	}
	return "", fmt.Errorf("unsupported driver %q", driver)
}

// Migrate creates the summaries table and its index if they do not exist.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	schema, err := Schema(driver)
	if err != nil {
		return err
	}
	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
