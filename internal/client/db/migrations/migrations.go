// Package migrations applies the embedded schema with goose.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/ArturZahn/OBBot/internal/client/db"
	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var embedMigrations embed.FS

// goose keeps its dialect and filesystem in package globals.
var mu sync.Mutex

func Up(ctx context.Context, client db.Client) error {
	mu.Lock()
	defer mu.Unlock()

	dialect, dir := "postgres", "postgres"
	if client.Driver() == db.DriverSQLite {
		dialect, dir = "sqlite3", "sqlite"
	}

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.UpContext(ctx, client.DB().DB, dir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
