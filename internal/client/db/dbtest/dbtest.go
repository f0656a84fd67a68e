// Package dbtest opens a migrated SQLite database for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ArturZahn/OBBot/internal/client/db"
	"github.com/ArturZahn/OBBot/internal/client/db/migrations"
	"github.com/ArturZahn/OBBot/internal/client/db/sqlite"
)

func New(t testing.TB) db.Client {
	t.Helper()

	ctx := context.Background()
	client, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "obbot.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	if err := migrations.Up(ctx, client); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return client
}
