package sqlite

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ArturZahn/OBBot/internal/client/db"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver(db.DriverSQLite, sqlx.QUESTION)
}

type sqliteClient struct {
	db *sqlx.DB
}

// New opens the database file at path. The chat worker and the job
// orchestrator share one connection; busy_timeout covers external readers.
func New(ctx context.Context, path string) (db.Client, error) {
	params := url.Values{}
	params.Add("_pragma", "busy_timeout(5000)")
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "synchronous(NORMAL)")
	params.Add("_pragma", "foreign_keys(1)")

	sqlDB, err := sqlx.Open(db.DriverSQLite, "file:"+path+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &sqliteClient{db: sqlDB}, nil
}

func (c *sqliteClient) DB() *sqlx.DB {
	return c.db
}

func (c *sqliteClient) Driver() string {
	return db.DriverSQLite
}

func (c *sqliteClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
