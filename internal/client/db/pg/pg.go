package pg

import (
	"context"
	"fmt"

	"github.com/ArturZahn/OBBot/internal/client/db"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type pgClient struct {
	db *sqlx.DB
}

func New(ctx context.Context, dsn string) (db.Client, error) {
	sqlDB, err := sqlx.Open(db.DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &pgClient{
		db: sqlDB,
	}, nil
}

func (c *pgClient) DB() *sqlx.DB {
	return c.db
}

func (c *pgClient) Driver() string {
	return db.DriverPostgres
}

func (c *pgClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
