package db

import (
	"github.com/jmoiron/sqlx"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Client interface {
	DB() *sqlx.DB
	Driver() string
	Close() error
}
