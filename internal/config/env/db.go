package env

import (
	"errors"
	"fmt"
	"os"

	"github.com/ArturZahn/OBBot/internal/client/db"
	"github.com/ArturZahn/OBBot/internal/config"
)

const (
	dbDriverEnvName   = "DB_DRIVER"
	dbPathEnvName     = "DB_PATH"
	pgUserEnvName     = "DB_USER"
	pgPasswordEnvName = "DB_PASSWORD"
	pgHostEnvName     = "DB_HOST"
	pgPortEnvName     = "DB_PORT"
	pgNameEnvName     = "DB_NAME"
	pgSSLModeEnvName  = "DB_SSLMODE"
)

type dbConfig struct {
	driver string
	dsn    string
}

// NewDBConfig defaults to an sqlite file; DB_DRIVER=postgres switches to the
// DB_* connection variables.
func NewDBConfig() (config.DBConfig, error) {
	driver := os.Getenv(dbDriverEnvName)
	if driver == "" {
		driver = db.DriverSQLite
	}

	switch driver {
	case db.DriverSQLite:
		path := os.Getenv(dbPathEnvName)
		if path == "" {
			path = "obbot.db"
		}
		return &dbConfig{driver: driver, dsn: path}, nil
	case db.DriverPostgres:
		dsn, err := pgDSN()
		if err != nil {
			return nil, err
		}
		return &dbConfig{driver: driver, dsn: dsn}, nil
	default:
		return nil, fmt.Errorf("unknown %s %q", dbDriverEnvName, driver)
	}
}

func pgDSN() (string, error) {
	dbUser := os.Getenv(pgUserEnvName)
	dbPassword := os.Getenv(pgPasswordEnvName)
	dbHost := os.Getenv(pgHostEnvName)
	dbPort := os.Getenv(pgPortEnvName)
	dbName := os.Getenv(pgNameEnvName)
	dbSSLMode := os.Getenv(pgSSLModeEnvName)

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbSSLMode == "" {
		dbSSLMode = "disable"
	}
	if dbUser == "" || dbPassword == "" || dbName == "" {
		return "", errors.New("DB_USER, DB_PASSWORD, DB_NAME are required")
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPassword, dbHost, dbPort, dbName, dbSSLMode), nil
}

func (cfg *dbConfig) Driver() string {
	return cfg.driver
}

func (cfg *dbConfig) DSN() string {
	return cfg.dsn
}
