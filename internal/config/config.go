package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

type DBConfig interface {
	Driver() string
	DSN() string
}

type BotConfig interface {
	Token() string
	ChatID() int64
	Debug() bool
}

type LedgerConfig interface {
	SpreadsheetID() string
	CredentialsFile() string
}

type SchedulerConfig interface {
	Schedule() string
	PollInterval() time.Duration
	BatchLimit() int
	RulesFile() string
}

type ScraperConfig interface {
	MaxPages() int
	Headless() bool
	ProfileDir() string
}

type AdminConfig interface {
	Address() string
	LogLevel() string
}

// Load reads path into the environment. A missing file is not an error:
// variables may come from the process environment alone.
func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
