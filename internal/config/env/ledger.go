package env

import (
	"errors"
	"os"

	"github.com/ArturZahn/OBBot/internal/config"
)

const (
	sheetsIDEnvName    = "SHEETS_ID"
	credentialsEnvName = "GOOGLE_CREDENTIALS"
)

type ledgerConfig struct {
	spreadsheetID   string
	credentialsFile string
}

func NewLedgerConfig() (config.LedgerConfig, error) {
	id := os.Getenv(sheetsIDEnvName)
	credentials := os.Getenv(credentialsEnvName)
	if id == "" || credentials == "" {
		return nil, errors.New("SHEETS_ID, GOOGLE_CREDENTIALS are required")
	}

	return &ledgerConfig{
		spreadsheetID:   id,
		credentialsFile: credentials,
	}, nil
}

func (cfg *ledgerConfig) SpreadsheetID() string {
	return cfg.spreadsheetID
}

func (cfg *ledgerConfig) CredentialsFile() string {
	return cfg.credentialsFile
}
