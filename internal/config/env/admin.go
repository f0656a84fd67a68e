package env

import (
	"os"

	"github.com/ArturZahn/OBBot/internal/config"
)

const (
	adminAddrEnvName = "ADMIN_ADDR"
	logLevelEnvName  = "LOG_LEVEL"
)

type adminConfig struct {
	address  string
	logLevel string
}

func NewAdminConfig() (config.AdminConfig, error) {
	level := os.Getenv(logLevelEnvName)
	if level == "" {
		level = "info"
	}

	return &adminConfig{
		address:  os.Getenv(adminAddrEnvName),
		logLevel: level,
	}, nil
}

// Address is empty when the admin endpoint is disabled.
func (cfg *adminConfig) Address() string {
	return cfg.address
}

func (cfg *adminConfig) LogLevel() string {
	return cfg.logLevel
}
