package env

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ArturZahn/OBBot/internal/config"
	"github.com/robfig/cron/v3"
)

const (
	scheduleEnvName     = "SCHEDULE"
	pollIntervalEnvName = "POLL_INTERVAL"
	batchLimitEnvName   = "BATCH_LIMIT"
	rulesFileEnvName    = "RULES_FILE"

	defaultSchedule     = "0 22 * * *"
	defaultPollInterval = 30 * time.Second
	defaultBatchLimit   = 50
)

type schedulerConfig struct {
	schedule     string
	pollInterval time.Duration
	batchLimit   int
	rulesFile    string
}

func NewSchedulerConfig() (config.SchedulerConfig, error) {
	cfg := &schedulerConfig{
		schedule:     defaultSchedule,
		pollInterval: defaultPollInterval,
		batchLimit:   defaultBatchLimit,
		rulesFile:    os.Getenv(rulesFileEnvName),
	}

	if v := os.Getenv(scheduleEnvName); v != "" {
		if _, err := cron.ParseStandard(v); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", scheduleEnvName, err)
		}
		cfg.schedule = v
	}

	if v := os.Getenv(pollIntervalEnvName); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid %s %q", pollIntervalEnvName, v)
		}
		cfg.pollInterval = d
	}

	if v := os.Getenv(batchLimitEnvName); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s %q", batchLimitEnvName, v)
		}
		cfg.batchLimit = n
	}

	return cfg, nil
}

func (cfg *schedulerConfig) Schedule() string {
	return cfg.schedule
}

func (cfg *schedulerConfig) PollInterval() time.Duration {
	return cfg.pollInterval
}

func (cfg *schedulerConfig) BatchLimit() int {
	return cfg.batchLimit
}

// RulesFile is empty when no extra classification rules are configured.
func (cfg *schedulerConfig) RulesFile() string {
	return cfg.rulesFile
}
