package env

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ArturZahn/OBBot/internal/config"
)

const (
	scraperMaxPagesEnvName   = "SCRAPER_MAX_PAGES"
	scraperHeadlessEnvName   = "SCRAPER_HEADLESS"
	scraperProfileDirEnvName = "SCRAPER_PROFILE_DIR"

	defaultMaxPages = 3
)

type scraperConfig struct {
	maxPages   int
	headless   bool
	profileDir string
}

func NewScraperConfig() (config.ScraperConfig, error) {
	cfg := &scraperConfig{
		maxPages:   defaultMaxPages,
		headless:   true,
		profileDir: os.Getenv(scraperProfileDirEnvName),
	}
	if cfg.profileDir == "" {
		cfg.profileDir = "chrome-profile"
	}

	if v := os.Getenv(scraperMaxPagesEnvName); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid %s %q", scraperMaxPagesEnvName, v)
		}
		cfg.maxPages = n
	}

	if v := os.Getenv(scraperHeadlessEnvName); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", scraperHeadlessEnvName, v)
		}
		cfg.headless = b
	}

	return cfg, nil
}

func (cfg *scraperConfig) MaxPages() int {
	return cfg.maxPages
}

func (cfg *scraperConfig) Headless() bool {
	return cfg.headless
}

func (cfg *scraperConfig) ProfileDir() string {
	return cfg.profileDir
}
