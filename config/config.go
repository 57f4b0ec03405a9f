package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir string `json:"project_dir"`
	DataDir    string `json:"data_dir"`

	// Longport API Configuration
	LongportAppKey      string `json:"longport_app_key"`
	LongportAppSecret   string `json:"longport_app_secret"`
	LongportAccessToken string `json:"longport_access_token"`

	// Upstream quota: at most RateLimitMax requests per trailing
	// RateLimitWindow.
	RateLimitMax    int           `json:"rate_limit_max"`
	RateLimitWindow time.Duration `json:"rate_limit_window"`

	// Chrome remote debugging endpoint for the sector scraper. The
	// browser must already be running with --remote-debugging-port.
	ChromeDebugURL string        `json:"chrome_debug_url"`
	ScrapeSettle   time.Duration `json:"scrape_settle"`
	NavTimeout     time.Duration `json:"nav_timeout"`

	CacheEnabled bool `json:"cache_enabled"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		ProjectDir: currentDir,
		DataDir:    filepath.Join(currentDir, "data"),

		RateLimitMax:    60,
		RateLimitWindow: 30 * time.Second,

		ChromeDebugURL: "http://127.0.0.1:9222",
		ScrapeSettle:   3 * time.Second,
		NavTimeout:     60 * time.Second,

		CacheEnabled: true,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}

	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}

	if val := os.Getenv("RATE_LIMIT_MAX"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.RateLimitMax = v
		}
	}
	if val := os.Getenv("RATE_LIMIT_WINDOW_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.RateLimitWindow = time.Duration(v) * time.Second
		}
	}

	if val := os.Getenv("CHROME_DEBUG_URL"); val != "" {
		c.ChromeDebugURL = val
	}
	if val := os.Getenv("SCRAPE_SETTLE_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.ScrapeSettle = time.Duration(v) * time.Second
		}
	}
	if val := os.Getenv("NAV_TIMEOUT_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil && v > 0 {
			c.NavTimeout = time.Duration(v) * time.Second
		}
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}
}

// MissingCredentials lists which of the three Longport secrets are not
// set, so error messages can name exactly what the operator must add.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.LongportAppKey == "" {
		missing = append(missing, "LONGPORT_APP_KEY")
	}
	if c.LongportAppSecret == "" {
		missing = append(missing, "LONGPORT_APP_SECRET")
	}
	if c.LongportAccessToken == "" {
		missing = append(missing, "LONGPORT_ACCESS_TOKEN")
	}
	return missing
}

func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.ProjectDir, c.DataDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
