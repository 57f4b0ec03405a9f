package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.RateLimitMax != 60 {
		t.Errorf("RateLimitMax = %d, want 60", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("RateLimitWindow = %v, want 30s", cfg.RateLimitWindow)
	}
	if cfg.ChromeDebugURL != "http://127.0.0.1:9222" {
		t.Errorf("ChromeDebugURL = %q", cfg.ChromeDebugURL)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LONGPORT_APP_KEY", "key")
	t.Setenv("LONGPORT_APP_SECRET", "secret")
	t.Setenv("LONGPORT_ACCESS_TOKEN", "token")
	t.Setenv("RATE_LIMIT_MAX", "10")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "5")
	t.Setenv("CHROME_DEBUG_URL", "http://127.0.0.1:9333")
	t.Setenv("SCRAPE_SETTLE_SECONDS", "7")
	t.Setenv("NAV_TIMEOUT_SECONDS", "90")
	t.Setenv("CACHE_ENABLED", "false")

	cfg := DefaultConfig()

	if cfg.LongportAppKey != "key" || cfg.LongportAppSecret != "secret" || cfg.LongportAccessToken != "token" {
		t.Error("credentials not loaded from environment")
	}
	if cfg.RateLimitMax != 10 || cfg.RateLimitWindow != 5*time.Second {
		t.Errorf("rate limit overrides not applied: %d/%v", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if cfg.ChromeDebugURL != "http://127.0.0.1:9333" {
		t.Errorf("ChromeDebugURL override not applied: %q", cfg.ChromeDebugURL)
	}
	if cfg.ScrapeSettle != 7*time.Second || cfg.NavTimeout != 90*time.Second {
		t.Errorf("scraper timing overrides not applied: %v/%v", cfg.ScrapeSettle, cfg.NavTimeout)
	}
	if cfg.CacheEnabled {
		t.Error("CacheEnabled override not applied")
	}
	if missing := cfg.MissingCredentials(); len(missing) != 0 {
		t.Errorf("MissingCredentials = %v, want none", missing)
	}
}

func TestMissingCredentials(t *testing.T) {
	t.Setenv("LONGPORT_APP_KEY", "")
	t.Setenv("LONGPORT_APP_SECRET", "x")
	t.Setenv("LONGPORT_ACCESS_TOKEN", "")

	cfg := &Config{}
	cfg.loadFromEnv()

	missing := cfg.MissingCredentials()
	if len(missing) != 2 {
		t.Fatalf("MissingCredentials = %v, want 2 entries", missing)
	}
	if missing[0] != "LONGPORT_APP_KEY" || missing[1] != "LONGPORT_ACCESS_TOKEN" {
		t.Errorf("MissingCredentials = %v", missing)
	}
}
