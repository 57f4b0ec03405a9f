package fetch

import (
	"time"
)

// RetryConfig configures the transient-fault retry loop.
type RetryConfig struct {
	Attempts  int           // total attempts, including the first
	BaseDelay time.Duration // delay before the second attempt
	MaxDelay  time.Duration // backoff ceiling
	Sleep     func(time.Duration)
}

// DefaultRetryConfig matches the upstream call policy: 3 total attempts,
// exponential backoff between 2s and 30s.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		Attempts:  3,
		BaseDelay: 2 * time.Second,
		MaxDelay:  30 * time.Second,
		Sleep:     time.Sleep,
	}
}

// WithRetry runs fn, retrying only transient network faults with
// exponential backoff. Rate-limit and permission errors are classified
// and surfaced immediately without consuming an attempt; any other
// failure is wrapped and surfaced without retry.
func WithRetry(op string, cfg *RetryConfig, fn func() error) error {
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	delay := cfg.BaseDelay
	var lastErr error
	for attempt := 1; attempt <= cfg.Attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		classified := Classify(op, err)
		switch classified.(type) {
		case *RateLimitError, *PermissionError, *ConfigError:
			return classified
		}
		if !IsTransient(err) {
			return classified
		}

		lastErr = classified
		if attempt < cfg.Attempts {
			sleep(delay)
			delay *= 2
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}
	return lastErr
}
