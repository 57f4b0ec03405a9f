package fetch

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"quota english", errors.New("request quota exceeded"), "rate"},
		{"quota chinese", errors.New("触发限流，请稍后再试"), "rate"},
		{"throttle", errors.New("throttled by gateway"), "rate"},
		{"permission english", errors.New("permission denied for quote"), "perm"},
		{"permission chinese", errors.New("无权限访问该行情"), "perm"},
		{"other", errors.New("internal server error"), "fetch"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify("quote", c.err)
			var (
				rl *RateLimitError
				pe *PermissionError
				fe *FetchError
			)
			switch c.want {
			case "rate":
				if !errors.As(got, &rl) {
					t.Errorf("Classify(%v) = %T, want *RateLimitError", c.err, got)
				}
			case "perm":
				if !errors.As(got, &pe) {
					t.Errorf("Classify(%v) = %T, want *PermissionError", c.err, got)
				}
			case "fetch":
				if !errors.As(got, &fe) {
					t.Errorf("Classify(%v) = %T, want *FetchError", c.err, got)
				}
			}
			if !errors.Is(got, c.err) {
				t.Errorf("classified error lost its cause")
			}
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	orig := &RateLimitError{Err: errors.New("quota")}
	if got := Classify("quote", orig); got != orig {
		t.Errorf("already-classified error was rewrapped: %v", got)
	}
}

func TestWithRetryRateLimitNotRetried(t *testing.T) {
	calls := 0
	cfg := &RetryConfig{Attempts: 3, BaseDelay: 2 * time.Second, MaxDelay: 30 * time.Second,
		Sleep: func(time.Duration) { t.Fatal("sleep should not be called") }}

	err := WithRetry("quote", cfg, func() error {
		calls++
		return errors.New("quota exceeded")
	})

	var rl *RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if calls != 1 {
		t.Errorf("rate-limit error consumed retries: %d calls", calls)
	}
}

func TestWithRetryPermissionFatal(t *testing.T) {
	calls := 0
	cfg := &RetryConfig{Attempts: 3, BaseDelay: time.Second, MaxDelay: time.Second,
		Sleep: func(time.Duration) { t.Fatal("sleep should not be called") }}

	err := WithRetry("quote", cfg, func() error {
		calls++
		return errors.New("permission denied")
	})

	var pe *PermissionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
	if calls != 1 {
		t.Errorf("permission error consumed retries: %d calls", calls)
	}
}

func TestWithRetryTransientBackoff(t *testing.T) {
	var slept []time.Duration
	cfg := &RetryConfig{Attempts: 3, BaseDelay: 2 * time.Second, MaxDelay: 30 * time.Second,
		Sleep: func(d time.Duration) { slept = append(slept, d) }}

	calls := 0
	err := WithRetry("history", cfg, func() error {
		calls++
		return timeoutErr{}
	})

	if calls != 3 {
		t.Errorf("expected 3 total attempts, got %d", calls)
	}
	if len(slept) != 2 {
		t.Fatalf("expected 2 backoff sleeps, got %d", len(slept))
	}
	for i := 1; i < len(slept); i++ {
		if slept[i] < slept[i-1] {
			t.Errorf("backoff decreased: %v", slept)
		}
	}
	for _, d := range slept {
		if d > 30*time.Second {
			t.Errorf("backoff exceeded ceiling: %v", d)
		}
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Errorf("exhausted retries should surface FetchError, got %v", err)
	}
}

func TestWithRetryBackoffCeiling(t *testing.T) {
	var slept []time.Duration
	cfg := &RetryConfig{Attempts: 6, BaseDelay: 2 * time.Second, MaxDelay: 30 * time.Second,
		Sleep: func(d time.Duration) { slept = append(slept, d) }}

	_ = WithRetry("history", cfg, func() error { return timeoutErr{} })

	if len(slept) != 5 {
		t.Fatalf("expected 5 sleeps, got %d", len(slept))
	}
	if last := slept[len(slept)-1]; last != 30*time.Second {
		t.Errorf("final backoff = %v, want 30s ceiling", last)
	}
}

func TestWithRetryRecovers(t *testing.T) {
	cfg := &RetryConfig{Attempts: 3, BaseDelay: time.Second, MaxDelay: time.Second,
		Sleep: func(time.Duration) {}}

	calls := 0
	err := WithRetry("history", cfg, func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("wrap: %w", timeoutErr{})
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetryNonTransientNoRetry(t *testing.T) {
	calls := 0
	cfg := &RetryConfig{Attempts: 3, BaseDelay: time.Second, MaxDelay: time.Second,
		Sleep: func(time.Duration) { t.Fatal("sleep should not be called") }}

	err := WithRetry("history", cfg, func() error {
		calls++
		return errors.New("bad symbol")
	})

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if calls != 1 {
		t.Errorf("non-transient error was retried: %d calls", calls)
	}
}
