// Package fetch defines the flat error taxonomy for upstream calls and
// the retry policy driven by it. The upstream SDK surfaces structured
// exceptions; here they collapse into a handful of typed errors so
// callers can branch without mirroring the SDK's hierarchy.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Keyword sets used to classify upstream error messages. The upstream
// reports errors in both English and Chinese.
var (
	rateLimitKeywords  = []string{"限流", "limit", "quota", "配额", "throttle"}
	permissionKeywords = []string{"权限", "permission", "无权限", "entitlement"}
)

// ConfigError means the API handle was never initialized because
// credentials are incomplete. Dependent operations fail immediately.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	if len(e.Missing) == 0 {
		return "longbridge API not initialized, check configuration"
	}
	return fmt.Sprintf("longbridge API not initialized, missing %s", strings.Join(e.Missing, ", "))
}

// RateLimitError means the upstream signaled quota exhaustion. It is
// surfaced rather than retried: retrying immediately would repeat the
// violation.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string { return fmt.Sprintf("longbridge rate limited: %v", e.Err) }
func (e *RateLimitError) Unwrap() error { return e.Err }

// PermissionError means the account lacks market-data entitlements.
// Fatal; the operator must enable quote permissions upstream.
type PermissionError struct {
	Err error
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("longbridge missing quote entitlement, enable market data permission: %v", e.Err)
}
func (e *PermissionError) Unwrap() error { return e.Err }

// FetchError wraps any other upstream failure.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("%s failed: %v", e.Op, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// Classify maps an upstream error into the taxonomy by message keywords.
// Errors already classified pass through unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		rl *RateLimitError
		pe *PermissionError
		ce *ConfigError
		fe *FetchError
	)
	if errors.As(err, &rl) || errors.As(err, &pe) || errors.As(err, &ce) || errors.As(err, &fe) {
		return err
	}

	msg := strings.ToLower(err.Error())
	if containsAny(msg, rateLimitKeywords) {
		return &RateLimitError{Err: err}
	}
	if containsAny(msg, permissionKeywords) {
		return &PermissionError{Err: err}
	}
	return &FetchError{Op: op, Err: err}
}

// IsTransient reports whether an error is a connection or timeout fault
// worth retrying. Quota and permission faults are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	if containsAny(msg, rateLimitKeywords) || containsAny(msg, permissionKeywords) {
		return false
	}
	for _, kw := range []string{"timeout", "timed out", "connection refused", "connection reset", "broken pipe", "eof"} {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

func containsAny(msg string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}
