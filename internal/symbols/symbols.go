// Package symbols converts raw instrument codes into the
// exchange-suffixed form the Longbridge API expects and parses the date
// formats callers pass around.
package symbols

import (
	"fmt"
	"strings"
	"time"
)

// Shanghai main-board and STAR-market prefixes, Shenzhen main-board and
// ChiNext prefixes. Anything numeric outside these ranges is assumed to
// be a Hong Kong code; alphabetic codes are assumed US. The mapping is a
// heuristic: callers needing certainty should pass fully-qualified codes.
var (
	shanghaiPrefixes = []string{"600", "601", "603", "688"}
	shenzhenPrefixes = []string{"000", "002", "300"}
)

// Normalize maps a raw instrument code to ticker.region form, e.g.
// 600519 -> 600519.SH, 000001 -> 000001.SZ, 700 -> 700.HK,
// AAPL -> AAPL.US. Codes that already carry a suffix pass through
// unchanged, which makes Normalize idempotent.
func Normalize(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return c
	}
	if strings.Contains(c, ".") {
		return c
	}
	if isDigits(c) {
		if hasAnyPrefix(c, shanghaiPrefixes) {
			return c + ".SH"
		}
		if hasAnyPrefix(c, shenzhenPrefixes) {
			return c + ".SZ"
		}
		return c + ".HK"
	}
	return c + ".US"
}

// IsMainland reports whether a normalized code trades on a mainland
// exchange.
func IsMainland(symbol string) bool {
	return strings.HasSuffix(symbol, ".SH") || strings.HasSuffix(symbol, ".SZ")
}

// ParseDate accepts YYYY-MM-DD or YYYYMMDD.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "-") {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, fmt.Errorf("unsupported date format: %s", s)
		}
		return t, nil
	}
	if len(s) == 8 && isDigits(s) {
		t, err := time.Parse("20060102", s)
		if err != nil {
			return time.Time{}, fmt.Errorf("unsupported date format: %s", s)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %s", s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
