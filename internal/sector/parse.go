package sector

import (
	"strconv"
	"strings"
)

// The board page renders turnover with Chinese magnitude suffixes:
// 万亿 scales by 1e12, 亿 by 1e8. Plain cells just carry thousands
// separators.

func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, "万亿"):
		return digitsOf(s) * 1e12
	case strings.Contains(s, "亿"):
		return digitsOf(s) * 1e8
	default:
		return parseNumber(s)
	}
}

func parseNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func parsePercent(s string) float64 {
	return parseNumber(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

// digitsOf keeps digits, dot and sign, dropping separators and the
// magnitude suffix.
func digitsOf(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}
