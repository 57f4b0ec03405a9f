package sector

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.5万亿", 1.5e12},
		{"823.4亿", 823.4e8},
		{"1,234,567", 1234567},
		{"42.5", 42.5},
		{"", 0},
		{"-", 0},
	}
	for _, c := range cases {
		if got := parseAmount(c.in); got != c.want {
			t.Errorf("parseAmount(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParsePercent(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"3.25%", 3.25},
		{"-1.08%", -1.08},
		{"0.00%", 0},
		{"2.5", 2.5},
		{"--", 0},
	}
	for _, c := range cases {
		if got := parsePercent(c.in); got != c.want {
			t.Errorf("parsePercent(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	if got := parseNumber("1,850.55"); got != 1850.55 {
		t.Errorf("parseNumber comma = %v", got)
	}
	if got := parseNumber("garbage"); got != 0 {
		t.Errorf("parseNumber garbage = %v, want 0", got)
	}
}
