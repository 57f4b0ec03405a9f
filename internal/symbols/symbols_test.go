package symbols

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"600519", "600519.SH"},
		{"601318", "601318.SH"},
		{"603259", "603259.SH"},
		{"688981", "688981.SH"},
		{"000001", "000001.SZ"},
		{"002594", "002594.SZ"},
		{"300750", "300750.SZ"},
		{"700", "700.HK"},
		{"9988", "9988.HK"},
		{"AAPL", "AAPL.US"},
		{"aapl", "AAPL.US"},
		{" 600519 ", "600519.SH"},
		{"700.HK", "700.HK"},
		{"BRK.B", "BRK.B"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"600519", "000001", "700", "AAPL", "9988.HK", "tsla"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestIsMainland(t *testing.T) {
	if !IsMainland("600519.SH") || !IsMainland("000001.SZ") {
		t.Error("expected SH/SZ symbols to be mainland")
	}
	if IsMainland("700.HK") || IsMainland("AAPL.US") {
		t.Error("expected HK/US symbols to not be mainland")
	}
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	got, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("ParseDate dashed: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("ParseDate dashed = %v, want %v", got, want)
	}

	got, err = ParseDate("20240115")
	if err != nil {
		t.Fatalf("ParseDate compact: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("ParseDate compact = %v, want %v", got, want)
	}

	for _, bad := range []string{"2024/01/15", "15-01-2024", "202401", "abc", ""} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) expected error", bad)
		}
	}
}
