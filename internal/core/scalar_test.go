package core

import (
	"math"
	"testing"
	"time"
)

func TestToNumber(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"whitespace", "   ", 0},
		{"plain int text", "100", 100},
		{"decimal comma", "1,65", 1.65},
		{"currency symbol", "$100", 100},
		{"currency with decimals", "$12.50", 12.5},
		{"negative", "-3.5", -3.5},
		{"non-numeric text", "abc", 0},
		{"mixed junk", "x", 0},
		{"already float", float64(2.5), 2.5},
		{"already int", 7, 7},
		{"trailing garbage", "1.2.3", 1.2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToNumber(tc.in)
			if got != tc.want {
				t.Errorf("ToNumber(%v) = %v, want %v", tc.in, got, tc.want)
			}
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Errorf("ToNumber(%v) must be finite, got %v", tc.in, got)
			}
		})
	}
}

func TestToInt(t *testing.T) {
	cases := []struct {
		in   any
		want int
	}{
		{nil, 0},
		{"", 0},
		{"2", 2},
		{"2abc", 2},
		{"x", 0},
		{float64(3.7), 3},
		{"-4", -4},
	}
	for _, tc := range cases {
		if got := ToInt(tc.in); got != tc.want {
			t.Errorf("ToInt(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestToDateOnly(t *testing.T) {
	cases := []struct {
		name    string
		in      any
		ok      bool
		y, m, d int
	}{
		{"ISO timestamp", "2025-12-23T10:49:37.000Z", true, 2025, 12, 23},
		{"ISO date", "2025-01-05", true, 2025, 1, 5},
		{"ISO date time", "2025-01-05 08:30:00", true, 2025, 1, 5},
		{"dotted", "23.12.2025", true, 2025, 12, 23},
		{"dotted with time", "23.12.2025 10:49", true, 2025, 12, 23},
		{"empty", "", false, 0, 0, 0},
		{"nil", nil, false, 0, 0, 0},
		{"junk", "not a date", false, 0, 0, 0},
		{"two dot parts", "12.2025", false, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ToDateOnly(tc.in)
			if ok != tc.ok {
				t.Fatalf("ToDateOnly(%v) ok = %v, want %v", tc.in, ok, tc.ok)
			}
			if !ok {
				return
			}
			if got.Year() != tc.y || int(got.Month()) != tc.m || got.Day() != tc.d {
				t.Errorf("ToDateOnly(%v) = %v, want %04d-%02d-%02d", tc.in, got, tc.y, tc.m, tc.d)
			}
		})
	}
}

func TestFormatDateCompact(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"2025-12-23T10:49:37.000Z", "2025-12-23"},
		{"2025-12-23", "2025-12-23"},
		{"23.12.2025", "2025-12-23"},
		{"garbage", "garbage"}, // unparseable comes back unchanged
		{"", ""},
		{nil, ""},
	}
	for _, tc := range cases {
		if got := FormatDateCompact(tc.in); got != tc.want {
			t.Errorf("FormatDateCompact(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatDateCompactRoundTrip(t *testing.T) {
	// Formatting a parsed ISO date reproduces its YYYY-MM-DD portion.
	for _, iso := range []string{"2024-02-29", "2025-01-01", "1999-12-31"} {
		if got := FormatDateCompact(iso); got != iso {
			t.Errorf("round trip of %q produced %q", iso, got)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := FormatCurrency(12.5); got != "$12.50" {
		t.Errorf("FormatCurrency = %q", got)
	}
	if got := FormatPercent(0.05); got != "5%" {
		t.Errorf("FormatPercent(0.05) = %q", got)
	}
	if got := FormatPercent(5); got != "5%" {
		t.Errorf("FormatPercent(5) = %q", got)
	}
	if got := FormatDateDisplay(nil); got != "-" {
		t.Errorf("FormatDateDisplay(nil) = %q", got)
	}
	d := time.Date(2025, 12, 23, 0, 0, 0, 0, time.UTC)
	if got := FormatDateDisplay(&d); got != "23.12.2025" {
		t.Errorf("FormatDateDisplay = %q", got)
	}
}
