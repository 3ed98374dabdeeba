// Package core holds the domain records derived from spreadsheet rows and
// the locale-tolerant scalar coercion they depend on.
//
// Source cells are loosely typed: numbers arrive as strings with comma
// decimals or currency symbols, dates in ISO-8601 or DD.MM.YYYY. The
// coercion functions here are total: malformed input degrades to a default
// (0, unparsed, original text) so one bad cell never aborts a table.
package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ToNumber coerces a scalar cell to a float64. Empty, nil and non-numeric
// input coerce to 0; values that are already numeric pass through. Text is
// cleaned first: the decimal comma becomes a dot and anything outside
// [0-9.-] is stripped, so "1,65" parses as 1.65 and "$100" as 100.
func ToNumber(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	s := strings.Replace(strings.TrimSpace(toString(v)), ",", ".", 1)
	if s == "" {
		return 0
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		// Salvage a leading numeric prefix ("1.2.3" -> 1.2), matching
		// the permissive parse the renderers relied on.
		f, err = strconv.ParseFloat(numericPrefix(b.String()), 64)
		if err != nil {
			return 0
		}
	}
	return f
}

// ToInt coerces a scalar cell to an int with base-10 semantics: numeric
// values truncate, text keeps its leading integer digits, anything else
// is 0.
func ToInt(v any) int {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return int(n)
	case float32:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	s := strings.TrimSpace(toString(v))
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	i, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return i
}

// ToDateOnly parses a cell as a date: ISO-8601 forms first, then
// DD.MM.YYYY with an optional time component after whitespace, which is
// ignored. The second return is false when neither form matches.
func ToDateOnly(v any) (time.Time, bool) {
	s := strings.TrimSpace(toString(v))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// DD.MM.YYYY, possibly "DD.MM.YYYY hh:mm" with the time dropped.
	datePart := strings.Fields(s)
	if len(datePart) == 0 || !strings.Contains(datePart[0], ".") {
		return time.Time{}, false
	}
	parts := strings.Split(datePart[0], ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// FormatDateCompact renders a parseable date as YYYY-MM-DD. Unparseable
// input comes back unchanged rather than erroring, and empty stays empty.
func FormatDateCompact(v any) string {
	s := toString(v)
	if strings.TrimSpace(s) == "" {
		return ""
	}
	t, ok := ToDateOnly(s)
	if !ok {
		return s
	}
	return t.Format("2006-01-02")
}

func numericPrefix(s string) string {
	end := 0
	if end < len(s) && s[end] == '-' {
		end++
	}
	dot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !dot {
			dot = true
			end++
			continue
		}
		break
	}
	return s[:end]
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}
