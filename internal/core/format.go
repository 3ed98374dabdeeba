package core

import (
	"fmt"
	"time"
)

// Presentation-edge formatting for the report renderers. Kept in core so
// every outbound surface renders amounts and dates the same way.

// FormatCurrency renders a bonus or payment amount as dollars with two
// decimals.
func FormatCurrency(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// FormatPercent renders a bonus percentage. Source sheets store percents
// both as fractions (0.05) and whole numbers (5); values below 1 are
// treated as fractions.
func FormatPercent(v float64) string {
	if v < 1 {
		return fmt.Sprintf("%.0f%%", v*100)
	}
	return fmt.Sprintf("%g%%", v)
}

// FormatDateDisplay renders a parsed transaction date as DD.MM.YYYY, or
// "-" when there is none.
func FormatDateDisplay(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02.01.2006")
}
