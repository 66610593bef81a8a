// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatCost formats an amount with digit grouping and at most two decimals,
// prefixed by the currency code when one is given.
// e.g., ("INR", 11000) -> "INR 11,000", ("", 1234.567) -> "1,234.57"
func FormatCost(currency string, v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	rounded := math.Round(v*100) / 100
	s := humanize.CommafWithDigits(rounded, 2)
	if currency == "" {
		return s
	}
	return currency + " " + s
}

// FormatCompact formats large amounts with SI suffixes for narrow columns.
// e.g., 1234567 -> "1.2M"
func FormatCompact(v float64) string {
	if math.Abs(v) < 1000 {
		return humanize.CommafWithDigits(math.Round(v), 0)
	}
	value, prefix := humanize.ComputeSI(v)
	return fmt.Sprintf("%.1f%s", value, strings.ToUpper(prefix))
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats the change from previous to current with a sign.
func FormatDelta(currency string, current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatCost(currency, delta)
	}
	return "-" + FormatCost(currency, -delta)
}

// FormatYearSpan formats the first and last year of a range.
// e.g., (2020, 2024) -> "2020-2024", (2020, 2020) -> "2020"
func FormatYearSpan(first, last int) string {
	if first == last {
		return fmt.Sprintf("%d", first)
	}
	return fmt.Sprintf("%d-%d", first, last)
}
