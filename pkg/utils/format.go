// Package utils provides formatting and ticker helpers shared by secdcf packages.
package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatUSD formats an amount as US dollars with thousands separators ($1,234,567.89).
func FormatUSD(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "—"
	}
	if amount < 0 {
		return "-$" + FormatNumber(-amount, 2)
	}
	return "$" + FormatNumber(amount, 2)
}

// FormatUSDCompact formats large dollar amounts with a K/M/B/T suffix.
// e.g., 1927345 → "$1.93M", 2.5e12 → "$2.5T"
func FormatUSDCompact(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "—"
	}
	prefix := "$"
	if amount < 0 {
		prefix = "-$"
		amount = -amount
	}

	switch {
	case amount >= 1e12:
		return prefix + formatWithDecimals(amount/1e12) + "T"
	case amount >= 1e9:
		return prefix + formatWithDecimals(amount/1e9) + "B"
	case amount >= 1e6:
		return prefix + formatWithDecimals(amount/1e6) + "M"
	case amount >= 1e3:
		return prefix + formatWithDecimals(amount/1e3) + "K"
	default:
		return fmt.Sprintf("%s%.2f", prefix, amount)
	}
}

// FormatPct formats a percentage value with sign and suffix.
// e.g., 2.45 → "+2.45%", -1.23 → "-1.23%"
func FormatPct(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatNumber formats n with comma thousands grouping and the given
// number of decimals.
func FormatNumber(n float64, decimals int) string {
	s := fmt.Sprintf("%.*f", decimals, n)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	return sign + groupThousands(intPart) + frac
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var sb strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		sb.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(digits[i : i+3])
	}
	return sb.String()
}

// formatWithDecimals formats a number with up to 2 decimal places,
// removing trailing zeros.
func formatWithDecimals(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
