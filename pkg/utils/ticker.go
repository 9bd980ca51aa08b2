package utils

import (
	"strings"
)

// NormalizeTicker upper-cases a user-supplied ticker and strips whitespace
// and a leading "$" (common in chat and spreadsheets).
func NormalizeTicker(ticker string) string {
	t := strings.TrimSpace(ticker)
	t = strings.TrimLeft(t, "$")
	return strings.ToUpper(strings.TrimSpace(t))
}

// NormalizeTickers normalises every entry, drops empties and duplicates,
// and keeps first-seen order.
func NormalizeTickers(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		t := NormalizeTicker(r)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// IsClassTicker reports whether ticker names a share class (BRK.B, BF.A).
func IsClassTicker(ticker string) bool {
	return strings.Contains(NormalizeTicker(ticker), ".")
}
