// Package core holds the domain types and the pure fee/report logic.
//
// Amounts are whole kyats carried as int64. User-typed values arrive with
// display formatting (thousands separators) and are normalized here before
// any comparison or persistence.
package core

import (
	"strconv"
	"strings"
)

// ParseAmount converts a user-typed amount string to whole kyats.
//
// Thousands separators (commas) and surrounding whitespace are stripped.
// The result must be a strictly positive integer; signs, decimals and any
// other character fail with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("10,000") -> 10000, nil
//	ParseAmount(" 500 ")  -> 500, nil
//	ParseAmount("0")      -> 0, ErrInvalidAmount
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, ErrInvalidAmount
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v <= 0 {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// FormatAmount renders whole kyats with thousands separators for documents.
func FormatAmount(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	if len(s) > 3 {
		var b strings.Builder
		lead := len(s) % 3
		if lead > 0 {
			b.WriteString(s[:lead])
		}
		for i := lead; i < len(s); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(s[i : i+3])
		}
		s = b.String()
	}
	if neg {
		return "-" + s
	}
	return s
}
