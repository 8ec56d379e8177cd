package parser

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a raw amount token such as "1,234.56" or "1234,56"
// into a decimal. Anything other than digits, commas and periods is
// discarded, so the result is never negative. Malformed or empty input
// yields zero.
//
// Separator rules:
//   - comma and period present: commas are thousands separators ("1,234.56")
//   - only commas, two digits after the last one: that comma is the decimal
//     separator ("1234,56")
//   - otherwise commas are thousands separators ("1,234")
func ParseAmount(raw string) decimal.Decimal {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return decimal.Zero
	}

	hasComma := strings.Contains(cleaned, ",")
	hasPeriod := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasPeriod:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case hasComma:
		last := strings.LastIndex(cleaned, ",")
		if len(cleaned)-last-1 == 2 {
			cleaned = strings.ReplaceAll(cleaned[:last], ",", "") + "." + cleaned[last+1:]
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}

	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}
