package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

// clock is the source of "now" for period and date fallbacks.
var clock = time.Now

var (
	integerPattern    = regexp.MustCompile(`\d+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// foldAccents strips combining marks so "DÍA" compares equal to "DIA" and
// "Mínimo" to "Minimo". Case is preserved.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// fold lower-cases and strips accents.
func fold(s string) string {
	return strings.ToLower(foldAccents(s))
}

// collapseSpaces trims s and replaces every whitespace run with one space.
func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}

// firstInteger returns the first run of digits in s.
func firstInteger(s string) (int, bool) {
	m := integerPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// materializeDate builds the calendar date for a day of the statement
// period. Days above 31 are clamped to 31; any day that does not exist in
// the period's month yields the current timestamp.
func materializeDate(day int, period models.StatementPeriod) time.Time {
	if day > 31 {
		day = 31
	}
	if day < 1 || period.Month < 1 || period.Month > 12 {
		return clock()
	}
	t := time.Date(period.Year, time.Month(period.Month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != period.Month {
		return clock()
	}
	return t
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// cell returns row[idx], or "" when idx is unresolved or out of range.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
