package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	maxDescriptionLen      = 100
	maxRawDescriptionLen   = 50
	transferMarker         = "SPEI,"
	transferCountryToken   = "MEXICO"
	minTransferConceptSize = 4
)

var (
	// TRA (transfer) and INT (interbank) movement codes.
	typePrefixPattern = regexp.MustCompile(`^(TRA|INT)\s+`)
	// SPEI-ENVIADO, SPEI-RECIBIDO and similar protocol tags.
	protocolTagPattern = regexp.MustCompile(`SPEI-\w+\s*`)
	accountPattern     = regexp.MustCompile(`\d{13,}`)
	// Tracking keys such as 012-15/01/2024/15-001ABCD.
	referencePattern = regexp.MustCompile(`\d{3}-\d{2}/\d{2}/\d{4}/\d{2}-\d{3}\w+`)
	numberRunPattern = regexp.MustCompile(`\d{6,}`)
	digitsPattern    = regexp.MustCompile(`\d+`)
	onlyDigits       = regexp.MustCompile(`^\d+$`)
)

// NormalizeDescription turns a raw statement description into a short
// human-readable label. It never returns "" for non-blank input.
func NormalizeDescription(raw string) string {
	cleaned := typePrefixPattern.ReplaceAllString(raw, "")
	cleaned = protocolTagPattern.ReplaceAllString(cleaned, "")
	cleaned = accountPattern.ReplaceAllString(cleaned, "")
	cleaned = referencePattern.ReplaceAllString(cleaned, "")

	if strings.Contains(cleaned, transferMarker) {
		if desc, ok := describeTransfer(cleaned); ok {
			return truncate(desc, maxDescriptionLen)
		}
	}

	cleaned = collapseSpaces(cleaned)
	cleaned = strings.TrimSpace(numberRunPattern.ReplaceAllString(cleaned, ""))
	cleaned = collapseSpaces(cleaned)

	if cleaned == "" {
		return truncate(strings.TrimSpace(raw), maxRawDescriptionLen)
	}
	return truncate(cleaned, maxDescriptionLen)
}

// describeTransfer rebuilds a SPEI description from its comma-separated
// fields: ..., bank, ..., counterparty[, ..., concept].
func describeTransfer(s string) (string, bool) {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = collapseSpaces(parts[i])
	}
	if len(parts) < 4 {
		return "", false
	}

	bank := collapseSpaces(strings.ReplaceAll(parts[1], transferCountryToken, ""))
	counterparty := collapseSpaces(digitsPattern.ReplaceAllString(parts[3], ""))

	concept := ""
	if len(parts) > 4 {
		last := parts[len(parts)-1]
		if utf8.RuneCountInString(last) >= minTransferConceptSize && !onlyDigits.MatchString(last) {
			concept = last
		}
	}

	if concept != "" {
		return fmt.Sprintf("%s - %s (%s)", concept, counterparty, bank), true
	}
	return fmt.Sprintf("SPEI - %s (%s)", counterparty, bank), true
}
