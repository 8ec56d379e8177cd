package parser

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

// Transaction section markers, compared after accent folding. They are
// case-sensitive: statement headers are upper case, and matching "Total"
// exactly keeps descriptions like "PAGO TOTALPLAY" inside the section.
var (
	sectionDayMarker     = "DIA"
	sectionConceptMarker = "CONCEPTO"
	sectionAmountMarkers = []string{"CARGOS", "ABONOS"}
	sectionEndMarkers    = []string{"Total", "Saldo Minimo", "Grafico"}
)

var (
	// "12 DEPOSITO EFECTIVO 2,000.00 15,300.00"
	dayLinePattern = regexp.MustCompile(`^(\d{1,2})\s+(.+)`)
	// 2,000.00 | 15300.00 | 0.50
	amountTokenPattern = regexp.MustCompile(`(?:\d{1,3}(?:,\d{3})+|\d+)\.\d{2}`)
)

func isSectionStart(line string) bool {
	line = foldAccents(line)
	if !strings.Contains(line, sectionDayMarker) || !strings.Contains(line, sectionConceptMarker) {
		return false
	}
	for _, m := range sectionAmountMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

func isSectionEnd(line string) bool {
	line = foldAccents(line)
	for _, m := range sectionEndMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// ExtractText scans the lines of one page. Transactions are read only
// between the section header line and the first totals line; nothing
// after the totals line is looked at.
func (p *StatementParser) ExtractText(lines []string, period models.StatementPeriod) []models.Transaction {
	var transactions []models.Transaction
	inSection := false

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if !inSection {
			if isSectionStart(line) {
				inSection = true
			}
			continue
		}

		if isSectionEnd(line) {
			break
		}

		if txn, ok := p.parseTextLine(line, period); ok {
			transactions = append(transactions, txn)
		}
	}
	return transactions
}

// parseTextLine reads "DD <description> <amount> <balance>". Lines that do
// not start with a day, or carry fewer than two amounts, are continuation
// text and are skipped.
func (p *StatementParser) parseTextLine(line string, period models.StatementPeriod) (models.Transaction, bool) {
	m := dayLinePattern.FindStringSubmatch(line)
	if m == nil {
		return models.Transaction{}, false
	}
	day, _ := firstInteger(m[1])
	content := m[2]

	amounts := amountTokenPattern.FindAllStringIndex(content, -1)
	if len(amounts) < 2 {
		return models.Transaction{}, false
	}
	// second-to-last is the movement, last is the running balance
	loc := amounts[len(amounts)-2]
	value := ParseAmount(content[loc[0]:loc[1]])
	if value.IsZero() {
		return models.Transaction{}, false
	}

	rawDescription := strings.TrimSpace(content[:loc[0]])
	if rawDescription == "" {
		return models.Transaction{}, false
	}

	direction, category := p.text.Classify(rawDescription)
	amount := value
	if direction == models.Debit {
		amount = amount.Neg()
	}

	return models.Transaction{
		Date:        materializeDate(day, period),
		Description: NormalizeDescription(rawDescription),
		Amount:      amount,
		Type:        direction,
		Category:    category,
	}, true
}
