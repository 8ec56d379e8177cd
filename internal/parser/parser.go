package parser

import (
	"strings"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

// Extractor turns one unit of page content into transactions.
type Extractor interface {
	Extract(content models.PageContent, period models.StatementPeriod) []models.Transaction
}

// StatementParser reads Banregio-style statements: CARGOS/ABONOS tables
// when the PDF exposes them, and day-prefixed text lines otherwise.
type StatementParser struct {
	table *Classifier
	text  *Classifier
}

// New returns a parser using the default rule lists.
func New() *StatementParser {
	return &StatementParser{table: TableClassifier, text: TextClassifier}
}

// NewWithClassifiers returns a parser using custom rule lists for table
// rows and text lines.
func NewWithClassifiers(table, text *Classifier) *StatementParser {
	return &StatementParser{table: table, text: text}
}

// BankName returns the human-readable statement format name.
func (p *StatementParser) BankName() string {
	return "Banregio"
}

// Extract dispatches on the content variant.
func (p *StatementParser) Extract(content models.PageContent, period models.StatementPeriod) []models.Transaction {
	switch c := content.(type) {
	case models.TableContent:
		return p.ExtractTable(c.Rows, period)
	case models.TextContent:
		return p.ExtractText(c.Lines, period)
	default:
		return nil
	}
}

// SplitLines splits page text into lines, accepting \r\n endings.
func SplitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
