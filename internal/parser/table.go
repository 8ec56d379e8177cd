package parser

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

// Header detection markers: a row is the header when one of its cells
// mentions the day/date or the concept/description column.
var headerMarkers = []string{"dia", "fecha", "concepto", "descripcion"}

// Canonical column names, already folded.
var (
	dayColumnNames         = []string{"dia", "fecha"}
	descriptionColumnNames = []string{"concepto", "descripcion", "detalle"}
	chargeColumnNames      = []string{"cargos", "cargo", "retiros", "debitos"}
	creditColumnNames      = []string{"abonos", "abono", "depositos", "creditos"}
)

const (
	// maxHeaderDistance bounds fuzzy header matches.
	maxHeaderDistance = 2
	// minFuzzyNameLen keeps short names like "dia" out of fuzzy matching.
	minFuzzyNameLen = 4
)

// ColumnMap holds the positions of the named columns of a transaction
// table. Unresolved columns are -1.
type ColumnMap struct {
	Day         int
	Description int
	Charge      int
	Credit      int
}

// Usable reports whether rows can be read with this map: a description
// column plus at least one amount column are required.
func (m ColumnMap) Usable() bool {
	return m.Description >= 0 && (m.Charge >= 0 || m.Credit >= 0)
}

// NewColumnMap resolves column positions from a header row. Exact
// (substring) matches are tried first over all cells; fuzzy matches
// only fill columns still unresolved.
func NewColumnMap(header []string) ColumnMap {
	cols := ColumnMap{Day: -1, Description: -1, Charge: -1, Credit: -1}
	fields := []struct {
		idx   *int
		names []string
	}{
		{&cols.Day, dayColumnNames},
		{&cols.Description, descriptionColumnNames},
		{&cols.Charge, chargeColumnNames},
		{&cols.Credit, creditColumnNames},
	}

	compact := make([]string, len(header))
	for i, h := range header {
		compact[i] = strings.Join(strings.Fields(fold(h)), "")
	}
	taken := make([]bool, len(header))

	for _, matches := range []func(string, []string) bool{containsName, fuzzyName} {
		for i, c := range compact {
			if taken[i] || c == "" {
				continue
			}
			for _, f := range fields {
				if *f.idx < 0 && matches(c, f.names) {
					*f.idx = i
					taken[i] = true
					break
				}
			}
		}
	}
	return cols
}

func containsName(cell string, names []string) bool {
	for _, n := range names {
		if strings.Contains(cell, n) {
			return true
		}
	}
	return false
}

func fuzzyName(cell string, names []string) bool {
	for _, n := range names {
		if len(n) < minFuzzyNameLen {
			continue
		}
		if d := fuzzy.RankMatchNormalizedFold(n, cell); d >= 0 && d <= maxHeaderDistance {
			return true
		}
	}
	return false
}

// findHeaderRow returns the index of the first row that looks like a
// transaction table header, or -1.
func findHeaderRow(rows [][]string) int {
	for i, row := range rows {
		for _, c := range row {
			if containsName(fold(c), headerMarkers) {
				return i
			}
		}
	}
	return -1
}

// ExtractTable reads transactions from one table grid. The charge and
// credit columns decide the direction; description keywords only pick
// the category.
func (p *StatementParser) ExtractTable(rows [][]string, period models.StatementPeriod) []models.Transaction {
	header := findHeaderRow(rows)
	if header < 0 {
		return nil
	}
	cols := NewColumnMap(rows[header])
	if !cols.Usable() || cols.Day < 0 {
		return nil
	}

	var transactions []models.Transaction
	for _, row := range rows[header+1:] {
		day, ok := firstInteger(cell(row, cols.Day))
		if !ok {
			continue
		}
		description := collapseSpaces(cell(row, cols.Description))
		if description == "" {
			continue
		}

		charge := ParseAmount(cell(row, cols.Charge))
		credit := ParseAmount(cell(row, cols.Credit))
		if charge.IsZero() && credit.IsZero() {
			continue
		}

		txn := models.Transaction{
			Date:        materializeDate(day, period),
			Description: description,
		}
		if !charge.IsZero() {
			txn.Type = models.Debit
			txn.Amount = charge.Abs().Neg()
		} else {
			txn.Type = models.Credit
			txn.Amount = credit.Abs()
		}
		txn.Category = p.table.Category(description, txn.Type)

		transactions = append(transactions, txn)
	}
	return transactions
}
