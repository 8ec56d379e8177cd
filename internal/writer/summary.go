package writer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

// Currency of Banregio statements.
const Currency = money.MXN

// Summary totals a statement's transactions.
type Summary struct {
	Count   int
	Debits  decimal.Decimal
	Credits decimal.Decimal
}

// Summarize totals result's transactions. Failed results summarize to zero.
func Summarize(result *models.Result) Summary {
	var s Summary
	if result == nil || !result.Success {
		return s
	}
	for _, txn := range result.Transactions {
		s.Count++
		if txn.Amount.IsNegative() {
			s.Debits = s.Debits.Add(txn.Amount)
		} else {
			s.Credits = s.Credits.Add(txn.Amount)
		}
	}
	return s
}

// Net returns credits plus debits.
func (s Summary) Net() decimal.Decimal {
	return s.Credits.Add(s.Debits)
}

// Display formats amount in the statement currency, e.g. "-$1,500.00".
func Display(amount decimal.Decimal) string {
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, Currency).Display()
}
