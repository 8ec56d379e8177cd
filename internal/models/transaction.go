package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO-8601 calendar date used on the wire.
const DateLayout = "2006-01-02"

// TransactionType is the direction of a movement.
type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// Category is a label from the closed category set.
type Category string

const (
	CategoryTransfers   Category = "Transferencias"
	CategoryPayments    Category = "Pagos"
	CategoryDeposits    Category = "Depositos"
	CategoryWithdrawals Category = "Retiros"
	CategoryFees        Category = "Comisiones"
	CategoryBanking     Category = "Bancarios"
	CategoryExpenses    Category = "Gastos"
	CategoryIncome      Category = "Ingresos"
	CategoryOther       Category = "Otros"
)

// Categories lists every valid category label.
var Categories = []Category{
	CategoryTransfers,
	CategoryPayments,
	CategoryDeposits,
	CategoryWithdrawals,
	CategoryFees,
	CategoryBanking,
	CategoryExpenses,
	CategoryIncome,
	CategoryOther,
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Transaction represents a single normalized bank statement movement.
// Amount is negative for debits and positive for credits.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Type        TransactionType
	Category    Category
}

// Key returns the uniqueness key: two transactions with the same key are
// the same event.
func (t Transaction) Key() string {
	return t.Date.Format(DateLayout) + "|" + t.Description + "|" + t.Amount.StringFixed(2)
}

type transactionJSON struct {
	Date        string          `json:"transaction_date"`
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	Type        TransactionType `json:"transaction_type"`
	Category    Category        `json:"category"`
}

// MarshalJSON writes the date as YYYY-MM-DD and the amount as a number
// with two decimals.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(transactionJSON{
		Date:        t.Date.Format(DateLayout),
		Description: t.Description,
		Amount:      json.RawMessage(t.Amount.StringFixed(2)),
		Type:        t.Type,
		Category:    t.Category,
	})
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var raw transactionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := time.Parse(DateLayout, raw.Date)
	if err != nil {
		return fmt.Errorf("invalid transaction_date %q: %w", raw.Date, err)
	}
	var amount decimal.Decimal
	if len(raw.Amount) > 0 {
		if err := amount.UnmarshalJSON(raw.Amount); err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}
	}
	*t = Transaction{
		Date:        date,
		Description: raw.Description,
		Amount:      amount,
		Type:        raw.Type,
		Category:    raw.Category,
	}
	return nil
}
