package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_MarshalJSON(t *testing.T) {
	txn := Transaction{
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Description: "SPEI - PAGO SERVICIOS",
		Amount:      decimal.RequireFromString("-1500"),
		Type:        Debit,
		Category:    CategoryTransfers,
	}

	b, err := json.Marshal(txn)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"transaction_date": "2024-01-05",
		"description": "SPEI - PAGO SERVICIOS",
		"amount": -1500.00,
		"transaction_type": "debit",
		"category": "Transferencias"
	}`, string(b))
	assert.Contains(t, string(b), `"amount":-1500.00`)

	var back Transaction
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, txn.Key(), back.Key())
}

func TestTransaction_UnmarshalJSON_InvalidDate(t *testing.T) {
	var txn Transaction
	err := json.Unmarshal([]byte(`{"transaction_date":"05/01/2024","amount":1}`), &txn)
	assert.ErrorContains(t, err, "invalid transaction_date")
}

func TestTransaction_Key(t *testing.T) {
	day := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	a := Transaction{Date: day, Description: "DEPOSITO", Amount: decimal.RequireFromString("2000")}
	b := Transaction{Date: day.Add(13 * time.Hour), Description: "DEPOSITO", Amount: decimal.RequireFromString("2000.00"), Category: CategoryIncome}

	assert.Equal(t, "2024-03-12|DEPOSITO|2000.00", a.Key())
	assert.Equal(t, a.Key(), b.Key(), "time of day and category are not part of the key")
}

func TestCategory_Valid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, Category("Misc").Valid())
	assert.False(t, Category("").Valid())
}

func TestResult_JSON(t *testing.T) {
	r := Result{
		Success:      true,
		Transactions: []Transaction{},
		Metadata: Metadata{
			StatementPeriod:   StatementPeriod{Month: 1, Year: 2024, MonthName: "enero"},
			TotalTransactions: 0,
			ProcessingMethod:  MethodNone,
			Pages:             2,
		},
	}

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"success": true,
		"transactions": [],
		"metadata": {
			"statement_period": {"month": 1, "year": 2024, "month_name": "enero"},
			"total_transactions": 0,
			"processing_method": "none",
			"pages": 2
		}
	}`, string(b))
}
