package parser

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

var january2024 = models.StatementPeriod{Month: 1, Year: 2024, MonthName: "enero"}

func TestExtractTable_DebitRow(t *testing.T) {
	rows := [][]string{
		{"DIA", "CONCEPTO", "CARGOS", "ABONOS"},
		{"05", "SPEI - PAGO SERVICIOS", "1,500.00", ""},
	}

	txns := New().ExtractTable(rows, january2024)
	require.Len(t, txns, 1)

	txn := txns[0]
	assert.Equal(t, "2024-01-05", txn.Date.Format(models.DateLayout))
	assert.Equal(t, "SPEI - PAGO SERVICIOS", txn.Description)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("-1500.00")), txn.Amount.String())
	assert.Equal(t, models.Debit, txn.Type)
	assert.Equal(t, models.CategoryTransfers, txn.Category)
}

func TestExtractTable_ColumnsDecideDirection(t *testing.T) {
	rows := [][]string{
		{"DIA", "CONCEPTO", "CARGOS", "ABONOS", "SALDO"},
		// "pago" would classify as a debit; the credit column wins
		{"06", "PAGO RECIBIDO CLIENTE", "", "12,000.00", "25,000.00"},
		{"07", "COMPRA SUPERMERCADO", "850.50", "", "24,149.50"},
		{"08", "ABONO NOMINA", "0.00", "9,000.00", "33,149.50"},
	}

	txns := New().ExtractTable(rows, january2024)
	require.Len(t, txns, 3)

	assert.Equal(t, models.Credit, txns[0].Type)
	assert.True(t, txns[0].Amount.Equal(decimal.NewFromInt(12000)))
	assert.Equal(t, models.CategoryPayments, txns[0].Category)

	assert.Equal(t, models.Debit, txns[1].Type)
	assert.True(t, txns[1].Amount.Equal(decimal.RequireFromString("-850.50")))
	assert.Equal(t, models.CategoryExpenses, txns[1].Category)

	assert.Equal(t, models.Credit, txns[2].Type)
	assert.Equal(t, models.CategoryIncome, txns[2].Category)
}

func TestExtractTable_SkipsUnusableRows(t *testing.T) {
	rows := [][]string{
		{"ESTADO DE CUENTA", "", "", ""},
		{"DIA", "CONCEPTO", "CARGOS", "ABONOS"},
		{"", "SALDO ANTERIOR", "", "1,000.00"},
		{"09", "", "100.00", ""},
		{"10", "SIN MOVIMIENTO", "", ""},
		{"11", "REFERENCIA", "abc", "-"},
		{"TOTAL", "", "5,000.00", "6,000.00"},
		{"12", "RETIRO CAJERO", "500.00"},
	}

	txns := New().ExtractTable(rows, january2024)
	require.Len(t, txns, 1)
	assert.Equal(t, "RETIRO CAJERO", txns[0].Description)
	assert.Equal(t, models.CategoryWithdrawals, txns[0].Category)
	assert.Equal(t, 12, txns[0].Date.Day())
}

func TestExtractTable_NotATransactionTable(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
	}{
		{"empty", nil},
		{"no header", [][]string{{"RESUMEN", "IMPORTE"}, {"Saldo", "1,000.00"}}},
		{"no amount columns", [][]string{{"DIA", "CONCEPTO", "SALDO"}, {"01", "PAGO", "1,000.00"}}},
		{"no description column", [][]string{{"FECHA", "CARGOS", "ABONOS"}, {"01", "10.00", ""}}},
		{"no day column", [][]string{{"CONCEPTO", "CARGOS"}, {"PAGO", "10.00"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, New().ExtractTable(tt.rows, january2024))
		})
	}
}

func TestExtractTable_DateFallbacks(t *testing.T) {
	now := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	fixClock(t, now)

	rows := [][]string{
		{"DIA", "CONCEPTO", "CARGOS", "ABONOS"},
		{"45", "PAGO LUZ", "300.00", ""},
		{"29", "PAGO AGUA", "200.00", ""},
	}

	jan := New().ExtractTable(rows, january2024)
	require.Len(t, jan, 2)
	assert.Equal(t, "2024-01-31", jan[0].Date.Format(models.DateLayout))

	feb := New().ExtractTable(rows, models.StatementPeriod{Month: 2, Year: 2024, MonthName: "febrero"})
	require.Len(t, feb, 2)
	assert.True(t, feb[0].Date.Equal(now), "Feb 31 does not exist")
	assert.Equal(t, "2024-02-29", feb[1].Date.Format(models.DateLayout))
}

func TestNewColumnMap(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   ColumnMap
	}{
		{
			name:   "canonical",
			header: []string{"DIA", "CONCEPTO", "CARGOS", "ABONOS", "SALDO"},
			want:   ColumnMap{Day: 0, Description: 1, Charge: 2, Credit: 3},
		},
		{
			name:   "accents and synonyms",
			header: []string{"Fecha", "Descripción", "Retiros", "Depósitos"},
			want:   ColumnMap{Day: 0, Description: 1, Charge: 2, Credit: 3},
		},
		{
			name:   "letter spaced",
			header: []string{"D I A", "C O N C E P T O", "C A R G O S", "A B O N O S"},
			want:   ColumnMap{Day: 0, Description: 1, Charge: 2, Credit: 3},
		},
		{
			name:   "fuzzy punctuation",
			header: []string{"DIA", "CONCEPTO", "CARG.OS", "ABON-OS"},
			want:   ColumnMap{Day: 0, Description: 1, Charge: 2, Credit: 3},
		},
		{
			name:   "reordered with blanks",
			header: []string{"", "ABONOS", "CARGOS", "CONCEPTO", "DIA"},
			want:   ColumnMap{Day: 4, Description: 3, Charge: 2, Credit: 1},
		},
		{
			name:   "charges only",
			header: []string{"DIA", "CONCEPTO", "CARGOS"},
			want:   ColumnMap{Day: 0, Description: 1, Charge: 2, Credit: -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewColumnMap(tt.header)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Usable())
		})
	}
}

func TestColumnMap_Usable(t *testing.T) {
	assert.False(t, ColumnMap{Day: 0, Description: -1, Charge: 1, Credit: 2}.Usable())
	assert.False(t, ColumnMap{Day: 0, Description: 1, Charge: -1, Credit: -1}.Usable())
	assert.True(t, ColumnMap{Day: -1, Description: 1, Charge: -1, Credit: 2}.Usable())
}
