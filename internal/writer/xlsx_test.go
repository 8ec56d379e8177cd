package writer

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

func TestXLSXWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&XLSXWriter{}).Write(&buf, sampleResult()))

	f, err := excelize.OpenReader(&buf, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Fecha", "Descripción", "Monto", "Tipo", "Categoría"}, rows[0])
	assert.Equal(t, "2024-01-05", rows[1][0])
	assert.Equal(t, "SPEI - PAGO SERVICIOS", rows[1][1])
	assert.Equal(t, "debit", rows[1][3])
	assert.Equal(t, "Depositos", rows[2][4])

	amount, err := strconv.ParseFloat(rows[1][2], 64)
	require.NoError(t, err, "amounts are numeric cells")
	assert.InDelta(t, -1500.0, amount, 0.001)

	cellType, err := f.GetCellType(SheetName, "C3")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
	assert.NotEqual(t, excelize.CellTypeInlineString, cellType)
}

func TestXLSXWriter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&XLSXWriter{}).Write(&buf, &models.Result{Success: true}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
