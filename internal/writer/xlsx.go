package writer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

// SheetName is the worksheet holding one row per transaction.
const SheetName = "Movimientos"

var xlsxHeader = []interface{}{"Fecha", "Descripción", "Monto", "Tipo", "Categoría"}

const amountFormat = "#,##0.00;-#,##0.00"

// XLSXWriter writes transactions to an Excel workbook. Amounts are stored
// as numbers.
type XLSXWriter struct{}

// Write writes the workbook to out.
func (w *XLSXWriter) Write(out io.Writer, result *models.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("failed to write XLSX header: %w", err)
	}

	for i, txn := range result.Transactions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			txn.Date.Format(models.DateLayout),
			txn.Description,
			txn.Amount.InexactFloat64(),
			string(txn.Type),
			string(txn.Category),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write XLSX row %d: %w", i+2, err)
		}
	}

	if n := len(result.Transactions); n > 0 {
		format := amountFormat
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &format})
		if err != nil {
			return fmt.Errorf("failed to create amount style: %w", err)
		}
		if err := f.SetCellStyle(SheetName, "C2", fmt.Sprintf("C%d", n+1), style); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
	}
	if err := f.SetColWidth(SheetName, "B", "B", 60); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetName, "A", "A", 12); err != nil {
		return err
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}
