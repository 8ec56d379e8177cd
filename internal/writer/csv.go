package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gocarina/gocsv"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

// CSVWriter writes transactions to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// csvRow is one transaction line. Column names match the JSON keys.
type csvRow struct {
	Date        string `csv:"transaction_date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Type        string `csv:"transaction_type"`
	Category    string `csv:"category"`
}

// Write writes transactions in CSV format to the given writer. With
// IncludeHeader, "# key,value" metadata rows precede the column headers.
func (w *CSVWriter) Write(out io.Writer, result *models.Result) error {
	if w.IncludeHeader {
		if err := writeMetadata(out, result); err != nil {
			return err
		}
	}

	rows := make([]*csvRow, 0, len(result.Transactions))
	for _, txn := range result.Transactions {
		rows = append(rows, &csvRow{
			Date:        txn.Date.Format(models.DateLayout),
			Description: txn.Description,
			Amount:      txn.Amount.StringFixed(2),
			Type:        string(txn.Type),
			Category:    string(txn.Category),
		})
	}
	if err := gocsv.Marshal(&rows, out); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

func writeMetadata(out io.Writer, result *models.Result) error {
	meta := result.Metadata
	cw := csv.NewWriter(out)

	var rows [][]string
	if meta.Filename != "" {
		rows = append(rows, []string{"# Filename", meta.Filename})
	}
	if meta.StatementPeriod.MonthName != "" {
		rows = append(rows, []string{"# Statement Period", fmt.Sprintf("%s %d", meta.StatementPeriod.MonthName, meta.StatementPeriod.Year)})
	}
	if meta.ProcessingMethod != "" {
		rows = append(rows, []string{"# Processing Method", string(meta.ProcessingMethod)})
	}
	rows = append(rows, []string{"# Total Transactions", strconv.Itoa(meta.TotalTransactions)})

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV metadata: %w", err)
	}
	return nil
}
