package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// Writer serializes a processing result.
type Writer interface {
	Write(out io.Writer, result *models.Result) error
}

// JSONWriter writes the result exactly as the HTTP API returns it.
type JSONWriter struct{}

func (w *JSONWriter) Write(out io.Writer, result *models.Result) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

// ForFormat returns the writer for format. includeHeader only affects CSV.
func ForFormat(format string, includeHeader bool) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return &CSVWriter{IncludeHeader: includeHeader}, nil
	case FormatXLSX:
		return &XLSXWriter{}, nil
	case FormatJSON:
		return &JSONWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use csv, xlsx or json)", format)
	}
}

// Extension returns the file extension for format, including the dot.
func Extension(format string) string {
	return "." + strings.ToLower(format)
}

// WriteToFile writes result to a file at the given path.
func WriteToFile(w Writer, path string, result *models.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := w.Write(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
