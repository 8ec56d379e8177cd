package parser

import (
	"testing"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

func TestExtract(t *testing.T) {
	p := New()

	tests := []struct {
		name    string
		content models.PageContent
		want    int
	}{
		{
			name: "table content",
			content: models.TableContent{Rows: [][]string{
				{"DIA", "CONCEPTO", "CARGOS", "ABONOS"},
				{"05", "PAGO LUZ", "300.00", ""},
				{"06", "DEPOSITO", "", "1,000.00"},
			}},
			want: 2,
		},
		{
			name: "text content",
			content: models.TextContent{Lines: []string{
				"DIA CONCEPTO CARGOS ABONOS SALDO",
				"05 PAGO LUZ 300.00 9,700.00",
			}},
			want: 1,
		},
		{
			name:    "empty table",
			content: models.TableContent{},
			want:    0,
		},
		{
			name:    "nil content",
			content: nil,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Extract(tt.content, january2024)
			if len(got) != tt.want {
				t.Errorf("got %d transactions, want %d", len(got), tt.want)
			}
		})
	}
}

func TestNew(t *testing.T) {
	p := New()
	if p.BankName() != "Banregio" {
		t.Errorf("got %q, want %q", p.BankName(), "Banregio")
	}

	var _ Extractor = p
}

func TestNewWithClassifiers(t *testing.T) {
	// text rules on table rows: commissions become Bancarios instead of Comisiones
	p := NewWithClassifiers(TextClassifier, TextClassifier)
	rows := [][]string{
		{"DIA", "CONCEPTO", "CARGOS"},
		{"03", "COMISION ANUALIDAD", "150.00"},
	}

	got := p.ExtractTable(rows, january2024)
	if len(got) != 1 {
		t.Fatalf("got %d transactions, want 1", len(got))
	}
	if got[0].Category != models.CategoryBanking {
		t.Errorf("got %q, want %q", got[0].Category, models.CategoryBanking)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a\nb", []string{"a", "b"}},
		{"a\r\nb\r\n", []string{"a", "b", ""}},
		{"", []string{""}},
	}

	for _, tt := range tests {
		got := SplitLines(tt.input)
		if len(got) != len(tt.want) {
			t.Fatalf("SplitLines(%q) = %q, want %q", tt.input, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitLines(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}
