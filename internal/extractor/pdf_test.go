package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/bank-statement-processor/internal/models"
)

const statementText = `BANREGIO
ESTADO DE CUENTA
Periodo del 01 al 31 de ENERO 2024
DIA CONCEPTO CARGOS ABONOS SALDO
05 PAGO LUZ 300.00 9,700.00`

func TestIsReadableText(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  bool
	}{
		{"spanish statement", []string{statementText}, true},
		{"accented spanish", []string{"Depósito en efectivo, número de cuenta 0012345678, Saldo mínimo requerido"}, true},
		{"split across pages", []string{"ESTADO DE CUENTA  CLABE 058 0001 2345 6789", "SALDO ANTERIOR 1,000.00 al corte"}, true},
		{"too short", []string{"SALDO 1,000.00"}, false},
		{"empty", nil, false},
		{"garbage glyphs", []string{strings.Repeat("ÿþ\u0081\u0082ÞßðñòÆ", 10)}, false},
		{"no statement vocabulary", []string{strings.Repeat("lorem ipsum dolor sit amet ", 4)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReadableText(tt.pages); got != tt.want {
				t.Errorf("IsReadableText() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTextQuality(t *testing.T) {
	assert.InDelta(t, 1.0, textQuality([]string{"Depósito ¿válido? $1,000.00"}), 0.0001)
	assert.InDelta(t, 0.5, textQuality([]string{"ab\u0081\u0082"}), 0.0001)
	assert.Zero(t, textQuality(nil))
}

func TestParsePageCount(t *testing.T) {
	info := "Title:          Estado de cuenta\nProducer:       iText\nPages:          3\nEncrypted:      no\n"
	assert.Equal(t, 3, parsePageCount(info))
	assert.Equal(t, 1, parsePageCount("Pages: zero"))
	assert.Equal(t, 1, parsePageCount(""))
}

func TestPages_Unreadable(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("this is a plain text file, not a statement")},
		{"truncated pdf", []byte("%PDF-1.7\n1 0 obj\n<< /Type /Catalog >>\n")},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := e.Pages(tt.data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnreadable)
			assert.Nil(t, pages)
		})
	}
}

func TestTextPages(t *testing.T) {
	pages := textPages([]string{"uno", "dos"})
	assert.Equal(t, []models.Page{{Number: 1, Text: "uno"}, {Number: 2, Text: "dos"}}, pages)
	assert.Equal(t, []string{"uno", "dos"}, pageTexts(pages))
}
