package parser

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1,234.56", "1234.56"},
		{"1234,56", "1234.56"},
		{"1,234", "1234"},
		{"", "0"},
		{"abc", "0"},
		{"25.99", "25.99"},
		{"$ 1,500.00", "1500"},
		{"-350.10", "350.1"},
		{"1,234,567.89", "1234567.89"},
		{"1,234,56", "1234.56"},
		{"12,5", "125"},
		{"1.234.56", "0"},
		{",", "0"},
		{".", "0"},
		{"0.00", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseAmount(tt.input)
			want := decimal.RequireFromString(tt.expected)
			assert.Truef(t, got.Equal(want), "ParseAmount(%q) = %s, want %s", tt.input, got, want)
		})
	}
}

func TestParseAmount_NeverNegative(t *testing.T) {
	for _, input := range []string{"-1", "(500.00)", "-1,000.00", "−25,50"} {
		assert.False(t, ParseAmount(input).IsNegative(), input)
	}
}
