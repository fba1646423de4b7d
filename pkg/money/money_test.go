package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     string
		negative bool
	}{
		{name: "plain", raw: "450.00", want: "450"},
		{name: "rupee symbol", raw: "₹450.00", want: "450"},
		{name: "rs prefix", raw: "Rs. 1,234.56", want: "1234.56"},
		{name: "inr prefix", raw: "INR 75000.00", want: "75000"},
		{name: "indian grouping", raw: "1,50,000.00", want: "150000"},
		{name: "negative sign", raw: "-500.00", want: "500", negative: true},
		{name: "parentheses", raw: "(250.75)", want: "250.75", negative: true},
		{name: "plus prefix", raw: "+99.99", want: "99.99"},
		{name: "dr suffix", raw: "1,200.00 DR", want: "1200", negative: true},
		{name: "cr suffix", raw: "1,200.00 CR", want: "1200"},
		{name: "internal spaces", raw: "₹ 2 500.00", want: "2500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.True(t, got.Value.Equal(decimal.RequireFromString(tt.want)),
				"want %s, got %s", tt.want, got.Value)
			assert.Equal(t, tt.negative, got.Negative)
		})
	}

	t.Run("rejects non-numeric", func(t *testing.T) {
		_, err := Parse("N/A")
		assert.Error(t, err)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := Parse("   ")
		assert.Error(t, err)
	})
}

func TestParsePositive(t *testing.T) {
	t.Run("discards leading minus", func(t *testing.T) {
		got, err := ParsePositive("-1,000.00")
		require.NoError(t, err)
		assert.False(t, got.Negative)
		assert.True(t, got.Value.Equal(decimal.NewFromInt(1000)))
	})

	t.Run("discards accounting parentheses", func(t *testing.T) {
		got, err := ParsePositive("(450.00)")
		require.NoError(t, err)
		assert.False(t, got.Negative)
		assert.True(t, got.Value.Equal(decimal.NewFromInt(450)))
	})

	t.Run("rejects zero", func(t *testing.T) {
		_, err := ParsePositive("0.00")
		assert.Error(t, err)
	})
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "₹1,234.56", FormatINR(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "₹450.00", FormatINR(decimal.NewFromInt(450)))
}
