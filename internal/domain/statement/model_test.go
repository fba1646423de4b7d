package statement

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransactionType(t *testing.T) {
	tests := []struct {
		raw  string
		want TransactionType
		ok   bool
	}{
		{"credit", Credit, true},
		{"CR", Credit, true},
		{"Deposit", Credit, true},
		{"debit", Debit, true},
		{"dr", Debit, true},
		{"WITHDRAWAL", Debit, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseTransactionType(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCategory(t *testing.T) {
	t.Run("every listed category round-trips", func(t *testing.T) {
		for _, c := range Categories() {
			got, ok := ParseCategory(string(c))
			require.True(t, ok, "category %q", c)
			assert.Equal(t, c, got)
		}
	})

	t.Run("plural others maps to other", func(t *testing.T) {
		got, ok := ParseCategory("Others")
		require.True(t, ok)
		assert.Equal(t, CategoryOther, got)
	})

	t.Run("open-set labels are rejected", func(t *testing.T) {
		_, ok := ParseCategory("streaming")
		assert.False(t, ok)
	})
}

func TestRawRecord_Get(t *testing.T) {
	rec := RawRecord{Columns: []Column{
		{Label: "Txn Date", Value: "01/02/2024"},
		{Label: "Withdrawal Amt", Value: "450.00"},
		{Label: "", Value: "unlabeled cell"},
		{Label: "Notes", Value: "  "},
	}}

	t.Run("substring label match is case-insensitive", func(t *testing.T) {
		v, ok := rec.Get("date")
		require.True(t, ok)
		assert.Equal(t, "01/02/2024", v)

		v, ok = rec.Get("withdrawal")
		require.True(t, ok)
		assert.Equal(t, "450.00", v)
	})

	t.Run("empty label selects unlabeled columns", func(t *testing.T) {
		v, ok := rec.Get("")
		require.True(t, ok)
		assert.Equal(t, "unlabeled cell", v)
	})

	t.Run("blank values never match", func(t *testing.T) {
		_, ok := rec.Get("notes")
		assert.False(t, ok)
	})

	t.Run("missing label", func(t *testing.T) {
		_, ok := rec.Get("balance")
		assert.False(t, ok)
	})
}

func TestCanonicalTransaction(t *testing.T) {
	tx := CanonicalTransaction{
		Amount: decimal.RequireFromString("1234.56"),
		Type:   Debit,
	}

	assert.Equal(t, "₹1,234.56", tx.DisplayAmount())
	assert.True(t, tx.Signed().Equal(decimal.RequireFromString("-1234.56")))

	tx.Type = Credit
	assert.True(t, tx.Signed().Equal(decimal.RequireFromString("1234.56")))
}

func TestTruncateDescription(t *testing.T) {
	t.Run("short strings pass through", func(t *testing.T) {
		assert.Equal(t, "UPI-SWIGGY", TruncateDescription("UPI-SWIGGY"))
	})

	t.Run("caps at the character limit", func(t *testing.T) {
		long := strings.Repeat("A", DescriptionLimit+50)
		got := TruncateDescription(long)
		assert.Len(t, got, DescriptionLimit)
	})

	t.Run("never splits a multibyte rune", func(t *testing.T) {
		desc := strings.Repeat("A", DescriptionLimit-1) + "₹500 REFUND"
		got := TruncateDescription(desc)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, DescriptionLimit, utf8.RuneCountInString(got))
		assert.True(t, strings.HasSuffix(got, "₹"))
	})
}

func TestParseReport_Empty(t *testing.T) {
	assert.True(t, (&ParseReport{}).Empty())
	assert.False(t, (&ParseReport{Transactions: []CanonicalTransaction{{}}}).Empty())
}
