package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
)

func getColumn(t *testing.T, rec statement.RawRecord, label string) string {
	t.Helper()
	v, ok := rec.Get(label)
	require.True(t, ok, "record has no %q column", label)
	return v
}

func TestLineExtractor_Extract(t *testing.T) {
	e := NewLineExtractor()

	t.Run("upi line with rupee amount", func(t *testing.T) {
		p := &ParseContext{Text: "UPI-SWIGGY-FOOD ORDER ₹450.00 10/02/2024"}
		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, recs, 1)

		rec := recs[0]
		assert.Equal(t, statement.StrategyLinePattern, rec.Strategy)
		assert.Equal(t, "10/02/2024", getColumn(t, rec, "date"))
		// The year digits in the date must never be read as the amount.
		assert.Equal(t, "450", getColumn(t, rec, "amount"))
		assert.Equal(t, "debit", getColumn(t, rec, "type"))
		assert.Contains(t, getColumn(t, rec, "description"), "UPI-SWIGGY-FOOD ORDER")
	})

	t.Run("credit keywords flip the type", func(t *testing.T) {
		p := &ParseContext{Text: "01/03/2024 NEFT CR SALARY ACME CORP Rs. 75,000.00"}
		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "credit", getColumn(t, recs[0], "type"))
		assert.Equal(t, "75000", getColumn(t, recs[0], "amount"))
	})

	t.Run("largest value wins when a balance trails the amount", func(t *testing.T) {
		// Transaction 450.00 followed by running balance 12,550.00: the
		// documented heuristic keeps the larger figure.
		p := &ParseContext{Text: "10/02/2024 POS DMART 450.00 12,550.00"}
		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "12550", getColumn(t, recs[0], "amount"))

		// The losing figure is stripped too; neither amount belongs in
		// the description.
		desc := getColumn(t, recs[0], "description")
		assert.Equal(t, "POS DMART", desc)
	})

	t.Run("continuation line merges into the previous description", func(t *testing.T) {
		p := &ParseContext{Text: "10/02/2024 UPI-AMAZON PAY ₹1,299.00\nORDER 403-991 ELECTRONICS"}
		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, recs, 1)

		desc := getColumn(t, recs[0], "description")
		assert.Contains(t, desc, "UPI-AMAZON PAY")
		assert.Contains(t, desc, "ORDER 403-991 ELECTRONICS")
	})

	t.Run("textual dates", func(t *testing.T) {
		p := &ParseContext{Text: "10 Feb 2024 ATM WDL MG ROAD 2,000.00"}
		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "10 Feb 2024", getColumn(t, recs[0], "date"))
	})

	t.Run("lines without both date and amount are skipped", func(t *testing.T) {
		p := &ParseContext{Text: "Account Statement\nPeriod: 01/02/2024 to 29/02/2024\nPage 1 of 3"}
		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("bare integers are not amounts", func(t *testing.T) {
		p := &ParseContext{Text: "10/02/2024 CHEQUE 443321 CLEARED"}
		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

func TestLineExtractor_Applies(t *testing.T) {
	e := NewLineExtractor()
	assert.False(t, e.Applies(&ParseContext{}))
	assert.True(t, e.Applies(&ParseContext{Text: "x"}))
}
