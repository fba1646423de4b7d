package extractor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
)

type stubDocExtractor struct {
	entries []AITransaction
	err     error
	calls   int
}

func (s *stubDocExtractor) Extract(ctx context.Context, text string) ([]AITransaction, error) {
	s.calls++
	return s.entries, s.err
}

func TestAIExtractor_Extract(t *testing.T) {
	t.Run("valid entries become labeled records", func(t *testing.T) {
		stub := &stubDocExtractor{entries: []AITransaction{
			{Date: "2024-02-10", Description: "UPI-SWIGGY-FOOD ORDER", Amount: "450.00", Type: "debit", Category: "food_dining"},
			{Date: "2024-02-11", Description: "SALARY", Amount: "75000", Type: "credit"},
		}}
		e := NewAIExtractor(stub)
		p := &ParseContext{Text: "some statement text"}

		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, recs, 2)

		assert.Equal(t, statement.StrategyAI, recs[0].Strategy)
		assert.Equal(t, "food_dining", getColumn(t, recs[0], "category"))
		assert.Equal(t, "debit", getColumn(t, recs[0], "type"))

		_, hasCategory := recs[1].Get("category")
		assert.False(t, hasCategory, "missing category must stay unset for the categorizer")
	})

	t.Run("invalid entries are rejected individually", func(t *testing.T) {
		stub := &stubDocExtractor{entries: []AITransaction{
			{Date: "10/02/2024", Description: "bad date format", Amount: "450.00", Type: "debit"},
			{Date: "2024-02-10", Description: "zero amount", Amount: "0", Type: "debit"},
			{Date: "2024-02-10", Description: "bad type", Amount: "450.00", Type: "transfer"},
			{Date: "2024-02-10", Description: "good", Amount: "450.00", Type: "debit"},
		}}
		e := NewAIExtractor(stub)
		p := &ParseContext{Text: "text"}

		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "good", getColumn(t, recs[0], "description"))
		assert.Len(t, p.Warnings(), 3)
	})

	t.Run("extractor failure degrades to zero records with a warning", func(t *testing.T) {
		stub := &stubDocExtractor{err: errors.New("quota exceeded")}
		e := NewAIExtractor(stub)
		p := &ParseContext{Text: "text"}

		recs, err := e.Extract(context.Background(), p)
		require.NoError(t, err)
		assert.Empty(t, recs)
		require.Len(t, p.Warnings(), 1)
		assert.Contains(t, p.Warnings()[0], "quota exceeded")
	})

	t.Run("unknown advisory category is dropped", func(t *testing.T) {
		stub := &stubDocExtractor{entries: []AITransaction{
			{Date: "2024-02-10", Description: "X", Amount: "10.00", Type: "debit", Category: "streaming"},
		}}
		e := NewAIExtractor(stub)
		recs, err := e.Extract(context.Background(), &ParseContext{Text: "t"})
		require.NoError(t, err)
		require.Len(t, recs, 1)
		_, hasCategory := recs[0].Get("category")
		assert.False(t, hasCategory)
	})

	t.Run("applies only with text and a configured extractor", func(t *testing.T) {
		assert.False(t, NewAIExtractor(nil).Applies(&ParseContext{Text: "t"}))
		assert.False(t, NewAIExtractor(&stubDocExtractor{}).Applies(&ParseContext{}))
		assert.True(t, NewAIExtractor(&stubDocExtractor{}).Applies(&ParseContext{Text: "t"}))
	})
}
