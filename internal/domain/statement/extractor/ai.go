package extractor

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
	"github.com/paisaflow/statement-parser/pkg/money"
)

// AITransaction is one entry as returned by a document extraction model.
// Amount is a json.Number because models emit it either way; everything is
// validated before use.
type AITransaction struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Category    string      `json:"category"`
}

// DocumentExtractor asks a model to pull transactions out of statement text.
type DocumentExtractor interface {
	Extract(ctx context.Context, text string) ([]AITransaction, error)
}

// AIExtractor is the last strategy in the chain. Model failures degrade to
// zero transactions with a warning rather than failing the parse.
type AIExtractor struct {
	extractor DocumentExtractor
}

func NewAIExtractor(extractor DocumentExtractor) *AIExtractor {
	return &AIExtractor{extractor: extractor}
}

func (e *AIExtractor) Name() statement.Strategy { return statement.StrategyAI }

func (e *AIExtractor) Applies(p *ParseContext) bool {
	return e.extractor != nil && p.Text != ""
}

func (e *AIExtractor) Extract(ctx context.Context, p *ParseContext) ([]statement.RawRecord, error) {
	entries, err := e.extractor.Extract(ctx, p.Text)
	if err != nil {
		p.AddWarning("ai extraction failed: %v", err)
		return nil, nil
	}

	var out []statement.RawRecord
	for i, entry := range entries {
		cols, ok := validateEntry(entry)
		if !ok {
			p.AddWarning("ai entry %d rejected", i)
			continue
		}
		out = append(out, statement.RawRecord{
			Columns:  cols,
			Strategy: statement.StrategyAI,
			Index:    i,
		})
	}
	return out, nil
}

// validateEntry enforces the response contract on a single model entry: a
// parseable date, a positive amount, and a known transaction type. Category
// is advisory; unknown categories are dropped so the keyword categorizer can
// assign one instead.
func validateEntry(entry AITransaction) ([]statement.Column, bool) {
	date := strings.TrimSpace(entry.Date)
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, false
	}

	amt, err := money.ParsePositive(entry.Amount.String())
	if err != nil || !amt.Value.IsPositive() {
		return nil, false
	}

	typ := strings.ToLower(strings.TrimSpace(entry.Type))
	if _, ok := statement.ParseTransactionType(typ); !ok {
		return nil, false
	}

	desc := strings.TrimSpace(entry.Description)
	if desc == "" {
		desc = "Unknown Transaction"
	}
	desc = statement.TruncateDescription(desc)

	cols := []statement.Column{
		{Label: "date", Value: date},
		{Label: "description", Value: desc},
		{Label: "amount", Value: amt.Value.String()},
		{Label: "type", Value: typ},
	}
	if cat, ok := statement.ParseCategory(entry.Category); ok {
		cols = append(cols, statement.Column{Label: "category", Value: string(cat)})
	}
	return cols, true
}
