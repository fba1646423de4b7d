package extractor

import (
	"context"
	"regexp"
	"strings"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
	"github.com/paisaflow/statement-parser/pkg/money"
)

var (
	// numericDateRe is tried before textualDateRe; a line only qualifies as
	// a transaction when one of them hits.
	numericDateRe = regexp.MustCompile(`\b\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\b|\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`)
	textualDateRe = regexp.MustCompile(`(?i)\b\d{1,2}[ -](?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*[ -]\d{2,4}\b|\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.? \d{1,2},? \d{4}\b`)

	// amountRe requires a monetary marker (currency token, a decimal point,
	// or digit grouping) so that bare integers such as years or reference
	// numbers never read as amounts.
	amountRe = regexp.MustCompile(`(?:₹|Rs\.?|INR|\$|€|£)\s*-?[\d,]+(?:\.\d{1,2})?|[+-]?\b\d{1,3}(?:,\d{2,3})+(?:\.\d{1,2})?\b|[+-]?\b\d+\.\d{1,2}\b`)

	creditKeywordRe = regexp.MustCompile(`(?i)\bCREDIT(?:ED)?\b|\bDEPOSIT\b|\bSALARY\b|\bREFUND\b|\bCASHBACK\b|INTEREST\s+CREDIT|NEFT\s+CR|IMPS\s+CR|RTGS\s+CR|UPI\s+CR|\bCR\b`)

	whitespaceRe = regexp.MustCompile(`\s+`)
)

// continuationLimit caps how long a dataless line can be and still count as
// wrapped narration belonging to the previous transaction.
const continuationLimit = 80

// LineExtractor mines transactions out of free-form text, one per line that
// carries both a date and a money-looking amount. Wrapped narration lines are
// folded into the preceding transaction's description.
type LineExtractor struct{}

func NewLineExtractor() *LineExtractor { return &LineExtractor{} }

func (e *LineExtractor) Name() statement.Strategy { return statement.StrategyLinePattern }

func (e *LineExtractor) Applies(p *ParseContext) bool { return p.Text != "" }

func (e *LineExtractor) Extract(_ context.Context, p *ParseContext) ([]statement.RawRecord, error) {
	return ScanLines(p.Text, statement.StrategyLinePattern), nil
}

// ScanLines is the shared line-mining pass; the OCR strategy reuses it with
// its own provenance tag.
func ScanLines(text string, strat statement.Strategy) []statement.RawRecord {
	var (
		out     []statement.RawRecord
		pending *statement.RawRecord
	)
	flush := func() {
		if pending != nil {
			out = append(out, *pending)
			pending = nil
		}
	}

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}

		date := findDateToken(line)
		if date == "" {
			// No date: either wrapped narration, or noise.
			if pending != nil && !amountRe.MatchString(line) && len(line) <= continuationLimit {
				appendNarration(pending, line)
			} else {
				flush()
			}
			continue
		}

		// Remove the date before scanning for amounts so its digits can
		// never be mistaken for money.
		rest := strings.Replace(line, date, " ", 1)
		amount := largestAmount(rest)
		if amount == "" {
			flush()
			continue
		}
		flush()

		// Every monetary token goes, not just the winner, so a trailing
		// balance figure never leaks into the description.
		desc := cleanDescription(amountRe.ReplaceAllString(rest, " "))
		typ := "debit"
		if creditKeywordRe.MatchString(line) {
			typ = "credit"
		}

		rec := statement.RawRecord{
			Columns: []statement.Column{
				{Label: "date", Value: date},
				{Label: "description", Value: desc},
				{Label: "amount", Value: amount},
				{Label: "type", Value: typ},
			},
			Strategy: strat,
			Index:    i,
		}
		pending = &rec
	}
	flush()
	return out
}

func findDateToken(line string) string {
	if m := numericDateRe.FindString(line); m != "" {
		return m
	}
	return textualDateRe.FindString(line)
}

// largestAmount returns the biggest monetary value on the line, cleaned for
// parsing. Statement lines often carry a running balance next to the
// transaction amount; taking the largest value mirrors how these statements
// order magnitudes in practice.
func largestAmount(line string) string {
	var (
		best  money.Amount
		found bool
	)
	for _, m := range amountRe.FindAllString(line, -1) {
		amt, err := money.Parse(m)
		if err != nil {
			continue
		}
		if !found || amt.Value.GreaterThan(best.Value) {
			best, found = amt, true
		}
	}
	if !found {
		return ""
	}
	return best.Value.String()
}

func appendNarration(rec *statement.RawRecord, line string) {
	for i := range rec.Columns {
		if rec.Columns[i].Label == "description" {
			rec.Columns[i].Value = trimToLimit(rec.Columns[i].Value + " " + line)
			return
		}
	}
}

func cleanDescription(s string) string {
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.Trim(s, " -–|:,")
	return trimToLimit(s)
}

func trimToLimit(s string) string {
	return statement.TruncateDescription(strings.TrimSpace(s))
}
