package normalizer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
	"github.com/paisaflow/statement-parser/pkg/money"
)

// amountRule is one named debit/credit disambiguation heuristic. Rules run in
// a fixed priority order and the first one that resolves wins; naming them
// keeps every ambiguous outcome traceable to a specific rule.
type amountRule struct {
	name  string
	apply func(rec statement.RawRecord) (decimal.Decimal, statement.TransactionType, bool)
}

var amountRules = []amountRule{
	{"credit-column", creditColumnRule},
	{"debit-column", debitColumnRule},
	{"typed-amount", typedAmountRule},
	{"signed-amount", signedAmountRule},
	{"unlabeled-columns", unlabeledColumnsRule},
}

// resolveAmount runs the heuristic chain. Balance columns never participate.
func resolveAmount(rec statement.RawRecord) (decimal.Decimal, statement.TransactionType, error) {
	for _, rule := range amountRules {
		if amt, txType, ok := rule.apply(rec); ok {
			return amt, txType, nil
		}
	}
	return decimal.Zero, "", fmt.Errorf("no positive amount")
}

// creditColumnRule: a non-zero value under an explicit credit/deposit label is
// a credit, full stop. Checked before debit to mirror statement layouts where
// both columns exist and exactly one is filled.
func creditColumnRule(rec statement.RawRecord) (decimal.Decimal, statement.TransactionType, bool) {
	raw, ok := rec.Get(creditLabels...)
	if !ok {
		return decimal.Zero, "", false
	}
	a, err := money.ParsePositive(raw)
	if err != nil {
		return decimal.Zero, "", false
	}
	return a.Value, statement.Credit, true
}

// debitColumnRule: same for explicit debit/withdrawal labels.
func debitColumnRule(rec statement.RawRecord) (decimal.Decimal, statement.TransactionType, bool) {
	raw, ok := rec.Get(debitLabels...)
	if !ok {
		return decimal.Zero, "", false
	}
	a, err := money.ParsePositive(raw)
	if err != nil {
		return decimal.Zero, "", false
	}
	return a.Value, statement.Debit, true
}

// typedAmountRule: an amount column paired with an explicit type column
// ("credit"/"debit"/"CR"/"DR").
func typedAmountRule(rec statement.RawRecord) (decimal.Decimal, statement.TransactionType, bool) {
	rawAmt, ok := rec.Get(amountLabels...)
	if !ok {
		return decimal.Zero, "", false
	}
	rawType, ok := rec.Get(typeLabels...)
	if !ok {
		return decimal.Zero, "", false
	}
	txType, ok := statement.ParseTransactionType(rawType)
	if !ok {
		return decimal.Zero, "", false
	}
	a, err := money.ParsePositive(rawAmt)
	if err != nil {
		return decimal.Zero, "", false
	}
	return a.Value, txType, true
}

// signedAmountRule: a single amount column with sign markers. Leading "-"
// (or parentheses) means debit, "+" means credit, unmarked defaults to debit.
// This is a documented heuristic, not a guarantee.
func signedAmountRule(rec statement.RawRecord) (decimal.Decimal, statement.TransactionType, bool) {
	raw, ok := rec.Get(amountLabels...)
	if !ok {
		return decimal.Zero, "", false
	}
	a, err := money.Parse(raw)
	if err != nil || !a.Value.IsPositive() {
		return decimal.Zero, "", false
	}
	if a.Negative {
		return a.Value, statement.Debit, true
	}
	if strings.HasPrefix(strings.TrimSpace(raw), "+") {
		return a.Value, statement.Credit, true
	}
	return a.Value, statement.Debit, true
}

// unlabeledColumnsRule handles headerless rows (common after OCR): collect
// amount-looking cells, honoring sign markers, defaulting to debit. A cell
// only counts as amount-looking when it carries a currency symbol, separator
// or decimal point, since bare integers are usually reference numbers.
func unlabeledColumnsRule(rec statement.RawRecord) (decimal.Decimal, statement.TransactionType, bool) {
	for _, col := range rec.Columns {
		if labelMatches(col.Label, balanceLabels) || labelMatches(col.Label, dateLabels) {
			continue
		}
		v := strings.TrimSpace(col.Value)
		if !looksLikeAmount(v) {
			continue
		}
		a, err := money.Parse(v)
		if err != nil || !a.Value.IsPositive() {
			continue
		}
		txType := statement.Debit
		if a.Negative {
			txType = statement.Debit
		} else if strings.HasPrefix(v, "+") {
			txType = statement.Credit
		}
		return a.Value, txType, true
	}
	return decimal.Zero, "", false
}

func labelMatches(label string, wants []string) bool {
	l := strings.ToLower(label)
	if l == "" {
		return false
	}
	for _, w := range wants {
		if strings.Contains(l, w) {
			return true
		}
	}
	return false
}

// looksLikeAmount requires some monetary marker so reference numbers and
// years do not get promoted to amounts.
func looksLikeAmount(v string) bool {
	if v == "" {
		return false
	}
	if strings.ContainsAny(v, "₹$€£") || strings.Contains(v, "Rs") || strings.Contains(v, "INR") {
		return true
	}
	return strings.Contains(v, ".") || strings.Contains(v, ",")
}
