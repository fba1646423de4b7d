// Package statement defines the canonical transaction model produced by the
// extraction pipeline, along with the raw intermediate records the strategies
// emit and the report returned to callers. All values here are built once per
// parse invocation and never mutated afterwards.
package statement

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paisaflow/statement-parser/pkg/money"
)

// TransactionType marks money direction on a canonical transaction.
type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// ParseTransactionType maps loose strings ("credit", "CR", "deposit") to a type.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "credit", "cr", "deposit":
		return Credit, true
	case "debit", "dr", "withdrawal":
		return Debit, true
	}
	return "", false
}

// Category is the closed set of semantic categories consumed downstream.
type Category string

const (
	CategoryFoodDining     Category = "food_dining"
	CategoryGroceries      Category = "groceries"
	CategoryFuel           Category = "fuel"
	CategoryUtilities      Category = "utilities"
	CategoryEntertainment  Category = "entertainment"
	CategoryTransportation Category = "transportation"
	CategoryShopping       Category = "shopping"
	CategoryMedical        Category = "medical"
	CategoryEducation      Category = "education"
	CategoryInvestment     Category = "investment"
	CategoryTransfer       Category = "transfer"
	CategorySalary         Category = "salary"
	CategoryBankCharges    Category = "bank_charges"
	CategoryCashWithdrawal Category = "cash_withdrawal"
	CategoryOther          Category = "other"
)

// Categories lists every valid category, in the order the categorizer
// evaluates them. CategoryOther is the fallback and always last.
func Categories() []Category {
	return []Category{
		CategoryFoodDining, CategoryGroceries, CategoryFuel, CategoryUtilities,
		CategoryEntertainment, CategoryTransportation, CategoryShopping,
		CategoryMedical, CategoryEducation, CategoryInvestment, CategoryTransfer,
		CategorySalary, CategoryBankCharges, CategoryCashWithdrawal, CategoryOther,
	}
}

// ParseCategory validates a loose category string against the closed set.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == "others" { // original data files use the plural form
		return CategoryOther, true
	}
	for _, known := range Categories() {
		if c == known {
			return known, true
		}
	}
	return "", false
}

// Strategy identifies which extraction technique produced a record.
type Strategy string

const (
	StrategyTable       Strategy = "table"
	StrategyLinePattern Strategy = "line_pattern"
	StrategyOCR         Strategy = "ocr"
	StrategyAI          Strategy = "ai"
)

// BankUnknown is the detected-bank value when no signature matched.
const BankUnknown = "Unknown"

// DescriptionLimit bounds canonical descriptions, counted in characters.
const DescriptionLimit = 200

// TruncateDescription caps s at DescriptionLimit characters, never splitting
// a multibyte rune.
func TruncateDescription(s string) string {
	if utf8.RuneCountInString(s) <= DescriptionLimit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:DescriptionLimit]))
}

// Column is one cell of a raw record: the header label it was found under
// (empty when the source had no usable header) and the cell text.
type Column struct {
	Label string
	Value string
}

// RawRecord is the loosely-typed row or line a strategy emits before
// normalization. Columns preserve source order.
type RawRecord struct {
	Columns  []Column
	Strategy Strategy
	Index    int // source line or row index, for diagnostics
}

// Get returns the first column whose label contains any of the given
// substrings (case-insensitive). The empty string matches unlabeled columns.
func (r RawRecord) Get(labels ...string) (string, bool) {
	for _, want := range labels {
		w := strings.ToLower(want)
		for _, c := range r.Columns {
			label := strings.ToLower(c.Label)
			if w == "" {
				if label == "" && strings.TrimSpace(c.Value) != "" {
					return c.Value, true
				}
				continue
			}
			if strings.Contains(label, w) && strings.TrimSpace(c.Value) != "" {
				return c.Value, true
			}
		}
	}
	return "", false
}

// CanonicalTransaction is the validated output record of the pipeline.
// Date is always resolvable, Amount strictly positive, Type always set.
type CanonicalTransaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    Category        `json:"category"`
	Bank        string          `json:"bank"`
	Provenance  Strategy        `json:"provenance"`
}

// DisplayAmount renders the amount in statement style, e.g. "₹1,234.56".
func (t CanonicalTransaction) DisplayAmount() string {
	return money.FormatINR(t.Amount)
}

// Signed returns the amount with debits negated, for net arithmetic.
func (t CanonicalTransaction) Signed() decimal.Decimal {
	if t.Type == Debit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// DateRange bounds the transactions in a summary.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CategoryTotal aggregates one category inside a summary.
type CategoryTotal struct {
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// Summary is the reduction over the canonical transaction list.
type Summary struct {
	TotalTransactions int                        `json:"total_transactions"`
	TotalCredits      decimal.Decimal            `json:"total_credits"`
	TotalDebits       decimal.Decimal            `json:"total_debits"`
	NetAmount         decimal.Decimal            `json:"net_amount"`
	DateRange         DateRange                  `json:"date_range"`
	CategoryBreakdown map[Category]CategoryTotal `json:"category_breakdown"`
	Banks             []string                   `json:"banks"`
}

// ParseReport wraps the result of a single parse invocation.
type ParseReport struct {
	ID           uuid.UUID              `json:"id"`
	Transactions []CanonicalTransaction `json:"transactions"`
	StrategyUsed Strategy               `json:"strategy_used,omitempty"`
	DetectedBank string                 `json:"detected_bank"`
	Summary      *Summary               `json:"summary,omitempty"`
	Warnings     []string               `json:"warnings,omitempty"`
}

// Empty reports whether no transactions survived extraction.
func (r *ParseReport) Empty() bool {
	return len(r.Transactions) == 0
}
