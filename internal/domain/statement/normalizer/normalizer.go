// Package normalizer converts raw extracted rows and lines into canonical
// transactions. Everything ambiguous lives here: date formats, currency
// renderings, and the debit/credit disambiguation rules. A record that cannot
// produce a valid date, positive amount and type is dropped with a warning,
// never forwarded downstream half-filled.
package normalizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
	"github.com/paisaflow/statement-parser/pkg/money"
)

// dateFormats is the ordered ladder tried on every date cell. Numeric
// day-first forms come before month-first, textual month forms in between;
// the first successful parse wins.
var dateFormats = []string{
	"02/01/2006",
	"02-01-2006",
	"2006-01-02",
	"02 Jan 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"02/01/06",
	"02.01.2006",
	"2006/01/02",
	"01/02/2006",
}

// Column label synonym groups, matched by substring against header labels.
var (
	dateLabels    = []string{"txn date", "transaction date", "value date", "date"}
	descLabels    = []string{"description", "narration", "particulars", "details", "remarks", "memo", "merchant", "payee"}
	creditLabels  = []string{"credit", "deposit"}
	debitLabels   = []string{"debit", "withdrawal"}
	amountLabels  = []string{"amount", "value"}
	typeLabels    = []string{"type"}
	balanceLabels = []string{"balance", "saldo"}
	categoryLabel = []string{"category"}
)

// Normalizer converts RawRecords into CanonicalTransactions.
type Normalizer struct {
	dateHint string // bank-signature layout tried before the ladder
}

// New returns a normalizer with no bank-specific date hint.
func New() *Normalizer { return &Normalizer{} }

// NewWithDateHint returns a normalizer that tries the given Go time layout
// before the generic format ladder.
func NewWithDateHint(hint string) *Normalizer { return &Normalizer{dateHint: hint} }

// ParseDate tries the hint, then the ladder. Whole-cell matches only.
func (n *Normalizer) ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if n.dateHint != "" {
		if t, err := time.Parse(n.dateHint, s); err == nil {
			return t, nil
		}
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

// Normalize converts every record it can and reports the rest as warnings.
// Dropping a record is local recovery, never an error for the batch.
func (n *Normalizer) Normalize(records []statement.RawRecord, bank string) ([]statement.CanonicalTransaction, []string) {
	txs := make([]statement.CanonicalTransaction, 0, len(records))
	var warnings []string

	for _, rec := range records {
		tx, err := n.normalizeOne(rec, bank)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s record %d dropped: %v", rec.Strategy, rec.Index, err))
			continue
		}
		txs = append(txs, tx)
	}
	return txs, warnings
}

func (n *Normalizer) normalizeOne(rec statement.RawRecord, bank string) (statement.CanonicalTransaction, error) {
	var zero statement.CanonicalTransaction

	date, dateRaw, err := n.findDate(rec)
	if err != nil {
		return zero, err
	}

	amount, txType, err := resolveAmount(rec)
	if err != nil {
		return zero, err
	}

	desc := n.findDescription(rec, dateRaw)
	if desc == "" {
		desc = fmt.Sprintf("%s Transaction", titleType(txType))
	}
	desc = statement.TruncateDescription(desc)

	tx := statement.CanonicalTransaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Type:        txType,
		Bank:        bank,
		Provenance:  rec.Strategy,
	}
	if raw, ok := rec.Get(categoryLabel...); ok {
		if cat, ok := statement.ParseCategory(raw); ok {
			tx.Category = cat
		}
	}
	return tx, nil
}

// findDate looks in labeled date columns first, then any column.
func (n *Normalizer) findDate(rec statement.RawRecord) (time.Time, string, error) {
	if raw, ok := rec.Get(dateLabels...); ok {
		if t, err := n.ParseDate(raw); err == nil {
			return t, raw, nil
		}
		return time.Time{}, "", fmt.Errorf("unparsable date %q", raw)
	}
	for _, col := range rec.Columns {
		if t, err := n.ParseDate(col.Value); err == nil {
			return t, col.Value, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("no parseable date")
}

func (n *Normalizer) findDescription(rec statement.RawRecord, dateRaw string) string {
	if raw, ok := rec.Get(descLabels...); ok {
		return collapseWhitespace(raw)
	}
	// Headerless rows: the longest non-numeric, non-date cell is the best
	// narration candidate.
	best := ""
	for _, col := range rec.Columns {
		v := strings.TrimSpace(col.Value)
		if v == "" || v == strings.TrimSpace(dateRaw) {
			continue
		}
		if _, err := money.Parse(v); err == nil {
			continue
		}
		if len(v) > len(best) {
			best = v
		}
	}
	return collapseWhitespace(best)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func titleType(t statement.TransactionType) string {
	if t == statement.Credit {
		return "Credit"
	}
	return "Debit"
}
