// Package summary post-processes the canonical transaction list: duplicate
// removal and the aggregate report callers read first.
package summary

import (
	"fmt"
	"sort"
	"strings"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
)

// Deduplicate removes transactions that repeat an earlier (date, amount,
// description, type) tuple, keeping the first occurrence. Amounts are
// compared at two decimal places and descriptions case- and
// whitespace-insensitively, so re-running it is a no-op.
func Deduplicate(txs []statement.CanonicalTransaction) []statement.CanonicalTransaction {
	seen := make(map[string]struct{}, len(txs))
	out := txs[:0:0]
	for _, tx := range txs {
		k := dedupKey(tx)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, tx)
	}
	return out
}

func dedupKey(tx statement.CanonicalTransaction) string {
	desc := strings.ToUpper(strings.Join(strings.Fields(tx.Description), " "))
	return fmt.Sprintf("%s|%s|%s|%s",
		tx.Date.Format("2006-01-02"), tx.Amount.Round(2), desc, tx.Type)
}

// SortByDateDesc orders transactions newest first. The sort is stable so
// same-day transactions keep their extraction order and dedup stays
// deterministic.
func SortByDateDesc(txs []statement.CanonicalTransaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
}

// Summarize reduces the transaction list to totals, a date range, a
// per-category breakdown, and the set of banks seen. Returns nil for an
// empty list.
func Summarize(txs []statement.CanonicalTransaction) *statement.Summary {
	if len(txs) == 0 {
		return nil
	}

	s := &statement.Summary{
		TotalTransactions: len(txs),
		CategoryBreakdown: make(map[statement.Category]statement.CategoryTotal),
		DateRange:         statement.DateRange{Start: txs[0].Date, End: txs[0].Date},
	}

	banks := make(map[string]struct{})
	for _, tx := range txs {
		switch tx.Type {
		case statement.Credit:
			s.TotalCredits = s.TotalCredits.Add(tx.Amount)
		case statement.Debit:
			s.TotalDebits = s.TotalDebits.Add(tx.Amount)
		}
		if tx.Date.Before(s.DateRange.Start) {
			s.DateRange.Start = tx.Date
		}
		if tx.Date.After(s.DateRange.End) {
			s.DateRange.End = tx.Date
		}

		ct := s.CategoryBreakdown[tx.Category]
		ct.Count++
		ct.Amount = ct.Amount.Add(tx.Amount)
		s.CategoryBreakdown[tx.Category] = ct

		if tx.Bank != "" {
			banks[tx.Bank] = struct{}{}
		}
	}
	s.NetAmount = s.TotalCredits.Sub(s.TotalDebits)

	s.Banks = make([]string, 0, len(banks))
	for b := range banks {
		s.Banks = append(s.Banks, b)
	}
	sort.Strings(s.Banks)

	// Normalize exponents so JSON output always reads like money.
	s.TotalCredits = s.TotalCredits.Round(2)
	s.TotalDebits = s.TotalDebits.Round(2)
	s.NetAmount = s.NetAmount.Round(2)

	return s
}
