// Package banks holds the bank-signature registry: per-bank patterns used to
// tag a statement with its issuing institution. The registry is built once at
// process start and read-only afterwards; matching order is registry order,
// so callers wanting different priorities construct their own registry.
package banks

import (
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/paisaflow/statement-parser/internal/domain/statement"
)

// Signature identifies one bank's statement layout.
type Signature struct {
	ID          string         // bank identifier, e.g. "HDFC"
	NamePattern *regexp.Regexp // matched case-insensitively against statement text
	Columns     []string       // expected statement column headers, in order
	DateHint    string         // Go layout the bank prints dates in, tried first
	AmountHint  string         // human note on the amount rendering
}

// Registry is an ordered list of signatures. First match wins.
type Registry struct {
	signatures []Signature
}

// NewRegistry builds a registry from the given signatures, preserving order.
func NewRegistry(signatures ...Signature) *Registry {
	return &Registry{signatures: signatures}
}

// Default returns the built-in registry of major Indian banks.
func Default() *Registry {
	return NewRegistry(
		Signature{
			ID:          "HDFC",
			NamePattern: regexp.MustCompile(`(?i)HDFC\s*BANK`),
			Columns:     []string{"Date", "Narration", "Chq/Ref Number", "Value Date", "Withdrawal Amt", "Deposit Amt", "Closing Balance"},
			DateHint:    "02/01/06",
			AmountHint:  "comma-grouped, no symbol",
		},
		Signature{
			ID:          "ICICI",
			NamePattern: regexp.MustCompile(`(?i)ICICI\s*BANK`),
			Columns:     []string{"Date", "Description", "Cheque Number", "Debit", "Credit", "Balance"},
			DateHint:    "02/01/2006",
			AmountHint:  "comma-grouped, no symbol",
		},
		Signature{
			ID:          "SBI",
			NamePattern: regexp.MustCompile(`(?i)STATE\s*BANK\s*OF\s*INDIA|\bSBI\b`),
			Columns:     []string{"Txn Date", "Value Date", "Description", "Ref No./Cheque No.", "Debit", "Credit", "Balance"},
			DateHint:    "02 Jan 2006",
			AmountHint:  "comma-grouped, trailing balance",
		},
		Signature{
			ID:          "AXIS",
			NamePattern: regexp.MustCompile(`(?i)AXIS\s*BANK`),
			Columns:     []string{"Date", "Particulars", "Chq / Ref number", "Debit", "Credit", "Balance"},
			DateHint:    "02/01/2006",
			AmountHint:  "comma-grouped, no symbol",
		},
		Signature{
			ID:          "KOTAK",
			NamePattern: regexp.MustCompile(`(?i)KOTAK\s*MAHINDRA\s*BANK|\bKOTAK\b`),
			Columns:     []string{"Date", "Description", "Debit", "Credit", "Balance"},
			DateHint:    "02/01/2006",
			AmountHint:  "comma-grouped, DR/CR suffix",
		},
	)
}

// Signatures returns the registry contents in match order.
func (r *Registry) Signatures() []Signature { return r.signatures }

// Match tests the name pattern of each signature against a text sample
// (first page, header block) in registry order. No match returns nil rather
// than an error; the pipeline continues with generic heuristics.
func (r *Registry) Match(sample string) *Signature {
	if sample == "" {
		return nil
	}
	for i := range r.signatures {
		if r.signatures[i].NamePattern.MatchString(sample) {
			return &r.signatures[i]
		}
	}
	return nil
}

// MatchHeaders scores column-header overlap so a CSV with no bank name in the
// body can still be tagged. Exact (case-folded) hits count double; fuzzy hits
// cover OCR noise like "Narraton". A signature needs more than half its
// columns accounted for.
func (r *Registry) MatchHeaders(headers []string) *Signature {
	if len(headers) == 0 {
		return nil
	}
	folded := make([]string, len(headers))
	for i, h := range headers {
		folded[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var best *Signature
	bestScore := 0
	for i := range r.signatures {
		sig := &r.signatures[i]
		score := 0
		for _, want := range sig.Columns {
			w := strings.ToLower(want)
			matched := 0
			for _, h := range folded {
				if h == w {
					matched = 2
					break
				}
				if fuzzy.MatchNormalizedFold(w, h) || fuzzy.MatchNormalizedFold(h, w) {
					matched = 1
				}
			}
			score += matched
		}
		// Over half the expected columns present, exact or fuzzy.
		if score > len(sig.Columns) && score > bestScore {
			bestScore = score
			best = sig
		}
	}
	return best
}

// BankID returns the identifier for a possibly-nil signature.
func BankID(sig *Signature) string {
	if sig == nil {
		return statement.BankUnknown
	}
	return sig.ID
}
