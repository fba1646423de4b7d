// Package money parses and formats statement currency amounts. Bank exports
// render the same value many ways ("₹1,23,456.78", "Rs. 450", "INR 75,000.00",
// "(1,250.00)"), so parsing strips symbols and separators down to a decimal
// and reports the sign separately. Formatting goes through go-money so minor
// units and grouping follow ISO-4217.
package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency codes the pipeline encounters on statements.
const (
	INR = "INR"
	USD = "USD"
	EUR = "EUR"
	GBP = "GBP"
)

// currencyTokens are stripped before numeric parsing. Longer tokens first so
// "Rs." wins over a later bare "R".
var currencyTokens = []string{"INR", "Rs.", "Rs", "₹", "$", "€", "£", "USD", "EUR", "GBP"}

// Amount is a parsed statement amount: a strictly positive magnitude plus the
// sign marker carried on the raw text, if any.
type Amount struct {
	Value    decimal.Decimal
	Negative bool
	Currency string // detected currency code, empty if none
}

// Parse extracts an Amount from raw statement text. It strips currency
// symbols, thousands separators and surrounding noise, honoring leading "-",
// "+" and accounting parentheses. Empty or non-numeric input returns an error;
// a zero value parses successfully (callers decide whether zero is valid).
func Parse(raw string) (Amount, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Amount{}, fmt.Errorf("empty amount")
	}

	var currency string
	for _, tok := range currencyTokens {
		if strings.Contains(s, tok) {
			currency = currencyCode(tok)
			s = strings.ReplaceAll(s, tok, "")
			break
		}
	}
	s = strings.TrimSpace(s)

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.Trim(s, "()")
	}
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	} else if strings.HasPrefix(s, "+") {
		s = strings.TrimPrefix(s, "+")
	}
	// Trailing DR/CR markers appear on some exports ("450.00 DR").
	upper := strings.ToUpper(strings.TrimSpace(s))
	if strings.HasSuffix(upper, "DR") {
		negative = true
		s = strings.TrimSpace(s[:len(s)-2])
	} else if strings.HasSuffix(upper, "CR") {
		s = strings.TrimSpace(s[:len(s)-2])
	}

	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return Amount{}, fmt.Errorf("no digits in amount %q", raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	if d.IsNegative() {
		negative = true
		d = d.Abs()
	}

	return Amount{Value: d, Negative: negative, Currency: currency}, nil
}

// ParsePositive is Parse restricted to strictly positive magnitudes, the
// validity condition for a canonical transaction amount. Sign markers are
// discarded: direction lives on the transaction type, not the amount.
func ParsePositive(raw string) (Amount, error) {
	a, err := Parse(raw)
	if err != nil {
		return Amount{}, err
	}
	if !a.Value.IsPositive() {
		return Amount{}, fmt.Errorf("non-positive amount %q", raw)
	}
	a.Negative = false
	return a, nil
}

func currencyCode(token string) string {
	switch token {
	case "₹", "Rs", "Rs.", INR:
		return INR
	case "$", USD:
		return USD
	case "€", EUR:
		return EUR
	case "£", GBP:
		return GBP
	}
	return ""
}

// Format renders a decimal in the given currency's display convention.
func Format(d decimal.Decimal, currencyCode string) string {
	currency := gomoney.GetCurrency(currencyCode)
	if currency == nil {
		currency = gomoney.GetCurrency(INR)
	}
	multiplier := decimal.New(1, int32(currency.Fraction))
	cents := d.Mul(multiplier).Round(0).IntPart()
	return gomoney.New(cents, currency.Code).Display()
}

// FormatINR renders a decimal the way Indian statements print it.
func FormatINR(d decimal.Decimal) string {
	return Format(d, INR)
}
