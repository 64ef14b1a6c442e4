// Package core provides the grant domain types and amount handling.
//
// Amounts are decimal.Decimal in GBP. Grants may carry fractional pennies,
// so no rounding happens on parse; rounding is a display concern.
package core

import (
	"errors"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

var hundred = decimal.NewFromInt(100)

// ParseAmount converts a register amount such as "1500", "1,500.25" or
// "£1500" to a decimal. Negative and empty values are rejected.
//
// Examples:
//
//	ParseAmount("1500")      -> 1500, nil
//	ParseAmount("1,500.25")  -> 1500.25, nil
//	ParseAmount("£ 20")      -> 20, nil
//	ParseAmount("-1")        -> 0, ErrNegativeAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "£")
	s = strings.TrimSuffix(s, "GBP")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	return d, nil
}

// FormatGBP renders an amount rounded to whole pounds with thousands
// separators, e.g. 1234567.8 -> "1,234,568".
func FormatGBP(d decimal.Decimal) string {
	return humanize.Comma(d.Round(0).IntPart())
}

// FormatAmount renders the exact amount without separators, e.g. "1700" or
// "1200.5". Used in popups and the detail panel.
func FormatAmount(d decimal.Decimal) string {
	return d.String()
}

// Percent returns 100*part/total. ok is false when total is zero, in which
// case no percentage must be shown.
func Percent(part, total decimal.Decimal) (decimal.Decimal, bool) {
	if total.IsZero() {
		return decimal.Zero, false
	}
	return part.Mul(hundred).Div(total), true
}

// FormatPercent renders a percentage with two decimals and separators.
func FormatPercent(p decimal.Decimal) string {
	f, _ := p.Round(2).Float64()
	return humanize.FormatFloat("#,###.##", f)
}

// FormatCount renders an integer with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
