// Package money converts between the integer-cent representation stored in the
// database and the decimal strings used at the API boundary.
package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	hundred     = decimal.NewFromInt(100)
	errNegative = errors.New("negative amount")
)

// ParseCents parses a decimal string ("500", "12.50") into cents. Negative
// amounts and garbage are rejected; fractions beyond two places are truncated.
func ParseCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if d.IsNegative() {
		return 0, errNegative
	}
	return d.Mul(hundred).IntPart(), nil
}

// Format renders cents as a two-place decimal string.
func Format(cents int64) string {
	return decimal.NewFromInt(cents).Div(hundred).StringFixed(2)
}
