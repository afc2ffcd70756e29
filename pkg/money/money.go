// Package money formats and normalizes peso amounts.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var tag = language.MustParse("es-CL")

// maxExponent bounds the decimal exponent accepted from user input.
// Larger exponents expand to huge coefficients on Shift and Round.
const maxExponent = 20

// InRange reports whether d has an exponent small enough for cent arithmetic.
func InRange(d decimal.Decimal) bool {
	e := d.Exponent()
	return e >= -maxExponent && e <= maxExponent
}

// Format renders d as "$" followed by es-CL grouped digits, e.g. $30.000.
func Format(d decimal.Decimal) string {
	p := message.NewPrinter(tag)
	if d.IsInteger() {
		return "$" + p.Sprintf("%v", number.Decimal(d.IntPart()))
	}
	f, _ := d.Round(2).Float64()
	return "$" + p.Sprintf("%v", number.Decimal(f, number.MaxFractionDigits(2)))
}

// SameCents reports whether a and b are equal once rounded to whole cents,
// half away from zero. Values outside InRange never match.
func SameCents(a, b decimal.Decimal) bool {
	if !InRange(a) || !InRange(b) {
		return false
	}
	return a.Round(2).Equal(b.Round(2))
}
