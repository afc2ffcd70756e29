package order

import (
	"strings"

	"github.com/shopspring/decimal"

	"storefront/pkg/money"
)

// Payment is the amount the customer typed into the form.
type Payment struct {
	value decimal.Decimal
	valid bool
}

// ParsePayment coerces form input the way a numeric input does:
// surrounding spaces are ignored, an empty field is 0, anything else must be a number.
func ParsePayment(raw string) Payment {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Payment{value: decimal.Zero, valid: true}
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !money.InRange(d) {
		return Payment{}
	}
	return Payment{value: d, valid: true}
}

func (p Payment) Valid() bool {
	return p.valid
}

// Matches compares in integer cents, so 30000 and "30000.00" are equal and 29999.999 is not 30000.
func (p Payment) Matches(total decimal.Decimal) bool {
	if !p.valid {
		return false
	}
	return money.SameCents(p.value, total)
}
