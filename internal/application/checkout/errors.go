package checkout

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/pkg/money"
)

var (
	ErrEmptyCart           = errors.New("checkout: cart has no available products")
	ErrNotReviewing        = errors.New("checkout: no checkout form is open")
	ErrAwaitingAcknowledge = errors.New("checkout: previous result must be acknowledged first")
)

// PaymentMismatchError rejects any amount that is not exactly the total, including overpayment.
type PaymentMismatchError struct {
	Expected decimal.Decimal
	Got      string
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("el monto ingresado no coincide con el total a pagar: %s", money.Format(e.Expected))
}
