package order

import "errors"

var (
	ErrMissingID       = errors.New("order id is required")
	ErrNoItems         = errors.New("order has no items")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrInvalidPrice    = errors.New("price must not be negative")
)
