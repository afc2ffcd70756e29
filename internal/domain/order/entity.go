package order

import (
	"strings"
	"time"
)

// Customer is the checkout form. It only lives inside an Order once submitted.
type Customer struct {
	Nombre       string `json:"nombre"`
	Apellido     string `json:"apellido"`
	Correo       string `json:"correo"`
	Calle        string `json:"calle"`
	Departamento string `json:"departamento"`
	Region       string `json:"region"`
	Comuna       string `json:"comuna"`
	Indicaciones string `json:"indicaciones"`
	Pago         string `json:"pago"`
}

// EmptyCustomer is the shape the form resets to.
func EmptyCustomer() Customer {
	return Customer{}
}

// FullName joins nombre and apellido.
func (c Customer) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.Nombre) + " " + strings.TrimSpace(c.Apellido))
}

// Item is a purchased line with the price captured at confirmation time.
type Item struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

// Order is immutable once created.
type Order struct {
	ID        string    `json:"id"`
	Fecha     time.Time `json:"fecha"`
	Cliente   Customer  `json:"cliente"`
	Productos []Item    `json:"productos"`
	Total     float64   `json:"total"`
}

func NewOrder(id string, at time.Time, customer Customer, items []Item, total float64) (*Order, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, it := range items {
		if it.Qty < 1 {
			return nil, ErrInvalidQuantity
		}
		if it.Price < 0 {
			return nil, ErrInvalidPrice
		}
	}
	if total < 0 {
		return nil, ErrInvalidPrice
	}

	productos := make([]Item, len(items))
	copy(productos, items)

	return &Order{
		ID:        id,
		Fecha:     at.UTC(),
		Cliente:   customer,
		Productos: productos,
		Total:     total,
	}, nil
}
