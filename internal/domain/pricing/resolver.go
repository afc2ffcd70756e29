// Package pricing joins cart entries against the catalog.
package pricing

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
)

type LineItem struct {
	Product   catalog.Product
	Quantity  int
	LineTotal decimal.Decimal
}

type Resolution struct {
	Lines []LineItem
	Total decimal.Decimal
}

// Empty reports whether no entry resolved to a product.
func (r Resolution) Empty() bool {
	return len(r.Lines) == 0
}

// Count is the number of units across resolved lines.
func (r Resolution) Count() int {
	n := 0
	for _, l := range r.Lines {
		n += l.Quantity
	}
	return n
}

// Resolve prices each entry with the product's current price.
// Entries whose product is no longer in the catalog are left out of both lines and total.
func Resolve(entries []cart.Entry, products []catalog.Product) Resolution {
	idx := catalog.NewIndex(products)
	res := Resolution{
		Lines: make([]LineItem, 0, len(entries)),
		Total: decimal.Zero,
	}
	for _, e := range entries {
		p, ok := idx.Get(e.ProductID)
		if !ok {
			continue
		}
		qty := cart.NormalizeQuantity(e.Quantity)
		lineTotal := decimal.NewFromFloat(p.Price).Mul(decimal.NewFromInt(int64(qty)))
		res.Lines = append(res.Lines, LineItem{
			Product:   p,
			Quantity:  qty,
			LineTotal: lineTotal,
		})
		res.Total = res.Total.Add(lineTotal)
	}
	return res
}
