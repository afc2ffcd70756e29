package catalog

import (
	"encoding/json"

	"storefront/internal/domain/record"
)

// Product is immutable for the duration of a session.
type Product struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
}

// UnmarshalJSON tolerates numeric ids, string prices and negative prices (clamped to 0).
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r := record.Record(raw)
	id, _ := r.Lookup("id")
	title, _ := r.Lookup("title")
	desc, _ := r.Lookup("description")
	image, _ := r.Lookup("image")
	price, _ := r.Lookup("price")

	p.ID = record.Text(id)
	p.Title = record.Text(title)
	p.Description = record.Text(desc)
	p.Image = record.Text(image)
	p.Price, _ = record.Number(price)
	if p.Price < 0 {
		p.Price = 0
	}
	return nil
}

// Index maps product id to product. Later duplicates do not override earlier ones.
type Index map[string]Product

func NewIndex(products []Product) Index {
	idx := make(Index, len(products))
	for _, p := range products {
		if _, ok := idx[p.ID]; ok {
			continue
		}
		idx[p.ID] = p
	}
	return idx
}

func (i Index) Get(id string) (Product, bool) {
	p, ok := i[id]
	return p, ok
}
