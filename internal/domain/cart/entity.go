package cart

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"storefront/internal/domain/record"
)

// Entry is one product line of the cart. Persisted as {"id": ..., "qty": ...}.
type Entry struct {
	ProductID string `json:"id"`
	Quantity  int    `json:"qty"`
}

// UnmarshalJSON accepts numeric ids and missing or malformed quantities.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r := record.Record(raw)
	id, _ := r.Lookup("id")
	e.ProductID = record.Text(id)
	if e.ProductID == "" {
		if alt, ok := r.Lookup("productId"); ok {
			e.ProductID = record.Text(alt)
		}
	}
	qty, ok := r.Lookup("qty")
	if !ok {
		qty, _ = r.Lookup("quantity")
	}
	e.Quantity = NormalizeQuantity(qty)
	return nil
}

// NormalizeQuantity coerces any input to an integer >= 1.
// Non-numeric, NaN, zero and negative inputs become 1; fractions are truncated.
func NormalizeQuantity(v any) int {
	f, ok := record.Number(v)
	if !ok {
		return 1
	}
	return clamp(f)
}

// ParseQuantity is NormalizeQuantity for raw form input.
func ParseQuantity(raw string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 1
	}
	return clamp(f)
}

func clamp(f float64) int {
	if math.IsNaN(f) || f < 1 {
		return 1
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(f))
}

// Normalize merges duplicate product entries (summing quantities), drops entries
// without a product id and clamps quantities. First-seen order is kept.
func Normalize(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		if e.ProductID == "" {
			continue
		}
		qty := clamp(float64(e.Quantity))
		if i, ok := index[e.ProductID]; ok {
			out[i].Quantity = clamp(float64(out[i].Quantity) + float64(qty))
			continue
		}
		index[e.ProductID] = len(out)
		out = append(out, Entry{ProductID: e.ProductID, Quantity: qty})
	}
	return out
}

// Count is the number of units in the cart, shown on the cart badge.
func Count(entries []Entry) int {
	n := 0
	for _, e := range entries {
		n += e.Quantity
	}
	return n
}

// Find returns the index of productID, or -1.
func Find(entries []Entry, productID string) int {
	for i, e := range entries {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}
