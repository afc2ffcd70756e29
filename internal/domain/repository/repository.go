package repository

import (
	"context"
	"time"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
	"storefront/internal/domain/order"
	"storefront/internal/domain/record"
)

// Reads never fail: absent or corrupt data comes back as the empty value.
// Writes surface storage errors.

type CartRepository interface {
	Key() string
	Load(ctx context.Context) []cart.Entry
	Save(ctx context.Context, entries []cart.Entry) error
}

type ProductRepository interface {
	// Load reports found=false only when nothing is stored under the key.
	Load(ctx context.Context) (products []catalog.Product, found bool)
	Save(ctx context.Context, products []catalog.Product) error
}

type OrderLogRepository interface {
	// Prepend is a read-modify-write of the whole log. Concurrent writers in other
	// contexts can overwrite each other; last write wins.
	Prepend(ctx context.Context, o *order.Order) error
	Load(ctx context.Context) []order.Order
}

// RecordSource loads one heterogeneous record set for reporting.
// ok=false means absent or unreadable.
type RecordSource interface {
	LoadRecords(ctx context.Context) (records []record.Record, ok bool)
}

type SeedFlagRepository interface {
	Seeded(ctx context.Context, dataset string) (time.Time, bool)
	MarkSeeded(ctx context.Context, dataset string, at time.Time) error
}
