package kvstore

import (
	"context"

	"storefront/internal/domain/cart"
	"storefront/internal/infrastructure/storage"
	"storefront/pkg/logger"
)

type CartRepository struct {
	doc document
}

func NewCartRepository(area storage.Area, log logger.Logger) *CartRepository {
	return &CartRepository{doc: document{area: area, key: KeyCart, log: orNop(log)}}
}

func (r *CartRepository) Key() string {
	return r.doc.key
}

func (r *CartRepository) Load(ctx context.Context) []cart.Entry {
	var entries []cart.Entry
	if _, ok := r.doc.load(ctx, &entries); !ok {
		return []cart.Entry{}
	}
	return cart.Normalize(entries)
}

func (r *CartRepository) Save(ctx context.Context, entries []cart.Entry) error {
	return r.doc.save(ctx, cart.Normalize(entries))
}
