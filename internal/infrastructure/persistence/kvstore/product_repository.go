package kvstore

import (
	"context"
	"encoding/json"

	"storefront/internal/domain/catalog"
	"storefront/internal/domain/record"
	"storefront/internal/infrastructure/storage"
	"storefront/pkg/logger"
)

type ProductRepository struct {
	doc document
}

func NewProductRepository(area storage.Area, log logger.Logger) *ProductRepository {
	return &ProductRepository{doc: document{area: area, key: KeyProducts, log: orNop(log)}}
}

func (r *ProductRepository) Load(ctx context.Context) ([]catalog.Product, bool) {
	var raw []json.RawMessage
	found, ok := r.doc.load(ctx, &raw)
	if !ok {
		return []catalog.Product{}, found
	}
	products := make([]catalog.Product, 0, len(raw))
	for _, item := range raw {
		var p catalog.Product
		if err := json.Unmarshal(item, &p); err != nil || p.ID == "" {
			continue
		}
		products = append(products, p)
	}
	return products, true
}

func (r *ProductRepository) Save(ctx context.Context, products []catalog.Product) error {
	return r.doc.save(ctx, products)
}

func (r *ProductRepository) LoadRecords(ctx context.Context) ([]record.Record, bool) {
	return loadRecords(ctx, r.doc)
}

// RecordRepository exposes any key holding a JSON array as report records.
type RecordRepository struct {
	doc document
}

func NewUserRepository(area storage.Area, log logger.Logger) *RecordRepository {
	return &RecordRepository{doc: document{area: area, key: KeyUsers, log: orNop(log)}}
}

func (r *RecordRepository) LoadRecords(ctx context.Context) ([]record.Record, bool) {
	return loadRecords(ctx, r.doc)
}

// NewContactRepository reads the messages left through the contact form.
func NewContactRepository(area storage.Area, log logger.Logger) *RecordRepository {
	return &RecordRepository{doc: document{area: area, key: KeyContacts, log: orNop(log)}}
}

// SaveRaw stores an already encoded JSON array.
func (r *RecordRepository) SaveRaw(ctx context.Context, data []byte) error {
	return r.doc.area.Set(ctx, r.doc.key, data)
}

// Present reports whether anything is stored under the key.
func (r *RecordRepository) Present(ctx context.Context) bool {
	_, found := r.doc.raw(ctx)
	return found
}

func loadRecords(ctx context.Context, doc document) ([]record.Record, bool) {
	raw, found := doc.raw(ctx)
	if !found {
		return nil, false
	}
	records, err := record.Decode(raw)
	if err != nil {
		doc.log.Warn("stored records are unreadable", logger.String("key", doc.key), logger.Error(err))
		return nil, false
	}
	return records, true
}
