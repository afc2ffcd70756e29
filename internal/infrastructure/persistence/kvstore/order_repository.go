package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"storefront/internal/domain/order"
	"storefront/internal/domain/record"
	"storefront/internal/infrastructure/storage"
	"storefront/pkg/logger"
)

// OrderRepository is the order log, most recent first.
// Historical entries are kept as raw JSON so legacy shapes survive a rewrite of the log.
type OrderRepository struct {
	doc document
	mu  sync.Mutex
}

func NewOrderRepository(area storage.Area, log logger.Logger) *OrderRepository {
	return &OrderRepository{doc: document{area: area, key: KeyOrders, log: orNop(log)}}
}

func (r *OrderRepository) Prepend(ctx context.Context, o *order.Order) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}
	encoded, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("encode order: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var existing []json.RawMessage
	if found, ok := r.doc.load(ctx, &existing); found && !ok {
		r.doc.log.Warn("order log was corrupt and is being replaced", logger.String("order_id", o.ID))
		existing = nil
	}

	log := make([]json.RawMessage, 0, len(existing)+1)
	log = append(log, encoded)
	log = append(log, existing...)
	return r.doc.save(ctx, log)
}

// Load decodes entries that fit the current order shape; others are skipped.
func (r *OrderRepository) Load(ctx context.Context) []order.Order {
	var raw []json.RawMessage
	if _, ok := r.doc.load(ctx, &raw); !ok {
		return []order.Order{}
	}
	out := make([]order.Order, 0, len(raw))
	for _, item := range raw {
		var o order.Order
		if err := json.Unmarshal(item, &o); err != nil {
			continue
		}
		out = append(out, o)
	}
	return out
}

func (r *OrderRepository) LoadRecords(ctx context.Context) ([]record.Record, bool) {
	return loadRecords(ctx, r.doc)
}
