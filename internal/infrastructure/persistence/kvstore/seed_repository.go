package kvstore

import (
	"context"
	"sync"
	"time"

	"storefront/internal/infrastructure/storage"
	"storefront/pkg/logger"
)

// SeedFlagRepository records which static datasets were copied into storage and when.
type SeedFlagRepository struct {
	doc document
	mu  sync.Mutex
}

func NewSeedFlagRepository(area storage.Area, log logger.Logger) *SeedFlagRepository {
	return &SeedFlagRepository{doc: document{area: area, key: KeySeed, log: orNop(log)}}
}

func (r *SeedFlagRepository) Seeded(ctx context.Context, dataset string) (time.Time, bool) {
	flags := r.flags(ctx)
	at, ok := flags[dataset]
	return at, ok
}

func (r *SeedFlagRepository) MarkSeeded(ctx context.Context, dataset string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	flags := r.flags(ctx)
	flags[dataset] = at.UTC()
	return r.doc.save(ctx, flags)
}

func (r *SeedFlagRepository) flags(ctx context.Context) map[string]time.Time {
	flags := map[string]time.Time{}
	if _, ok := r.doc.load(ctx, &flags); !ok || flags == nil {
		return map[string]time.Time{}
	}
	return flags
}
