// Package catalog serves the product list, seeding it from a static dataset on first use.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "storefront/internal/domain/catalog"
	"storefront/internal/domain/repository"
	"storefront/pkg/logger"
)

// Dataset names recorded in the seed flags.
const (
	DatasetProducts = "products"
	DatasetUsers    = "users"
)

// UserStore is where the bundled user list is copied on first run.
type UserStore interface {
	Present(ctx context.Context) bool
	SaveRaw(ctx context.Context, data []byte) error
}

type Service struct {
	repo  repository.ProductRepository
	flags repository.SeedFlagRepository
	seed  []domain.Product
	log   logger.Logger
	now   func() time.Time

	users     UserStore
	usersSeed []byte

	mu sync.Mutex
}

type Option func(*Service)

// WithUsers also seeds the user list when it is absent.
func WithUsers(store UserStore, data []byte) Option {
	return func(s *Service) {
		s.users = store
		s.usersSeed = data
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(
	repo repository.ProductRepository,
	flags repository.SeedFlagRepository,
	seed []domain.Product,
	log logger.Logger,
	opts ...Option,
) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Service{
		repo:  repo,
		flags: flags,
		seed:  seed,
		log:   log,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureSeeded copies the static datasets into storage when nothing is stored yet.
// A stored but unreadable catalog counts as present and is not overwritten.
func (s *Service) EnsureSeeded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.repo.Load(ctx); !found {
		if err := s.repo.Save(ctx, s.seed); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
		s.markSeeded(ctx, DatasetProducts)
		s.log.Info("catalog seeded", logger.Int("products", len(s.seed)))
	}

	if s.users != nil && len(s.usersSeed) > 0 && !s.users.Present(ctx) {
		if err := s.users.SaveRaw(ctx, s.usersSeed); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		s.markSeeded(ctx, DatasetUsers)
		s.log.Info("user list seeded")
	}
	return nil
}

// List returns the catalog in stored order. When seeding cannot be persisted the
// seed itself is served so the storefront still renders.
func (s *Service) List(ctx context.Context) []domain.Product {
	if err := s.EnsureSeeded(ctx); err != nil {
		s.log.Warn("catalog seeding failed, serving bundled products", logger.Error(err))
		out := make([]domain.Product, len(s.seed))
		copy(out, s.seed)
		return out
	}
	products, _ := s.repo.Load(ctx)
	return products
}

func (s *Service) Find(ctx context.Context, id string) (domain.Product, bool) {
	return domain.NewIndex(s.List(ctx)).Get(id)
}

// SeededAt reports when a dataset was first copied into storage.
func (s *Service) SeededAt(ctx context.Context, dataset string) (time.Time, bool) {
	if s.flags == nil {
		return time.Time{}, false
	}
	return s.flags.Seeded(ctx, dataset)
}

func (s *Service) markSeeded(ctx context.Context, dataset string) {
	if s.flags == nil {
		return
	}
	if err := s.flags.MarkSeeded(ctx, dataset, s.now()); err != nil {
		s.log.Warn("record seed flag failed", logger.String("dataset", dataset), logger.Error(err))
	}
}
