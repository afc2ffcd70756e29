// Package cart is the persisted shopping cart of one execution context.
package cart

import (
	"context"
	"fmt"
	"sync"

	domain "storefront/internal/domain/cart"
	"storefront/internal/domain/repository"
	"storefront/internal/infrastructure/storage"
	"storefront/pkg/logger"
)

// ChangeSource delivers writes made by other execution contexts.
type ChangeSource interface {
	OnChange(key string, fn storage.Listener) (cancel func())
}

// Store persists every mutation immediately. Observers are called synchronously
// after each local write and after a write by another context is observed.
//
// The mutex only serializes callers of this Store. Another context writing the
// same key concurrently wins if it writes last.
type Store struct {
	repo repository.CartRepository
	log  logger.Logger

	mu sync.Mutex

	obsMu     sync.Mutex
	observers map[int]func([]domain.Entry)
	nextID    int

	stopChanges func()
}

func NewStore(repo repository.CartRepository, changes ChangeSource, log logger.Logger) *Store {
	if log == nil {
		log = logger.NewNop()
	}
	s := &Store{
		repo:      repo,
		log:       log,
		observers: make(map[int]func([]domain.Entry)),
	}
	if changes != nil {
		s.stopChanges = changes.OnChange(repo.Key(), s.externalChange)
	}
	return s
}

// Read never fails; absent or corrupt data is an empty cart.
func (s *Store) Read(ctx context.Context) []domain.Entry {
	return s.repo.Load(ctx)
}

// Write replaces the cart wholesale.
func (s *Store) Write(ctx context.Context, entries []domain.Entry) error {
	s.mu.Lock()
	saved, err := s.save(ctx, entries)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.publish(saved)
	return nil
}

// Add increments the product's quantity by delta, creating the entry if needed.
func (s *Store) Add(ctx context.Context, productID string, delta int) error {
	if productID == "" {
		return domain.ErrMissingProductID
	}
	return s.mutate(ctx, func(entries []domain.Entry) []domain.Entry {
		qty := domain.NormalizeQuantity(delta)
		if i := domain.Find(entries, productID); i >= 0 {
			entries[i].Quantity = domain.NormalizeQuantity(entries[i].Quantity + qty)
			return entries
		}
		return append(entries, domain.Entry{ProductID: productID, Quantity: qty})
	})
}

// SetQuantity replaces the quantity of an existing entry. Unknown products are ignored.
func (s *Store) SetQuantity(ctx context.Context, productID string, qty int) error {
	return s.mutate(ctx, func(entries []domain.Entry) []domain.Entry {
		if i := domain.Find(entries, productID); i >= 0 {
			entries[i].Quantity = domain.NormalizeQuantity(qty)
		}
		return entries
	})
}

func (s *Store) Remove(ctx context.Context, productID string) error {
	return s.mutate(ctx, func(entries []domain.Entry) []domain.Entry {
		i := domain.Find(entries, productID)
		if i < 0 {
			return entries
		}
		return append(entries[:i], entries[i+1:]...)
	})
}

func (s *Store) Clear(ctx context.Context) error {
	return s.Write(ctx, []domain.Entry{})
}

// Subscribe registers fn for every cart change visible to this context.
func (s *Store) Subscribe(fn func([]domain.Entry)) (cancel func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		delete(s.observers, id)
	}
}

// OnCount is the cart badge: fn receives the number of units after every change.
func (s *Store) OnCount(fn func(int)) (cancel func()) {
	return s.Subscribe(func(entries []domain.Entry) {
		fn(domain.Count(entries))
	})
}

// Close stops listening to other contexts.
func (s *Store) Close() {
	if s.stopChanges != nil {
		s.stopChanges()
	}
}

func (s *Store) mutate(ctx context.Context, fn func([]domain.Entry) []domain.Entry) error {
	s.mu.Lock()
	saved, err := s.save(ctx, fn(s.repo.Load(ctx)))
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.publish(saved)
	return nil
}

func (s *Store) save(ctx context.Context, entries []domain.Entry) ([]domain.Entry, error) {
	normalized := domain.Normalize(entries)
	if err := s.repo.Save(ctx, normalized); err != nil {
		return nil, fmt.Errorf("save cart: %w", err)
	}
	return normalized, nil
}

func (s *Store) externalChange(e storage.Event) {
	s.log.Debug("cart changed in another context", logger.String("context", e.Context))
	s.publish(s.repo.Load(context.Background()))
}

func (s *Store) publish(entries []domain.Entry) {
	s.obsMu.Lock()
	fns := make([]func([]domain.Entry), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range fns {
		snapshot := make([]domain.Entry, len(entries))
		copy(snapshot, entries)
		fn(snapshot)
	}
}
