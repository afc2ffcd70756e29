// Package checkout validates the payment against the cart total and writes the order.
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain/cart"
	"storefront/internal/domain/catalog"
	"storefront/internal/domain/order"
	"storefront/internal/domain/pricing"
	"storefront/internal/domain/repository"
	"storefront/pkg/logger"
)

type State int

const (
	StateIdle State = iota
	StateReviewing
	StateConfirmed
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReviewing:
		return "reviewing"
	case StateConfirmed:
		return "confirmed"
	case StateRejected:
		return "rejected"
	}
	return "unknown"
}

type Cart interface {
	Read(ctx context.Context) []cart.Entry
	Clear(ctx context.Context) error
}

type Catalog interface {
	List(ctx context.Context) []catalog.Product
}

// OrderPublisher receives every confirmed order as JSON.
type OrderPublisher interface {
	PublishOrder(ctx context.Context, payload []byte) error
}

// Status is what the form layer renders.
type Status struct {
	State State
	Form  order.Customer
	Order *order.Order
	Err   error
}

// Session is the checkout flow of one execution context:
// idle -> reviewing -> confirmed | rejected -> idle.
type Session struct {
	cart      Cart
	catalog   Catalog
	orders    repository.OrderLogRepository
	publisher OrderPublisher
	log       logger.Logger
	now       func() time.Time
	newID     func() string

	mu     sync.Mutex
	state  State
	form   order.Customer
	placed *order.Order
	err    error
}

type Option func(*Session)

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

func WithPublisher(p OrderPublisher) Option {
	return func(s *Session) { s.publisher = p }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Session) { s.log = l }
}

func NewSession(c Cart, products Catalog, orders repository.OrderLogRepository, opts ...Option) *Session {
	s := &Session{
		cart:    c,
		catalog: products,
		orders:  orders,
		log:     logger.NewNop(),
		now:     time.Now,
		newID:   newOrderID,
		form:    order.EmptyCustomer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newOrderID is unique and sortable by creation time.
func newOrderID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Quote prices the current cart against the current catalog.
func (s *Session) Quote(ctx context.Context) pricing.Resolution {
	return pricing.Resolve(s.cart.Read(ctx), s.catalog.List(ctx))
}

// Begin opens the form. The cart must contain at least one available product.
func (s *Session) Begin(ctx context.Context) (pricing.Resolution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateConfirmed || s.state == StateRejected {
		return pricing.Resolution{}, ErrAwaitingAcknowledge
	}
	quote := s.Quote(ctx)
	if quote.Empty() {
		s.state = StateIdle
		return quote, ErrEmptyCart
	}
	s.state = StateReviewing
	s.err = nil
	return quote, nil
}

func (s *Session) UpdateForm(customer order.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReviewing {
		return ErrNotReviewing
	}
	s.form = customer
	return nil
}

func (s *Session) Form() order.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Submit validates the payment and, on an exact match, writes the order and clears the cart.
// A rejected submission leaves the form as typed.
func (s *Session) Submit(ctx context.Context) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReviewing {
		return nil, ErrNotReviewing
	}

	quote := s.Quote(ctx)
	if quote.Empty() {
		s.state = StateIdle
		return nil, ErrEmptyCart
	}

	payment := order.ParsePayment(s.form.Pago)
	if !payment.Matches(quote.Total) {
		s.state = StateRejected
		s.err = &PaymentMismatchError{Expected: quote.Total, Got: s.form.Pago}
		s.log.Info("checkout rejected",
			logger.String("expected", quote.Total.String()),
			logger.String("got", s.form.Pago),
		)
		return nil, s.err
	}

	items := make([]order.Item, 0, len(quote.Lines))
	for _, line := range quote.Lines {
		items = append(items, order.Item{
			ID:    line.Product.ID,
			Title: line.Product.Title,
			Qty:   line.Quantity,
			Price: line.Product.Price,
		})
	}
	placed, err := order.NewOrder(s.newID(), s.now(), s.form, items, quote.Total.InexactFloat64())
	if err != nil {
		return nil, fmt.Errorf("build order: %w", err)
	}
	if err := s.orders.Prepend(ctx, placed); err != nil {
		return nil, fmt.Errorf("write order log: %w", err)
	}

	if err := s.cart.Clear(ctx); err != nil {
		s.log.Error("order written but cart could not be cleared",
			logger.String("order_id", placed.ID),
			logger.Error(err),
		)
	}
	s.form = order.EmptyCustomer()
	s.state = StateConfirmed
	s.placed = placed
	s.err = nil

	s.log.Info("order confirmed",
		logger.String("order_id", placed.ID),
		logger.Int("items", len(items)),
		logger.Float64("total", placed.Total),
	)
	s.publish(ctx, placed)
	return placed, nil
}

// Acknowledge returns a finished attempt to idle.
func (s *Session) Acknowledge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateConfirmed || s.state == StateRejected {
		s.state = StateIdle
		s.placed = nil
		s.err = nil
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{State: s.state, Form: s.form, Order: s.placed, Err: s.err}
}

func (s *Session) publish(ctx context.Context, placed *order.Order) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(placed)
	if err != nil {
		s.log.Warn("encode order for publishing failed", logger.Error(err))
		return
	}
	if err := s.publisher.PublishOrder(ctx, payload); err != nil {
		s.log.Warn("publish order failed", logger.String("order_id", placed.ID), logger.Error(err))
	}
}
