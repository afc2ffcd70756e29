// Package report aggregates the order log and exports orders, products, users and contact messages.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/internal/domain/record"
	"storefront/internal/domain/repository"
	"storefront/pkg/logger"
)

type Kind string

const (
	KindOrders   Kind = "orders"
	KindProducts Kind = "products"
	KindUsers    Kind = "users"
	KindContacts Kind = "contacts"
)

var (
	ErrUnknownKind   = errors.New("report: unknown record kind")
	ErrUnknownFormat = errors.New("report: unknown export format")
)

// ParseKind accepts the English and Spanish names of a record set.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "orders", "ordenes":
		return KindOrders, nil
	case "products", "productos":
		return KindProducts, nil
	case "users", "usuarios":
		return KindUsers, nil
	case "contacts", "contactos":
		return KindContacts, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

func (k Kind) Schema() record.Schema {
	switch k {
	case KindProducts:
		return record.Products
	case KindUsers:
		return record.Users
	case KindContacts:
		return record.Contacts
	}
	return record.Orders
}

// Sources are the stored record sets.
type Sources struct {
	Orders   repository.RecordSource
	Users    repository.RecordSource
	Products repository.RecordSource
	Contacts repository.RecordSource
}

// Fallbacks stand in for a record set that is absent or unreadable.
type Fallbacks struct {
	Orders   func() []record.Record
	Users    func() []record.Record
	Products func() []record.Record
	// Contacts are bundled messages always listed with the stored ones.
	Contacts func() []record.Record
}

type Dataset struct {
	Orders   []record.Record
	Users    []record.Record
	Products []record.Record
	Contacts []record.Record
}

// Result is the admin view: the filtered orders newest first and their totals.
type Result struct {
	Range   DateRange
	Summary Summary
	Orders  []record.Record
}

type Service struct {
	sources   Sources
	fallbacks Fallbacks
	encoders  map[string]Encoder
	loc       *time.Location
	now       func() time.Time
	log       logger.Logger
}

type Option func(*Service)

// WithEncoder registers an export format such as "csv".
func WithEncoder(format string, enc Encoder) Option {
	return func(s *Service) { s.encoders[strings.ToLower(format)] = enc }
}

func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

func NewService(sources Sources, fallbacks Fallbacks, opts ...Option) *Service {
	s := &Service{
		sources:   sources,
		fallbacks: fallbacks,
		encoders:  make(map[string]Encoder),
		loc:       time.UTC,
		now:       time.Now,
		log:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// Load reads each record set, falling back to sample data independently.
func (s *Service) Load(ctx context.Context) Dataset {
	return Dataset{
		Orders:   s.load(ctx, "orders", s.sources.Orders, s.fallbacks.Orders),
		Users:    s.load(ctx, "users", s.sources.Users, s.fallbacks.Users),
		Products: s.load(ctx, "products", s.sources.Products, s.fallbacks.Products),
		Contacts: s.contacts(ctx),
	}
}

// contacts merges the bundled messages with the stored ones. Unlike the other sets the
// bundled list is not a fallback: both are always shown.
func (s *Service) contacts(ctx context.Context) []record.Record {
	var out []record.Record
	if s.fallbacks.Contacts != nil {
		out = append(out, s.fallbacks.Contacts()...)
	}
	if s.sources.Contacts != nil {
		if stored, ok := s.sources.Contacts.LoadRecords(ctx); ok {
			out = append(out, stored...)
		}
	}
	if out == nil {
		return []record.Record{}
	}
	return out
}

func (s *Service) load(ctx context.Context, name string, src repository.RecordSource, fallback func() []record.Record) []record.Record {
	if src != nil {
		if records, ok := src.LoadRecords(ctx); ok {
			return records
		}
	}
	if fallback == nil {
		return []record.Record{}
	}
	s.log.Debug("using sample records", logger.String("set", name))
	return fallback()
}

func (s *Service) Records(ctx context.Context, kind Kind, r DateRange) []record.Record {
	data := s.Load(ctx)
	switch kind {
	case KindProducts:
		return data.Products
	case KindUsers:
		return data.Users
	case KindContacts:
		return sortByDateDesc(data.Contacts, record.MessageDate, s.loc)
	}
	return SortNewestFirst(FilterOrders(data.Orders, r, s.loc), s.loc)
}

// Contacts lists every contact message newest first. The date range does not apply.
func (s *Service) Contacts(ctx context.Context) []record.Record {
	return s.Records(ctx, KindContacts, DateRange{})
}

// Report filters the orders and computes the sales totals.
func (s *Service) Report(ctx context.Context, r DateRange) Result {
	orders := s.Records(ctx, KindOrders, r)
	return Result{
		Range:   r,
		Summary: Summarize(orders),
		Orders:  orders,
	}
}
