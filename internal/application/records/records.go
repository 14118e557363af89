// Package records is the data-access service every resource page goes through.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"steward/internal/application/listutil"
)

// Error kinds surfaced to callers.
var (
	ErrNotFound    = errors.New("record not found")
	ErrValidation  = errors.New("record is invalid")
	ErrUnavailable = errors.New("record storage unavailable")
)

// Entity is the pointer side of a record type.
type Entity[T any] interface {
	*T
	Key() string
	SetKey(id string)
	Validate() error
}

// Store persists one record type.
// Get and Delete return an error wrapping ErrNotFound for unknown ids.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Save(ctx context.Context, rec T) error
	Delete(ctx context.Context, id string) error
}

// Service implements list, get, create, update and delete for one resource.
type Service[T any, P Entity[T]] struct {
	name     string
	store    Store[T]
	matcher  listutil.Matcher[T]
	newID    func() string
	defaults func(P, time.Time)
	now      func() time.Time
}

// Option customises a Service.
type Option[T any, P Entity[T]] func(*Service[T, P])

// WithDefaults fills unset fields on create before validation.
func WithDefaults[T any, P Entity[T]](fn func(rec P, now time.Time)) Option[T, P] {
	return func(s *Service[T, P]) { s.defaults = fn }
}

// WithIDs replaces the UUID generator.
func WithIDs[T any, P Entity[T]](fn func() string) Option[T, P] {
	return func(s *Service[T, P]) { s.newID = fn }
}

// WithClock replaces time.Now.
func WithClock[T any, P Entity[T]](fn func() time.Time) Option[T, P] {
	return func(s *Service[T, P]) { s.now = fn }
}

// NewService builds the service for the resource called name.
func NewService[T any, P Entity[T]](name string, store Store[T], matcher listutil.Matcher[T], opts ...Option[T, P]) *Service[T, P] {
	s := &Service[T, P]{
		name:    name,
		store:   store,
		matcher: matcher,
		newID:   func() string { return uuid.New().String() },
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the resource name.
func (s *Service[T, P]) Name() string {
	return s.name
}

// Matcher returns the search and filter accessors of the resource.
func (s *Service[T, P]) Matcher() listutil.Matcher[T] {
	return s.matcher
}

// All returns every record in store order.
func (s *Service[T, P]) All(ctx context.Context) ([]T, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.name, unavailable(err))
	}
	return items, nil
}

// List returns the records matching params in store order.
// POST: result is non-nil on success
func (s *Service[T, P]) List(ctx context.Context, params listutil.FilterParams) ([]T, error) {
	items, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return listutil.Filter(items, s.matcher, params), nil
}

// Get returns one record.
func (s *Service[T, P]) Get(ctx context.Context, id string) (T, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("get %s %s: %w", s.name, id, unavailable(err))
	}
	return rec, nil
}

// Create assigns a fresh id, validates and stores rec.
// POST: on ErrValidation nothing is written
func (s *Service[T, P]) Create(ctx context.Context, rec T) (T, error) {
	p := P(&rec)
	p.SetKey(s.newID())
	if s.defaults != nil {
		s.defaults(p, s.now())
	}
	if err := p.Validate(); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := s.store.Save(ctx, rec); err != nil {
		var zero T
		return zero, fmt.Errorf("create %s: %w", s.name, unavailable(err))
	}
	return rec, nil
}

// Update replaces the record stored under id with rec. The id in the path wins.
func (s *Service[T, P]) Update(ctx context.Context, id string, rec T) (T, error) {
	var zero T
	if _, err := s.Get(ctx, id); err != nil {
		return zero, err
	}
	p := P(&rec)
	p.SetKey(id)
	if err := p.Validate(); err != nil {
		return zero, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return zero, fmt.Errorf("update %s %s: %w", s.name, id, unavailable(err))
	}
	return rec, nil
}

// Delete removes the record stored under id.
func (s *Service[T, P]) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", s.name, id, unavailable(err))
	}
	return nil
}

// unavailable marks store failures other than ErrNotFound as ErrUnavailable.
func unavailable(err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// Guard wraps store so that every failure other than ErrNotFound is marked
// ErrUnavailable, for callers that use the store without a Service.
func Guard[T any](store Store[T]) Store[T] {
	if g, ok := store.(guarded[T]); ok {
		return g
	}
	return guarded[T]{store}
}

type guarded[T any] struct {
	Store[T]
}

func (g guarded[T]) List(ctx context.Context) ([]T, error) {
	items, err := g.Store.List(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	return items, nil
}

func (g guarded[T]) Get(ctx context.Context, id string) (T, error) {
	rec, err := g.Store.Get(ctx, id)
	if err != nil {
		return rec, unavailable(err)
	}
	return rec, nil
}

func (g guarded[T]) Save(ctx context.Context, rec T) error {
	if err := g.Store.Save(ctx, rec); err != nil {
		return unavailable(err)
	}
	return nil
}

func (g guarded[T]) Delete(ctx context.Context, id string) error {
	if err := g.Store.Delete(ctx, id); err != nil {
		return unavailable(err)
	}
	return nil
}
