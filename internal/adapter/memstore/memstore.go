// Package memstore is the in-memory implementation of the persistence
// ports: mutex-guarded maps evaluated with the query package's
// reference predicate matcher. It backs tests and the local dev
// profile; the postgres-backed storage adapter is the production one.
package memstore

import (
	"sync"
	"time"

	"github.com/niksmo/catalog-engine/internal/core/domain"
)

// Store is the shared state behind the per-entity repositories.
type Store struct {
	mu         sync.RWMutex
	products   map[string]domain.Product
	categories map[string]domain.Category
	drafts     map[string]domain.ReviewDraft
	now        func() time.Time
}

func New() *Store {
	return &Store{
		products:   make(map[string]domain.Product),
		categories: make(map[string]domain.Category),
		drafts:     make(map[string]domain.ReviewDraft),
		now:        time.Now,
	}
}

func (s *Store) Products() ProductRepo { return ProductRepo{s} }

func (s *Store) Categories() CategoryRepo { return CategoryRepo{s} }

func (s *Store) Drafts() DraftRepo { return DraftRepo{s} }

func copyProduct(p domain.Product) domain.Product {
	p.Specification.Attributes = p.Specification.Attributes.Clone()
	return p
}
