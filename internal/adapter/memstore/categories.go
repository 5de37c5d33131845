package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/internal/core/port"
)

var _ port.CategoryStore = (*CategoryRepo)(nil)

type CategoryRepo struct {
	s *Store
}

func (r CategoryRepo) Get(
	ctx context.Context, id string,
) (domain.Category, error) {
	const op = "memstore.CategoryRepo.Get"

	if err := ctx.Err(); err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return domain.Category{}, fmt.Errorf("%s: category %q: %w",
			op, id, domain.ErrNotFound)
	}
	return c, nil
}

func (r CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	const op = "memstore.CategoryRepo.List"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	cs := make([]domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cs = append(cs, c)
	}
	sort.Slice(cs, func(i, j int) bool { return cs[i].ID < cs[j].ID })
	return cs, nil
}

func (r CategoryRepo) Put(
	ctx context.Context, c domain.Category,
) (domain.Category, error) {
	const op = "memstore.CategoryRepo.Put"

	if err := ctx.Err(); err != nil {
		return domain.Category{}, fmt.Errorf("%s: %w", op, err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	if prev, ok := r.s.categories[c.ID]; ok {
		c.CreatedAt = prev.CreatedAt
	} else {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	r.s.categories[c.ID] = c
	return c, nil
}
