package memstore

import (
	"context"
	"fmt"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/internal/core/port"
	"github.com/niksmo/catalog-engine/internal/core/query"
)

var _ port.ProductStore = (*ProductRepo)(nil)

type ProductRepo struct {
	s *Store
}

func (r ProductRepo) Insert(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "memstore.ProductRepo.Insert"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	p.Specification.Attributes = p.Specification.Attributes.Clone()
	r.s.products[p.ID] = p
	return copyProduct(p), nil
}

func (r ProductRepo) Update(
	ctx context.Context, id string, patch domain.ProductPatch,
) (domain.Product, error) {
	const op = "memstore.ProductRepo.Update"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("%s: product %q: %w",
			op, id, domain.ErrNotFound)
	}

	p = p.Apply(patch)
	p.UpdatedAt = r.s.now()
	r.s.products[id] = p
	return copyProduct(p), nil
}

func (r ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	const op = "memstore.ProductRepo.Get"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return domain.Product{}, fmt.Errorf("%s: product %q: %w",
			op, id, domain.ErrNotFound)
	}
	return copyProduct(p), nil
}

func (r ProductRepo) List(
	ctx context.Context, ps domain.PredicateSet, page domain.Page,
) ([]domain.Product, error) {
	const op = "memstore.ProductRepo.List"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	matched := r.match(ps)
	query.Sort(matched, ps.Sort)

	page = page.Normalize()
	off := page.Offset()
	if off >= len(matched) {
		return []domain.Product{}, nil
	}
	end := off + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return matched[off:end], nil
}

func (r ProductRepo) Count(
	ctx context.Context, ps domain.PredicateSet,
) (int64, error) {
	const op = "memstore.ProductRepo.Count"

	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int64(len(r.match(ps))), nil
}

func (r ProductRepo) DistinctAttr(
	ctx context.Context, ps domain.PredicateSet, path string,
) ([]string, error) {
	const op = "memstore.ProductRepo.DistinctAttr"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return query.DistinctOptions(r.match(ps), path), nil
}

func (r ProductRepo) PriceBounds(
	ctx context.Context, ps domain.PredicateSet,
) (domain.PriceRange, error) {
	const op = "memstore.ProductRepo.PriceBounds"

	if err := ctx.Err(); err != nil {
		return domain.PriceRange{}, fmt.Errorf("%s: %w", op, err)
	}
	return query.PriceBounds(r.match(ps)), nil
}

// match snapshots the products passing the predicate set.
func (r ProductRepo) match(ps domain.PredicateSet) []domain.Product {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []domain.Product
	for _, p := range r.s.products {
		if query.Match(p, ps) {
			matched = append(matched, copyProduct(p))
		}
	}
	return matched
}
