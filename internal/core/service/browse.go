package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/internal/core/query"
)

// Browse renders one storefront cycle for a category: the filtered,
// sorted, paged product list, the category's facet controls resolved
// to concrete value domains, and the price bounds recomputed over the
// filtered set.
func (s Service) Browse(
	ctx context.Context, categoryID string, f domain.Filters, page domain.Page,
) (domain.BrowseResult, error) {
	const op = "Service.Browse"

	if err := ctx.Err(); err != nil {
		return domain.BrowseResult{}, fmt.Errorf("%s: %w", op, err)
	}

	cat, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return domain.BrowseResult{}, fmt.Errorf("%s: %w", op, err)
	}

	ids, err := s.descendantIDs(ctx, categoryID)
	if err != nil {
		return domain.BrowseResult{}, fmt.Errorf("%s: %w", op, err)
	}

	f.CategoryID = categoryID
	f.IncludeInactive = false
	ps := query.Build(f, ids)
	page = page.Normalize()

	products, err := s.products.List(ctx, ps, page)
	if err != nil {
		return domain.BrowseResult{}, fmt.Errorf("%s: %w", op, err)
	}

	total, err := s.products.Count(ctx, ps)
	if err != nil {
		return domain.BrowseResult{}, fmt.Errorf("%s: %w", op, err)
	}

	price, err := s.products.PriceBounds(ctx, ps)
	if err != nil {
		return domain.BrowseResult{}, fmt.Errorf("%s: %w", op, err)
	}

	facets, err := s.resolveFacets(ctx, cat, ids, ps, price)
	if err != nil {
		return domain.BrowseResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.BrowseResult{
		Products: products,
		Facets:   facets,
		Price:    price,
		Total:    total,
		Page:     page,
	}, nil
}

// resolveFacets turns the category's facet descriptors into rendered
// controls. Multiselect options come from the whole category (so
// narrowing one facet never hides its siblings' choices); range bounds
// come from the filtered set. A key no product carries resolves to an
// empty facet, never an error.
func (s Service) resolveFacets(
	ctx context.Context,
	cat domain.Category,
	categoryIDs []string,
	filtered domain.PredicateSet,
	price domain.PriceRange,
) ([]domain.ResolvedFacet, error) {
	scope := domain.PredicateSet{
		CategoryIDs: categoryIDs,
		ActiveOnly:  true,
		Sort:        domain.SortNewest,
	}

	facets := make([]domain.ResolvedFacet, 0, len(cat.FacetConfig))
	for _, fd := range cat.FacetConfig {
		rf := domain.ResolvedFacet{FacetDescriptor: fd}

		switch fd.Kind {
		case domain.FacetMultiselect:
			options, err := s.products.DistinctAttr(ctx, scope, fd.Key)
			if err != nil {
				return nil, err
			}
			// adapters order options their own way (the SQL store
			// sorts lexically); the rendered control is numeric-aware
			query.SortOptions(options)
			rf.Options = options

		case domain.FacetRange:
			if fd.Key == "price" {
				rf.Bounds = price
				break
			}
			options, err := s.products.DistinctAttr(ctx, filtered, fd.Key)
			if err != nil {
				return nil, err
			}
			rf.Bounds = numericBounds(options)

		case domain.FacetBoolean:
			// renders as a single toggle; nothing to resolve
		}

		facets = append(facets, rf)
	}
	return facets, nil
}

// numericBounds folds distinct attribute values into an interval,
// skipping values that do not parse.
func numericBounds(values []string) domain.PriceRange {
	var r domain.PriceRange
	seen := false
	for _, v := range values {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			continue
		}
		if !seen {
			r = domain.PriceRange{Min: n, Max: n}
			seen = true
			continue
		}
		if n < r.Min {
			r.Min = n
		}
		if n > r.Max {
			r.Max = n
		}
	}
	return r
}
