package query

import (
	"sort"
	"strconv"

	"github.com/niksmo/catalog-engine/internal/core/domain"
)

// PriceBounds recomputes the selling-price interval over an already
// filtered result set, so a narrowed listing never offers a wider
// slider than what it contains. An empty set yields the degenerate
// (0,0) range, which callers render as "no results".
func PriceBounds(products []domain.Product) domain.PriceRange {
	if len(products) == 0 {
		return domain.PriceRange{}
	}
	r := domain.PriceRange{
		Min: products[0].SellingPrice,
		Max: products[0].SellingPrice,
	}
	for _, p := range products[1:] {
		if p.SellingPrice < r.Min {
			r.Min = p.SellingPrice
		}
		if p.SellingPrice > r.Max {
			r.Max = p.SellingPrice
		}
	}
	return r
}

// AttrBounds computes the numeric interval of one attribute path over
// a result set. Products missing the path or holding a non-numeric
// value are skipped.
func AttrBounds(products []domain.Product, path string) domain.PriceRange {
	var r domain.PriceRange
	seen := false
	for _, p := range products {
		v, ok := p.Specification.Attributes[path]
		if !ok {
			continue
		}
		n, ok := attrNumber(v)
		if !ok {
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

// DistinctOptions collects the ordered distinct values present for an
// attribute path across a product set: the multiselect facet domain.
// Numeric options sort numerically, everything else lexically.
func DistinctOptions(products []domain.Product, path string) []string {
	set := map[string]struct{}{}
	for _, p := range products {
		v, ok := p.Specification.Attributes[path]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			set[t] = struct{}{}
		case []string:
			for _, s := range t {
				set[s] = struct{}{}
			}
		case float64:
			set[formatNumber(t)] = struct{}{}
		case bool:
			set[strconv.FormatBool(t)] = struct{}{}
		}
	}

	options := make([]string, 0, len(set))
	for s := range set {
		options = append(options, s)
	}
	SortOptions(options)
	return options
}

// SortOptions orders facet options in place: numeric values sort
// numerically, everything else lexically. Store adapters return
// options in their own native order; callers rendering a facet
// control normalize through here so every adapter agrees.
func SortOptions(options []string) {
	sort.Slice(options, func(i, j int) bool {
		a, errA := strconv.ParseFloat(options[i], 64)
		b, errB := strconv.ParseFloat(options[j], 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return options[i] < options[j]
	})
}
