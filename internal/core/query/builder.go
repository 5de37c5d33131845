// Package query compiles a customer's filter selection into the
// predicate set a product store evaluates, and carries the reference
// in-memory evaluation of those predicates.
package query

import (
	"strings"

	"github.com/niksmo/catalog-engine/internal/core/domain"
)

// Build compiles filters into a predicate set. Conditions across
// fields are ANDed; a multiselect value list is an OR within its one
// attribute path. An empty selection compiles to the unrestricted
// active listing sorted by newest.
func Build(f domain.Filters, categoryIDs []string) domain.PredicateSet {
	ps := domain.PredicateSet{
		CategoryIDs: categoryIDs,
		Search:      strings.TrimSpace(f.SearchText),
		Brands:      compactValues(f.Brands),
		PriceMin:    f.PriceMin,
		PriceMax:    f.PriceMax,
		InStock:     f.InStock,
		ActiveOnly:  !f.IncludeInactive,
		Sort:        f.Sort,
	}

	for _, ac := range f.Attrs {
		ac.Values = compactValues(ac.Values)
		if emptyCondition(ac) {
			continue
		}
		ps.Attrs = append(ps.Attrs, ac)
	}

	if ps.Sort == "" {
		ps.Sort = domain.SortNewest
	}
	return ps
}

func emptyCondition(ac domain.AttrCondition) bool {
	switch ac.Kind {
	case domain.FacetMultiselect:
		return len(ac.Values) == 0
	case domain.FacetRange:
		return ac.Min == nil && ac.Max == nil
	case domain.FacetBoolean:
		return ac.Bool == nil
	}
	return true
}

func compactValues(vs []string) []string {
	var out []string
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
