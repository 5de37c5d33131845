package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/niksmo/catalog-engine/internal/core/domain"
)

// Match is the reference evaluation of a predicate set against one
// product. SQL-backed stores compile the same semantics to WHERE
// clauses; the in-memory store calls this directly.
func Match(p domain.Product, ps domain.PredicateSet) bool {
	if ps.ActiveOnly && !p.IsActive {
		return false
	}
	if len(ps.CategoryIDs) > 0 && !containsString(ps.CategoryIDs, p.CategoryID) {
		return false
	}
	if ps.Search != "" && !matchSearch(p, ps.Search) {
		return false
	}
	if len(ps.Brands) > 0 && !containsFold(ps.Brands, p.Brand) {
		return false
	}
	if ps.PriceMin != nil && p.SellingPrice < *ps.PriceMin {
		return false
	}
	if ps.PriceMax != nil && p.SellingPrice > *ps.PriceMax {
		return false
	}
	if ps.InStock && p.StockQty <= 0 {
		return false
	}
	for _, ac := range ps.Attrs {
		if !matchAttr(p.Specification.Attributes, ac) {
			return false
		}
	}
	return true
}

// matchSearch is a case-insensitive substring OR over name,
// description and SKU.
func matchSearch(p domain.Product, text string) bool {
	needle := strings.ToLower(text)
	for _, hay := range []string{p.Name, p.Description, p.SKU} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

// matchAttr evaluates one attribute condition. A product missing the
// attribute path simply does not match — never an error, because
// schema coverage is not uniform within a category.
func matchAttr(attrs domain.Attrs, ac domain.AttrCondition) bool {
	v, ok := attrs[ac.Path]
	if !ok {
		return false
	}

	switch ac.Kind {
	case domain.FacetMultiselect:
		for _, want := range ac.Values {
			if attrHasValue(v, want) {
				return true
			}
		}
		return false

	case domain.FacetRange:
		n, ok := attrNumber(v)
		if !ok {
			return false
		}
		if ac.Min != nil && n < *ac.Min {
			return false
		}
		if ac.Max != nil && n > *ac.Max {
			return false
		}
		return true

	case domain.FacetBoolean:
		b, ok := v.(bool)
		return ok && ac.Bool != nil && b == *ac.Bool
	}
	return false
}

// attrHasValue compares a stored attribute (scalar or list) against
// one selected facet value.
func attrHasValue(v any, want string) bool {
	switch t := v.(type) {
	case string:
		return strings.EqualFold(t, want)
	case []string:
		return containsFold(t, want)
	case float64:
		return formatNumber(t) == want
	case bool:
		return strings.EqualFold(strconv.FormatBool(t), want)
	}
	return false
}

func attrNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		if !decimalText(t) {
			return 0, false
		}
		n, err := strconv.ParseFloat(t, 64)
		return n, err == nil
	}
	return 0, false
}

// decimalText reports whether s is a plain decimal number, the same
// form the SQL compiler admits into range comparisons. ParseFloat
// alone is too permissive here (exponents, Inf, hex floats).
func decimalText(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i = 1
	}
	digits, dot := 0, false
	for ; i < len(s); i++ {
		switch {
		case s[i] >= '0' && s[i] <= '9':
			digits++
		case s[i] == '.' && !dot && digits > 0:
			dot = true
			digits = 0
		default:
			return false
		}
	}
	return digits > 0
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Sort orders products by the requested key; newest is the tie-break
// everywhere, which also makes it the default.
func Sort(products []domain.Product, key domain.SortKey) {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		switch key {
		case domain.SortPriceAsc:
			if a.SellingPrice != b.SellingPrice {
				return a.SellingPrice < b.SellingPrice
			}
		case domain.SortPriceDesc:
			if a.SellingPrice != b.SellingPrice {
				return a.SellingPrice > b.SellingPrice
			}
		case domain.SortName:
			if an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name); an != bn {
				return an < bn
			}
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}
