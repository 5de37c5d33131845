package storage

import (
	"fmt"
	"strings"

	"github.com/niksmo/catalog-engine/internal/core/domain"
)

// compileWhere renders a predicate set into a WHERE clause over the
// products table. Conditions across fields are ANDed; value lists
// inside one condition are ORed. Attribute conditions address the
// attributes jsonb column. Returns the clause without the WHERE
// keyword, the collected args, and the next free placeholder index.
func compileWhere(ps domain.PredicateSet, argIdx int) (string, []any, int) {
	var (
		clauses []string
		args    []any
	)

	next := func(v any) string {
		args = append(args, v)
		p := fmt.Sprintf("$%d", argIdx)
		argIdx++
		return p
	}

	if ps.ActiveOnly {
		clauses = append(clauses, "is_active = TRUE")
	}

	if len(ps.CategoryIDs) > 0 {
		clauses = append(clauses,
			fmt.Sprintf("category_id = ANY(%s)", next(ps.CategoryIDs)))
	}

	if ps.Search != "" {
		p := next("%" + ps.Search + "%")
		clauses = append(clauses, fmt.Sprintf(
			"(name ILIKE %[1]s OR description ILIKE %[1]s OR sku ILIKE %[1]s)", p))
	}

	if len(ps.Brands) > 0 {
		lowered := make([]string, len(ps.Brands))
		for i, b := range ps.Brands {
			lowered[i] = strings.ToLower(b)
		}
		clauses = append(clauses,
			fmt.Sprintf("LOWER(brand) = ANY(%s)", next(lowered)))
	}

	if ps.PriceMin != nil {
		clauses = append(clauses,
			fmt.Sprintf("selling_price >= %s", next(*ps.PriceMin)))
	}
	if ps.PriceMax != nil {
		clauses = append(clauses,
			fmt.Sprintf("selling_price <= %s", next(*ps.PriceMax)))
	}

	if ps.InStock {
		clauses = append(clauses, "stock_qty > 0")
	}

	for _, ac := range ps.Attrs {
		if c := compileAttr(ac, next); c != "" {
			clauses = append(clauses, c)
		}
	}

	if len(clauses) == 0 {
		clauses = append(clauses, "TRUE")
	}
	return strings.Join(clauses, " AND "), args, argIdx
}

// compileAttr renders one attribute condition. A product missing the
// path simply fails the condition: the jsonb operators are NULL-safe
// in exactly that direction.
func compileAttr(ac domain.AttrCondition, next func(any) string) string {
	key := next(ac.Path)

	switch ac.Kind {
	case domain.FacetMultiselect:
		if len(ac.Values) == 0 {
			return ""
		}
		lowered := make([]string, len(ac.Values))
		for i, v := range ac.Values {
			lowered[i] = strings.ToLower(v)
		}
		vals := next(lowered)
		// values compare case-insensitively, matching query.Match;
		// list attributes are unnested for the comparison
		return fmt.Sprintf(
			"(LOWER(attributes->>%[1]s) = ANY(%[2]s) OR (jsonb_typeof(attributes->%[1]s) = 'array' AND EXISTS (SELECT 1 FROM jsonb_array_elements_text(attributes->%[1]s) e WHERE LOWER(e) = ANY(%[2]s))))",
			key, vals)

	case domain.FacetRange:
		var parts []string
		// numbers and decimal-looking strings both take part in
		// ranges, matching query.Match
		guard := fmt.Sprintf(`attributes->>%s ~ '^-?[0-9]+(\.[0-9]+)?$'`, key)
		if ac.Min != nil {
			parts = append(parts, fmt.Sprintf(
				"(attributes->>%s)::numeric >= %s", key, next(*ac.Min)))
		}
		if ac.Max != nil {
			parts = append(parts, fmt.Sprintf(
				"(attributes->>%s)::numeric <= %s", key, next(*ac.Max)))
		}
		if len(parts) == 0 {
			return ""
		}
		return "(" + guard + " AND " + strings.Join(parts, " AND ") + ")"

	case domain.FacetBoolean:
		if ac.Bool == nil {
			return ""
		}
		return fmt.Sprintf(
			"(jsonb_typeof(attributes->%[1]s) = 'boolean' AND (attributes->>%[1]s)::boolean = %[2]s)",
			key, next(*ac.Bool))
	}
	return ""
}

// orderBy maps a sort key onto a deterministic ORDER BY clause;
// creation time breaks every tie.
func orderBy(key domain.SortKey) string {
	switch key {
	case domain.SortPriceAsc:
		return "ORDER BY selling_price ASC, created_at DESC, id ASC"
	case domain.SortPriceDesc:
		return "ORDER BY selling_price DESC, created_at DESC, id ASC"
	case domain.SortName:
		return "ORDER BY name ASC, created_at DESC, id ASC"
	default:
		return "ORDER BY created_at DESC, id ASC"
	}
}
