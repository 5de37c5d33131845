package httphandler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/niksmo/catalog-engine/internal/core/domain"
)

const attrParamPrefix = "attr."

// parseFilters reads the filter selection from query parameters.
// Attribute facets arrive as attr.<path>=v1,v2 for multiselect and
// boolean controls, and as attr.<path>.min / attr.<path>.max for
// ranges. Unknown parameters are ignored.
func parseFilters(r *http.Request) domain.Filters {
	q := r.URL.Query()

	f := domain.Filters{
		SearchText: q.Get("search"),
		Brands:     splitValues(q["brand"]),
		InStock:    q.Get("in_stock") == "true",
		Sort:       domain.SortKey(q.Get("sort")),
	}
	f.PriceMin = parseFloat(q.Get("price_min"))
	f.PriceMax = parseFloat(q.Get("price_max"))

	ranges := map[string]*domain.AttrCondition{}
	for key, values := range q {
		if !strings.HasPrefix(key, attrParamPrefix) {
			continue
		}
		path := strings.TrimPrefix(key, attrParamPrefix)

		if bound, ok := strings.CutSuffix(path, ".min"); ok {
			if n := parseFloat(values[0]); n != nil {
				rangeCond(ranges, bound).Min = n
			}
			continue
		}
		if bound, ok := strings.CutSuffix(path, ".max"); ok {
			if n := parseFloat(values[0]); n != nil {
				rangeCond(ranges, bound).Max = n
			}
			continue
		}

		if vs := splitValues(values); len(vs) > 0 {
			f.Attrs = append(f.Attrs, domain.AttrCondition{
				Path:   path,
				Kind:   domain.FacetMultiselect,
				Values: vs,
			})
		}
	}

	for _, ac := range ranges {
		f.Attrs = append(f.Attrs, *ac)
	}
	return f
}

func parsePage(r *http.Request) domain.Page {
	q := r.URL.Query()
	number, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("limit"))
	return domain.Page{Number: number, Size: size}.Normalize()
}

func rangeCond(
	conds map[string]*domain.AttrCondition, path string,
) *domain.AttrCondition {
	if ac, ok := conds[path]; ok {
		return ac
	}
	ac := &domain.AttrCondition{Path: path, Kind: domain.FacetRange}
	conds[path] = ac
	return ac
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &n
}

// splitValues flattens repeated parameters and comma lists.
func splitValues(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
