package query_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/catalog-engine/internal/core/domain"
	"github.com/niksmo/catalog-engine/internal/core/query"
)

func ptrF(v float64) *float64 { return &v }
func ptrB(v bool) *bool       { return &v }

func camera(id string, price float64, attrs domain.Attrs) domain.Product {
	return domain.Product{
		ID:           id,
		SKU:          "SKU-" + id,
		Name:         "Camera " + id,
		Brand:        "Acme",
		CategoryID:   "cat-cameras",
		SellingPrice: price,
		StockQty:     5,
		IsActive:     true,
		Specification: domain.Specification{
			TypeTag:    domain.TypeCCTVCamera,
			Version:    domain.SpecVersionCurrent,
			Attributes: attrs,
		},
	}
}

func TestBuild(t *testing.T) {
	t.Run("EmptySelection", func(t *testing.T) {
		ps := query.Build(domain.Filters{}, nil)
		assert.True(t, ps.ActiveOnly)
		assert.Equal(t, domain.SortNewest, ps.Sort)
		assert.Empty(t, ps.Attrs)
	})

	t.Run("IncludeInactiveWidens", func(t *testing.T) {
		ps := query.Build(domain.Filters{IncludeInactive: true}, nil)
		assert.False(t, ps.ActiveOnly)
	})

	t.Run("DropsEmptyConditions", func(t *testing.T) {
		f := domain.Filters{Attrs: []domain.AttrCondition{
			{Path: "resolution", Kind: domain.FacetMultiselect, Values: []string{" ", ""}},
			{Path: "ir_range_m", Kind: domain.FacetRange},
			{Path: "body_type", Kind: domain.FacetMultiselect, Values: []string{"Dome"}},
		}}
		ps := query.Build(f, nil)
		require.Len(t, ps.Attrs, 1)
		assert.Equal(t, "body_type", ps.Attrs[0].Path)
	})

	t.Run("TrimsValues", func(t *testing.T) {
		ps := query.Build(domain.Filters{Brands: []string{" Acme ", ""}}, nil)
		assert.Equal(t, []string{"Acme"}, ps.Brands)
	})

	t.Run("CarriesCategoryIDs", func(t *testing.T) {
		ids := []string{"cat-a", "cat-b"}
		ps := query.Build(domain.Filters{}, ids)
		assert.Equal(t, ids, ps.CategoryIDs)
	})
}

func TestMatch(t *testing.T) {
	p := camera("1", 2500, domain.Attrs{
		"resolution": "4MP",
		"body_type":  "Dome",
		"ir_range_m": float64(20),
		"features":   []string{"WDR", "Motion Detection"},
	})

	t.Run("ActiveOnlyExcludesInactive", func(t *testing.T) {
		inactive := p
		inactive.IsActive = false
		assert.False(t, query.Match(inactive, domain.PredicateSet{ActiveOnly: true}))
		assert.True(t, query.Match(inactive, domain.PredicateSet{}))
	})

	t.Run("SearchSubstringAnyField", func(t *testing.T) {
		assert.True(t, query.Match(p, domain.PredicateSet{Search: "camera"}))
		assert.True(t, query.Match(p, domain.PredicateSet{Search: "sku-1"}))
		assert.False(t, query.Match(p, domain.PredicateSet{Search: "doorbell"}))
	})

	t.Run("MultiselectORWithinPath", func(t *testing.T) {
		ps := domain.PredicateSet{Attrs: []domain.AttrCondition{{
			Path:   "resolution",
			Kind:   domain.FacetMultiselect,
			Values: []string{"2MP", "4MP"},
		}}}
		assert.True(t, query.Match(p, ps))
	})

	t.Run("ConditionsANDAcrossPaths", func(t *testing.T) {
		ps := domain.PredicateSet{Attrs: []domain.AttrCondition{
			{Path: "resolution", Kind: domain.FacetMultiselect, Values: []string{"4MP"}},
			{Path: "body_type", Kind: domain.FacetMultiselect, Values: []string{"Bullet"}},
		}}
		assert.False(t, query.Match(p, ps))
	})

	t.Run("ListAttributeMatchesAnyElement", func(t *testing.T) {
		ps := domain.PredicateSet{Attrs: []domain.AttrCondition{{
			Path:   "features",
			Kind:   domain.FacetMultiselect,
			Values: []string{"wdr"},
		}}}
		assert.True(t, query.Match(p, ps))
	})

	t.Run("MissingPathNeverMatches", func(t *testing.T) {
		ps := domain.PredicateSet{Attrs: []domain.AttrCondition{{
			Path:   "wireless_band",
			Kind:   domain.FacetMultiselect,
			Values: []string{"2.4GHz"},
		}}}
		assert.False(t, query.Match(p, ps))
	})

	t.Run("RangeInclusiveBounds", func(t *testing.T) {
		cond := func(min, max *float64) domain.PredicateSet {
			return domain.PredicateSet{Attrs: []domain.AttrCondition{{
				Path: "ir_range_m", Kind: domain.FacetRange, Min: min, Max: max,
			}}}
		}
		assert.True(t, query.Match(p, cond(ptrF(20), nil)))
		assert.True(t, query.Match(p, cond(nil, ptrF(20))))
		assert.False(t, query.Match(p, cond(ptrF(20.1), nil)))
	})

	t.Run("RangeAcceptsDecimalText", func(t *testing.T) {
		cond := domain.PredicateSet{Attrs: []domain.AttrCondition{{
			Path: "ir_range_m", Kind: domain.FacetRange, Min: ptrF(10), Max: ptrF(40),
		}}}

		retained := camera("1", 0, domain.Attrs{"ir_range_m": "25"})
		assert.True(t, query.Match(retained, cond),
			"a normalizer-retained numeric string takes part in ranges")

		exponent := camera("2", 0, domain.Attrs{"ir_range_m": "2e1"})
		assert.False(t, query.Match(exponent, cond),
			"only plain decimal text, the form the stores agree on")

		junk := camera("3", 0, domain.Attrs{"ir_range_m": "long range"})
		assert.False(t, query.Match(junk, cond))
	})

	t.Run("PriceBoundsInclusive", func(t *testing.T) {
		assert.True(t, query.Match(p, domain.PredicateSet{PriceMin: ptrF(2500)}))
		assert.True(t, query.Match(p, domain.PredicateSet{PriceMax: ptrF(2500)}))
		assert.False(t, query.Match(p, domain.PredicateSet{PriceMax: ptrF(2499)}))
	})

	t.Run("BooleanExact", func(t *testing.T) {
		wifi := camera("2", 3000, domain.Attrs{"pan_tilt": true})
		ps := domain.PredicateSet{Attrs: []domain.AttrCondition{{
			Path: "pan_tilt", Kind: domain.FacetBoolean, Bool: ptrB(true),
		}}}
		assert.True(t, query.Match(wifi, ps))

		ps.Attrs[0].Bool = ptrB(false)
		assert.False(t, query.Match(wifi, ps))
	})

	t.Run("InStock", func(t *testing.T) {
		out := p
		out.StockQty = 0
		assert.False(t, query.Match(out, domain.PredicateSet{InStock: true}))
		assert.True(t, query.Match(p, domain.PredicateSet{InStock: true}))
	})
}

func TestSort(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mk := func(id string, price float64, name string, age time.Duration) domain.Product {
		p := camera(id, price, nil)
		p.Name = name
		p.CreatedAt = base.Add(-age)
		return p
	}

	t.Run("PriceAscNewestTieBreak", func(t *testing.T) {
		ps := []domain.Product{
			mk("a", 200, "A", time.Hour),
			mk("b", 100, "B", 2*time.Hour),
			mk("c", 100, "C", time.Minute),
		}
		query.Sort(ps, domain.SortPriceAsc)
		assert.Equal(t, []string{"c", "b", "a"}, ids(ps))
	})

	t.Run("NameCaseInsensitive", func(t *testing.T) {
		ps := []domain.Product{
			mk("a", 0, "zebra", 0),
			mk("b", 0, "Alpha", 0),
		}
		query.Sort(ps, domain.SortName)
		assert.Equal(t, []string{"b", "a"}, ids(ps))
	})

	t.Run("DefaultNewestFirst", func(t *testing.T) {
		ps := []domain.Product{
			mk("old", 0, "X", time.Hour),
			mk("new", 0, "X", 0),
		}
		query.Sort(ps, domain.SortNewest)
		assert.Equal(t, []string{"new", "old"}, ids(ps))
	})
}

func ids(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestPriceBounds(t *testing.T) {
	t.Run("OverFilteredSet", func(t *testing.T) {
		ps := []domain.Product{
			camera("1", 500, nil),
			camera("2", 100, nil),
			camera("3", 350, nil),
		}
		r := query.PriceBounds(ps)
		assert.Equal(t, domain.PriceRange{Min: 100, Max: 500}, r)
	})

	t.Run("EmptySetDegenerate", func(t *testing.T) {
		r := query.PriceBounds(nil)
		assert.True(t, r.IsZero())
	})
}

func TestAttrBounds(t *testing.T) {
	ps := []domain.Product{
		camera("1", 0, domain.Attrs{"ir_range_m": float64(20)}),
		camera("2", 0, domain.Attrs{"ir_range_m": float64(50)}),
		camera("3", 0, domain.Attrs{"body_type": "Dome"}),
	}
	r := query.AttrBounds(ps, "ir_range_m")
	assert.Equal(t, domain.PriceRange{Min: 20, Max: 50}, r)
}

func TestDistinctOptions(t *testing.T) {
	t.Run("ScalarAndList", func(t *testing.T) {
		ps := []domain.Product{
			camera("1", 0, domain.Attrs{"resolution": "4MP"}),
			camera("2", 0, domain.Attrs{"resolution": "2MP"}),
			camera("3", 0, domain.Attrs{"features": []string{"WDR", "IR"}}),
			camera("4", 0, domain.Attrs{"resolution": "4MP"}),
		}
		assert.Equal(t, []string{"2MP", "4MP"}, query.DistinctOptions(ps, "resolution"))
		assert.Equal(t, []string{"IR", "WDR"}, query.DistinctOptions(ps, "features"))
	})

	t.Run("NumericOrder", func(t *testing.T) {
		ps := []domain.Product{
			camera("1", 0, domain.Attrs{"channels": float64(16)}),
			camera("2", 0, domain.Attrs{"channels": float64(4)}),
			camera("3", 0, domain.Attrs{"channels": float64(8)}),
		}
		assert.Equal(t, []string{"4", "8", "16"}, query.DistinctOptions(ps, "channels"))
	})
}
