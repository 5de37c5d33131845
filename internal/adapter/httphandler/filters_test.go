package httphandler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/catalog-engine/internal/core/domain"
)

func filtersFor(t *testing.T, rawQuery string) domain.Filters {
	t.Helper()
	r := httptest.NewRequest("GET", "/v1/catalog/cat-1?"+rawQuery, nil)
	return parseFilters(r)
}

func TestParseFilters(t *testing.T) {
	t.Run("CommerceParams", func(t *testing.T) {
		f := filtersFor(t, "search=dome&brand=Acme,Zone&brand=Omni&in_stock=true&sort=price_asc")
		assert.Equal(t, "dome", f.SearchText)
		assert.Equal(t, []string{"Acme", "Zone", "Omni"}, f.Brands)
		assert.True(t, f.InStock)
		assert.Equal(t, domain.SortPriceAsc, f.Sort)
	})

	t.Run("PriceBounds", func(t *testing.T) {
		f := filtersFor(t, "price_min=100&price_max=500.5")
		require.NotNil(t, f.PriceMin)
		require.NotNil(t, f.PriceMax)
		assert.Equal(t, 100.0, *f.PriceMin)
		assert.Equal(t, 500.5, *f.PriceMax)
	})

	t.Run("AttrMultiselect", func(t *testing.T) {
		f := filtersFor(t, "attr.resolution=2MP,4MP")
		require.Len(t, f.Attrs, 1)
		ac := f.Attrs[0]
		assert.Equal(t, "resolution", ac.Path)
		assert.Equal(t, domain.FacetMultiselect, ac.Kind)
		assert.Equal(t, []string{"2MP", "4MP"}, ac.Values)
	})

	t.Run("AttrRangeMergesMinMax", func(t *testing.T) {
		f := filtersFor(t, "attr.ir_range_m.min=10&attr.ir_range_m.max=40")
		require.Len(t, f.Attrs, 1)
		ac := f.Attrs[0]
		assert.Equal(t, "ir_range_m", ac.Path)
		assert.Equal(t, domain.FacetRange, ac.Kind)
		require.NotNil(t, ac.Min)
		require.NotNil(t, ac.Max)
		assert.Equal(t, 10.0, *ac.Min)
		assert.Equal(t, 40.0, *ac.Max)
	})

	t.Run("HalfOpenRange", func(t *testing.T) {
		f := filtersFor(t, "attr.channels.min=8")
		require.Len(t, f.Attrs, 1)
		require.NotNil(t, f.Attrs[0].Min)
		assert.Nil(t, f.Attrs[0].Max)
	})

	t.Run("BooleanRidesMultiselect", func(t *testing.T) {
		f := filtersFor(t, "attr.pan_tilt=true")
		require.Len(t, f.Attrs, 1)
		assert.Equal(t, domain.FacetMultiselect, f.Attrs[0].Kind)
		assert.Equal(t, []string{"true"}, f.Attrs[0].Values)
	})

	t.Run("MalformedNumbersIgnored", func(t *testing.T) {
		f := filtersFor(t, "price_min=cheap&attr.ir_range_m.min=far")
		assert.Nil(t, f.PriceMin)
		assert.Empty(t, f.Attrs)
	})

	t.Run("UnknownParamsIgnored", func(t *testing.T) {
		f := filtersFor(t, "utm_source=mail&foo=bar")
		assert.Empty(t, f.Attrs)
		assert.Empty(t, f.Brands)
	})
}

func TestParsePage(t *testing.T) {
	t.Run("Explicit", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/catalog/cat-1?page=3&limit=10", nil)
		assert.Equal(t, domain.Page{Number: 3, Size: 10}, parsePage(r))
	})

	t.Run("DefaultsOnAbsentOrJunk", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/v1/catalog/cat-1?page=zero", nil)
		p := parsePage(r)
		assert.Equal(t, 1, p.Number)
		assert.NotZero(t, p.Size)
	})
}
