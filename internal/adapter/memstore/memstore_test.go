package memstore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/catalog-engine/internal/adapter/memstore"
	"github.com/niksmo/catalog-engine/internal/core/domain"
)

func product(id string, price float64, attrs domain.Attrs) domain.Product {
	return domain.Product{
		ID:           id,
		SKU:          "SKU-" + id,
		Name:         "Product " + id,
		CategoryID:   "cat-1",
		SellingPrice: price,
		StockQty:     1,
		IsActive:     true,
		Specification: domain.Specification{
			TypeTag:    domain.TypeCCTVCamera,
			Version:    domain.SpecVersionCurrent,
			Attributes: attrs,
		},
	}
}

func TestProductRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("InsertSetsTimestamps", func(t *testing.T) {
		repo := memstore.New().Products()
		stored, err := repo.Insert(ctx, product("p1", 100, nil))
		require.NoError(t, err)
		assert.False(t, stored.CreatedAt.IsZero())
		assert.Equal(t, stored.CreatedAt, stored.UpdatedAt)
	})

	t.Run("StoredAttrsIsolatedFromCaller", func(t *testing.T) {
		repo := memstore.New().Products()
		attrs := domain.Attrs{"features": []string{"WDR"}}
		_, err := repo.Insert(ctx, product("p1", 100, attrs))
		require.NoError(t, err)

		attrs["features"].([]string)[0] = "mutated"
		attrs["extra"] = "mutated"

		got, err := repo.Get(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, []string{"WDR"}, got.Specification.Attributes["features"])
		assert.NotContains(t, got.Specification.Attributes, "extra")
	})

	t.Run("UpdateAppliesPatch", func(t *testing.T) {
		repo := memstore.New().Products()
		_, err := repo.Insert(ctx, product("p1", 100, domain.Attrs{"resolution": "2MP"}))
		require.NoError(t, err)

		price := 150.0
		updated, err := repo.Update(ctx, "p1", domain.ProductPatch{
			SellingPrice: &price,
			Attributes:   domain.Attrs{"body_type": "Dome"},
		})
		require.NoError(t, err)
		assert.Equal(t, 150.0, updated.SellingPrice)
		assert.Equal(t, "2MP", updated.Specification.Attributes["resolution"])
		assert.Equal(t, "Dome", updated.Specification.Attributes["body_type"])
	})

	t.Run("UpdateUnknownID", func(t *testing.T) {
		repo := memstore.New().Products()
		_, err := repo.Update(ctx, "nope", domain.ProductPatch{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ListPagination", func(t *testing.T) {
		repo := memstore.New().Products()
		for i := 1; i <= 5; i++ {
			p := product(fmt.Sprintf("p%d", i), float64(i*100), nil)
			_, err := repo.Insert(ctx, p)
			require.NoError(t, err)
		}

		ps := domain.PredicateSet{ActiveOnly: true, Sort: domain.SortPriceAsc}

		first, err := repo.List(ctx, ps, domain.Page{Number: 1, Size: 2})
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.Equal(t, "p1", first[0].ID)

		last, err := repo.List(ctx, ps, domain.Page{Number: 3, Size: 2})
		require.NoError(t, err)
		require.Len(t, last, 1)
		assert.Equal(t, "p5", last[0].ID)

		beyond, err := repo.List(ctx, ps, domain.Page{Number: 4, Size: 2})
		require.NoError(t, err)
		assert.Empty(t, beyond)
	})

	t.Run("CountMatchesPredicates", func(t *testing.T) {
		repo := memstore.New().Products()
		for i, active := range []bool{true, true, false} {
			p := product(fmt.Sprintf("p%d", i), 100, nil)
			p.IsActive = active
			_, err := repo.Insert(ctx, p)
			require.NoError(t, err)
		}

		n, err := repo.Count(ctx, domain.PredicateSet{ActiveOnly: true})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})

	t.Run("DistinctAttr", func(t *testing.T) {
		repo := memstore.New().Products()
		for i, res := range []string{"4MP", "2MP", "4MP"} {
			p := product(fmt.Sprintf("p%d", i), 100, domain.Attrs{"resolution": res})
			_, err := repo.Insert(ctx, p)
			require.NoError(t, err)
		}

		opts, err := repo.DistinctAttr(ctx, domain.PredicateSet{}, "resolution")
		require.NoError(t, err)
		assert.Equal(t, []string{"2MP", "4MP"}, opts)
	})

	t.Run("PriceBounds", func(t *testing.T) {
		repo := memstore.New().Products()
		for i, price := range []float64{250, 90, 410} {
			_, err := repo.Insert(ctx, product(fmt.Sprintf("p%d", i), price, nil))
			require.NoError(t, err)
		}

		r, err := repo.PriceBounds(ctx, domain.PredicateSet{})
		require.NoError(t, err)
		assert.Equal(t, domain.PriceRange{Min: 90, Max: 410}, r)

		none, err := repo.PriceBounds(ctx, domain.PredicateSet{Search: "absent"})
		require.NoError(t, err)
		assert.True(t, none.IsZero())
	})
}

func TestCategoryRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("PutPreservesCreatedAt", func(t *testing.T) {
		repo := memstore.New().Categories()
		first, err := repo.Put(ctx, domain.Category{ID: "c1", Name: "Cameras"})
		require.NoError(t, err)

		second, err := repo.Put(ctx, domain.Category{ID: "c1", Name: "Renamed"})
		require.NoError(t, err)
		assert.Equal(t, first.CreatedAt, second.CreatedAt)
		assert.Equal(t, "Renamed", second.Name)
	})

	t.Run("ListSortedByID", func(t *testing.T) {
		repo := memstore.New().Categories()
		for _, id := range []string{"c3", "c1", "c2"} {
			_, err := repo.Put(ctx, domain.Category{ID: id})
			require.NoError(t, err)
		}

		cs, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, cs, 3)
		assert.Equal(t, "c1", cs[0].ID)
		assert.Equal(t, "c3", cs[2].ID)
	})

	t.Run("GetUnknown", func(t *testing.T) {
		repo := memstore.New().Categories()
		_, err := repo.Get(ctx, "nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestDraftRepo(t *testing.T) {
	ctx := context.Background()

	t.Run("ListNewestFirst", func(t *testing.T) {
		repo := memstore.New().Drafts()
		for _, id := range []string{"d1", "d2", "d3"} {
			_, err := repo.Save(ctx, domain.ReviewDraft{ID: id, SKU: "SKU-" + id})
			require.NoError(t, err)
			time.Sleep(time.Millisecond)
		}

		ds, err := repo.List(ctx, domain.Page{})
		require.NoError(t, err)
		require.Len(t, ds, 3)
		assert.Equal(t, "d3", ds[0].ID)
		assert.Equal(t, "d1", ds[2].ID)
	})

	t.Run("SaveSetsCreatedAt", func(t *testing.T) {
		repo := memstore.New().Drafts()
		saved, err := repo.Save(ctx, domain.ReviewDraft{ID: "d1"})
		require.NoError(t, err)
		assert.False(t, saved.CreatedAt.IsZero())
	})
}
