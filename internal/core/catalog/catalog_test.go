package catalog_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleProducts() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "Elegant Summer Dress", Price: price("89.99"), Rating: 4, ReviewCount: 24, Category: "ready-made"},
		{ID: 2, Name: "Classic White Shirt", Price: price("45.00"), Rating: 5, ReviewCount: 18, Category: "ready-made"},
		{ID: 3, Name: "Premium Cotton Fabric", Price: price("29.99"), Rating: 4, ReviewCount: 31, Category: "fabrics"},
		{ID: 4, Name: "Designer Pattern Set", Price: price("65.00"), Rating: 4, ReviewCount: 12, Category: "designs"},
		{ID: 5, Name: "Silk Evening Gown", Price: price("199.99"), Rating: 5, ReviewCount: 8, Category: "ready-made"},
		{ID: 6, Name: "Wool Blend Fabric", Price: price("39.99"), Rating: 4, ReviewCount: 15, Category: "fabrics"},
	}
}

func fullRange() domain.FilterCriteria {
	return domain.FilterCriteria{PriceMin: price("0"), PriceMax: price("500")}
}

func names(ps []domain.Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestApply(t *testing.T) {
	t.Run("FabricsPriceLow", func(t *testing.T) {
		criteria := fullRange()
		criteria.Categories = []string{"fabrics"}

		got, err := catalog.Apply(sampleProducts(), criteria, domain.SortPriceLow)
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"Premium Cotton Fabric", "Wool Blend Fabric"}, names(got),
		)
		assert.True(t, got[0].Price.Equal(price("29.99")))
		assert.True(t, got[1].Price.Equal(price("39.99")))
	})

	t.Run("FeaturedKeepsInputOrder", func(t *testing.T) {
		src := sampleProducts()
		got, err := catalog.Apply(src, fullRange(), domain.SortFeatured)
		require.NoError(t, err)
		assert.Equal(t, names(src), names(got))
	})

	t.Run("PriceHigh", func(t *testing.T) {
		got, err := catalog.Apply(sampleProducts(), fullRange(), domain.SortPriceHigh)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"Silk Evening Gown",
			"Elegant Summer Dress",
			"Designer Pattern Set",
			"Classic White Shirt",
			"Wool Blend Fabric",
			"Premium Cotton Fabric",
		}, names(got))
	})

	t.Run("RatingIsStable", func(t *testing.T) {
		got, err := catalog.Apply(sampleProducts(), fullRange(), domain.SortRating)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"Classic White Shirt",
			"Silk Evening Gown",
			"Elegant Summer Dress",
			"Premium Cotton Fabric",
			"Designer Pattern Set",
			"Wool Blend Fabric",
		}, names(got))
	})

	t.Run("NewestByIDDesc", func(t *testing.T) {
		got, err := catalog.Apply(sampleProducts(), fullRange(), domain.SortNewest)
		require.NoError(t, err)
		require.Len(t, got, 6)
		for i := 1; i < len(got); i++ {
			assert.Greater(t, got[i-1].ID, got[i].ID)
		}
	})

	t.Run("InclusivePriceBounds", func(t *testing.T) {
		criteria := domain.FilterCriteria{
			PriceMin: price("45.00"),
			PriceMax: price("89.99"),
		}
		got, err := catalog.Apply(sampleProducts(), criteria, domain.SortFeatured)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"Elegant Summer Dress",
			"Classic White Shirt",
			"Designer Pattern Set",
		}, names(got))
	})

	t.Run("OnlyMatchingProducts", func(t *testing.T) {
		criteria := domain.FilterCriteria{
			Categories: []string{"ready-made", "designs"},
			PriceMin:   price("50"),
			PriceMax:   price("150"),
		}
		src := sampleProducts()
		got, err := catalog.Apply(src, criteria, domain.SortPriceLow)
		require.NoError(t, err)

		var want int
		for _, p := range src {
			if criteria.Match(p) {
				want++
			}
		}
		require.Len(t, got, want)
		for _, p := range got {
			assert.True(t, criteria.Match(p), p.Name)
		}
	})

	t.Run("SourceNotMutated", func(t *testing.T) {
		src := sampleProducts()
		before := names(src)
		_, err := catalog.Apply(src, fullRange(), domain.SortPriceHigh)
		require.NoError(t, err)
		assert.Equal(t, before, names(src))
	})

	t.Run("EmptyInput", func(t *testing.T) {
		got, err := catalog.Apply(nil, fullRange(), domain.SortPriceLow)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("MinGreaterThanMax", func(t *testing.T) {
		criteria := domain.FilterCriteria{PriceMin: price("100"), PriceMax: price("10")}
		_, err := catalog.Apply(sampleProducts(), criteria, domain.SortFeatured)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("NegativeMin", func(t *testing.T) {
		criteria := domain.FilterCriteria{PriceMin: price("-1"), PriceMax: price("10")}
		_, err := catalog.Apply(sampleProducts(), criteria, domain.SortFeatured)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("UnknownSortKey", func(t *testing.T) {
		_, err := catalog.Apply(sampleProducts(), fullRange(), domain.SortKey("cheapest"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}

func TestFacetsOf(t *testing.T) {
	t.Run("Sample", func(t *testing.T) {
		f := catalog.FacetsOf(sampleProducts())
		assert.Equal(t, []domain.CategoryCount{
			{Category: "ready-made", Count: 3},
			{Category: "fabrics", Count: 2},
			{Category: "designs", Count: 1},
		}, f.Categories)
		assert.True(t, f.PriceMin.Equal(price("29.99")))
		assert.True(t, f.PriceMax.Equal(price("199.99")))
	})

	t.Run("Empty", func(t *testing.T) {
		f := catalog.FacetsOf(nil)
		assert.Empty(t, f.Categories)
		assert.True(t, f.PriceMin.IsZero())
		assert.True(t, f.PriceMax.IsZero())
	})
}
