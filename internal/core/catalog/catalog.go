// Package catalog derives the visible, ordered part of a product collection.
package catalog

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Apply returns the products matching criteria ordered by key.
//
// The source slice is never modified. Sorting is stable, so products
// with equal keys keep their relative input order.
func Apply(
	products []domain.Product, criteria domain.FilterCriteria, key domain.SortKey,
) ([]domain.Product, error) {
	const op = "catalog.Apply"

	if err := criteria.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	compare, err := comparator(key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	visible := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if criteria.Match(p) {
			visible = append(visible, p)
		}
	}

	if compare != nil {
		slices.SortStableFunc(visible, compare)
	}
	return visible, nil
}

// comparator returns nil for the featured order.
func comparator(key domain.SortKey) (func(a, b domain.Product) int, error) {
	switch key {
	case domain.SortFeatured:
		return nil, nil
	case domain.SortPriceLow:
		return func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price)
		}, nil
	case domain.SortPriceHigh:
		return func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price)
		}, nil
	case domain.SortRating:
		return func(a, b domain.Product) int {
			return cmp.Compare(b.Rating, a.Rating)
		}, nil
	case domain.SortNewest:
		return func(a, b domain.Product) int {
			return cmp.Compare(b.ID, a.ID)
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown sort key %q", domain.ErrConfiguration, key)
}

// FacetsOf counts products per category in first-seen order
// and finds the price range. Zero value for an empty collection.
func FacetsOf(products []domain.Product) domain.Facets {
	var f domain.Facets
	index := make(map[string]int)
	for i, p := range products {
		if i == 0 {
			f.PriceMin, f.PriceMax = p.Price, p.Price
		}
		f.PriceMin = decimal.Min(f.PriceMin, p.Price)
		f.PriceMax = decimal.Max(f.PriceMax, p.Price)

		pos, ok := index[p.Category]
		if !ok {
			pos = len(f.Categories)
			index[p.Category] = pos
			f.Categories = append(f.Categories, domain.CategoryCount{Category: p.Category})
		}
		f.Categories[pos].Count++
	}
	return f
}
