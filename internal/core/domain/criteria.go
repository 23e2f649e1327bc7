package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// A FilterCriteria restricts the visible part of the catalog.
//
// Empty Categories means no category restriction.
// Price bounds are inclusive.
type FilterCriteria struct {
	Categories []string
	PriceMin   decimal.Decimal
	PriceMax   decimal.Decimal
}

func (c FilterCriteria) Validate() error {
	if c.PriceMin.IsNegative() {
		return fmt.Errorf("%w: price min %s is negative", ErrValidation, c.PriceMin)
	}
	if c.PriceMin.GreaterThan(c.PriceMax) {
		return fmt.Errorf(
			"%w: price min %s is greater than price max %s",
			ErrValidation, c.PriceMin, c.PriceMax,
		)
	}
	return nil
}

// Match reports whether p passes the criteria.
func (c FilterCriteria) Match(p Product) bool {
	return c.matchCategory(p.Category) && c.matchPrice(p.Price)
}

func (c FilterCriteria) matchCategory(category string) bool {
	if len(c.Categories) == 0 {
		return true
	}
	for _, v := range c.Categories {
		if v == category {
			return true
		}
	}
	return false
}

func (c FilterCriteria) matchPrice(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(c.PriceMin) &&
		price.LessThanOrEqual(c.PriceMax)
}

type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
	SortNewest    SortKey = "newest"
)

var sortKeys = []SortKey{
	SortFeatured, SortPriceLow, SortPriceHigh, SortRating, SortNewest,
}

func SortKeys() []SortKey {
	return append([]SortKey(nil), sortKeys...)
}

// ParseSortKey returns ErrConfiguration for unknown values,
// including the empty string.
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range sortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown sort key %q", ErrConfiguration, s)
}
