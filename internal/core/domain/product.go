package domain

import "github.com/shopspring/decimal"

type (
	Product struct {
		ID           int64
		Slug         string
		Name         string
		SKU          string
		Description  string
		Price        decimal.Decimal
		ComparePrice *decimal.Decimal
		Category     string
		Rating       int
		ReviewCount  int
		Stock        int
		WeightKg     float64
		IsFeatured   bool
		Variants     []ProductVariant
		Images       []ProductImage
	}

	// A ProductVariant is a purchasable option of a product,
	// such as a size, with its own sku and stock.
	ProductVariant struct {
		ID    string
		Name  string
		Value string
		SKU   string
		Stock int
	}

	// Images are listed by Position.
	ProductImage struct {
		ID        string
		URL       string
		Alt       string
		IsPrimary bool
		Position  int
	}

	Category struct {
		Slug        string
		Name        string
		Description string
		ImageURL    string
	}
)

// OnSale reports whether the product has a compare price above its price.
func (p Product) OnSale() bool {
	return p.ComparePrice != nil && p.ComparePrice.GreaterThan(p.Price)
}

// A ProductFilter is a moderation rule hiding or showing
// a product on the storefront.
type ProductFilter struct {
	ProductSlug string
	Blocked     bool
}

type (
	// A Listing is the visible part of the catalog together with
	// the facets of the whole catalog.
	Listing struct {
		Products []Product
		Facets   Facets
	}

	Facets struct {
		Categories []CategoryCount
		PriceMin   decimal.Decimal
		PriceMax   decimal.Decimal
	}

	CategoryCount struct {
		Category string
		Count    int
	}
)
