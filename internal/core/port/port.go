package port

import (
	"context"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

type (
	runnerContextWg interface {
		Run(context.Context, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

// Inbound

type ProductsLister interface {
	ListProducts(
		context.Context, domain.FilterCriteria, domain.SortKey,
	) (domain.Listing, error)
}

type CategoriesLister interface {
	ListCategories(context.Context) ([]domain.Category, error)
}

type ShippingEstimator interface {
	EstimateShipping(weightKg float64, zone string) (decimal.Decimal, error)
}

type ShippingQuoter interface {
	QuoteShipping(
		ctx context.Context, country string, subtotal decimal.Decimal,
	) ([]domain.ShippingQuote, error)
}

type OrderPlacer interface {
	PlaceOrder(context.Context, domain.OrderRequest) (domain.Order, error)
}

type ProductFilterSetter interface {
	SetRule(context.Context, domain.ProductFilter) error
}

type PriceFormatter interface {
	FormatPrice(amount decimal.Decimal, currencyCode string) (string, error)
}

// Outbound

// A CatalogReader returns products in curatorial (featured) order.
type CatalogReader interface {
	ReadProducts(context.Context) ([]domain.Product, error)
	ReadProductsByIDs(context.Context, []int64) ([]domain.Product, error)
	ReadCategories(context.Context) ([]domain.Category, error)
}

type ShippingReader interface {
	ReadZoneByCountry(ctx context.Context, country string) (domain.ShippingZone, error)
	ReadMethods(ctx context.Context, zoneID int64) ([]domain.ShippingMethod, error)
	ReadMethod(ctx context.Context, id string) (domain.ShippingMethod, error)
}

type OrdersStorage interface {
	StoreOrder(context.Context, domain.Order) error
}

type OrderEventsProducer interface {
	ProduceOrderPlaced(context.Context, domain.Order) error
}

type ProductFilterProducer interface {
	ProduceFilter(context.Context, domain.ProductFilter) error
}

type ProductBlockChecker interface {
	IsBlocked(productSlug string) (bool, error)
}

type ProductFilterProcessor interface {
	runnerContextWg
	closer
}

type ProductBlockView interface {
	ProductBlockChecker
	runnerContextWg
}

type ServiceMetrics interface {
	ProductsListed(sortKey domain.SortKey, n int)
	OrderPlaced(currency string, total decimal.Decimal)
	OrderEventFailed()
}
