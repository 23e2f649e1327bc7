package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/ordernum"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/pricing"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/shopspring/decimal"
)

var _ port.ProductsLister = (*Service)(nil)
var _ port.CategoriesLister = (*Service)(nil)
var _ port.ShippingEstimator = (*Service)(nil)
var _ port.ShippingQuoter = (*Service)(nil)
var _ port.OrderPlacer = (*Service)(nil)
var _ port.ProductFilterSetter = (*Service)(nil)
var _ port.PriceFormatter = (*Service)(nil)

const orderNumberAttempts = 3

// Deps are the collaborators of [Service].
//
// Catalog, Shipping, Orders, Formatter, Estimator and OrderNumbers
// are required. The Kafka backed ones may be nil when no broker is
// configured.
type Deps struct {
	Catalog      port.CatalogReader
	Shipping     port.ShippingReader
	Orders       port.OrdersStorage
	Formatter    pricing.Formatter
	Estimator    pricing.Estimator
	OrderNumbers ordernum.Generator

	OrderEvents     port.OrderEventsProducer
	FilterProducer  port.ProductFilterProducer
	FilterProcessor port.ProductFilterProcessor
	BlockView       port.ProductBlockView
	Metrics         port.ServiceMetrics
	Now             func() time.Time
}

type Service struct {
	catalog      port.CatalogReader
	shipping     port.ShippingReader
	orders       port.OrdersStorage
	formatter    pricing.Formatter
	estimator    pricing.Estimator
	orderNumbers ordernum.Generator

	orderEvents     port.OrderEventsProducer
	filterProducer  port.ProductFilterProducer
	filterProcessor port.ProductFilterProcessor
	blockView       port.ProductBlockView
	metrics         port.ServiceMetrics
	now             func() time.Time
}

func New(d Deps) Service {
	s := Service{
		catalog:         d.Catalog,
		shipping:        d.Shipping,
		orders:          d.Orders,
		formatter:       d.Formatter,
		estimator:       d.Estimator,
		orderNumbers:    d.OrderNumbers,
		orderEvents:     d.OrderEvents,
		filterProducer:  d.FilterProducer,
		filterProcessor: d.FilterProcessor,
		blockView:       d.BlockView,
		metrics:         d.Metrics,
		now:             d.Now,
	}
	if s.metrics == nil {
		s.metrics = nopMetrics{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Run runs the moderation components in separate goroutines.
//
// Blocks current goroutine while components is preparing to ready state.
func (s Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	if s.filterProcessor != nil {
		wg.Add(1)
		go s.filterProcessor.Run(ctx, &wg)
	}
	if s.blockView != nil {
		wg.Add(1)
		go s.blockView.Run(ctx, &wg)
	}
	wg.Wait()
}

func (s Service) Close() {
	if s.filterProcessor != nil {
		s.filterProcessor.Close()
	}
}

func (s Service) ListProducts(
	ctx context.Context, criteria domain.FilterCriteria, key domain.SortKey,
) (domain.Listing, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return domain.Listing{}, fmt.Errorf("%s: %w", op, err)
	}

	all, err := s.catalog.ReadProducts(ctx)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("%s: %w", op, err)
	}

	all = s.withoutBlocked(all)

	visible, err := catalog.Apply(all, criteria, key)
	if err != nil {
		return domain.Listing{}, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.ProductsListed(key, len(visible))

	return domain.Listing{
		Products: visible,
		Facets:   catalog.FacetsOf(all),
	}, nil
}

// withoutBlocked keeps products whose block state cannot be read.
func (s Service) withoutBlocked(ps []domain.Product) []domain.Product {
	const op = "Service.withoutBlocked"

	if s.blockView == nil {
		return ps
	}

	out := make([]domain.Product, 0, len(ps))
	for _, p := range ps {
		blocked, err := s.blockView.IsBlocked(p.Slug)
		if err != nil {
			slog.Warn("failed to check product block",
				"op", op, "slug", p.Slug, "err", err)
		}
		if !blocked {
			out = append(out, p)
		}
	}
	return out
}

func (s Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "Service.ListCategories"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cs, err := s.catalog.ReadCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cs, nil
}

func (s Service) EstimateShipping(weightKg float64, zone string) (decimal.Decimal, error) {
	const op = "Service.EstimateShipping"

	cost, err := s.estimator.Estimate(weightKg, zone)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}
	return cost, nil
}

func (s Service) QuoteShipping(
	ctx context.Context, country string, subtotal decimal.Decimal,
) ([]domain.ShippingQuote, error) {
	const op = "Service.QuoteShipping"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if subtotal.IsNegative() {
		return nil, fmt.Errorf("%s: %w: negative subtotal", op, domain.ErrValidation)
	}

	zone, err := s.zoneFor(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	methods, err := s.shipping.ReadMethods(ctx, zone.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	quotes := make([]domain.ShippingQuote, len(methods))
	for i, m := range methods {
		quotes[i] = domain.ShippingQuote{Method: m, Cost: m.CostFor(subtotal)}
	}
	return quotes, nil
}

// zoneFor rejects a zone that does not list the country,
// whatever the storage returned.
func (s Service) zoneFor(ctx context.Context, country string) (domain.ShippingZone, error) {
	code := normalizeCountry(country)
	zone, err := s.shipping.ReadZoneByCountry(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ShippingZone{}, fmt.Errorf(
				"%w: no shipping to country %q", domain.ErrValidation, country,
			)
		}
		return domain.ShippingZone{}, err
	}
	if !zone.Covers(code) {
		return domain.ShippingZone{}, fmt.Errorf(
			"%w: no shipping to country %q", domain.ErrValidation, country,
		)
	}
	return zone, nil
}

func (s Service) PlaceOrder(
	ctx context.Context, req domain.OrderRequest,
) (domain.Order, error) {
	const op = "Service.PlaceOrder"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	items, err := mergeItems(req.Items)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err := s.draftOrder(ctx, req, items)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	order, err = s.storeOrder(ctx, order)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.OrderPlaced(order.Currency, order.Total)
	log.Info("order placed", "number", order.Number, "total", order.Total.String())

	if s.orderEvents != nil {
		if err := s.orderEvents.ProduceOrderPlaced(ctx, order); err != nil {
			s.metrics.OrderEventFailed()
			log.Error("failed to produce order event",
				"number", order.Number, "err", err)
		}
	}

	return order, nil
}

func (s Service) draftOrder(
	ctx context.Context, req domain.OrderRequest, items []domain.OrderRequestItem,
) (domain.Order, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return domain.Order{}, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}

	orderItems, err := s.priceItems(ctx, items)
	if err != nil {
		return domain.Order{}, err
	}

	subtotal := decimal.Zero
	for _, it := range orderItems {
		subtotal = subtotal.Add(it.LineTotal())
	}

	zone, err := s.zoneFor(ctx, req.Country)
	if err != nil {
		return domain.Order{}, err
	}

	method, err := s.shipping.ReadMethod(ctx, req.ShippingMethodID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Order{}, fmt.Errorf(
				"%w: unknown shipping method %q", domain.ErrValidation, req.ShippingMethodID,
			)
		}
		return domain.Order{}, err
	}
	if method.ZoneID != zone.ID {
		return domain.Order{}, fmt.Errorf(
			"%w: shipping method %q is not available for %q",
			domain.ErrValidation, method.ID, req.Country,
		)
	}

	shippingCost := method.CostFor(subtotal)

	return domain.Order{
		Email:            email,
		Country:          normalizeCountry(req.Country),
		ShippingMethodID: method.ID,
		Items:            orderItems,
		Subtotal:         subtotal,
		ShippingCost:     shippingCost,
		Total:            subtotal.Add(shippingCost),
		Currency:         s.formatter.Currency(),
		CreatedAt:        s.now().UTC(),
	}, nil
}

func (s Service) priceItems(
	ctx context.Context, items []domain.OrderRequestItem,
) ([]domain.OrderItem, error) {
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}

	products, err := s.catalog.ReadProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	out := make([]domain.OrderItem, len(items))
	for i, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, it.ProductID)
		}
		if p.Stock < it.Quantity {
			return nil, fmt.Errorf(
				"%w: product %d has %d left", domain.ErrOutOfStock, p.ID, p.Stock,
			)
		}
		out[i] = domain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  it.Quantity,
		}
	}
	return out, nil
}

// storeOrder assigns a fresh number on every attempt,
// the storage rejects numbers already taken.
func (s Service) storeOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	cfg := retry.RetryConfig{
		MaxAttempts: orderNumberAttempts,
		Backoff:     retry.LinearBackoff(0),
		ShouldRetry: func(err error) bool {
			return errors.Is(err, domain.ErrDuplicateOrderNumber)
		},
	}

	return retry.DoWithResult(ctx, cfg, func() (domain.Order, error) {
		order.Number = s.orderNumbers.Generate()
		if err := s.orders.StoreOrder(ctx, order); err != nil {
			return domain.Order{}, err
		}
		return order, nil
	})
}

func (s Service) SetRule(ctx context.Context, pf domain.ProductFilter) error {
	const op = "Service.SetRule"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if pf.ProductSlug == "" {
		return fmt.Errorf("%s: %w: product slug is required", op, domain.ErrValidation)
	}

	if s.filterProducer == nil {
		return fmt.Errorf("%s: %w: moderation is disabled", op, domain.ErrConfiguration)
	}

	err := s.filterProducer.ProduceFilter(ctx, pf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s Service) FormatPrice(amount decimal.Decimal, currencyCode string) (string, error) {
	return s.formatter.Format(amount, currencyCode)
}

// mergeItems sums quantities of repeated products keeping first-seen order.
func mergeItems(items []domain.OrderRequestItem) ([]domain.OrderRequestItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", domain.ErrValidation)
	}

	index := make(map[int64]int, len(items))
	var out []domain.OrderRequestItem
	for _, it := range items {
		if it.Quantity <= 0 || it.Quantity > domain.MaxItemQuantity {
			return nil, fmt.Errorf(
				"%w: quantity of product %d must be between 1 and %d",
				domain.ErrValidation, it.ProductID, domain.MaxItemQuantity,
			)
		}
		pos, ok := index[it.ProductID]
		if !ok {
			index[it.ProductID] = len(out)
			out = append(out, it)
			continue
		}
		// both operands are bounded, the sum cannot overflow
		if out[pos].Quantity+it.Quantity > domain.MaxItemQuantity {
			return nil, fmt.Errorf(
				"%w: total quantity of product %d exceeds %d",
				domain.ErrValidation, it.ProductID, domain.MaxItemQuantity,
			)
		}
		out[pos].Quantity += it.Quantity
	}
	return out, nil
}

func normalizeCountry(country string) string {
	return strings.ToUpper(strings.TrimSpace(country))
}

type nopMetrics struct{}

func (nopMetrics) ProductsListed(domain.SortKey, int)  {}
func (nopMetrics) OrderPlaced(string, decimal.Decimal) {}
func (nopMetrics) OrderEventFailed()                   {}
