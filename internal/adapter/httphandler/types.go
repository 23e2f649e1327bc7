package httphandler

import (
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

type (
	// Money carries the amount as a decimal string and its display form.
	Money struct {
		Amount  string `json:"amount"`
		Display string `json:"display"`
	}

	Product struct {
		ID           int64            `json:"id"`
		Slug         string           `json:"slug"`
		Name         string           `json:"name"`
		SKU          string           `json:"sku"`
		Description  string           `json:"description"`
		Price        Money            `json:"price"`
		ComparePrice *Money           `json:"compare_price,omitempty"`
		OnSale       bool             `json:"on_sale"`
		Category     string           `json:"category"`
		Rating       int              `json:"rating"`
		ReviewCount  int              `json:"review_count"`
		InStock      bool             `json:"in_stock"`
		WeightKg     float64          `json:"weight_kg"`
		IsFeatured   bool             `json:"is_featured"`
		Variants     []ProductVariant `json:"variants"`
		Images       []ProductImage   `json:"images"`
	}

	ProductVariant struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Value   string `json:"value"`
		SKU     string `json:"sku"`
		InStock bool   `json:"in_stock"`
	}

	ProductImage struct {
		ID        string `json:"id"`
		URL       string `json:"url"`
		Alt       string `json:"alt"`
		IsPrimary bool   `json:"is_primary"`
		Position  int    `json:"position"`
	}

	CategoryCount struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}

	Facets struct {
		Categories []CategoryCount `json:"categories"`
		PriceMin   Money           `json:"price_min"`
		PriceMax   Money           `json:"price_max"`
	}

	Listing struct {
		Products      []Product `json:"products"`
		Total         int       `json:"total"`
		Sort          string    `json:"sort"`
		SortDefaulted bool      `json:"sort_defaulted"`
		Facets        Facets    `json:"facets"`
	}

	Category struct {
		Slug        string `json:"slug"`
		Name        string `json:"name"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
	}

	ShippingEstimate struct {
		WeightKg float64 `json:"weight_kg"`
		Zone     string  `json:"zone,omitempty"`
		Cost     Money   `json:"cost"`
	}

	ShippingOption struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Cost        Money  `json:"cost"`
		Free        bool   `json:"free"`
		MinDays     int    `json:"min_days"`
		MaxDays     int    `json:"max_days"`
	}

	ShippingQuote struct {
		Country  string           `json:"country"`
		Subtotal Money            `json:"subtotal"`
		Options  []ShippingOption `json:"options"`
	}

	OrderItemRequest struct {
		ProductID int64 `json:"product_id" validate:"required,gt=0"`
		Quantity  int   `json:"quantity" validate:"required,gt=0,lte=1000"`
	}

	OrderRequest struct {
		Email            string             `json:"email" validate:"required,email"`
		Country          string             `json:"country" validate:"required,len=2"`
		ShippingMethodID string             `json:"shipping_method_id" validate:"required"`
		Items            []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	}

	OrderItem struct {
		ProductID int64  `json:"product_id"`
		Name      string `json:"name"`
		UnitPrice Money  `json:"unit_price"`
		Quantity  int    `json:"quantity"`
		LineTotal Money  `json:"line_total"`
	}

	Order struct {
		Number           string      `json:"number"`
		Email            string      `json:"email"`
		Country          string      `json:"country"`
		ShippingMethodID string      `json:"shipping_method_id"`
		Items            []OrderItem `json:"items"`
		Subtotal         Money       `json:"subtotal"`
		ShippingCost     Money       `json:"shipping_cost"`
		Total            Money       `json:"total"`
		Currency         string      `json:"currency"`
		CreatedAt        string      `json:"created_at"`
	}

	FilterRule struct {
		Slug    string `json:"slug" validate:"required"`
		Blocked bool   `json:"blocked"`
	}
)

// moneyFmt renders amounts in a single currency.
type moneyFmt struct {
	formatter port.PriceFormatter
	currency  string
}

func (m moneyFmt) of(amount decimal.Decimal) Money {
	const op = "moneyFmt.of"

	display, err := m.formatter.FormatPrice(amount, m.currency)
	if err != nil {
		slog.Warn("failed to format price", "op", op, "err", err)
	}
	return Money{Amount: amount.StringFixed(2), Display: display}
}

func (m moneyFmt) product(p domain.Product) Product {
	v := Product{
		ID:          p.ID,
		Slug:        p.Slug,
		Name:        p.Name,
		SKU:         p.SKU,
		Description: p.Description,
		Price:       m.of(p.Price),
		OnSale:      p.OnSale(),
		Category:    p.Category,
		Rating:      p.Rating,
		ReviewCount: p.ReviewCount,
		InStock:     p.Stock > 0,
		WeightKg:    p.WeightKg,
		IsFeatured:  p.IsFeatured,
		Variants:    make([]ProductVariant, len(p.Variants)),
		Images:      make([]ProductImage, len(p.Images)),
	}
	for i, pv := range p.Variants {
		v.Variants[i] = ProductVariant{
			ID: pv.ID, Name: pv.Name, Value: pv.Value, SKU: pv.SKU, InStock: pv.Stock > 0,
		}
	}
	for i, img := range p.Images {
		v.Images[i] = ProductImage(img)
	}
	if p.ComparePrice != nil {
		compare := m.of(*p.ComparePrice)
		v.ComparePrice = &compare
	}
	return v
}

func (m moneyFmt) listing(l domain.Listing, key domain.SortKey, defaulted bool) Listing {
	v := Listing{
		Products:      make([]Product, len(l.Products)),
		Total:         len(l.Products),
		Sort:          string(key),
		SortDefaulted: defaulted,
		Facets: Facets{
			Categories: make([]CategoryCount, len(l.Facets.Categories)),
			PriceMin:   m.of(l.Facets.PriceMin),
			PriceMax:   m.of(l.Facets.PriceMax),
		},
	}
	for i, p := range l.Products {
		v.Products[i] = m.product(p)
	}
	for i, c := range l.Facets.Categories {
		v.Facets.Categories[i] = CategoryCount{Category: c.Category, Count: c.Count}
	}
	return v
}

func (m moneyFmt) order(o domain.Order) Order {
	m.currency = o.Currency
	v := Order{
		Number:           o.Number,
		Email:            o.Email,
		Country:          o.Country,
		ShippingMethodID: o.ShippingMethodID,
		Items:            make([]OrderItem, len(o.Items)),
		Subtotal:         m.of(o.Subtotal),
		ShippingCost:     m.of(o.ShippingCost),
		Total:            m.of(o.Total),
		Currency:         o.Currency,
		CreatedAt:        o.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
	for i, it := range o.Items {
		v.Items[i] = OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: m.of(it.UnitPrice),
			Quantity:  it.Quantity,
			LineTotal: m.of(it.LineTotal()),
		}
	}
	return v
}

func categoriesOf(cs []domain.Category) []Category {
	v := make([]Category, len(cs))
	for i, c := range cs {
		v[i] = Category{
			Slug:        c.Slug,
			Name:        c.Name,
			Description: c.Description,
			ImageURL:    c.ImageURL,
		}
	}
	return v
}

func (r OrderRequest) toDomain() domain.OrderRequest {
	v := domain.OrderRequest{
		Email:            r.Email,
		Country:          r.Country,
		ShippingMethodID: r.ShippingMethodID,
		Items:            make([]domain.OrderRequestItem, len(r.Items)),
	}
	for i, it := range r.Items {
		v.Items[i] = domain.OrderRequestItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return v
}
