package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

type (
	ShippingZone struct {
		ID        int64
		Name      string
		Countries []string
	}

	ShippingMethod struct {
		ID            string
		ZoneID        int64
		Name          string
		Description   string
		Price         decimal.Decimal
		FreeThreshold *decimal.Decimal
		MinDays       int
		MaxDays       int
	}

	ShippingQuote struct {
		Method ShippingMethod
		Cost   decimal.Decimal
	}
)

func (z ShippingZone) Covers(country string) bool {
	return slices.Contains(z.Countries, country)
}

// CostFor returns the method price, or zero once subtotal
// reaches the free shipping threshold.
func (m ShippingMethod) CostFor(subtotal decimal.Decimal) decimal.Decimal {
	if m.FreeThreshold != nil && subtotal.GreaterThanOrEqual(*m.FreeThreshold) {
		return decimal.Zero
	}
	return m.Price
}
