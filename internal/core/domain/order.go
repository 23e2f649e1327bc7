package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxItemQuantity bounds the quantity of one product in an order,
// after repeated lines are merged.
const MaxItemQuantity = 1000

type (
	OrderRequest struct {
		Email            string
		Country          string
		ShippingMethodID string
		Items            []OrderRequestItem
	}

	OrderRequestItem struct {
		ProductID int64
		Quantity  int
	}

	Order struct {
		Number           string
		Email            string
		Country          string
		ShippingMethodID string
		Items            []OrderItem
		Subtotal         decimal.Decimal
		ShippingCost     decimal.Decimal
		Total            decimal.Decimal
		Currency         string
		CreatedAt        time.Time
	}

	OrderItem struct {
		ProductID int64
		Name      string
		UnitPrice decimal.Decimal
		Quantity  int
	}
)

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
