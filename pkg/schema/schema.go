package schema

import (
	"time"

	"github.com/hamba/avro/v2"
)

const OrderPlacedSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.orders",
	"name": "order_placed",
	"fields": [
		{"name": "event_id", "type": {"type": "string", "logicalType": "uuid"}},
		{"name": "number", "type": "string"},
		{"name": "email", "type": "string"},
		{"name": "country", "type": "string"},
		{"name": "shipping_method_id", "type": "string"},
		{"name": "items", "type": {
			"type": "array",
			"items": {
				"type": "record",
				"name": "order_item",
				"fields": [
					{"name": "product_id", "type": "long"},
					{"name": "name", "type": "string"},
					{"name": "unit_price", "type": "string"},
					{"name": "quantity", "type": "int"}
				]
			}
		}},
		{"name": "subtotal", "type": "string"},
		{"name": "shipping_cost", "type": "string"},
		{"name": "total", "type": "string"},
		{"name": "currency", "type": "string"},
		{"name": "created_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

const ProductFilterSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.moderation",
	"name": "product_filter",
	"fields": [
		{"name": "product_slug", "type": "string"},
		{"name": "blocked", "type": "boolean"}
	]
}`

type (
	// OrderPlacedV1 amounts are decimal strings with two fraction digits.
	OrderPlacedV1 struct {
		EventID          string        `avro:"event_id"`
		Number           string        `avro:"number"`
		Email            string        `avro:"email"`
		Country          string        `avro:"country"`
		ShippingMethodID string        `avro:"shipping_method_id"`
		Items            []OrderItemV1 `avro:"items"`
		Subtotal         string        `avro:"subtotal"`
		ShippingCost     string        `avro:"shipping_cost"`
		Total            string        `avro:"total"`
		Currency         string        `avro:"currency"`
		CreatedAt        time.Time     `avro:"created_at"`
	}

	OrderItemV1 struct {
		ProductID int64  `avro:"product_id"`
		Name      string `avro:"name"`
		UnitPrice string `avro:"unit_price"`
		Quantity  int    `avro:"quantity"`
	}

	ProductFilterV1 struct {
		ProductSlug string `avro:"product_slug"`
		Blocked     bool   `avro:"blocked"`
	}
)

// OrderPlacedV1Avro panics if the schema text is broken.
func OrderPlacedV1Avro() avro.Schema {
	return avro.MustParse(OrderPlacedSchemaTextV1)
}

func ProductFilterV1Avro() avro.Schema {
	return avro.MustParse(ProductFilterSchemaTextV1)
}
