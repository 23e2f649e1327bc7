package schema_test

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/sr"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

type MockRegistryClient struct {
	mock.Mock
}

func (c *MockRegistryClient) CreateSchema(
	ctx context.Context, subject string, s sr.Schema,
) (sr.SubjectSchema, error) {
	args := c.Called(ctx, subject, s)
	return args.Get(0).(sr.SubjectSchema), args.Error(1)
}

func TestSerdeOrderPlacedV1(t *testing.T) {
	const subject = "orders-value"

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeOrderPlacedV1(t.Context())
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeOrderPlacedV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("RegistryUnavailable", func(t *testing.T) {
		errRegistry := errors.New("registry is down")
		si := new(MockSchemaIdentifier)
		si.On("DetermineID", t.Context(), subject, schema.OrderPlacedSchemaTextV1).
			Return(0, errRegistry)

		_, err := schema.NewSerdeOrderPlacedV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		assert.ErrorIs(t, err, errRegistry)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		const schemaID = 42
		si := new(MockSchemaIdentifier)
		si.On("DetermineID", t.Context(), subject, schema.OrderPlacedSchemaTextV1).
			Return(schemaID, nil)

		serde, err := schema.NewSerdeOrderPlacedV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(si),
		)
		require.NoError(t, err)

		event := schema.OrderPlacedV1{
			EventID:          "0d9a4f4e-6a2b-4d0c-8f43-2c1bd1c8f001",
			Number:           "ORD-123456-ABZ09H",
			Email:            "customer@example.com",
			Country:          "GB",
			ShippingMethodID: "sm-1",
			Items: []schema.OrderItemV1{
				{ProductID: 3, Name: "Premium Cotton Fabric", UnitPrice: "29.99", Quantity: 2},
			},
			Subtotal:     "59.98",
			ShippingCost: "0.00",
			Total:        "59.98",
			Currency:     "GBP",
			CreatedAt:    time.UnixMilli(1_767_323_045_000).UTC(),
		}

		data, err := serde.Encode(event)
		require.NoError(t, err)

		require.Greater(t, len(data), 5)
		assert.Equal(t, byte(0), data[0])
		assert.Equal(t, uint32(schemaID), binary.BigEndian.Uint32(data[1:5]))

		var decoded schema.OrderPlacedV1
		require.NoError(t, serde.Decode(data, &decoded))
		assert.Equal(t, event, decoded)
	})
}

func TestSerdeProductFilterV1(t *testing.T) {
	const subject = "product-filter-stream-value"

	si := new(MockSchemaIdentifier)
	si.On("DetermineID", t.Context(), subject, schema.ProductFilterSchemaTextV1).
		Return(7, nil)

	serde, err := schema.NewSerdeProductFilterV1(
		t.Context(),
		schema.SubjectOpt(subject),
		schema.SchemaIdentifierOpt(si),
	)
	require.NoError(t, err)

	rule := schema.ProductFilterV1{ProductSlug: "silk-evening-gown", Blocked: true}
	data, err := serde.Encode(rule)
	require.NoError(t, err)

	var decoded schema.ProductFilterV1
	require.NoError(t, serde.Decode(data, &decoded))
	assert.Equal(t, rule, decoded)

	_, err = serde.Encode(schema.OrderPlacedV1{})
	assert.Error(t, err, "unregistered type must not encode")
}

func TestSchemaCreater(t *testing.T) {
	t.Run("RegistersAvro", func(t *testing.T) {
		cl := new(MockRegistryClient)
		cl.On("CreateSchema", t.Context(), "orders-value", sr.Schema{
			Type:   sr.TypeAvro,
			Schema: schema.OrderPlacedSchemaTextV1,
		}).Return(sr.SubjectSchema{ID: 3}, nil)

		id, err := schema.NewSchemaCreater(cl).DetermineID(
			t.Context(), "orders-value", schema.OrderPlacedSchemaTextV1,
		)
		require.NoError(t, err)
		assert.Equal(t, 3, id)
	})

	t.Run("Error", func(t *testing.T) {
		errRegistry := errors.New("conflict")
		cl := new(MockRegistryClient)
		cl.On("CreateSchema", mock.Anything, mock.Anything, mock.Anything).
			Return(sr.SubjectSchema{}, errRegistry)

		_, err := schema.NewSchemaCreater(cl).DetermineID(t.Context(), "s", "{}")
		assert.ErrorIs(t, err, errRegistry)
	})
}

func TestSchemasParse(t *testing.T) {
	assert.NotPanics(t, func() { schema.OrderPlacedV1Avro() })
	assert.NotPanics(t, func() { schema.ProductFilterV1Avro() })
}
