package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lovoo/goka"
	"github.com/lovoo/goka/tester"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

type MockProducerClient struct {
	mock.Mock
}

func (m *MockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := m.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (m *MockProducerClient) Close() {
	m.Called()
}

// avroSerde skips the registry header.
type avroSerde struct {
	encode func(any) ([]byte, error)
	decode func([]byte, any) error
}

func newAvroSerde() avroSerde {
	s := schema.ProductFilterV1Avro()
	return avroSerde{schema.AvroEncodeFn(s), schema.AvroDecodeFn(s)}
}

func (s avroSerde) Encode(v any) ([]byte, error) { return s.encode(v) }
func (s avroSerde) Decode(b []byte, v any) error { return s.decode(b, v) }

type recordingEncoder struct {
	values []any
	err    error
}

func (e *recordingEncoder) Encode(v any) ([]byte, error) {
	e.values = append(e.values, v)
	return []byte("encoded"), e.err
}

func testOrder() domain.Order {
	return domain.Order{
		Number:           "ORD-123456-ABZ09H",
		Email:            "customer@example.com",
		Country:          "GB",
		ShippingMethodID: "sm-2",
		Items: []domain.OrderItem{{
			ProductID: 3, Name: "Premium Cotton Fabric",
			UnitPrice: decimal.RequireFromString("29.99"), Quantity: 1,
		}},
		Subtotal:     decimal.RequireFromString("29.99"),
		ShippingCost: decimal.RequireFromString("7.99"),
		Total:        decimal.RequireFromString("37.98"),
		Currency:     "GBP",
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestOrderEventsProducer(t *testing.T) {
	t.Run("ProducedByNumber", func(t *testing.T) {
		cl := new(MockProducerClient)
		enc := new(recordingEncoder)
		cl.On("ProduceSync", mock.Anything, mock.MatchedBy(func(rs []*kgo.Record) bool {
			return len(rs) == 1 &&
				string(rs[0].Key) == "ORD-123456-ABZ09H" &&
				string(rs[0].Value) == "encoded"
		})).Return(kgo.ProduceResults{{}})

		p, err := NewOrderEventsProducer(
			ProducerRawClientOpt(cl), ProducerEncoderOpt(enc),
		)
		require.NoError(t, err)

		require.NoError(t, p.ProduceOrderPlaced(t.Context(), testOrder()))
		cl.AssertExpectations(t)

		require.Len(t, enc.values, 1)
		event, ok := enc.values[0].(schema.OrderPlacedV1)
		require.True(t, ok)
		_, err = uuid.Parse(event.EventID)
		assert.NoError(t, err)
		assert.Equal(t, "7.99", event.ShippingCost)
		assert.Equal(t, "37.98", event.Total)
		assert.Equal(t, "29.99", event.Items[0].UnitPrice)
	})

	t.Run("BrokerError", func(t *testing.T) {
		errBroker := errors.New("not enough replicas")
		cl := new(MockProducerClient)
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Return(kgo.ProduceResults{{Err: errBroker}})

		p, err := NewOrderEventsProducer(
			ProducerRawClientOpt(cl), ProducerEncoderOpt(new(recordingEncoder)),
		)
		require.NoError(t, err)

		err = p.ProduceOrderPlaced(t.Context(), testOrder())
		assert.ErrorIs(t, err, errBroker)
	})

	t.Run("EncodeError", func(t *testing.T) {
		errEncode := errors.New("bad value")
		cl := new(MockProducerClient)

		p, err := NewOrderEventsProducer(
			ProducerRawClientOpt(cl), ProducerEncoderOpt(&recordingEncoder{err: errEncode}),
		)
		require.NoError(t, err)

		err = p.ProduceOrderPlaced(t.Context(), testOrder())
		assert.ErrorIs(t, err, errEncode)
		cl.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
	})

	t.Run("TooFewOpts", func(t *testing.T) {
		assert.Panics(t, func() {
			_, _ = NewOrderEventsProducer(ProducerEncoderOpt(new(recordingEncoder)))
		})
	})

	t.Run("NilEncoder", func(t *testing.T) {
		_, err := NewOrderEventsProducer(
			ProducerRawClientOpt(new(MockProducerClient)), ProducerEncoderOpt(nil),
		)
		assert.Error(t, err)
	})

	t.Run("Close", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("Close").Return().Once()

		p, err := NewOrderEventsProducer(
			ProducerRawClientOpt(cl), ProducerEncoderOpt(new(recordingEncoder)),
		)
		require.NoError(t, err)
		p.Close()
		cl.AssertExpectations(t)
	})
}

func TestProductFilterProducer(t *testing.T) {
	cl := new(MockProducerClient)
	enc := new(recordingEncoder)
	cl.On("ProduceSync", mock.Anything, mock.MatchedBy(func(rs []*kgo.Record) bool {
		return len(rs) == 1 && string(rs[0].Key) == "silk-evening-gown"
	})).Return(kgo.ProduceResults{{}})

	p, err := NewProductFilterProducer(ProducerRawClientOpt(cl), ProducerEncoderOpt(enc))
	require.NoError(t, err)

	rule := domain.ProductFilter{ProductSlug: "silk-evening-gown", Blocked: true}
	require.NoError(t, p.ProduceFilter(t.Context(), rule))

	assert.Equal(t, []any{schema.ProductFilterV1{
		ProductSlug: "silk-evening-gown", Blocked: true,
	}}, enc.values)
}

func TestBlockValueCodec(t *testing.T) {
	var c blockValueCodec

	data, err := c.Encode(blockValue(true))
	require.NoError(t, err)
	assert.Equal(t, []byte("true"), data)

	v, err := c.Decode([]byte("false"))
	require.NoError(t, err)
	assert.Equal(t, blockValue(false), v)

	_, err = c.Encode(true)
	assert.ErrorIs(t, err, ErrInvalidValueType)

	_, err = c.Decode([]byte("maybe"))
	assert.Error(t, err)
}

func TestFilterEventCodec(t *testing.T) {
	c := newFilterEventCodec(newAvroSerde())

	rule := schema.ProductFilterV1{ProductSlug: "wool-blend-fabric", Blocked: true}
	data, err := c.Encode(rule)
	require.NoError(t, err)

	v, err := c.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, rule, v)

	_, err = c.Encode("wool-blend-fabric")
	assert.ErrorIs(t, err, ErrInvalidValueType)
}

func TestProductFilterProcessor(t *testing.T) {
	const (
		stream = "product-filter-stream"
		group  = "product-blocker"
	)

	tt := tester.New(t)
	p, err := NewProductFilterProc(
		nil, stream, group, newAvroSerde(), goka.WithTester(tt),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	p.Run(ctx, &wg)
	wg.Wait()

	tt.Consume(stream, "silk-evening-gown", schema.ProductFilterV1{
		ProductSlug: "silk-evening-gown", Blocked: true,
	})
	tt.Consume(stream, "wool-blend-fabric", schema.ProductFilterV1{
		ProductSlug: "wool-blend-fabric", Blocked: true,
	})
	tt.Consume(stream, "wool-blend-fabric", schema.ProductFilterV1{
		ProductSlug: "wool-blend-fabric", Blocked: false,
	})

	table := goka.GroupTable(goka.Group(group))
	assert.Equal(t, blockValue(true), tt.TableValue(table, "silk-evening-gown"))
	assert.Equal(t, blockValue(false), tt.TableValue(table, "wool-blend-fabric"))
	assert.Nil(t, tt.TableValue(table, "elegant-summer-dress"))
}
