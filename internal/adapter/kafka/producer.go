package kafka

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	_ port.OrderEventsProducer   = (*OrderEventsProducer)(nil)
	_ port.ProductFilterProducer = (*ProductFilterProducer)(nil)
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, sec Security,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kopts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
		}
		cl, err := kgo.NewClient(append(kopts, sec.kgoOpts()...)...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerRawClientOpt uses an already built client.
func ProducerRawClientOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

func applyProducerOpts(op string, opts []ProducerOpt) (producerOpts, error) {
	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return producerOpts{}, opErr(err, op)
		}
	}
	return options, nil
}

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
	encoder  Encoder
}

func (p producer) close() {
	const op = "Close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(ctx context.Context, key string, v any) error {
	const op = "produce"

	b, err := p.encoder.Encode(v)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r := &kgo.Record{Key: []byte(key), Value: b}
	res := p.cl.ProduceSync(ctx, r)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// An OrderEventsProducer publishes [schema.OrderPlacedV1]
// keyed by order number.
type OrderEventsProducer struct {
	producer producer
}

func NewOrderEventsProducer(opts ...ProducerOpt) (OrderEventsProducer, error) {
	const op = "NewOrderEventsProducer"

	options, err := applyProducerOpts(op, opts)
	if err != nil {
		return OrderEventsProducer{}, err
	}

	return OrderEventsProducer{producer{
		opPrefix: "OrderEventsProducer",
		cl:       options.cl,
		encoder:  options.encoder,
	}}, nil
}

func (p OrderEventsProducer) Close() {
	p.producer.close()
}

func (p OrderEventsProducer) ProduceOrderPlaced(
	ctx context.Context, o domain.Order,
) error {
	const op = "OrderEventsProducer.ProduceOrderPlaced"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	if err := p.producer.produce(ctx, o.Number, orderToSchemaV1(o)); err != nil {
		return opErr(err, op)
	}
	return nil
}

// A ProductFilterProducer publishes [schema.ProductFilterV1]
// keyed by product slug.
type ProductFilterProducer struct {
	producer producer
}

func NewProductFilterProducer(opts ...ProducerOpt) (ProductFilterProducer, error) {
	const op = "NewProductFilterProducer"

	options, err := applyProducerOpts(op, opts)
	if err != nil {
		return ProductFilterProducer{}, err
	}

	return ProductFilterProducer{producer{
		opPrefix: "ProductFilterProducer",
		cl:       options.cl,
		encoder:  options.encoder,
	}}, nil
}

func (p ProductFilterProducer) Close() {
	p.producer.close()
}

func (p ProductFilterProducer) ProduceFilter(
	ctx context.Context, fv domain.ProductFilter,
) error {
	const op = "ProductFilterProducer.ProduceFilter"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	s := productFilterToSchemaV1(fv)
	if err := p.producer.produce(ctx, s.ProductSlug, s); err != nil {
		return opErr(err, op)
	}
	return nil
}

func orderToSchemaV1(o domain.Order) (s schema.OrderPlacedV1) {
	s.EventID = uuid.NewString()
	s.Number = o.Number
	s.Email = o.Email
	s.Country = o.Country
	s.ShippingMethodID = o.ShippingMethodID
	s.Subtotal = o.Subtotal.StringFixed(2)
	s.ShippingCost = o.ShippingCost.StringFixed(2)
	s.Total = o.Total.StringFixed(2)
	s.Currency = o.Currency
	s.CreatedAt = o.CreatedAt.UTC()

	s.Items = make([]schema.OrderItemV1, len(o.Items))
	for i, it := range o.Items {
		s.Items[i] = schema.OrderItemV1{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
		}
	}
	return
}

func productFilterToSchemaV1(v domain.ProductFilter) (s schema.ProductFilterV1) {
	s.ProductSlug = v.ProductSlug
	s.Blocked = v.Blocked
	return
}
