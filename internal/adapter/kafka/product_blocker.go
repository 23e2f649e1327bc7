package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
)

var (
	_ port.ProductFilterProcessor = (*ProductFilterProcessor)(nil)
	_ port.ProductBlockView       = (*ProductBlockView)(nil)
)

const viewPollInterval = 200 * time.Millisecond

// A filterEventCodec used for serde [schema.ProductFilterV1]
type filterEventCodec struct {
	serde Serde
}

func newFilterEventCodec(s Serde) filterEventCodec {
	return filterEventCodec{s}
}

func (c filterEventCodec) Encode(v any) ([]byte, error) {
	const op = "filterEventCodec.Encode"
	if _, ok := v.(schema.ProductFilterV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c filterEventCodec) Decode(data []byte) (any, error) {
	const op = "filterEventCodec.Decode"
	var s schema.ProductFilterV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// A blockValue is the block state of a particular product slug.
type blockValue bool

// A blockValueCodec used for serde [blockValue]
type blockValueCodec struct{}

func (blockValueCodec) Encode(v any) ([]byte, error) {
	const op = "blockValueCodec.Encode"
	fv, ok := v.(blockValue)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return strconv.AppendBool(nil, bool(fv)), nil
}

func (blockValueCodec) Decode(data []byte) (any, error) {
	const op = "blockValueCodec.Decode"
	bv, err := strconv.ParseBool(string(data))
	if err != nil {
		return nil, opErr(err, op)
	}
	return blockValue(bv), nil
}

// A ProductFilterProcessor persists moderation rules
// from the stream topic to the group table.
type ProductFilterProcessor struct {
	gp *goka.Processor
}

func NewProductFilterProc(
	seedBrokers []string,
	inputStream string,
	group string,
	productFilterSerde Serde,
	opts ...goka.ProcessorOption,
) (ProductFilterProcessor, error) {
	const op = "NewProductFilterProcessor"

	var p ProductFilterProcessor

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputStream),
			newFilterEventCodec(productFilterSerde),
			p.processFn,
		),
		goka.Persist(blockValueCodec{}),
	)

	opts = append([]goka.ProcessorOption{
		goka.WithLogger(newGokaLogger("ProductFilterProcessor")),
	}, opts...)

	gp, err := goka.NewProcessor(seedBrokers, gg, opts...)
	if err != nil {
		return ProductFilterProcessor{}, opErr(err, op)
	}

	return ProductFilterProcessor{gp}, nil
}

// Run starts the processor and returns once it is ready or ctx is done.
func (p ProductFilterProcessor) Run(ctx context.Context, wg *sync.WaitGroup) {
	const op = "ProductFilterProcessor.Run"
	log := slog.With("op", op)

	defer wg.Done()

	go p.run(ctx)

	log.Info("preparing...")
	if p.waitForReady(ctx) {
		log.Info("running")
	}
}

func (p ProductFilterProcessor) Close() {
	const op = "ProductFilterProcessor.Close"
	log := slog.With("op", op)

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

func (p ProductFilterProcessor) run(ctx context.Context) {
	const op = "ProductFilterProcessor.run"
	log := slog.With("op", op)

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p ProductFilterProcessor) waitForReady(ctx context.Context) bool {
	const op = "ProductFilterProcessor.waitForReady"
	log := slog.With("op", op)

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Error("fall down while preparing", "err", err)
		}
		return false
	}
	return true
}

func (ProductFilterProcessor) processFn(ctx goka.Context, msg any) {
	const op = "ProductFilterProcessor.processFn"
	log := slog.With("op", op)

	event, ok := msg.(schema.ProductFilterV1)
	if !ok {
		log.Error("unexpected message", "key", ctx.Key())
		return
	}

	v := blockValue(event.Blocked)
	ctx.SetValue(v)
	log.Info(
		"set filter value",
		"productSlug", event.ProductSlug,
		"isBlocked", v,
	)
}

// A ProductBlockView answers block lookups from a local copy
// of the group table.
type ProductBlockView struct {
	gv *goka.View
}

func NewProductBlockView(
	seedBrokers []string, group string, opts ...goka.ViewOption,
) (ProductBlockView, error) {
	const op = "NewProductBlockView"

	opts = append([]goka.ViewOption{
		goka.WithViewLogger(newGokaLogger("ProductBlockView")),
	}, opts...)

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		blockValueCodec{},
		opts...,
	)
	if err != nil {
		return ProductBlockView{}, opErr(err, op)
	}
	return ProductBlockView{gv}, nil
}

// Run starts the view and returns once the table is recovered or ctx is done.
func (v ProductBlockView) Run(ctx context.Context, wg *sync.WaitGroup) {
	const op = "ProductBlockView.Run"
	log := slog.With("op", op)

	defer wg.Done()

	go v.run(ctx)

	log.Info("recovering...")
	if v.waitForRecovered(ctx) {
		log.Info("running")
	}
}

func (v ProductBlockView) run(ctx context.Context) {
	const op = "ProductBlockView.run"
	log := slog.With("op", op)

	if err := v.gv.Run(ctx); err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (v ProductBlockView) waitForRecovered(ctx context.Context) bool {
	ticker := time.NewTicker(viewPollInterval)
	defer ticker.Stop()

	for !v.gv.Recovered() {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return true
}

// IsBlocked reports false for slugs without a rule.
func (v ProductBlockView) IsBlocked(productSlug string) (bool, error) {
	const op = "ProductBlockView.IsBlocked"

	val, err := v.gv.Get(productSlug)
	if err != nil {
		return false, opErr(err, op)
	}
	if val == nil {
		return false, nil
	}

	bv, ok := val.(blockValue)
	if !ok {
		return false, opErr(ErrInvalidValueType, op)
	}
	return bool(bv), nil
}
