package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/metrics"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/ordernum"
	"github.com/niksmo/storefront/internal/core/pricing"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/twmb/franz-go/pkg/sr"
)

type serdes struct {
	orderPlaced   schema.Serde
	productFilter schema.Serde
}

type producers struct {
	orderEvents   *kafka.OrderEventsProducer
	productFilter *kafka.ProductFilterProducer
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	sqldb      storage.SQLDB
	registry   *prometheus.Registry
	security   kafka.Security
	serdes     serdes
	producers  producers
	deps       service.Deps
	service    service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg, registry: prometheus.NewRegistry()}

	app.initLogger()
	app.initPricing()
	app.initStorage()
	if cfg.Broker.Enabled() {
		app.initSecurity()
		app.initSerdes()
		app.initProducers()
		app.initModeration()
	} else {
		slog.Warn("no seed brokers configured, order events and moderation are disabled")
	}
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initPricing() {
	const op = "App.initPricing"

	formatter, err := pricing.NewFormatter(
		app.cfg.Pricing.Locale, app.cfg.Pricing.Currency,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	rates, err := shippingRates(app.cfg)
	if err != nil {
		app.fallDown(op, err)
	}
	estimator, err := pricing.NewEstimator(rates)
	if err != nil {
		app.fallDown(op, err)
	}

	orderNumbers, err := ordernum.New()
	if err != nil {
		app.fallDown(op, err)
	}

	app.deps.Formatter = formatter
	app.deps.Estimator = estimator
	app.deps.OrderNumbers = orderNumbers
}

func shippingRates(cfg config.Config) (pricing.ShippingRates, error) {
	base, err := decimal.NewFromString(cfg.Shipping.BaseRate)
	if err != nil {
		return pricing.ShippingRates{}, fmt.Errorf("shipping.base_rate: %w", err)
	}
	weight, err := decimal.NewFromString(cfg.Shipping.WeightRate)
	if err != nil {
		return pricing.ShippingRates{}, fmt.Errorf("shipping.weight_rate: %w", err)
	}

	zones := make(map[string]decimal.Decimal, len(cfg.Shipping.ZoneMultipliers))
	for zone, raw := range cfg.Shipping.ZoneMultipliers {
		m, err := decimal.NewFromString(raw)
		if err != nil {
			return pricing.ShippingRates{}, fmt.Errorf(
				"shipping.zone_multipliers.%s: %w", zone, err,
			)
		}
		zones[strings.ToUpper(zone)] = m
	}

	return pricing.ShippingRates{
		BaseRate:        base,
		WeightRate:      weight,
		ZoneMultipliers: zones,
	}, nil
}

func (app *App) initStorage() {
	const op = "App.initStorage"

	sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.sqldb = sqldb

	app.deps.Catalog = storage.NewCatalogRepository(sqldb)
	app.deps.Shipping = storage.NewShippingRepository(sqldb)
	app.deps.Orders = storage.NewOrdersRepository(sqldb)
}

func (app *App) initSecurity() {
	const op = "App.initSecurity"

	b := app.cfg.Broker
	app.security = kafka.Security{User: b.User, Pass: b.Pass}
	if !b.TLS.Enabled() {
		return
	}
	tlsConfig, err := adapter.MakeTLSConfig(b.TLS.CA, b.TLS.Cert, b.TLS.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	app.security.TLS = tlsConfig
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	urls := app.cfg.Broker.SchemaRegistryURLs
	topics := app.cfg.Broker.Topics
	ctx := app.ctx

	srClient, err := sr.NewClient(sr.URLs(urls...))
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	orderPlacedSerde, err := schema.NewSerdeOrderPlacedV1(
		ctx,
		schema.SubjectOpt(topics.Orders+"-value"),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	productFilterSerde, err := schema.NewSerdeProductFilterV1(
		ctx,
		schema.SubjectOpt(topics.FilterProductStream+"-value"),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.orderPlaced = orderPlacedSerde
	app.serdes.productFilter = productFilterSerde
}

func (app *App) initProducers() {
	const op = "App.initProducers"

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	topics := app.cfg.Broker.Topics
	sec := app.security

	orderEvents, err := kafka.NewOrderEventsProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, topics.Orders, sec),
		kafka.ProducerEncoderOpt(app.serdes.orderPlaced),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	productFilter, err := kafka.NewProductFilterProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, topics.FilterProductStream, sec),
		kafka.ProducerEncoderOpt(app.serdes.productFilter),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.producers.orderEvents = &orderEvents
	app.producers.productFilter = &productFilter

	app.deps.OrderEvents = orderEvents
	app.deps.FilterProducer = productFilter
}

func (app *App) initModeration() {
	const op = "App.initModeration"

	seedBrokers := app.cfg.Broker.SeedBrokers
	group := app.cfg.Broker.Consumers.ProductBlockerGroup

	app.security.ApplyToGoka()

	proc, err := kafka.NewProductFilterProc(
		seedBrokers,
		app.cfg.Broker.Topics.FilterProductStream,
		group,
		app.serdes.productFilter,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	view, err := kafka.NewProductBlockView(seedBrokers, group)
	if err != nil {
		app.fallDown(op, err)
	}

	app.deps.FilterProcessor = proc
	app.deps.BlockView = view
}

func (app *App) initCoreService() {
	app.deps.Metrics = metrics.NewServiceMetrics(app.registry)
	app.service = service.New(app.deps)
}

func (app *App) initInboundAdapters() {
	addr := app.cfg.HTTPServerAddr
	s := app.service

	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, s, s, s)
	httphandler.RegisterShipping(mux, s, s, s)
	httphandler.RegisterOrders(mux, s, s)
	httphandler.RegisterFilter(mux, s)

	api := httphandler.AllowJSON(mux)

	root := http.NewServeMux()
	root.Handle("GET /metrics", metrics.Handler(app.registry))
	root.Handle("/", api)

	app.httpServer = httphandler.NewHTTPServer(addr, httphandler.LogRequests(root))
}

// Run blocks until the moderation table is ready, then starts serving.
func (app *App) Run(stopFn context.CancelFunc) {
	app.service.Run(app.ctx)

	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.Close()
	if app.producers.orderEvents != nil {
		app.producers.orderEvents.Close()
	}
	if app.producers.productFilter != nil {
		app.producers.productFilter.Close()
	}
	app.sqldb.Close()

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
