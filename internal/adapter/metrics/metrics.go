// Package metrics exposes storefront counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

var _ port.ServiceMetrics = (*ServiceMetrics)(nil)

const namespace = "storefront"

type ServiceMetrics struct {
	listed       *prometheus.CounterVec
	listingSize  *prometheus.HistogramVec
	orders       *prometheus.CounterVec
	orderTotal   *prometheus.HistogramVec
	eventsFailed prometheus.Counter
}

// NewServiceMetrics registers the collectors on reg.
// A nil reg gives a collector that records nothing.
func NewServiceMetrics(reg prometheus.Registerer) *ServiceMetrics {
	if reg == nil {
		return &ServiceMetrics{}
	}

	listed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "product_listings_total",
		Help:      "Catalog listings served by sort key.",
	}, []string{"sort"})
	listingSize := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "product_listing_size",
		Help:      "Products left after filtering.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
	}, []string{"sort"})
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_placed_total",
		Help:      "Orders placed by currency.",
	}, []string{"currency"})
	orderTotal := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_total",
		Help:      "Order totals in major currency units.",
		Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000},
	}, []string{"currency"})
	eventsFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "order_events_failed_total",
		Help:      "Order placed events that failed to publish.",
	})

	reg.MustRegister(listed, listingSize, orders, orderTotal, eventsFailed)

	return &ServiceMetrics{
		listed:       listed,
		listingSize:  listingSize,
		orders:       orders,
		orderTotal:   orderTotal,
		eventsFailed: eventsFailed,
	}
}

func (m *ServiceMetrics) ProductsListed(sortKey domain.SortKey, n int) {
	if m == nil || m.listed == nil {
		return
	}
	m.listed.WithLabelValues(string(sortKey)).Inc()
	m.listingSize.WithLabelValues(string(sortKey)).Observe(float64(n))
}

func (m *ServiceMetrics) OrderPlaced(currency string, total decimal.Decimal) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.WithLabelValues(currency).Inc()
	m.orderTotal.WithLabelValues(currency).Observe(total.InexactFloat64())
}

func (m *ServiceMetrics) OrderEventFailed() {
	if m == nil || m.eventsFailed == nil {
		return
	}
	m.eventsFailed.Inc()
}

// Handler serves the exposition of g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
