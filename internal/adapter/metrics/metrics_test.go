package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewServiceMetrics(reg)

	m.ProductsListed(domain.SortPriceLow, 2)
	m.ProductsListed(domain.SortPriceLow, 6)
	m.ProductsListed(domain.SortFeatured, 6)
	m.OrderPlaced("GBP", decimal.RequireFromString("99.97"))
	m.OrderEventFailed()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.listed.WithLabelValues("price-low")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.listed.WithLabelValues("featured")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orders.WithLabelValues("GBP")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsFailed))

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `storefront_orders_placed_total{currency="GBP"} 1`)
	assert.Contains(t, string(body), "storefront_order_total_sum")
}

func TestNilRegisterer(t *testing.T) {
	m := NewServiceMetrics(nil)
	assert.NotPanics(t, func() {
		m.ProductsListed(domain.SortRating, 1)
		m.OrderPlaced("EUR", decimal.NewFromInt(1))
		m.OrderEventFailed()
	})
}
