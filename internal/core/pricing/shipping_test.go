package pricing_test

import (
	"math"
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimator(t *testing.T) {
	e, err := pricing.NewEstimator(pricing.DefaultShippingRates())
	require.NoError(t, err)

	tests := []struct {
		name   string
		weight float64
		want   string
	}{
		{"BaseRateWins", 0.5, "3.99"},
		{"WeightWins", 100, "50.00"},
		{"ZeroWeight", 0, "3.99"},
		{"Boundary", 7.98, "3.99"},
		{"JustAbove", 8, "4.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Estimate(tt.weight, "GB")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}

	t.Run("ZoneAgnostic", func(t *testing.T) {
		gb, err := e.Estimate(12, "GB")
		require.NoError(t, err)
		eu, err := e.Estimate(12, "EU")
		require.NoError(t, err)
		assert.True(t, gb.Equal(eu))
	})

	t.Run("NegativeWeight", func(t *testing.T) {
		_, err := e.Estimate(-1, "GB")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("NaNWeight", func(t *testing.T) {
		_, err := e.Estimate(math.NaN(), "GB")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestEstimatorZoneMultipliers(t *testing.T) {
	rates := pricing.DefaultShippingRates()
	rates.ZoneMultipliers = map[string]decimal.Decimal{
		"GB": decimal.NewFromInt(1),
		"EU": decimal.RequireFromString("2.5"),
	}
	e, err := pricing.NewEstimator(rates)
	require.NoError(t, err)

	t.Run("Domestic", func(t *testing.T) {
		got, err := e.Estimate(0.5, "GB")
		require.NoError(t, err)
		assert.Equal(t, "3.99", got.StringFixed(2))
	})

	t.Run("International", func(t *testing.T) {
		got, err := e.Estimate(100, "EU")
		require.NoError(t, err)
		assert.Equal(t, "125.00", got.StringFixed(2))
	})

	t.Run("UnknownZone", func(t *testing.T) {
		_, err := e.Estimate(1, "US")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestNewEstimator(t *testing.T) {
	t.Run("NegativeRate", func(t *testing.T) {
		_, err := pricing.NewEstimator(pricing.ShippingRates{
			BaseRate:   decimal.NewFromInt(-1),
			WeightRate: pricing.DefaultWeightRate,
		})
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("ZeroMultiplier", func(t *testing.T) {
		rates := pricing.DefaultShippingRates()
		rates.ZoneMultipliers = map[string]decimal.Decimal{"GB": decimal.Zero}
		_, err := pricing.NewEstimator(rates)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}
