package pricing

import (
	"fmt"
	"math"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	DefaultBaseRate   = decimal.RequireFromString("3.99")
	DefaultWeightRate = decimal.RequireFromString("0.50")
)

// ShippingRates configures an [Estimator].
//
// BaseRate is the minimum charge, WeightRate the per-kg multiplier.
// ZoneMultipliers is optional: when empty the estimate does not
// depend on the zone.
type ShippingRates struct {
	BaseRate        decimal.Decimal
	WeightRate      decimal.Decimal
	ZoneMultipliers map[string]decimal.Decimal
}

func DefaultShippingRates() ShippingRates {
	return ShippingRates{
		BaseRate:   DefaultBaseRate,
		WeightRate: DefaultWeightRate,
	}
}

type Estimator struct {
	rates ShippingRates
}

func NewEstimator(rates ShippingRates) (Estimator, error) {
	const op = "pricing.NewEstimator"

	if rates.BaseRate.IsNegative() || rates.WeightRate.IsNegative() {
		return Estimator{}, fmt.Errorf(
			"%s: %w: negative shipping rate", op, domain.ErrConfiguration,
		)
	}
	zones := make(map[string]decimal.Decimal, len(rates.ZoneMultipliers))
	for zone, m := range rates.ZoneMultipliers {
		if !m.IsPositive() {
			return Estimator{}, fmt.Errorf(
				"%s: %w: zone %q multiplier must be positive",
				op, domain.ErrConfiguration, zone,
			)
		}
		zones[zone] = m
	}
	rates.ZoneMultipliers = zones
	return Estimator{rates}, nil
}

// Estimate returns max(BaseRate, weightKg*WeightRate) rounded to pence,
// scaled by the zone multiplier when multipliers are configured.
func (e Estimator) Estimate(weightKg float64, zone string) (decimal.Decimal, error) {
	const op = "Estimator.Estimate"

	if math.IsNaN(weightKg) || math.IsInf(weightKg, 0) || weightKg < 0 {
		return decimal.Zero, fmt.Errorf(
			"%s: %w: invalid weight %v", op, domain.ErrValidation, weightKg,
		)
	}

	multiplier, err := e.multiplier(zone)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", op, err)
	}

	byWeight := decimal.NewFromFloat(weightKg).Mul(e.rates.WeightRate)
	cost := decimal.Max(e.rates.BaseRate, byWeight).Mul(multiplier)
	return cost.Round(2), nil
}

func (e Estimator) multiplier(zone string) (decimal.Decimal, error) {
	if len(e.rates.ZoneMultipliers) == 0 {
		return decimal.NewFromInt(1), nil
	}
	m, ok := e.rates.ZoneMultipliers[zone]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unknown zone %q", domain.ErrValidation, zone)
	}
	return m, nil
}
