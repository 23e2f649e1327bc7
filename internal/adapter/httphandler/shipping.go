package httphandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

// GET v1/shipping/estimate?weight=2.5&zone=GB (200 OK, 400 Bad request)
// GET v1/shipping/quote?country=GB&subtotal=49.99 (200 OK, 400 Bad request)

type ShippingHandler struct {
	estimator port.ShippingEstimator
	quoter    port.ShippingQuoter
	money     moneyFmt
}

func RegisterShipping(
	mux *http.ServeMux,
	estimator port.ShippingEstimator,
	quoter port.ShippingQuoter,
	formatter port.PriceFormatter,
) {
	h := ShippingHandler{estimator, quoter, moneyFmt{formatter: formatter}}
	mux.HandleFunc("GET /v1/shipping/estimate", h.GetEstimate)
	mux.HandleFunc("GET /v1/shipping/quote", h.GetQuote)
}

func (h ShippingHandler) GetEstimate(w http.ResponseWriter, r *http.Request) {
	const op = "ShippingHandler.GetEstimate"
	log := slog.With("op", op)

	q := r.URL.Query()
	rawWeight := q.Get("weight")
	if rawWeight == "" {
		writeError(w, log, fmt.Errorf("%w: weight is required", domain.ErrValidation), "")
		return
	}
	weight, err := strconv.ParseFloat(rawWeight, 64)
	if err != nil {
		writeError(w, log, fmt.Errorf("%w: weight=%q is not a number", domain.ErrParse, rawWeight), "")
		return
	}
	zone := strings.ToUpper(strings.TrimSpace(q.Get("zone")))

	cost, err := h.estimator.EstimateShipping(weight, zone)
	if err != nil {
		writeError(w, log, err, "failed to estimate shipping")
		return
	}

	writeJSON(w, http.StatusOK, ShippingEstimate{
		WeightKg: weight,
		Zone:     zone,
		Cost:     h.money.of(cost),
	})
}

func (h ShippingHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	const op = "ShippingHandler.GetQuote"
	log := slog.With("op", op)

	q := r.URL.Query()
	country := q.Get("country")
	if strings.TrimSpace(country) == "" {
		writeError(w, log, fmt.Errorf("%w: country is required", domain.ErrValidation), "")
		return
	}
	subtotal, err := decimalParam(q.Get("subtotal"), "subtotal", decimal.Zero)
	if err != nil {
		writeError(w, log, err, "")
		return
	}

	quotes, err := h.quoter.QuoteShipping(r.Context(), country, subtotal)
	if err != nil {
		writeError(w, log, err, "failed to quote shipping")
		return
	}

	v := ShippingQuote{
		Country:  strings.ToUpper(strings.TrimSpace(country)),
		Subtotal: h.money.of(subtotal),
		Options:  make([]ShippingOption, len(quotes)),
	}
	for i, sq := range quotes {
		v.Options[i] = ShippingOption{
			ID:          sq.Method.ID,
			Name:        sq.Method.Name,
			Description: sq.Method.Description,
			Cost:        h.money.of(sq.Cost),
			Free:        sq.Cost.IsZero(),
			MinDays:     sq.Method.MinDays,
			MaxDays:     sq.Method.MaxDays,
		}
	}
	writeJSON(w, http.StatusOK, v)
}
