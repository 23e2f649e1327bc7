package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/port"
)

// POST v1/orders JSON {"email", "country", "shipping_method_id", "items": [{"product_id", "quantity"}]}
// (201 Created, 400 Bad request, 404 Not found, 409 Conflict)

type OrdersHandler struct {
	placer port.OrderPlacer
	money  moneyFmt
}

func RegisterOrders(mux *http.ServeMux, placer port.OrderPlacer, formatter port.PriceFormatter) {
	h := OrdersHandler{placer, moneyFmt{formatter: formatter}}
	mux.HandleFunc("POST /v1/orders", h.PostOrder)
}

func (h OrdersHandler) PostOrder(w http.ResponseWriter, r *http.Request) {
	const op = "OrdersHandler.PostOrder"
	log := slog.With("op", op)

	var req OrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, log, err, "")
		return
	}

	order, err := h.placer.PlaceOrder(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, log, err, "failed to place order")
		return
	}

	w.Header().Set("Location", "/v1/orders/"+order.Number)
	writeJSON(w, http.StatusCreated, h.money.order(order))
	log.Info("created", "number", order.Number)
}
