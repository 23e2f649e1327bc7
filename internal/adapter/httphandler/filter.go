package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// POST v1/filter/product JSON {"slug" string, "blocked" bool} (202 Accepted, 400 Bad request)

type FilterHandler struct {
	setter port.ProductFilterSetter
}

func RegisterFilter(mux *http.ServeMux, setter port.ProductFilterSetter) {
	h := FilterHandler{setter}
	mux.HandleFunc("POST /v1/filter/product", h.PostFilter)
}

func (h FilterHandler) PostFilter(w http.ResponseWriter, r *http.Request) {
	const op = "FilterHandler.PostFilter"
	log := slog.With("op", op)

	var rule FilterRule
	if err := decodeJSON(w, r, &rule); err != nil {
		writeError(w, log, err, "")
		return
	}

	err := h.setter.SetRule(r.Context(), domain.ProductFilter{
		ProductSlug: rule.Slug,
		Blocked:     rule.Blocked,
	})
	if err != nil {
		writeError(w, log, err, "failed to accept filter rule")
		return
	}

	writeJSON(w, http.StatusAccepted, rule)
	log.Info("accepted", "slug", rule.Slug, "blocked", rule.Blocked)
}
