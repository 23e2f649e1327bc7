package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	const op = "writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}

// statusOf maps core errors to response codes.
// Anything unclassified is reported as unavailable.
func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrParse),
		errors.Is(err, domain.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOutOfStock):
		return http.StatusConflict
	default:
		return http.StatusServiceUnavailable
	}
}

// writeError hides details of unclassified errors behind unavailableMsg.
func writeError(w http.ResponseWriter, log *slog.Logger, err error, unavailableMsg string) {
	status := statusOf(err)
	msg := err.Error()
	if status == http.StatusServiceUnavailable {
		log.Error(unavailableMsg, "err", err)
		msg = unavailableMsg
	} else {
		log.Warn("rejected", "status", status, "err", err)
	}
	writeJSON(w, status, errorResponse{msg})
}
