package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/catalog-engine/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}

// writeDomainError maps core failures onto the HTTP error contract:
// validation 422 with the complete field list, immutable field 409,
// missing entity 404, store outage 503.
func writeDomainError(w http.ResponseWriter, log *slog.Logger, err error) {
	if ve, ok := domain.AsValidationErrors(err); ok {
		writeJSON(w, log, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation failed",
			Fields: ve,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrUnknownTypeTag):
		writeJSON(w, log, http.StatusUnprocessableEntity, ErrorResponse{
			Error: "unknown product type",
			Fields: []domain.FieldError{
				{Field: "type_tag", Reason: "unknown product type"},
			},
		})
	case errors.Is(err, domain.ErrImmutableField):
		writeJSON(w, log, http.StatusConflict, ErrorResponse{
			Error: "type_tag is immutable",
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, log, http.StatusNotFound, ErrorResponse{
			Error: "not found",
		})
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Error("store unavailable", "err", err)
		writeJSON(w, log, http.StatusServiceUnavailable, ErrorResponse{
			Error: "temporarily unavailable",
		})
	default:
		log.Error("unexpected failure", "err", err)
		writeJSON(w, log, http.StatusInternalServerError, ErrorResponse{
			Error: "internal error",
		})
	}
}
