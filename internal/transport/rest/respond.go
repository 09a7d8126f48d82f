package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/lumis-app/lumis-backend/internal/domain"
)

// Stable error codes exposed to clients.
const (
	codeValidation          = "validation_error"
	codeUnauthorized        = "unauthorized"
	codeNotFound            = "not_found"
	codeQuotaExceeded       = "quota_exceeded"
	codeProviderUnavailable = "provider_unavailable"
	codeInternal            = "internal_error"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}

// handleError maps domain errors to HTTP statuses and the error envelope.
// Anything unrecognized is logged and reported as a 500 without detail.
func handleError(ctx context.Context, log *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	case errors.Is(err, domain.ErrQuotaExceeded):
		writeError(w, http.StatusTooManyRequests, codeQuotaExceeded, "daily limit reached for this feature")
	case errors.Is(err, domain.ErrProviderUnavailable):
		log.ErrorContext(ctx, "generation failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, codeProviderUnavailable, "generation is temporarily unavailable")
	default:
		log.ErrorContext(ctx, "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
