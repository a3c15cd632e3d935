// Package handlers exposes the HTTP API: JSON request decoding, sentinel
// error to status code mapping, and routing.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/patungan/backend/internal/auth"
	"github.com/patungan/backend/internal/calculator"
	"github.com/patungan/backend/internal/models"
	"github.com/patungan/backend/internal/service"
	"github.com/patungan/backend/internal/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps the error to a status code via its sentinel and writes a
// JSON error body. Unrecognized errors become opaque 500s so internal
// details never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.Error("internal error", "error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation),
		errors.Is(err, calculator.ErrUnassignedItems),
		errors.Is(err, calculator.ErrIncompleteBill),
		errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, calculator.ErrNoEligibleBills):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrEmailExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON parses the request body into dst, rejecting unknown fields so
// client typos surface instead of silently defaulting.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	return nil
}
