package handler

// RESPONSE HELPERS:
// Every error response from the API has the same flat shape:
//
//	{"error": "<message>"}
//
// No structured codes — the message is the contract. Success bodies are the
// encoded domain value (or null), a {"token": ...} object, or a
// {"message": ...} object.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tdnguyen/user-api/internal/apperror"
)

// errorResponse is the flat error body shape used by every endpoint.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON sends a JSON response with the given status code.
//
// Headers and status must be set before the body: once Encode writes, the
// headers are on the wire and further changes are silently ignored.
//
// A nil data encodes as the literal `null` body, which is what the API
// returns for a missing record on GET/PUT by id.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers already sent — all we can do is log it.
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError maps a domain error to an HTTP status and the flat error body.
//
// MAPPING:
//   - apperror.ErrConflict     → 400 (duplicate username/email)
//   - apperror.ErrUnauthorized → 401 (invalid credentials)
//   - apperror.ErrForbidden    → 403 (rejected token)
//   - anything else            → 500 with the error's message
//
// The service layer never sees HTTP status codes; this function is the only
// place domain errors become statuses. errors.Is walks the whole wrap chain,
// so services are free to wrap repository errors with context.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		}
		writeJSON(w, status, errorResponse{Error: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
