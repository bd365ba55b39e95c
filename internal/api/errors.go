package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/castellan-io/castellan-core/internal/ownership"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Common error codes.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeNotFound     = "not_found"
	ErrCodeUnauthorized = "unauthorised"
	ErrCodeForbidden    = "forbidden"
	ErrCodeInternal     = "internal_error"
	ErrCodeValidation   = "validation_error"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeUnauthorized writes a 401 error response.
func writeUnauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// writeForbidden writes a 403 error response.
func writeForbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, ErrCodeForbidden, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeOwnershipError maps ownership gate errors to HTTP responses.
//
// A rejected new owner is the caller's input problem (400); a guard rejection
// is a permissions problem (403 for a mismatched caller, 401 when no caller
// identity survives a renouncement). Anything else is treated as internal.
func writeOwnershipError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ownership.ErrZeroNewOwner):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, "new owner must not be empty")
	case errors.Is(err, ownership.ErrNotOwner):
		writeForbidden(w, "caller is not the current owner")
	case errors.Is(err, ownership.ErrZeroCaller):
		writeUnauthorized(w, "caller identity required")
	default:
		writeInternalError(w, "ownership operation failed")
	}
}
