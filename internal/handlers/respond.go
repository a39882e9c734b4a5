package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/apperr"
	"github.com/ukydev/fleet-dashboard/internal/auth"
	"github.com/ukydev/fleet-dashboard/internal/syncer"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string      `json:"error"`
	Kind  string      `json:"kind"`
	Field string      `json:"field,omitempty"`
	Form  interface{} `json:"form,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}

// respondError writes err with the status its kind maps to. form, when not
// nil, is echoed back so the client can keep the user's input.
func respondError(w http.ResponseWriter, err error, form interface{}) {
	respondJSON(w, StatusFor(err), ErrorResponse{
		Error: apperr.Message(err),
		Kind:  kindOf(err),
		Field: apperr.Field(err),
		Form:  form,
	})
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg, Kind: "request"})
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrUserInactive),
		errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, syncer.ErrClosed):
		return http.StatusServiceUnavailable
	}
	switch apperr.Kind(err) {
	case "validation":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "constraint", "busy":
		return http.StatusConflict
	case "configuration":
		return http.StatusServiceUnavailable
	case "store":
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func kindOf(err error) string {
	if StatusFor(err) == http.StatusUnauthorized {
		return "auth"
	}
	if errors.Is(err, syncer.ErrClosed) {
		return "closed"
	}
	return apperr.Kind(err)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return apperr.Invalid("", "Request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Invalid("", "Invalid JSON")
	}
	return nil
}
