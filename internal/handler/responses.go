package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osgood/armorytrack/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Data interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// User-facing error messages
const (
	ErrMsgCharacterNotFoundError = "Character not found"
	ErrMsgMalformedKeyError      = "Character key must be region|realm|name"
	ErrMsgInvalidDayError        = "Invalid day, expected YYYY-MM-DD"
	ErrMsgInvalidRangeError      = "Invalid days value, expected a positive integer"
	ErrMsgServerErrorError       = "Server error occurred. Please try again."
)

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and
// messages a dashboard user can act on
func mapServiceErrorToUserMessage(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrCharacterNotFound):
		return http.StatusNotFound, ErrMsgCharacterNotFoundError
	case errors.Is(err, domain.ErrMalformedKey):
		return http.StatusBadRequest, ErrMsgMalformedKeyError
	default:
		return http.StatusInternalServerError, ErrMsgServerErrorError
	}
}
