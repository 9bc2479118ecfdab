package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"kyatbook/internal/core"
)

// envelope is the JSON shape of every successful API response. data is
// always present, even when empty.
type envelope struct {
	Data    any    `json:"data"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// errorEnvelope is the JSON shape of every failed API response.
type errorEnvelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Details []fieldError `json:"details,omitempty"`
}

// fieldError attaches a message to the input field that caused it.
type fieldError map[string]string

type pagination struct {
	TotalCount int64 `json:"totalCount"`
	FoundCount int   `json:"foundCount"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
}

func writeJSON(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{
		Data:    data,
		Success: true,
		Message: message,
		Status:  status,
	}); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, details []fieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorEnvelope{
		Success: false,
		Message: message,
		Status:  status,
		Details: details,
	}); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}

// validationField maps a domain validation error to the input field it
// belongs to.
func validationField(err error) (string, bool) {
	switch {
	case errors.Is(err, core.ErrInvalidPhone):
		return "phoneNo", true
	case errors.Is(err, core.ErrInvalidAmount):
		return "amount", true
	case errors.Is(err, core.ErrInvalidFee):
		return "fee", true
	case errors.Is(err, core.ErrInvalidPay):
		return "pay", true
	case errors.Is(err, core.ErrInvalidType):
		return "type", true
	case errors.Is(err, core.ErrEmptyDescription), errors.Is(err, core.ErrDescriptionTooLong):
		return "description", true
	case errors.Is(err, core.ErrInvalidDate):
		return "date", true
	}
	return "", false
}

// writeDomainError translates core errors into the API error contract.
func writeDomainError(w http.ResponseWriter, err error) {
	var bracketErr *core.BracketError
	if errors.As(err, &bracketErr) {
		writeError(w, http.StatusUnprocessableEntity, "invalid fee brackets",
			[]fieldError{{bracketErr.Field: bracketErr.Err.Error()}})
		return
	}

	if field, ok := validationField(err); ok {
		writeError(w, http.StatusUnprocessableEntity, "validation failed",
			[]fieldError{{field: err.Error()}})
		return
	}

	switch {
	case errors.Is(err, core.ErrNoMatchingBracket):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, core.ErrInvalidRange):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		slog.Error("Internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error", nil)
	}
}
