// Package response provides the JSON envelope and error mapping shared by
// all HTTP handlers.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/shoplist-server/internal/apierrors"
	"github.com/dtroode/shoplist-server/internal/logger"
	"github.com/dtroode/shoplist-server/internal/model"
)

// Envelope is the consistent JSON response structure.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}

// JSON writes data wrapped in the envelope with the given status code.
func JSON(w http.ResponseWriter, status int, data any, l *logger.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	envelope := Envelope{
		Success: status < 400,
		Data:    data,
	}

	if err := json.NewEncoder(w).Encode(envelope); err != nil && l != nil {
		l.Error("failed to encode response", "error", err)
	}
}

// Success writes a 200 OK envelope.
func Success(w http.ResponseWriter, data any, l *logger.Logger) {
	JSON(w, http.StatusOK, data, l)
}

// Created writes a 201 Created envelope.
func Created(w http.ResponseWriter, data any, l *logger.Logger) {
	JSON(w, http.StatusCreated, data, l)
}

// NoContent writes a 204 No Content response with no body.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an error envelope with the given status code.
func Error(w http.ResponseWriter, status int, message string, l *logger.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	envelope := Envelope{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(envelope); err != nil && l != nil {
		l.Error("failed to encode error response", "error", err)
	}
}

// Unauthorized writes a 401 error envelope.
func Unauthorized(w http.ResponseWriter, message string, l *logger.Logger) {
	Error(w, http.StatusUnauthorized, message, l)
}

// HandleError maps a domain error to its HTTP status. Errors outside the
// taxonomy become 500 without leaking their message.
func HandleError(w http.ResponseWriter, err error, l *logger.Logger) {
	var apiErr *apierrors.Error
	if errors.As(err, &apiErr) {
		Error(w, apiErr.HTTPStatus(), apiErr.Message, l)
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		Error(w, http.StatusNotFound, "not found", l)
		return
	}

	if l != nil {
		l.Error("unhandled error", "error", err)
	}
	Error(w, http.StatusInternalServerError, "internal server error", l)
}
