// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/votesafe/internal/errors"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// errorMapping binds a domain sentinel to its HTTP rendering. An empty
// message means the wrapped error text is shown to the caller.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// Evaluated in order; the first sentinel found in the chain wins.
var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required"},
	{
		apperrors.ErrLocked,
		http.StatusLocked,
		"locked",
		"The resource is locked due to too many failed attempts",
	},
	{
		apperrors.ErrTooManyRequests,
		http.StatusTooManyRequests,
		"rate_limit_exceeded",
		"Too many requests. Please retry later.",
	},
	{
		apperrors.ErrForbidden,
		http.StatusForbidden,
		"forbidden",
		"You don't have permission to access this resource",
	},
}

// resolveError returns the status and body for err. Unknown errors map to
// a generic 500 so storage or crypto details never reach the client.
func resolveError(err error) (int, ErrorResponse) {
	for _, m := range errorMappings {
		if !apperrors.Is(err, m.target) {
			continue
		}
		message := m.message
		if message == "" {
			message = err.Error()
		}
		return m.status, ErrorResponse{Error: m.code, Message: message}
	}
	return http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	}
}

// HandleErrorGin renders a domain error as JSON. Client errors are logged at
// warn level, server errors at error level with the full chain.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	status, body := resolveError(err)

	if logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c, level, "request failed",
			slog.Int("status_code", status),
			slog.String("error_code", body.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(status, body)
}

// HandleBadRequestGin writes a 400 for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	writeClientError(c, http.StatusBadRequest, "bad_request", err, logger)
}

// HandleValidationErrorGin writes a 422 for request bodies that fail validation.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	writeClientError(c, http.StatusUnprocessableEntity, "validation_error", err, logger)
}

func writeClientError(c *gin.Context, status int, code string, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("request rejected", slog.String("error_code", code), slog.Any("error", err))
	}
	c.JSON(status, ErrorResponse{Error: code, Message: err.Error()})
}
