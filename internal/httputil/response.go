// Package httputil provides HTTP utility functions for request and response
// handling.
package httputil

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/shimesaba-type0/secure-pdf-viewer-sub001/internal/errors"
)

// ErrorResponse is the only error body shape this service emits. It never
// carries internal identifiers, stack traces, or store schema details.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Timestamp returns the current UTC time in the error body format.
func Timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// newErrorResponse stamps the response with the current UTC time.
func newErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: Timestamp(),
	}
}

// HandleErrorGin maps domain errors to HTTP status codes and writes the JSON
// body. Denial reasons are deliberately indistinguishable: wrong passphrase,
// bad token, and blocked referrer all read the same from outside.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	var statusCode int
	var errorResponse ErrorResponse

	switch {
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		errorResponse = newErrorResponse("bad_request", err.Error())

	case apperrors.Is(err, apperrors.ErrUnauthorized),
		apperrors.Is(err, apperrors.ErrNotConfigured):
		statusCode = http.StatusUnauthorized
		errorResponse = newErrorResponse("unauthorized", "Authentication failed")

	case apperrors.Is(err, apperrors.ErrForbidden):
		statusCode = http.StatusForbidden
		errorResponse = newErrorResponse("forbidden", "Access denied")

	case apperrors.Is(err, apperrors.ErrRateLimited):
		statusCode = http.StatusTooManyRequests
		errorResponse = newErrorResponse("rate_limited", "Too many requests")

	case apperrors.Is(err, apperrors.ErrNotFound):
		statusCode = http.StatusNotFound
		errorResponse = newErrorResponse("not_found", "The requested resource was not found")

	case apperrors.Is(err, apperrors.ErrConflict):
		statusCode = http.StatusConflict
		errorResponse = newErrorResponse("conflict", "A conflict occurred with existing data")

	default:
		statusCode = http.StatusInternalServerError
		errorResponse = newErrorResponse("internal_error", "An internal error occurred")
	}

	if logger != nil {
		logger.Error("request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, newErrorResponse("bad_request", err.Error()))
}
