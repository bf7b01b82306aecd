package controller

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nimburion/storefront/pkg/middleware"
)

const internalErrorMessage = "internal server error"

// ErrorResponse represents the consistent error response format.
type ErrorResponse struct {
	Error     string                 `json:"error"`
	Code      string                 `json:"code,omitempty"`
	Message   string                 `json:"message,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// MapError maps application errors to HTTP responses. Anything that is not
// an AppError becomes a 500 without detail; 5xx AppErrors never leak their cause.
func MapError(ctx context.Context, err error) (int, ErrorResponse) {
	requestID := RequestIDFromContext(ctx)

	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, ErrorResponse{
			Error:     "internal_server_error",
			Message:   internalErrorMessage,
			RequestID: requestID,
		}
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = inferStatusFromCode(appErr.Code)
	}

	message := appErr.Message
	if message == "" || status == http.StatusInternalServerError {
		message = internalErrorMessage
	}

	return status, ErrorResponse{
		Error:     errorCategory(status, appErr.Code),
		Code:      appErr.Code,
		Message:   message,
		RequestID: requestID,
		Details:   appErr.Details,
	}
}

// RequestIDFromContext returns the request ID set by the request-id middleware.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(middleware.RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, details map[string]interface{}) *AppError {
	return NewError("validation.failed", nil).
		WithMessage(message).
		WithHTTPStatus(http.StatusBadRequest).
		WithDetails(details)
}

// NewValidationErrorWithCode creates a 400 error with a specific validation code.
func NewValidationErrorWithCode(code, message string, details map[string]interface{}) *AppError {
	return NewError(code, nil).
		WithMessage(message).
		WithHTTPStatus(http.StatusBadRequest).
		WithDetails(details)
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(message string) *AppError {
	return NewError("resource.not_found", nil).
		WithMessage(message).
		WithHTTPStatus(http.StatusNotFound)
}

// NewServiceUnavailableError is returned when a dependency did not answer in time.
func NewServiceUnavailableError(message string, cause error) *AppError {
	return NewError("service.unavailable", cause).
		WithMessage(message).
		WithHTTPStatus(http.StatusServiceUnavailable)
}

// NewInternalError creates a new internal error with optional cause.
func NewInternalError(cause error) *AppError {
	return NewError("internal.error", cause).
		WithHTTPStatus(http.StatusInternalServerError)
}

func errorCategory(status int, code string) string {
	if strings.HasPrefix(strings.ToLower(code), "validation.") {
		return "validation_error"
	}

	switch status {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusServiceUnavailable:
		return "service_unavailable"
	default:
		if status >= 500 {
			return "internal_server_error"
		}
		return "application_error"
	}
}

func inferStatusFromCode(code string) int {
	lowerCode := strings.ToLower(strings.TrimSpace(code))
	switch {
	case strings.HasPrefix(lowerCode, "validation."):
		return http.StatusBadRequest
	case strings.Contains(lowerCode, "not_found"):
		return http.StatusNotFound
	case strings.Contains(lowerCode, "conflict"):
		return http.StatusConflict
	case strings.Contains(lowerCode, "unavailable"):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
