package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/nimburion/storefront/pkg/middleware"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		want     string
	}{
		{
			name:     "code only",
			appError: NewError("resource.not_found", nil),
			want:     "resource.not_found",
		},
		{
			name:     "message without cause",
			appError: NewError("validation.failed", nil).WithMessage("price must not be negative"),
			want:     "price must not be negative",
		},
		{
			name:     "message with cause",
			appError: NewError("service.unavailable", errors.New("context deadline exceeded")).WithMessage("store timeout"),
			want:     "store timeout: context deadline exceeded",
		},
		{
			name:     "nil receiver",
			appError: nil,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appError.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := fmt.Errorf("get product: %w", NewInternalError(cause))

	if !errors.Is(wrapped, cause) {
		t.Errorf("expected errors.Is to reach the cause through AppError")
	}
	var appErr *AppError
	if !errors.As(wrapped, &appErr) || appErr.Code != "internal.error" {
		t.Errorf("expected errors.As to find AppError, got %v", appErr)
	}
}

func TestMapError(t *testing.T) {
	ctxWithID := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")

	tests := []struct {
		name          string
		ctx           context.Context
		err           error
		wantStatus    int
		wantCategory  string
		wantCode      string
		wantMessage   string
		wantRequestID string
	}{
		{
			name:         "plain error hides detail",
			ctx:          context.Background(),
			err:          errors.New("mongo: connection refused"),
			wantStatus:   http.StatusInternalServerError,
			wantCategory: "internal_server_error",
			wantMessage:  internalErrorMessage,
		},
		{
			name:          "explicit status and request id",
			ctx:           ctxWithID,
			err:           NewNotFoundError("product not found"),
			wantStatus:    http.StatusNotFound,
			wantCategory:  "not_found",
			wantCode:      "resource.not_found",
			wantMessage:   "product not found",
			wantRequestID: "req-42",
		},
		{
			name:         "validation code wins the category",
			ctx:          context.Background(),
			err:          NewValidationErrorWithCode("validation.empty_update", "no fields to update", nil).WithHTTPStatus(http.StatusUnprocessableEntity),
			wantStatus:   http.StatusUnprocessableEntity,
			wantCategory: "validation_error",
			wantCode:     "validation.empty_update",
			wantMessage:  "no fields to update",
		},
		{
			name:         "5xx never leaks the message",
			ctx:          context.Background(),
			err:          NewInternalError(errors.New("boom")).WithMessage("secret detail"),
			wantStatus:   http.StatusInternalServerError,
			wantCategory: "internal_server_error",
			wantCode:     "internal.error",
			wantMessage:  internalErrorMessage,
		},
		{
			name:         "service unavailable",
			ctx:          context.Background(),
			err:          NewServiceUnavailableError("store timeout", context.DeadlineExceeded),
			wantStatus:   http.StatusServiceUnavailable,
			wantCategory: "service_unavailable",
			wantCode:     "service.unavailable",
			wantMessage:  "store timeout",
		},
		{
			name:         "wrapped app error",
			ctx:          context.Background(),
			err:          fmt.Errorf("delete variant: %w", NewNotFoundError("variant not found")),
			wantStatus:   http.StatusNotFound,
			wantCategory: "not_found",
			wantCode:     "resource.not_found",
			wantMessage:  "variant not found",
		},
		{
			name:         "missing message falls back",
			ctx:          context.Background(),
			err:          NewError("order.conflict", nil),
			wantStatus:   http.StatusConflict,
			wantCategory: "conflict",
			wantCode:     "order.conflict",
			wantMessage:  internalErrorMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapError(tt.ctx, tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if resp.Error != tt.wantCategory {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantCategory)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
			if resp.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", resp.Message, tt.wantMessage)
			}
			if resp.RequestID != tt.wantRequestID {
				t.Errorf("request_id = %q, want %q", resp.RequestID, tt.wantRequestID)
			}
		})
	}
}

func TestInferStatusFromCode(t *testing.T) {
	tests := map[string]int{
		"validation.failed":    http.StatusBadRequest,
		"  VALIDATION.bad_id ": http.StatusBadRequest,
		"resource.not_found":   http.StatusNotFound,
		"user.email_conflict":  http.StatusConflict,
		"store.unavailable":    http.StatusServiceUnavailable,
		"internal.error":       http.StatusInternalServerError,
		"":                     http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := inferStatusFromCode(code); got != want {
			t.Errorf("inferStatusFromCode(%q) = %d, want %d", code, got, want)
		}
	}
}

func TestErrorCategory(t *testing.T) {
	tests := []struct {
		status int
		code   string
		want   string
	}{
		{status: http.StatusInternalServerError, code: "Validation.x", want: "validation_error"},
		{status: http.StatusBadRequest, code: "commerce.empty_update", want: "validation_error"},
		{status: http.StatusNotFound, want: "not_found"},
		{status: http.StatusConflict, want: "conflict"},
		{status: http.StatusTooManyRequests, want: "rate_limited"},
		{status: http.StatusServiceUnavailable, want: "service_unavailable"},
		{status: http.StatusBadGateway, want: "internal_server_error"},
		{status: http.StatusForbidden, want: "application_error"},
	}
	for _, tt := range tests {
		if got := errorCategory(tt.status, tt.code); got != tt.want {
			t.Errorf("errorCategory(%d, %q) = %q, want %q", tt.status, tt.code, got, tt.want)
		}
	}
}

func TestErrorConstructors(t *testing.T) {
	details := map[string]interface{}{"price": "must not be negative"}
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{name: "validation", err: NewValidationError("invalid product", details), wantCode: "validation.failed", wantStatus: http.StatusBadRequest},
		{name: "validation with code", err: NewValidationErrorWithCode("validation.invalid_id", "invalid id", nil), wantCode: "validation.invalid_id", wantStatus: http.StatusBadRequest},
		{name: "not found", err: NewNotFoundError("order not found"), wantCode: "resource.not_found", wantStatus: http.StatusNotFound},
		{name: "unavailable", err: NewServiceUnavailableError("store timeout", nil), wantCode: "service.unavailable", wantStatus: http.StatusServiceUnavailable},
		{name: "internal", err: NewInternalError(nil), wantCode: "internal.error", wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode || tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("got code=%q status=%d, want code=%q status=%d", tt.err.Code, tt.err.HTTPStatus, tt.wantCode, tt.wantStatus)
			}
		})
	}

	if got := NewValidationError("invalid product", details).Details["price"]; got != "must not be negative" {
		t.Errorf("details not kept: %v", got)
	}
}
