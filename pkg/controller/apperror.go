package controller

import "fmt"

// AppError is the application error contract shared by handlers: a stable
// code, a human readable message, optional details and the wrapped cause.
type AppError struct {
	Code       string
	Message    string
	Details    map[string]interface{}
	HTTPStatus int
	Cause      error
}

// NewError creates an AppError with a stable code.
func NewError(code string, cause error) *AppError {
	return &AppError{Code: code, Cause: cause}
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	label := e.Code
	if e.Message != "" {
		label = e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", label, e.Cause)
	}
	return label
}

// Unwrap exposes the wrapped cause for errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// WithMessage sets the message returned to clients.
func (e *AppError) WithMessage(message string) *AppError {
	if e == nil {
		return nil
	}
	e.Message = message
	return e
}

// WithHTTPStatus sets an explicit HTTP status for this error.
func (e *AppError) WithHTTPStatus(status int) *AppError {
	if e == nil {
		return nil
	}
	e.HTTPStatus = status
	return e
}

// WithDetails sets structured error details.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	if e == nil {
		return nil
	}
	e.Details = details
	return e
}
