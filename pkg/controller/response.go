package controller

import (
	"net/http"

	"github.com/nimburion/storefront/pkg/server/router"
)

// SuccessResponse wraps response data together with the request ID.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// Success sends data with HTTP 200 OK.
func Success(c router.Context, data interface{}) error {
	return c.JSON(http.StatusOK, SuccessResponse{
		Data:      data,
		RequestID: RequestIDFromContext(c.Request().Context()),
	})
}

// Created sends data with HTTP 201 Created.
func Created(c router.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, SuccessResponse{
		Data:      data,
		RequestID: RequestIDFromContext(c.Request().Context()),
	})
}

// Error writes err using MapError.
func Error(c router.Context, err error) error {
	statusCode, errorResponse := MapError(c.Request().Context(), err)
	return c.JSON(statusCode, errorResponse)
}
