// Package api exposes the commerce repositories over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nimburion/storefront/pkg/commerce"
	"github.com/nimburion/storefront/pkg/controller"
	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/server/router"
)

// Handler serves the users, products, variants, categories and orders resources.
type Handler struct {
	repos *commerce.Repositories
	log   logger.Logger
}

// NewHandler creates a Handler over the commerce repositories.
func NewHandler(repos *commerce.Repositories, log logger.Logger) *Handler {
	return &Handler{repos: repos, log: log}
}

// RegisterRoutes registers every resource on r. Static paths are registered
// before parameterised siblings.
func (h *Handler) RegisterRoutes(r router.Router) {
	r.GET("/", h.root)

	r.POST("/users/signup", h.signup)
	r.POST("/users", h.signup)
	r.GET("/users", h.listUsers)
	r.GET("/users/:id", h.getUser)

	r.POST("/products", h.createProduct)
	r.POST("/products/bulk", h.createProducts)
	r.GET("/products", h.listProducts)
	r.GET("/products/filter", h.filterProducts)
	r.PUT("/products/bulk-update", h.bulkUpdateProducts)
	r.DELETE("/products/bulk-delete", h.bulkDeleteProducts)
	r.GET("/products/:id", h.getProduct)
	r.PUT("/products/:id", h.updateProduct)
	r.DELETE("/products/:id", h.deleteProduct)

	r.POST("/variants", h.createVariant)
	r.POST("/variants/bulk-create", h.createVariants)
	r.PUT("/variants/bulk-update", h.bulkUpdateVariants)
	r.DELETE("/variants/bulk-delete", h.bulkDeleteVariants)
	r.GET("/variants", h.listVariants)
	r.GET("/variants/:id", h.listProductVariants)
	r.PUT("/variants/:id", h.updateVariant)
	r.DELETE("/variants/:id", h.deleteVariant)

	r.POST("/categories", h.createCategory)
	r.POST("/categories/bulk", h.createCategories)
	r.GET("/categories", h.listCategories)
	r.GET("/categories/:id", h.getCategory)
	r.PUT("/categories/:id", h.updateCategory)
	r.DELETE("/categories/:id", h.deleteCategory)

	r.POST("/orders", h.placeOrder)
	r.POST("/orders/place-order", h.placeOrder)
	r.GET("/orders", h.listOrders)
	r.GET("/orders/export/csv", h.exportOrders)
	r.GET("/orders/:id", h.getOrder)
	r.PUT("/orders/:id", h.updateOrder)
	r.DELETE("/orders/:id", h.deleteOrder)
}

func (h *Handler) root(c router.Context) error {
	return controller.Success(c, message("E-Commerce API is running"))
}

// fail renders err. Server-side failures are logged with their cause, which
// is never sent to the client.
func (h *Handler) fail(c router.Context, err error) error {
	appErr := toAppError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		req := c.Request()
		h.log.WithContext(req.Context()).Error("request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
		)
	}
	return controller.Error(c, appErr)
}

// decode reads the JSON body into v. Payload rules are checked by the repositories.
func decode(c router.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return controller.NewValidationErrorWithCode("validation.invalid_body", "invalid request body", map[string]interface{}{
			"reason": err.Error(),
		})
	}
	return nil
}

// decodeStrict is decode for payloads that reject fields they do not declare.
func decodeStrict(c router.Context, v interface{}) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return controller.NewValidationErrorWithCode("validation.invalid_body", "invalid request body", map[string]interface{}{
			"reason": err.Error(),
		})
	}
	return nil
}

// bind decodes a request envelope and checks its required fields.
func bind(c router.Context, v interface{}) error {
	if err := decode(c, v); err != nil {
		return err
	}
	return controller.ValidateDTO(v)
}

func toAppError(err error) *controller.AppError {
	var appErr *controller.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus == 0 {
			appErr.HTTPStatus = http.StatusInternalServerError
		}
		return appErr
	}

	var verr *commerce.ValidationError
	if errors.As(err, &verr) {
		details := make(map[string]interface{}, len(verr.Fields))
		for k, v := range verr.Fields {
			details[k] = v
		}
		return controller.NewValidationError("validation failed", details)
	}

	msg := err.Error()
	var cerr *commerce.Error
	if errors.As(err, &cerr) {
		msg = cerr.Message
	}

	switch {
	case errors.Is(err, commerce.ErrInvalidIdentifier):
		return controller.NewValidationErrorWithCode("validation.invalid_identifier", msg, nil)
	case errors.Is(err, commerce.ErrEmptyUpdate):
		return controller.NewValidationErrorWithCode("validation.empty_update", msg, nil)
	case errors.Is(err, commerce.ErrNoFilterProvided):
		return controller.NewValidationErrorWithCode("validation.no_filter", msg, nil)
	case errors.Is(err, commerce.ErrDuplicateEntity):
		return controller.NewValidationErrorWithCode("validation.duplicate", msg, nil)
	case errors.Is(err, commerce.ErrNotFound):
		return controller.NewNotFoundError(msg)
	case errors.Is(err, commerce.ErrReferencedEntityNotFound):
		return controller.NewError("resource.reference_not_found", nil).
			WithMessage(msg).
			WithHTTPStatus(http.StatusNotFound)
	case errors.Is(err, commerce.ErrServiceUnavailable):
		return controller.NewServiceUnavailableError("service unavailable", err)
	default:
		return controller.NewInternalError(err)
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

func message(m string) messageResponse {
	return messageResponse{Message: m}
}
