package api

import (
	"github.com/nimburion/storefront/pkg/commerce"
	"github.com/nimburion/storefront/pkg/controller"
	"github.com/nimburion/storefront/pkg/server/router"
)

type createdResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

type bulkCreatedResponse struct {
	Message     string   `json:"message,omitempty"`
	Count       int      `json:"count"`
	InsertedIDs []string `json:"inserted_ids"`
}

type bulkUpdateResponse struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}

type deletedCountResponse struct {
	DeletedCount int64 `json:"deleted_count"`
}

func (h *Handler) createProduct(c router.Context) error {
	var in commerce.ProductInput
	if err := decode(c, &in); err != nil {
		return h.fail(c, err)
	}
	p, err := h.repos.Products.Create(c.Request().Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Created(c, createdResponse{Message: "Product added successfully", ID: p.ID.Hex()})
}

func (h *Handler) createProducts(c router.Context) error {
	var in []commerce.ProductInput
	if err := decode(c, &in); err != nil {
		return h.fail(c, err)
	}
	ids, err := h.repos.Products.CreateBulk(c.Request().Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Created(c, bulkCreatedResponse{
		Message:     "Products added successfully",
		Count:       len(ids),
		InsertedIDs: hexIDs(ids),
	})
}

func (h *Handler) listProducts(c router.Context) error {
	products, err := h.repos.Products.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, products)
}

func (h *Handler) filterProducts(c router.Context) error {
	f, err := commerce.ParseProductFilter(c.Request().URL.Query())
	if err != nil {
		return h.fail(c, err)
	}
	products, err := h.repos.Products.Filter(c.Request().Context(), f)
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, products)
}

func (h *Handler) getProduct(c router.Context) error {
	p, err := h.repos.Products.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, p)
}

func (h *Handler) updateProduct(c router.Context) error {
	var u commerce.ProductUpdate
	if err := decode(c, &u); err != nil {
		return h.fail(c, err)
	}
	if err := h.repos.Products.Update(c.Request().Context(), c.Param("id"), u); err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, message("Product updated successfully"))
}

func (h *Handler) deleteProduct(c router.Context) error {
	if err := h.repos.Products.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, message("Product deleted successfully"))
}

func (h *Handler) bulkUpdateProducts(c router.Context) error {
	f, err := commerce.ParseProductFilter(c.Request().URL.Query())
	if err != nil {
		return h.fail(c, err)
	}
	var u commerce.ProductUpdate
	if err := decode(c, &u); err != nil {
		return h.fail(c, err)
	}
	res, err := h.repos.Products.BulkUpdate(c.Request().Context(), f, u)
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, bulkUpdateResponse{Matched: res.Matched, Modified: res.Modified})
}

func (h *Handler) bulkDeleteProducts(c router.Context) error {
	f, err := commerce.ParseProductFilter(c.Request().URL.Query())
	if err != nil {
		return h.fail(c, err)
	}
	n, err := h.repos.Products.BulkDelete(c.Request().Context(), f)
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, deletedCountResponse{DeletedCount: n})
}
