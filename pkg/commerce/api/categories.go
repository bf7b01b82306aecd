package api

import (
	"github.com/nimburion/storefront/pkg/commerce"
	"github.com/nimburion/storefront/pkg/controller"
	"github.com/nimburion/storefront/pkg/server/router"
)

type bulkCategoryRequest struct {
	Categories []string `json:"categories" validate:"required"`
}

func (h *Handler) createCategory(c router.Context) error {
	var in commerce.CategoryInput
	if err := decode(c, &in); err != nil {
		return h.fail(c, err)
	}
	cat, err := h.repos.Categories.Create(c.Request().Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Created(c, createdResponse{Message: "Category created successfully", ID: cat.ID.Hex()})
}

func (h *Handler) createCategories(c router.Context) error {
	var req bulkCategoryRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ids, err := h.repos.Categories.CreateBulk(c.Request().Context(), req.Categories)
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Created(c, bulkCreatedResponse{Count: len(ids), InsertedIDs: hexIDs(ids)})
}

func (h *Handler) listCategories(c router.Context) error {
	categories, err := h.repos.Categories.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, categories)
}

func (h *Handler) getCategory(c router.Context) error {
	cat, err := h.repos.Categories.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, cat)
}

func (h *Handler) updateCategory(c router.Context) error {
	var in commerce.CategoryInput
	if err := decode(c, &in); err != nil {
		return h.fail(c, err)
	}
	if err := h.repos.Categories.Update(c.Request().Context(), c.Param("id"), in); err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, message("Category updated successfully"))
}

func (h *Handler) deleteCategory(c router.Context) error {
	if err := h.repos.Categories.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, message("Category deleted successfully"))
}
