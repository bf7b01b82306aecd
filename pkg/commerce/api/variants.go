package api

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimburion/storefront/pkg/commerce"
	"github.com/nimburion/storefront/pkg/controller"
	"github.com/nimburion/storefront/pkg/server/router"
)

type bulkVariantCreateRequest struct {
	Variants []commerce.VariantInput `json:"variants" validate:"required"`
}

type bulkVariantUpdateRequest struct {
	Updates []commerce.VariantUpdateItem `json:"updates" validate:"required"`
}

type bulkVariantDeleteRequest struct {
	VariantIDs []string `json:"variant_ids" validate:"required"`
}

type updatedCountResponse struct {
	UpdatedCount int64 `json:"updated_count"`
}

func (h *Handler) createVariant(c router.Context) error {
	var in commerce.VariantInput
	if err := decode(c, &in); err != nil {
		return h.fail(c, err)
	}
	v, err := h.repos.Variants.Create(c.Request().Context(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Created(c, v)
}

func (h *Handler) createVariants(c router.Context) error {
	var req bulkVariantCreateRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	ids, err := h.repos.Variants.CreateBulk(c.Request().Context(), req.Variants)
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Created(c, bulkCreatedResponse{
		Message:     "Variants created successfully",
		Count:       len(ids),
		InsertedIDs: hexIDs(ids),
	})
}

func (h *Handler) listVariants(c router.Context) error {
	variants, err := h.repos.Variants.List(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, variants)
}

// listProductVariants serves GET /variants/:id where id is a product reference.
func (h *Handler) listProductVariants(c router.Context) error {
	variants, err := h.repos.Variants.ListByProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, variants)
}

func (h *Handler) updateVariant(c router.Context) error {
	var u commerce.VariantUpdate
	if err := decode(c, &u); err != nil {
		return h.fail(c, err)
	}
	if err := h.repos.Variants.Update(c.Request().Context(), c.Param("id"), u); err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, message("Variant updated successfully"))
}

func (h *Handler) deleteVariant(c router.Context) error {
	if err := h.repos.Variants.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, message("Variant deleted successfully"))
}

func (h *Handler) bulkUpdateVariants(c router.Context) error {
	var req bulkVariantUpdateRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	n, err := h.repos.Variants.BulkUpdate(c.Request().Context(), req.Updates)
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, updatedCountResponse{UpdatedCount: n})
}

func (h *Handler) bulkDeleteVariants(c router.Context) error {
	var req bulkVariantDeleteRequest
	if err := bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	n, err := h.repos.Variants.BulkDelete(c.Request().Context(), req.VariantIDs)
	if err != nil {
		return h.fail(c, err)
	}
	return controller.Success(c, deletedCountResponse{DeletedCount: n})
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
