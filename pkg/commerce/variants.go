package commerce

import (
	"context"
	"time"

	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/repository"
	"github.com/nimburion/storefront/pkg/repository/document"
)

// VariantRepository persists product variants. Creation requires the
// referenced product to exist; deleting a product leaves its variants in place.
type VariantRepository struct {
	store    *repository.DocumentRepository[Variant]
	products *ProductRepository
	log      logger.Logger
	now      func() time.Time
}

// NewVariantRepository stores variants and checks their product through products.
func NewVariantRepository(exec document.Executor, products *ProductRepository, log logger.Logger) *VariantRepository {
	return &VariantRepository{
		store:    repository.NewDocumentRepository[Variant](exec, VariantsCollection),
		products: products,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// createdAt is truncated to the store's millisecond precision so a created
// variant equals its stored form.
func (r *VariantRepository) createdAt() time.Time {
	return r.now().UTC().Truncate(time.Millisecond)
}

// Create inserts a variant after checking that its product exists.
func (r *VariantRepository) Create(ctx context.Context, in VariantInput) (Variant, error) {
	if err := in.Validate(); err != nil {
		return Variant{}, err
	}
	productID, err := DecodeID(in.ProductID)
	if err != nil {
		return Variant{}, err
	}
	exists, err := r.products.Exists(ctx, productID)
	if err != nil {
		return Variant{}, err
	}
	if !exists {
		return Variant{}, newError(ErrReferencedEntityNotFound, "Product not found")
	}

	v := in.variant(productID, r.createdAt())
	id, err := r.store.Create(ctx, &v)
	if err != nil {
		return Variant{}, classify("create variant", "Variant", err)
	}
	v.ID = id
	return v, nil
}

// List returns every variant.
func (r *VariantRepository) List(ctx context.Context) ([]Variant, error) {
	variants, err := r.store.FindAll(ctx, nil)
	if err != nil {
		return nil, storeError("list variants", err)
	}
	return variants, nil
}

// ListByProduct returns the variants of a product. An unknown product yields
// an empty list.
func (r *VariantRepository) ListByProduct(ctx context.Context, rawProductID string) ([]Variant, error) {
	productID, err := DecodeID(rawProductID)
	if err != nil {
		return nil, err
	}
	variants, err := r.store.FindAll(ctx, document.Filter{"productId": productID})
	if err != nil {
		return nil, storeError("list variants", err)
	}
	return variants, nil
}

// Update applies the present fields. An update with no fields fails with ErrEmptyUpdate.
func (r *VariantRepository) Update(ctx context.Context, rawID string, u VariantUpdate) error {
	id, err := DecodeID(rawID)
	if err != nil {
		return err
	}
	fields, err := BuildUpdate(u)
	if err != nil {
		return err
	}
	if err := u.Validate(); err != nil {
		return err
	}
	if _, err := r.store.Update(ctx, id, fields); err != nil {
		return classify("update variant", "Variant", err)
	}
	return nil
}

// Delete removes the variant with the given id or fails with ErrNotFound.
func (r *VariantRepository) Delete(ctx context.Context, rawID string) error {
	id, err := DecodeID(rawID)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return classify("delete variant", "Variant", err)
	}
	return nil
}
