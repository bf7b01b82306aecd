package commerce

import (
	"context"
	"errors"
	"fmt"

	"github.com/nimburion/storefront/pkg/repository/document"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CreateBulk creates variants all-or-nothing. Every item is validated and
// every referenced product is checked, in order, before anything is inserted;
// the first failure aborts the call.
func (r *VariantRepository) CreateBulk(ctx context.Context, inputs []VariantInput) ([]primitive.ObjectID, error) {
	if len(inputs) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"variants": "must not be empty"}}
	}

	errs := fieldErrors{}
	for i, in := range inputs {
		errs.prefixed(fmt.Sprintf("variants[%d]", i), in.Validate())
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	now := r.createdAt()
	variants := make([]Variant, len(inputs))
	for i, in := range inputs {
		productID, err := DecodeID(in.ProductID)
		if err != nil {
			return nil, err
		}
		exists, err := r.products.Exists(ctx, productID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, newError(ErrReferencedEntityNotFound, "Product not found for ID %s", in.ProductID)
		}
		variants[i] = in.variant(productID, now)
	}

	ids, err := r.store.CreateMany(ctx, variants)
	if err != nil {
		return nil, classify("create variants", "Variant", err)
	}
	r.log.WithContext(ctx).Info("variants created", "count", len(ids))
	return ids, nil
}

// BulkUpdate applies each item's present fields to its variant and returns
// how many items matched a variant. Items with no present fields are skipped
// without error. Identifiers and values are checked for every item before
// any update is applied.
func (r *VariantRepository) BulkUpdate(ctx context.Context, items []VariantUpdateItem) (int64, error) {
	ids := make([]primitive.ObjectID, len(items))
	errs := fieldErrors{}
	for i, item := range items {
		id, err := DecodeID(item.VariantID)
		if err != nil {
			return 0, err
		}
		ids[i] = id
		errs.prefixed(fmt.Sprintf("updates[%d].data", i), item.Data.Validate())
	}
	if err := errs.err(); err != nil {
		return 0, err
	}

	var updated, skipped int64
	for i, item := range items {
		fields, err := BuildUpdate(item.Data)
		if errors.Is(err, ErrEmptyUpdate) {
			skipped++
			continue
		}
		if err != nil {
			return updated, err
		}

		res, err := r.store.Update(ctx, ids[i], fields)
		switch {
		case errors.Is(err, document.ErrNotFound):
			continue
		case err != nil:
			return updated, storeError("bulk update variants", err)
		}
		if res.Matched > 0 {
			updated++
		}
	}

	r.log.WithContext(ctx).Info("variants bulk updated", "updated", updated, "skipped", skipped, "requested", len(items))
	return updated, nil
}

// BulkDelete decodes every identifier first, so a malformed one deletes
// nothing, then removes all matching variants in one operation. Unknown
// identifiers are not an error.
func (r *VariantRepository) BulkDelete(ctx context.Context, rawIDs []string) (int64, error) {
	ids, err := DecodeIDs(rawIDs)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	n, err := r.store.DeleteMany(ctx, document.Filter{"_id": document.Filter{"$in": ids}})
	if err != nil {
		return 0, storeError("bulk delete variants", err)
	}
	r.log.WithContext(ctx).Info("variants bulk deleted", "deleted", n, "requested", len(ids))
	return n, nil
}
