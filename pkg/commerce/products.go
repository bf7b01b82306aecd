package commerce

import (
	"context"
	"fmt"

	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/repository"
	"github.com/nimburion/storefront/pkg/repository/document"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductRepository persists products.
type ProductRepository struct {
	store *repository.DocumentRepository[Product]
	log   logger.Logger
}

// NewProductRepository stores products in the products collection.
func NewProductRepository(exec document.Executor, log logger.Logger) *ProductRepository {
	return &ProductRepository{
		store: repository.NewDocumentRepository[Product](exec, ProductsCollection),
		log:   log,
	}
}

// Create validates and inserts a single product.
func (r *ProductRepository) Create(ctx context.Context, in ProductInput) (Product, error) {
	if err := in.Validate(); err != nil {
		return Product{}, err
	}
	p := in.product()
	id, err := r.store.Create(ctx, &p)
	if err != nil {
		return Product{}, classify("create product", "Product", err)
	}
	p.ID = id
	return p, nil
}

// CreateBulk validates every product before inserting any of them.
func (r *ProductRepository) CreateBulk(ctx context.Context, inputs []ProductInput) ([]primitive.ObjectID, error) {
	if len(inputs) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"products": "must not be empty"}}
	}
	errs := fieldErrors{}
	products := make([]Product, len(inputs))
	for i, in := range inputs {
		if err := in.Validate(); err != nil {
			errs.prefixed(fmt.Sprintf("products[%d]", i), err)
			continue
		}
		products[i] = in.product()
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	ids, err := r.store.CreateMany(ctx, products)
	if err != nil {
		return nil, classify("create products", "Product", err)
	}
	r.log.WithContext(ctx).Info("products created", "count", len(ids))
	return ids, nil
}

// List returns every product.
func (r *ProductRepository) List(ctx context.Context) ([]Product, error) {
	return r.Filter(ctx, ProductFilter{})
}

// Filter lists products matching every present criterion.
func (r *ProductRepository) Filter(ctx context.Context, f ProductFilter) ([]Product, error) {
	products, err := r.store.FindAll(ctx, f.Compose())
	if err != nil {
		return nil, storeError("list products", err)
	}
	for i := range products {
		if products[i].Tags == nil {
			products[i].Tags = []string{}
		}
	}
	return products, nil
}

// Get returns the product with the given id or ErrNotFound.
func (r *ProductRepository) Get(ctx context.Context, rawID string) (Product, error) {
	id, err := DecodeID(rawID)
	if err != nil {
		return Product{}, err
	}
	p, err := r.store.FindByID(ctx, id)
	if err != nil {
		return Product{}, classify("get product", "Product", err)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return *p, nil
}

// Exists reports whether a product with the reference exists.
func (r *ProductRepository) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	ok, err := r.store.Exists(ctx, id)
	if err != nil {
		return false, storeError("check product", err)
	}
	return ok, nil
}

// Update applies the present fields. A matched but unchanged product is a success.
func (r *ProductRepository) Update(ctx context.Context, rawID string, u ProductUpdate) error {
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
		return classify("update product", "Product", err)
	}
	return nil
}

// Delete removes the product. Its variants are left in place.
func (r *ProductRepository) Delete(ctx context.Context, rawID string) error {
	id, err := DecodeID(rawID)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return classify("delete product", "Product", err)
	}
	return nil
}

// BulkUpdate applies the present fields to every product matching the
// filter. Zero matches is a success.
func (r *ProductRepository) BulkUpdate(ctx context.Context, f ProductFilter, u ProductUpdate) (document.UpdateResult, error) {
	filter, err := f.ComposeStrict()
	if err != nil {
		return document.UpdateResult{}, err
	}
	fields, err := BuildUpdate(u)
	if err != nil {
		return document.UpdateResult{}, err
	}
	if err := u.Validate(); err != nil {
		return document.UpdateResult{}, err
	}

	res, err := r.store.UpdateMany(ctx, filter, fields)
	if err != nil {
		return document.UpdateResult{}, storeError("bulk update products", err)
	}
	r.log.WithContext(ctx).Info("products bulk updated", "matched", res.Matched, "modified", res.Modified)
	return res, nil
}

// BulkDelete removes every product matching the filter. An empty filter is rejected.
func (r *ProductRepository) BulkDelete(ctx context.Context, f ProductFilter) (int64, error) {
	filter, err := f.ComposeStrict()
	if err != nil {
		return 0, err
	}
	n, err := r.store.DeleteMany(ctx, filter)
	if err != nil {
		return 0, storeError("bulk delete products", err)
	}
	r.log.WithContext(ctx).Info("products bulk deleted", "deleted", n)
	return n, nil
}
