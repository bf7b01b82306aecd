package commerce

import (
	"context"
	"fmt"
	"strings"

	"github.com/nimburion/storefront/pkg/repository"
	"github.com/nimburion/storefront/pkg/repository/document"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryRepository persists categories. Names are not unique.
type CategoryRepository struct {
	store *repository.DocumentRepository[Category]
}

// NewCategoryRepository stores categories in the categories collection.
func NewCategoryRepository(exec document.Executor) *CategoryRepository {
	return &CategoryRepository{store: repository.NewDocumentRepository[Category](exec, CategoriesCollection)}
}

// Create inserts a category with a trimmed, non-empty name.
func (r *CategoryRepository) Create(ctx context.Context, in CategoryInput) (Category, error) {
	if err := in.Validate(); err != nil {
		return Category{}, err
	}
	c := Category{Name: strings.TrimSpace(in.Name)}
	id, err := r.store.Create(ctx, &c)
	if err != nil {
		return Category{}, classify("create category", "Category", err)
	}
	c.ID = id
	return c, nil
}

// CreateBulk inserts one category per name.
func (r *CategoryRepository) CreateBulk(ctx context.Context, names []string) ([]primitive.ObjectID, error) {
	if len(names) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"categories": "must not be empty"}}
	}
	errs := fieldErrors{}
	categories := make([]Category, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			errs.add(fmt.Sprintf("categories[%d]", i), "must not be empty")
		}
		categories[i] = Category{Name: name}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	ids, err := r.store.CreateMany(ctx, categories)
	if err != nil {
		return nil, classify("create categories", "Category", err)
	}
	return ids, nil
}

// List returns every category.
func (r *CategoryRepository) List(ctx context.Context) ([]Category, error) {
	categories, err := r.store.FindAll(ctx, nil)
	if err != nil {
		return nil, storeError("list categories", err)
	}
	return categories, nil
}

// Get returns the category with the given id or ErrNotFound.
func (r *CategoryRepository) Get(ctx context.Context, rawID string) (Category, error) {
	id, err := DecodeID(rawID)
	if err != nil {
		return Category{}, err
	}
	c, err := r.store.FindByID(ctx, id)
	if err != nil {
		return Category{}, classify("get category", "Category", err)
	}
	return *c, nil
}

// Update replaces the category name.
func (r *CategoryRepository) Update(ctx context.Context, rawID string, in CategoryInput) error {
	id, err := DecodeID(rawID)
	if err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}
	in.Name = strings.TrimSpace(in.Name)
	fields, err := BuildUpdate(in)
	if err != nil {
		return err
	}
	if _, err := r.store.Update(ctx, id, fields); err != nil {
		return classify("update category", "Category", err)
	}
	return nil
}

// Delete removes the category with the given id or fails with ErrNotFound.
func (r *CategoryRepository) Delete(ctx context.Context, rawID string) error {
	id, err := DecodeID(rawID)
	if err != nil {
		return err
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return classify("delete category", "Category", err)
	}
	return nil
}
