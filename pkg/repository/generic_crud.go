package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimburion/storefront/pkg/repository/document"
)

// ErrNotFound is returned by single-id operations that addressed no document.
var ErrNotFound = document.ErrNotFound

// DocumentRepository provides a generic implementation of CRUD operations over
// one collection of a document store. Entities are encoded with their BSON
// struct tags; the _id field must be tagged `bson:"_id,omitempty"` so the
// store generates it on insert.
type DocumentRepository[T any] struct {
	executor   document.Executor
	collection string
}

// NewDocumentRepository creates a new generic CRUD repository
func NewDocumentRepository[T any](executor document.Executor, collection string) *DocumentRepository[T] {
	return &DocumentRepository[T]{
		executor:   executor,
		collection: collection,
	}
}

// Collection returns the collection name.
func (r *DocumentRepository[T]) Collection() string {
	return r.collection
}

// Create inserts a new entity and returns its generated ID
func (r *DocumentRepository[T]) Create(ctx context.Context, entity *T) (primitive.ObjectID, error) {
	if entity == nil {
		return primitive.NilObjectID, errors.New("entity cannot be nil")
	}

	id, err := r.executor.InsertOne(ctx, r.collection, entity)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create entity: %w", err)
	}
	return objectID(id)
}

// CreateMany inserts entities in order and returns their generated IDs
func (r *DocumentRepository[T]) CreateMany(ctx context.Context, entities []T) ([]primitive.ObjectID, error) {
	if len(entities) == 0 {
		return nil, errors.New("entities cannot be empty")
	}

	docs := make([]interface{}, len(entities))
	for i := range entities {
		docs[i] = &entities[i]
	}

	raw, err := r.executor.InsertMany(ctx, r.collection, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to create entities: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		id, err := objectID(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FindByID retrieves an entity by its ID
func (r *DocumentRepository[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	entity := new(T)
	if err := r.executor.FindOne(ctx, r.collection, document.Filter{"_id": id}, entity); err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query entity: %w", err)
	}
	return entity, nil
}

// FindAll retrieves entities matching the filter in insertion order.
// Returns an empty slice if no entities match.
func (r *DocumentRepository[T]) FindAll(ctx context.Context, filter document.Filter) ([]T, error) {
	if filter == nil {
		filter = document.Filter{}
	}
	entities := []T{}
	if err := r.executor.Find(ctx, r.collection, filter, &entities); err != nil {
		return nil, fmt.Errorf("failed to query entities: %w", err)
	}
	if entities == nil {
		entities = []T{}
	}
	return entities, nil
}

// Exists reports whether an entity with the ID exists
func (r *DocumentRepository[T]) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.Count(ctx, document.Filter{"_id": id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Count returns the number of entities matching the filter
func (r *DocumentRepository[T]) Count(ctx context.Context, filter document.Filter) (int64, error) {
	if filter == nil {
		filter = document.Filter{}
	}
	n, err := r.executor.Count(ctx, r.collection, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count entities: %w", err)
	}
	return n, nil
}

// Update sets fields on the entity with the ID.
// Returns ErrNotFound if no entity matched; a matched but unchanged entity is not an error.
func (r *DocumentRepository[T]) Update(ctx context.Context, id primitive.ObjectID, fields document.Document) (document.UpdateResult, error) {
	if len(fields) == 0 {
		return document.UpdateResult{}, errors.New("fields cannot be empty")
	}

	res, err := r.executor.UpdateOne(ctx, r.collection, document.Filter{"_id": id}, document.Set(fields))
	if err != nil {
		return document.UpdateResult{}, fmt.Errorf("failed to update entity: %w", err)
	}
	if res.Matched == 0 {
		return res, ErrNotFound
	}
	return res, nil
}

// UpdateMany sets fields on every entity matching the filter
func (r *DocumentRepository[T]) UpdateMany(ctx context.Context, filter document.Filter, fields document.Document) (document.UpdateResult, error) {
	if len(fields) == 0 {
		return document.UpdateResult{}, errors.New("fields cannot be empty")
	}

	res, err := r.executor.UpdateMany(ctx, r.collection, filter, document.Set(fields))
	if err != nil {
		return document.UpdateResult{}, fmt.Errorf("failed to update entities: %w", err)
	}
	return res, nil
}

// Delete removes an entity by its ID
func (r *DocumentRepository[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	n, err := r.executor.DeleteOne(ctx, r.collection, document.Filter{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete entity: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes every entity matching the filter
func (r *DocumentRepository[T]) DeleteMany(ctx context.Context, filter document.Filter) (int64, error) {
	n, err := r.executor.DeleteMany(ctx, r.collection, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entities: %w", err)
	}
	return n, nil
}

// EnsureUniqueIndex declares a unique index on field
func (r *DocumentRepository[T]) EnsureUniqueIndex(ctx context.Context, field string) error {
	if err := r.executor.EnsureUniqueIndex(ctx, r.collection, field); err != nil {
		return fmt.Errorf("failed to ensure unique index on %s: %w", field, err)
	}
	return nil
}

func objectID(v interface{}) (primitive.ObjectID, error) {
	id, ok := v.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected generated id type %T", v)
	}
	return id, nil
}

var (
	_ Repository[struct{}] = (*DocumentRepository[struct{}])(nil)
	_ BulkWriter           = (*DocumentRepository[struct{}])(nil)
)
