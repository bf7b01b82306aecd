package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nimburion/storefront/pkg/repository/document"
)

// Reader provides read operations for entities
type Reader[T any] interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	FindAll(ctx context.Context, filter document.Filter) ([]T, error)
	Count(ctx context.Context, filter document.Filter) (int64, error)
}

// Writer provides write operations for entities
type Writer[T any] interface {
	Create(ctx context.Context, entity *T) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, entities []T) ([]primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, fields document.Document) (document.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Repository combines Reader and Writer interfaces for complete CRUD operations
type Repository[T any] interface {
	Reader[T]
	Writer[T]
}

// BulkWriter applies writes to every entity matching a filter
type BulkWriter interface {
	UpdateMany(ctx context.Context, filter document.Filter, fields document.Document) (document.UpdateResult, error)
	DeleteMany(ctx context.Context, filter document.Filter) (int64, error)
}
