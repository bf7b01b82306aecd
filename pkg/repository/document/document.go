// Package document defines the store port used by the storefront
// repositories, with MongoDB, in-memory and instrumented implementations.
package document

import (
	"context"
	"errors"
)

// Filter is a query document in MongoDB query syntax.
type Filter map[string]interface{}

// Document is an update or insert document in MongoDB syntax.
type Document map[string]interface{}

var (
	// ErrNotFound is returned by FindOne when nothing matches.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateKey is returned when a write violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrUnavailable is returned when the store did not answer in time or is unreachable.
	ErrUnavailable = errors.New("document store unavailable")
)

// UpdateResult reports how many documents matched and how many changed.
// A matched but unchanged document counts only toward Matched.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// Executor runs document operations against a named collection.
// Inputs are encoded with BSON struct tags; outputs are decoded the same way.
type Executor interface {
	InsertOne(ctx context.Context, collection string, doc interface{}) (interface{}, error)
	// InsertMany inserts in order and stops at the first failure.
	InsertMany(ctx context.Context, collection string, docs []interface{}) ([]interface{}, error)
	// FindOne decodes the first match into result or returns ErrNotFound.
	FindOne(ctx context.Context, collection string, filter Filter, result interface{}) error
	// Find decodes every match into results, a pointer to a slice, in _id order.
	Find(ctx context.Context, collection string, filter Filter, results interface{}) error
	UpdateOne(ctx context.Context, collection string, filter Filter, update Document) (UpdateResult, error)
	UpdateMany(ctx context.Context, collection string, filter Filter, update Document) (UpdateResult, error)
	DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error)
	DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error)
	Count(ctx context.Context, collection string, filter Filter) (int64, error)
	EnsureUniqueIndex(ctx context.Context, collection, field string) error
}

// Set wraps fields in a $set update document.
func Set(fields Document) Document {
	return Document{"$set": fields}
}
