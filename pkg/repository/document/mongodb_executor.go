package document

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	mongostore "github.com/nimburion/storefront/pkg/store/mongodb"
)

// MongoDBExecutor adapts the store/mongodb adapter to Executor and
// translates driver errors into the package sentinels.
type MongoDBExecutor struct {
	adapter *mongostore.Adapter
}

func NewMongoDBExecutor(adapter *mongostore.Adapter) (*MongoDBExecutor, error) {
	if adapter == nil {
		return nil, fmt.Errorf("mongodb adapter is required")
	}
	return &MongoDBExecutor{adapter: adapter}, nil
}

func (e *MongoDBExecutor) InsertOne(ctx context.Context, collection string, doc interface{}) (interface{}, error) {
	id, err := e.adapter.InsertOne(ctx, collection, doc)
	if err != nil {
		return nil, translate(err)
	}
	return id, nil
}

func (e *MongoDBExecutor) InsertMany(ctx context.Context, collection string, docs []interface{}) ([]interface{}, error) {
	ids, err := e.adapter.InsertMany(ctx, collection, docs)
	if err != nil {
		return nil, translate(err)
	}
	return ids, nil
}

func (e *MongoDBExecutor) FindOne(ctx context.Context, collection string, filter Filter, result interface{}) error {
	return translate(e.adapter.FindOne(ctx, collection, bson.M(filter), result))
}

func (e *MongoDBExecutor) Find(ctx context.Context, collection string, filter Filter, results interface{}) error {
	return translate(e.adapter.Find(ctx, collection, bson.M(filter), results))
}

func (e *MongoDBExecutor) UpdateOne(ctx context.Context, collection string, filter Filter, update Document) (UpdateResult, error) {
	res, err := e.adapter.UpdateOne(ctx, collection, bson.M(filter), bson.M(update))
	if err != nil {
		return UpdateResult{}, translate(err)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (e *MongoDBExecutor) UpdateMany(ctx context.Context, collection string, filter Filter, update Document) (UpdateResult, error) {
	res, err := e.adapter.UpdateMany(ctx, collection, bson.M(filter), bson.M(update))
	if err != nil {
		return UpdateResult{}, translate(err)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (e *MongoDBExecutor) DeleteOne(ctx context.Context, collection string, filter Filter) (int64, error) {
	n, err := e.adapter.DeleteOne(ctx, collection, bson.M(filter))
	return n, translate(err)
}

func (e *MongoDBExecutor) DeleteMany(ctx context.Context, collection string, filter Filter) (int64, error) {
	n, err := e.adapter.DeleteMany(ctx, collection, bson.M(filter))
	return n, translate(err)
}

func (e *MongoDBExecutor) Count(ctx context.Context, collection string, filter Filter) (int64, error) {
	n, err := e.adapter.CountDocuments(ctx, collection, bson.M(filter))
	return n, translate(err)
}

func (e *MongoDBExecutor) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	return translate(e.adapter.EnsureUniqueIndex(ctx, collection, field))
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicateKey, err)
	case mongo.IsTimeout(err), mongo.IsNetworkError(err),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, mongostore.ErrClosed):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		return err
	}
}
