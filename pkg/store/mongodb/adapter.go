// Package mongodb manages the MongoDB connection and exposes the
// collection primitives used by the document executor.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/nimburion/storefront/pkg/observability/logger"
)

// ErrClosed is returned by operations on a closed adapter.
var ErrClosed = errors.New("mongodb adapter is closed")

// Adapter provides MongoDB connectivity.
type Adapter struct {
	client   *mongo.Client
	database string
	logger   logger.Logger
	timeout  time.Duration
	mu       sync.RWMutex
	closed   bool
}

// Config holds MongoDB adapter configuration.
type Config struct {
	URL              string
	Database         string
	ConnectTimeout   time.Duration
	OperationTimeout time.Duration
}

// NewAdapter connects to MongoDB and verifies the connection with a ping.
// It does not create collections; indexes are created by EnsureUniqueIndex.
func NewAdapter(cfg Config, log logger.Logger) (*Adapter, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("mongodb URL is required")
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongodb database is required")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	if cfg.OperationTimeout <= 0 {
		cfg.OperationTimeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URL).
		SetServerSelectionTimeout(cfg.ConnectTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Info("MongoDB connection established", "database", cfg.Database)
	return &Adapter{
		client:   client,
		database: cfg.Database,
		logger:   log,
		timeout:  cfg.OperationTimeout,
	}, nil
}

func (a *Adapter) Database() *mongo.Database {
	return a.client.Database(a.database)
}

func (a *Adapter) Collection(name string) *mongo.Collection {
	return a.Database().Collection(name)
}

func (a *Adapter) Ping(ctx context.Context) error {
	a.mu.RLock()
	closed := a.closed
	a.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	return a.client.Ping(ctx, readpref.Primary())
}

func (a *Adapter) HealthCheck(ctx context.Context) error {
	hcCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := a.Ping(hcCtx); err != nil {
		a.logger.Error("MongoDB health check failed", "error", err)
		return fmt.Errorf("mongodb health check failed: %w", err)
	}
	return nil
}

// Close disconnects the client. Calling it more than once is a no-op.
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to close mongodb connection: %w", err)
	}
	a.logger.Info("MongoDB connection closed")
	return nil
}

func (a *Adapter) InsertOne(ctx context.Context, collection string, doc interface{}) (interface{}, error) {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()
	res, err := a.Collection(collection).InsertOne(opCtx, doc)
	if err != nil {
		return nil, err
	}
	return res.InsertedID, nil
}

// InsertMany inserts docs in order and stops at the first failure.
func (a *Adapter) InsertMany(ctx context.Context, collection string, docs []interface{}) ([]interface{}, error) {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()
	res, err := a.Collection(collection).InsertMany(opCtx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return nil, err
	}
	return res.InsertedIDs, nil
}

func (a *Adapter) FindOne(ctx context.Context, collection string, filter, result interface{}) error {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()
	return a.Collection(collection).FindOne(opCtx, filter).Decode(result)
}

// Find decodes every matching document, ordered by _id, into results.
func (a *Adapter) Find(ctx context.Context, collection string, filter, results interface{}) error {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()
	cursor, err := a.Collection(collection).Find(opCtx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return err
	}
	return cursor.All(opCtx, results)
}

func (a *Adapter) UpdateOne(ctx context.Context, collection string, filter, update interface{}) (*mongo.UpdateResult, error) {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()
	return a.Collection(collection).UpdateOne(opCtx, filter, update)
}

func (a *Adapter) UpdateMany(ctx context.Context, collection string, filter, update interface{}) (*mongo.UpdateResult, error) {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()
	return a.Collection(collection).UpdateMany(opCtx, filter, update)
}

func (a *Adapter) DeleteOne(ctx context.Context, collection string, filter interface{}) (int64, error) {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()
	res, err := a.Collection(collection).DeleteOne(opCtx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (a *Adapter) DeleteMany(ctx context.Context, collection string, filter interface{}) (int64, error) {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()
	res, err := a.Collection(collection).DeleteMany(opCtx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (a *Adapter) CountDocuments(ctx context.Context, collection string, filter interface{}) (int64, error) {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()
	return a.Collection(collection).CountDocuments(opCtx, filter)
}

// EnsureUniqueIndex creates an ascending unique index on field if missing.
func (a *Adapter) EnsureUniqueIndex(ctx context.Context, collection, field string) error {
	opCtx, cancel := a.withOperationTimeout(ctx)
	defer cancel()
	_, err := a.Collection(collection).Indexes().CreateOne(opCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(field + "_unique"),
	})
	if err != nil {
		return fmt.Errorf("failed to create unique index on %s.%s: %w", collection, field, err)
	}
	return nil
}

func (a *Adapter) withOperationTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return ctx, func() {}
	}
	// WithTimeout keeps the parent deadline when it is earlier.
	return context.WithTimeout(ctx, a.timeout)
}
