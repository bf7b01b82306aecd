package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcmongo "github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/testutil"
)

// startContainer runs a throwaway mongo:7 and returns its connection string.
func startContainer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcmongo.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start MongoDB container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}
	return uri
}

func TestAdapter_Integration(t *testing.T) {
	testutil.SkipIfShort(t)

	uri := startContainer(t)
	adapter, err := NewAdapter(Config{URL: uri, Database: "storefront_test", OperationTimeout: 5 * time.Second}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewAdapter: %v", err)
	}
	defer adapter.Close()

	ctx := context.Background()

	if err := adapter.HealthCheck(ctx); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}

	if err := adapter.EnsureUniqueIndex(ctx, "users", "email"); err != nil {
		t.Fatalf("EnsureUniqueIndex: %v", err)
	}
	if _, err := adapter.InsertOne(ctx, "users", bson.M{"email": "a@example.com"}); err != nil {
		t.Fatalf("InsertOne: %v", err)
	}
	if _, err := adapter.InsertOne(ctx, "users", bson.M{"email": "a@example.com"}); !mongo.IsDuplicateKeyError(err) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}

	ids, err := adapter.InsertMany(ctx, "products", []interface{}{
		bson.M{"name": "a", "price": 10.0},
		bson.M{"name": "b", "price": 20.0},
		bson.M{"name": "c", "price": 30.0},
	})
	if err != nil || len(ids) != 3 {
		t.Fatalf("InsertMany: ids=%v err=%v", ids, err)
	}

	var found []bson.M
	if err := adapter.Find(ctx, "products", bson.M{"price": bson.M{"$gte": 20.0}}, &found); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(found) != 2 || found[0]["name"] != "b" {
		t.Fatalf("unexpected find result %v", found)
	}

	res, err := adapter.UpdateMany(ctx, "products", bson.M{}, bson.M{"$set": bson.M{"stock": 1}})
	if err != nil || res.MatchedCount != 3 {
		t.Fatalf("UpdateMany: %+v %v", res, err)
	}

	n, err := adapter.CountDocuments(ctx, "products", bson.M{"stock": 1})
	if err != nil || n != 3 {
		t.Fatalf("CountDocuments: %d %v", n, err)
	}

	deleted, err := adapter.DeleteMany(ctx, "products", bson.M{"price": bson.M{"$lt": 25.0}})
	if err != nil || deleted != 2 {
		t.Fatalf("DeleteMany: %d %v", deleted, err)
	}

	var one bson.M
	if err := adapter.FindOne(ctx, "products", bson.M{"name": "a"}, &one); err != mongo.ErrNoDocuments {
		t.Fatalf("expected ErrNoDocuments, got %v", err)
	}
}
