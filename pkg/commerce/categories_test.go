package commerce

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCategoryRepository(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t, nil)

	c, err := repos.Categories.Create(ctx, CategoryInput{Name: " Shoes "})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Name != "Shoes" {
		t.Errorf("name should be trimmed, got %q", c.Name)
	}

	// names are not unique
	ids, err := repos.Categories.CreateBulk(ctx, []string{"Hats", "Shoes"})
	if err != nil || len(ids) != 2 {
		t.Fatalf("CreateBulk: %v, %v", ids, err)
	}
	all, _ := repos.Categories.List(ctx)
	if len(all) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(all))
	}

	if err := repos.Categories.Update(ctx, c.ID.Hex(), CategoryInput{Name: "Footwear"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := repos.Categories.Get(ctx, c.ID.Hex())
	if err != nil || got.Name != "Footwear" {
		t.Fatalf("Get after update: %+v, %v", got, err)
	}
	if err := repos.Categories.Update(ctx, c.ID.Hex(), CategoryInput{Name: "  "}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if err := repos.Categories.Update(ctx, primitive.NewObjectID().Hex(), CategoryInput{Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := repos.Categories.Delete(ctx, c.ID.Hex()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repos.Categories.Get(ctx, c.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repos.Categories.Delete(ctx, "123"); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("expected ErrInvalidIdentifier, got %v", err)
	}
}

func TestCategoryRepository_CreateBulkRejectsBlankNames(t *testing.T) {
	repos, _ := newTestRepositories(t, nil)
	if _, err := repos.Categories.CreateBulk(context.Background(), []string{"ok", ""}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := repos.Categories.CreateBulk(context.Background(), nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for empty list, got %v", err)
	}
}
