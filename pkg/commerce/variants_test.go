package commerce

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func variantInput(productID, color string, price float64, stock int) VariantInput {
	return VariantInput{ProductID: productID, Color: color, Price: &price, Stock: &stock}
}

func newProduct(t *testing.T, repos *Repositories) Product {
	t.Helper()
	p, err := repos.Products.Create(context.Background(), productInput("Tee", "shirts", 15, 10))
	if err != nil {
		t.Fatalf("Create product: %v", err)
	}
	return p
}

func TestVariantRepository_Create(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t, nil)
	p := newProduct(t, repos)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.UTC)
	repos.Variants.now = func() time.Time { return fixed }

	size := "M"
	in := variantInput(p.ID.Hex(), "red", 17.5, 3)
	in.Size = &size
	v, err := repos.Variants.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !v.IsAvailable || v.ProductID != p.ID || !v.CreatedAt.Equal(fixed.Truncate(time.Millisecond)) {
		t.Errorf("unexpected variant %+v", v)
	}

	listed, err := repos.Variants.ListByProduct(ctx, p.ID.Hex())
	if err != nil {
		t.Fatalf("ListByProduct: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != v.ID || *listed[0].Size != "M" || listed[0].SKU != nil {
		t.Fatalf("unexpected listing %+v", listed)
	}
	if !listed[0].CreatedAt.Equal(v.CreatedAt) {
		t.Errorf("createdAt changed in storage: %v vs %v", listed[0].CreatedAt, v.CreatedAt)
	}
}

func TestVariantRepository_CreateRequiresProduct(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t, nil)

	_, err := repos.Variants.Create(ctx, variantInput(primitive.NewObjectID().Hex(), "red", 1, 1))
	if !errors.Is(err, ErrReferencedEntityNotFound) {
		t.Fatalf("expected ErrReferencedEntityNotFound, got %v", err)
	}
	_, err = repos.Variants.Create(ctx, variantInput("bogus", "red", 1, 1))
	if !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}
}

func TestVariantRepository_ListByProduct(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t, nil)
	a, b := newProduct(t, repos), newProduct(t, repos)
	for _, pid := range []string{a.ID.Hex(), b.ID.Hex(), a.ID.Hex()} {
		if _, err := repos.Variants.Create(ctx, variantInput(pid, "blue", 1, 1)); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	listed, err := repos.Variants.ListByProduct(ctx, a.ID.Hex())
	if err != nil || len(listed) != 2 {
		t.Fatalf("expected 2 variants of a, got %d, %v", len(listed), err)
	}
	all, _ := repos.Variants.List(ctx)
	if len(all) != 3 {
		t.Errorf("expected 3 variants, got %d", len(all))
	}
	if _, err := repos.Variants.ListByProduct(ctx, "nope"); !errors.Is(err, ErrInvalidIdentifier) {
		t.Errorf("expected ErrInvalidIdentifier, got %v", err)
	}
}

func TestVariantRepository_NoCascadeOnProductDelete(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t, nil)
	p := newProduct(t, repos)
	if _, err := repos.Variants.Create(ctx, variantInput(p.ID.Hex(), "red", 1, 1)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repos.Products.Delete(ctx, p.ID.Hex()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	listed, _ := repos.Variants.ListByProduct(ctx, p.ID.Hex())
	if len(listed) != 1 {
		t.Errorf("variant should survive product deletion, got %d", len(listed))
	}
}

func TestVariantRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t, nil)
	p := newProduct(t, repos)
	v, _ := repos.Variants.Create(ctx, variantInput(p.ID.Hex(), "red", 1, 1))

	if err := repos.Variants.Update(ctx, v.ID.Hex(), VariantUpdate{}); !errors.Is(err, ErrEmptyUpdate) {
		t.Errorf("expected ErrEmptyUpdate, got %v", err)
	}
	unavailable := false
	if err := repos.Variants.Update(ctx, v.ID.Hex(), VariantUpdate{IsAvailable: &unavailable}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := repos.Variants.Update(ctx, primitive.NewObjectID().Hex(), VariantUpdate{IsAvailable: &unavailable}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repos.Variants.Delete(ctx, v.ID.Hex()); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repos.Variants.Delete(ctx, v.ID.Hex()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestVariantRepository_CreateBulkIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	repos, exec := newTestRepositories(t, nil)
	p := newProduct(t, repos)
	missing := primitive.NewObjectID().Hex()

	_, err := repos.Variants.CreateBulk(ctx, []VariantInput{
		variantInput(p.ID.Hex(), "red", 1, 1),
		variantInput(missing, "blue", 1, 1),
	})
	if !errors.Is(err, ErrReferencedEntityNotFound) {
		t.Fatalf("expected ErrReferencedEntityNotFound, got %v", err)
	}
	if err.Error() != "Product not found for ID "+missing {
		t.Errorf("unexpected message %q", err.Error())
	}
	if n, _ := exec.Count(ctx, VariantsCollection, nil); n != 0 {
		t.Fatalf("expected zero variants persisted, found %d", n)
	}

	_, err = repos.Variants.CreateBulk(ctx, []VariantInput{
		variantInput(p.ID.Hex(), "red", 1, 1),
		variantInput(p.ID.Hex(), "", -1, 1),
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	ids, err := repos.Variants.CreateBulk(ctx, []VariantInput{
		variantInput(p.ID.Hex(), "red", 1, 1),
		variantInput(p.ID.Hex(), "blue", 2, 2),
	})
	if err != nil || len(ids) != 2 {
		t.Fatalf("CreateBulk: %v, %v", ids, err)
	}
}

func TestVariantRepository_BulkUpdate(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t, nil)
	p := newProduct(t, repos)
	a, _ := repos.Variants.Create(ctx, variantInput(p.ID.Hex(), "red", 1, 1))
	b, _ := repos.Variants.Create(ctx, variantInput(p.ID.Hex(), "blue", 1, 1))

	stock := 1
	color := "green"
	updated, err := repos.Variants.BulkUpdate(ctx, []VariantUpdateItem{
		{VariantID: a.ID.Hex(), Data: VariantUpdate{Color: &color}},
		{VariantID: b.ID.Hex(), Data: VariantUpdate{}},
		{VariantID: b.ID.Hex(), Data: VariantUpdate{Stock: &stock}},
		{VariantID: primitive.NewObjectID().Hex(), Data: VariantUpdate{Color: &color}},
	})
	if err != nil {
		t.Fatalf("BulkUpdate: %v", err)
	}
	// the empty item is skipped, the unchanged one still counts, the unknown id does not
	if updated != 2 {
		t.Errorf("expected updated_count 2, got %d", updated)
	}

	listed, _ := repos.Variants.ListByProduct(ctx, p.ID.Hex())
	if listed[0].Color != "green" || listed[1].Color != "blue" {
		t.Errorf("unexpected colors %s, %s", listed[0].Color, listed[1].Color)
	}
}

func TestVariantRepository_BulkUpdateChecksEveryItemFirst(t *testing.T) {
	ctx := context.Background()
	repos, _ := newTestRepositories(t, nil)
	p := newProduct(t, repos)
	a, _ := repos.Variants.Create(ctx, variantInput(p.ID.Hex(), "red", 1, 1))

	color := "green"
	_, err := repos.Variants.BulkUpdate(ctx, []VariantUpdateItem{
		{VariantID: a.ID.Hex(), Data: VariantUpdate{Color: &color}},
		{VariantID: "bad", Data: VariantUpdate{Color: &color}},
	})
	if !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}
	listed, _ := repos.Variants.ListByProduct(ctx, p.ID.Hex())
	if listed[0].Color != "red" {
		t.Errorf("no update should be applied, got color %s", listed[0].Color)
	}
}

func TestVariantRepository_BulkDelete(t *testing.T) {
	ctx := context.Background()
	repos, exec := newTestRepositories(t, nil)
	p := newProduct(t, repos)
	a, _ := repos.Variants.Create(ctx, variantInput(p.ID.Hex(), "red", 1, 1))
	b, _ := repos.Variants.Create(ctx, variantInput(p.ID.Hex(), "blue", 1, 1))

	if _, err := repos.Variants.BulkDelete(ctx, []string{a.ID.Hex(), "bad"}); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}
	if n, _ := exec.Count(ctx, VariantsCollection, nil); n != 2 {
		t.Fatalf("nothing should be deleted, found %d", n)
	}

	n, err := repos.Variants.BulkDelete(ctx, []string{a.ID.Hex(), b.ID.Hex(), primitive.NewObjectID().Hex()})
	if err != nil || n != 2 {
		t.Fatalf("expected 2 deleted, got %d, %v", n, err)
	}

	n, err = repos.Variants.BulkDelete(ctx, []string{})
	if err != nil || n != 0 {
		t.Errorf("expected 0 deleted, got %d, %v", n, err)
	}
}
