package commerce

import (
	"errors"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestBuildUpdate_Empty(t *testing.T) {
	for _, payload := range []interface{}{ProductUpdate{}, &VariantUpdate{}, (*ProductUpdate)(nil)} {
		if _, err := BuildUpdate(payload); !errors.Is(err, ErrEmptyUpdate) {
			t.Errorf("%T: expected ErrEmptyUpdate, got %v", payload, err)
		}
	}
}

func TestBuildUpdate_ExplicitZeroValuesAreApplied(t *testing.T) {
	inactive := false
	zero := 0
	empty := ""
	fields, err := BuildUpdate(ProductUpdate{IsActive: &inactive, Stock: &zero, Description: &empty, Tags: []string{}})
	if err != nil {
		t.Fatalf("BuildUpdate: %v", err)
	}
	if len(fields) != 4 {
		t.Fatalf("expected 4 fields, got %v", fields)
	}
	if fields["is_active"] != false || fields["stock"] != 0 || fields["description"] != "" {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestBuildUpdate_UsesBSONNames(t *testing.T) {
	available := true
	fields, err := BuildUpdate(VariantUpdate{IsAvailable: &available})
	if err != nil {
		t.Fatalf("BuildUpdate: %v", err)
	}
	if _, ok := fields["isAvailable"]; !ok {
		t.Errorf("expected isAvailable key, got %v", fields)
	}
}

func TestBuildUpdate_RejectsNonStruct(t *testing.T) {
	if _, err := BuildUpdate(42); err == nil || errors.Is(err, ErrEmptyUpdate) {
		t.Errorf("expected a type error, got %v", err)
	}
}

func TestBuildUpdate_ValueFieldsPresentWhenNonZero(t *testing.T) {
	fields, err := BuildUpdate(CategoryInput{Name: "books"})
	if err != nil {
		t.Fatalf("BuildUpdate: %v", err)
	}
	if fields["name"] != "books" {
		t.Errorf("unexpected fields %v", fields)
	}
	if _, err := BuildUpdate(CategoryInput{}); !errors.Is(err, ErrEmptyUpdate) {
		t.Errorf("expected ErrEmptyUpdate, got %v", err)
	}
}

// The output holds exactly the present fields, with their values.
func TestProperty_PartialUpdateBuilder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("output keys equal present fields", prop.ForAll(
		func(mask uint8, name string, price float64, stock int, active bool) bool {
			var u ProductUpdate
			var want []string
			if mask&1 != 0 {
				u.Name = &name
				want = append(want, "name")
			}
			if mask&2 != 0 {
				u.Price = &price
				want = append(want, "price")
			}
			if mask&4 != 0 {
				u.Stock = &stock
				want = append(want, "stock")
			}
			if mask&8 != 0 {
				u.IsActive = &active
				want = append(want, "is_active")
			}
			if mask&16 != 0 {
				u.Tags = []string{name}
				want = append(want, "tags")
			}

			fields, err := BuildUpdate(u)
			if len(want) == 0 {
				return errors.Is(err, ErrEmptyUpdate)
			}
			if err != nil {
				return false
			}

			got := make([]string, 0, len(fields))
			for k := range fields {
				got = append(got, k)
			}
			sort.Strings(got)
			sort.Strings(want)
			if len(got) != len(want) {
				return false
			}
			for i := range got {
				if got[i] != want[i] {
					return false
				}
			}
			if u.Name != nil && fields["name"] != name {
				return false
			}
			if u.Stock != nil && fields["stock"] != stock {
				return false
			}
			return u.IsActive == nil || fields["is_active"] == active
		},
		gen.UInt8Range(0, 31),
		gen.AlphaString(),
		gen.Float64Range(0, 1e6),
		gen.IntRange(0, 1000),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
