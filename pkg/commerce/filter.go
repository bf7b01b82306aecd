package commerce

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/nimburion/storefront/pkg/repository/document"
)

// ProductFilter holds the optional product query parameters. Nil means absent.
type ProductFilter struct {
	Category *string
	MinPrice *float64
	MaxPrice *float64
	IsActive *bool
}

// ParseProductFilter reads category, min_price, max_price and is_active from
// query values. Empty values are absent; malformed numbers or booleans fail validation.
func ParseProductFilter(values url.Values) (ProductFilter, error) {
	var f ProductFilter
	errs := fieldErrors{}

	if c := strings.TrimSpace(values.Get("category")); c != "" {
		f.Category = &c
	}
	if raw := strings.TrimSpace(values.Get("min_price")); raw != "" {
		if v, ok := parsePrice(raw); !ok {
			errs.add("min_price", "must be a number")
		} else {
			f.MinPrice = &v
		}
	}
	if raw := strings.TrimSpace(values.Get("max_price")); raw != "" {
		if v, ok := parsePrice(raw); !ok {
			errs.add("max_price", "must be a number")
		} else {
			f.MaxPrice = &v
		}
	}
	if raw := strings.TrimSpace(values.Get("is_active")); raw != "" {
		if v, err := strconv.ParseBool(raw); err != nil {
			errs.add("is_active", "must be a boolean")
		} else {
			f.IsActive = &v
		}
	}

	return f, errs.err()
}

// parsePrice accepts finite numbers only.
func parsePrice(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Compose builds a conjunctive filter. An empty ProductFilter matches every product.
func (f ProductFilter) Compose() document.Filter {
	filter := document.Filter{}
	if f.Category != nil {
		filter["category"] = *f.Category
	}
	if f.IsActive != nil {
		filter["is_active"] = *f.IsActive
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := document.Filter{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	return filter
}

// ComposeStrict is Compose for bulk writes: an empty filter is rejected.
func (f ProductFilter) ComposeStrict() (document.Filter, error) {
	filter := f.Compose()
	if len(filter) == 0 {
		return nil, newError(ErrNoFilterProvided, "Provide at least one filter")
	}
	return filter, nil
}
