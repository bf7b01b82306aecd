// Package commerce translates storefront requests into document store
// operations: identifier decoding, partial updates, product filters, the
// per-entity repositories, variant bulk operations, order export and order events.
package commerce

import (
	"context"

	"github.com/nimburion/storefront/pkg/auth"
	"github.com/nimburion/storefront/pkg/observability/logger"
	"github.com/nimburion/storefront/pkg/repository/document"
)

// Repositories bundles the entity repositories over one executor.
type Repositories struct {
	Users      *UserRepository
	Products   *ProductRepository
	Variants   *VariantRepository
	Categories *CategoryRepository
	Orders     *OrderRepository
}

// NewRepositories wires every repository to exec. events may be nil.
func NewRepositories(exec document.Executor, hasher auth.PasswordHasher, events *OrderEvents, log logger.Logger) *Repositories {
	products := NewProductRepository(exec, log)
	return &Repositories{
		Users:      NewUserRepository(exec, hasher, log),
		Products:   products,
		Variants:   NewVariantRepository(exec, products, log),
		Categories: NewCategoryRepository(exec),
		Orders:     NewOrderRepository(exec, events, log),
	}
}

// EnsureIndexes declares the indexes the repositories rely on.
func (r *Repositories) EnsureIndexes(ctx context.Context) error {
	return r.Users.EnsureIndexes(ctx)
}
