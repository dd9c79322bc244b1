package product

import (
	"context"

	"inventra/internal/core/id"
	"inventra/internal/domain"
)

// Repository defines product-specific storage operations.
//
// The ForUpdate variants acquire row locks and must be called inside
// a transaction. Pool queries return rows in ascending id order so
// concurrent allocators lock rows in the same sequence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetForUpdate loads a single row with a row lock.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	// FindByLogicalProduct returns all rows of a stock pool,
	// ascending by id.
	FindByLogicalProduct(ctx context.Context, name, brand string) ([]*Product, error)

	// FindByLogicalProductForUpdate returns all rows of a stock pool
	// with row locks, ascending by id.
	FindByLogicalProductForUpdate(ctx context.Context, name, brand string) ([]*Product, error)

	// FindByNameBrandSupplier returns the unique row a supplier holds
	// for a logical product. Returns apperror.NewNotFound when the
	// supplier has no such row.
	FindByNameBrandSupplier(ctx context.Context, name, brand string, supplierID id.ID) (*Product, error)

	// SaveAll persists quantity changes on the given rows.
	SaveAll(ctx context.Context, products []*Product) error

	// ListLowStock returns rows at or below their low-stock threshold.
	ListLowStock(ctx context.Context) ([]*Product, error)
}
