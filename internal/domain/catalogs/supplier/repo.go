package supplier

import (
	"context"

	"inventra/internal/domain"
)

// Repository defines supplier-specific storage operations.
type Repository interface {
	domain.CatalogRepository[*Supplier]

	// GetByEmail returns a supplier by email address.
	// Returns apperror.NewNotFound when no supplier matches.
	GetByEmail(ctx context.Context, email string) (*Supplier, error)
}
