package customer

import (
	"context"

	"inventra/internal/domain"
)

// Repository defines customer-specific storage operations
// on top of the generic catalog contract.
type Repository interface {
	domain.CatalogRepository[*Customer]

	// GetByEmail returns a customer by email address.
	// Returns apperror.NewNotFound when no customer matches.
	GetByEmail(ctx context.Context, email string) (*Customer, error)
}
