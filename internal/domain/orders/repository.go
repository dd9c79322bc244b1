package orders

import (
	"context"

	"inventra/internal/core/id"
	"inventra/internal/domain"
)

// ListFilter narrows order listings.
type ListFilter struct {
	Type       *OrderType
	Status     *OrderStatus
	CustomerID *id.ID
	SupplierID *id.ID

	Limit  int
	Offset int
}

// DefaultListFilter returns sensible defaults.
func DefaultListFilter() ListFilter {
	return ListFilter{Limit: 50}
}

// Repository defines order storage. Orders load and persist together
// with their items.
type Repository interface {
	// Create inserts the order and its items.
	Create(ctx context.Context, order *Order) error

	// GetByID loads the order with its items.
	// Returns apperror.NewNotFound when missing.
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)

	// Update persists the order header and reconciles its items
	// (with optimistic locking on the header).
	Update(ctx context.Context, order *Order) error

	// FindAllByCustomer returns a customer's orders, newest first.
	FindAllByCustomer(ctx context.Context, customerID id.ID) ([]*Order, error)

	// FindAllByIDs returns the orders matching the given ids.
	// Unknown ids are skipped.
	FindAllByIDs(ctx context.Context, orderIDs []id.ID) ([]*Order, error)

	// List returns orders matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error)
}
