// Package category provides the product category catalog.
package category

import (
	"context"

	"inventra/internal/core/entity"
)

// Category groups products for reporting and navigation.
type Category struct {
	entity.Catalog

	// Description is an optional free-form description
	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a new Category.
func New(code, name string) *Category {
	return &Category{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable interface.
func (c *Category) Validate(ctx context.Context) error {
	return c.Catalog.Validate(ctx)
}
