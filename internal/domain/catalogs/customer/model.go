// Package customer provides the Customer catalog.
// Customers are the buying party on SALE orders.
package customer

import (
	"context"
	"regexp"

	"inventra/internal/core/apperror"
	"inventra/internal/core/entity"
)

// Pre-compiled regex patterns for validation
var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRE = regexp.MustCompile(`^\+?[0-9 ()-]{6,20}$`)
)

// Customer represents a buying party.
type Customer struct {
	entity.Catalog

	// ContactNumber is the primary contact phone
	ContactNumber string `db:"contact_number" json:"contactNumber"`

	// Email is the primary contact email
	Email string `db:"email" json:"email"`

	// Address is the delivery/billing address
	Address *string `db:"address" json:"address,omitempty"`
}

// New creates a new Customer with required fields.
func New(code, name, contactNumber, email string) *Customer {
	return &Customer{
		Catalog:       entity.NewCatalog(code, name),
		ContactNumber: contactNumber,
		Email:         email,
	}
}

// Validate implements entity.Validatable interface.
func (c *Customer) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Email != "" && !emailRE.MatchString(c.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	if c.ContactNumber != "" && !phoneRE.MatchString(c.ContactNumber) {
		return apperror.NewValidation("invalid contact number format").
			WithDetail("field", "contactNumber")
	}

	return nil
}
