// Package supplier provides the Supplier catalog.
// Suppliers are the selling party on PURCHASE orders and the
// owner of individual product stock rows.
package supplier

import (
	"context"
	"regexp"

	"inventra/internal/core/apperror"
	"inventra/internal/core/entity"
)

var (
	emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRE = regexp.MustCompile(`^\+?[0-9 ()-]{6,20}$`)
)

// Supplier represents a selling party.
type Supplier struct {
	entity.Catalog

	// ContactNumber is the primary contact phone
	ContactNumber string `db:"contact_number" json:"contactNumber"`

	// Email is the primary contact email
	Email string `db:"email" json:"email"`

	// Address is the supplier's business address
	Address *string `db:"address" json:"address,omitempty"`
}

// New creates a new Supplier with required fields.
func New(code, name, contactNumber, email string) *Supplier {
	return &Supplier{
		Catalog:       entity.NewCatalog(code, name),
		ContactNumber: contactNumber,
		Email:         email,
	}
}

// Validate implements entity.Validatable interface.
func (s *Supplier) Validate(ctx context.Context) error {
	if err := s.Catalog.Validate(ctx); err != nil {
		return err
	}

	if s.Email != "" && !emailRE.MatchString(s.Email) {
		return apperror.NewValidation("invalid email format").
			WithDetail("field", "email")
	}

	if s.ContactNumber != "" && !phoneRE.MatchString(s.ContactNumber) {
		return apperror.NewValidation("invalid contact number format").
			WithDetail("field", "contactNumber")
	}

	return nil
}
