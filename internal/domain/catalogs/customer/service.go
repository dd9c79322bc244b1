package customer

import (
	"context"
	"strings"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/core/tx"
	"inventra/internal/domain"
	"inventra/pkg/logger"
)

// ResolveInput identifies a customer either by id or by
// enough detail to create one on the fly.
type ResolveInput struct {
	ID            *id.ID `json:"id,omitempty"`
	Name          string `json:"name"`
	ContactNumber string `json:"contactNumber"`
	Email         string `json:"email"`
	Address       string `json:"address,omitempty"`
}

// Service provides customer business logic.
type Service struct {
	*domain.CatalogService[*Customer]
	repo Repository
}

// NewService creates a new customer service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Customer]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "customer",
		}),
		repo:           repo,
	}
}

// GetByEmail returns a customer by email address.
func (s *Service) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.NewValidation("email is required")
	}
	return s.repo.GetByEmail(ctx, email)
}

// GetOrCreate resolves the customer referenced by in, creating one
// when neither the id nor the email matches an existing record.
// Any resolution error is reported as a party-resolution failure.
func (s *Service) GetOrCreate(ctx context.Context, in ResolveInput) (*Customer, error) {
	c, err := s.getOrCreate(ctx, in)
	if err != nil {
		if ae, ok := apperror.AsAppError(err); ok {
			if ae.Code == apperror.CodeValidation || ae.Code == apperror.CodeInvalidInput {
				return nil, err
			}
		}
		return nil, apperror.NewPartyResolution("customer", err)
	}
	return c, nil
}

func (s *Service) getOrCreate(ctx context.Context, in ResolveInput) (*Customer, error) {
	if in.ID != nil && !id.IsNil(*in.ID) {
		return s.GetByID(ctx, *in.ID)
	}

	if in.Name == "" {
		return nil, apperror.NewValidation("customer name is required")
	}

	if in.Email != "" {
		existing, err := s.repo.GetByEmail(ctx, in.Email)
		if err == nil {
			return existing, nil
		}
		if !apperror.IsNotFound(err) {
			return nil, err
		}
	}

	c := New("", in.Name, in.ContactNumber, in.Email)
	if in.Address != "" {
		c.Address = &in.Address
	}
	if err := s.Create(ctx, c); err != nil {
		return nil, err
	}

	logger.Info(ctx, "customer created on demand",
		"customer_id", c.ID,
		"name", c.Name)

	return c, nil
}
