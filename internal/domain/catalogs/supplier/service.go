package supplier

import (
	"context"
	"strings"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/core/tx"
	"inventra/internal/domain"
	"inventra/pkg/logger"
)

// ResolveInput identifies a supplier either by id or by
// enough detail to create one on the fly.
type ResolveInput struct {
	ID            *id.ID `json:"id,omitempty"`
	Name          string `json:"name"`
	ContactNumber string `json:"contactNumber"`
	Email         string `json:"email"`
	Address       string `json:"address,omitempty"`
}

// Service provides supplier business logic.
type Service struct {
	*domain.CatalogService[*Supplier]
	repo Repository
}

// NewService creates a new supplier service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "supplier",
		}),
		repo:           repo,
	}
}

// GetByEmail returns a supplier by email address.
func (s *Service) GetByEmail(ctx context.Context, email string) (*Supplier, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperror.NewValidation("email is required")
	}
	return s.repo.GetByEmail(ctx, email)
}

// GetOrCreate resolves the supplier referenced by in, creating one
// when neither the id nor the email matches an existing record.
// Any resolution error is reported as a party-resolution failure.
func (s *Service) GetOrCreate(ctx context.Context, in ResolveInput) (*Supplier, error) {
	sup, err := s.getOrCreate(ctx, in)
	if err != nil {
		if ae, ok := apperror.AsAppError(err); ok {
			if ae.Code == apperror.CodeValidation || ae.Code == apperror.CodeInvalidInput {
				return nil, err
			}
		}
		return nil, apperror.NewPartyResolution("supplier", err)
	}
	return sup, nil
}

func (s *Service) getOrCreate(ctx context.Context, in ResolveInput) (*Supplier, error) {
	if in.ID != nil && !id.IsNil(*in.ID) {
		return s.GetByID(ctx, *in.ID)
	}

	if in.Name == "" {
		return nil, apperror.NewValidation("supplier name is required")
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

	sup := New("", in.Name, in.ContactNumber, in.Email)
	if in.Address != "" {
		sup.Address = &in.Address
	}
	if err := s.Create(ctx, sup); err != nil {
		return nil, err
	}

	logger.Info(ctx, "supplier created on demand",
		"supplier_id", sup.ID,
		"name", sup.Name)

	return sup, nil
}
