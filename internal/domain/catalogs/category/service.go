package category

import (
	"inventra/internal/core/tx"
	"inventra/internal/domain"
)

// Repository defines category storage operations.
type Repository interface {
	domain.CatalogRepository[*Category]
}

// Service provides category business logic.
type Service struct {
	*domain.CatalogService[*Category]
}

// NewService creates a new category service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "category",
		}),
	}
}
