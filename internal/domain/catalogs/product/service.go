package product

import (
	"context"

	"inventra/internal/core/apperror"
	"inventra/internal/core/entity"
	"inventra/internal/core/id"
	"inventra/internal/core/tx"
	"inventra/internal/core/types"
	"inventra/internal/domain"
	"inventra/pkg/logger"
)

// SupplierDirectory checks supplier references.
type SupplierDirectory interface {
	Exists(ctx context.Context, supplierID id.ID) (bool, error)
}

// CategoryDirectory checks category references.
type CategoryDirectory interface {
	Exists(ctx context.Context, categoryID id.ID) (bool, error)
}

// CodeGenerator issues sequential product codes when the caller does
// not supply one.
type CodeGenerator interface {
	Next(ctx context.Context, prefix string) (string, error)
}

// codePrefix is the series prefix for generated product codes.
const codePrefix = "PRD"

// CreateInput describes a product intake.
type CreateInput struct {
	Code              string            `json:"code"`
	Name              string            `json:"name"`
	Brand             string            `json:"brand"`
	CategoryID        *id.ID            `json:"categoryId,omitempty"`
	SupplierID        id.ID             `json:"supplierId"`
	ActualPrice       types.Money       `json:"actualPrice"`
	SellingPrice      types.Money       `json:"sellingPrice"`
	Discount          types.Money       `json:"discount"`
	StockQuantity     int               `json:"stockQuantity"`
	LowStockThreshold *int              `json:"lowStockThreshold,omitempty"`
	Description       *string           `json:"description,omitempty"`
	Attributes        entity.Attributes `json:"attributes,omitempty"`
}

// PoolStock aggregates the stock pool of one logical product.
type PoolStock struct {
	Name  string     `json:"name"`
	Brand string     `json:"brand"`
	Total int        `json:"total"`
	Rows  []*Product `json:"rows"`
}

// Service provides product business logic.
type Service struct {
	*domain.CatalogService[*Product]
	repo       Repository
	suppliers  SupplierDirectory
	categories CategoryDirectory
	codes      CodeGenerator
	txManager  tx.Manager
}

// NewService creates a new product service.
func NewService(repo Repository, suppliers SupplierDirectory, categories CategoryDirectory, codes CodeGenerator, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "product",
		}),
		repo:       repo,
		suppliers:  suppliers,
		categories: categories,
		codes:      codes,
		txManager:  txManager,
	}
}

// CreateOrAccumulate registers a product intake. When the supplier
// already holds a row for (name, brand) the quantity is added to that
// row, otherwise a new row is created.
func (s *Service) CreateOrAccumulate(ctx context.Context, in CreateInput) (*Product, error) {
	if in.Name == "" {
		return nil, apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if in.Brand == "" {
		return nil, apperror.NewValidation("brand is required").WithDetail("field", "brand")
	}
	if in.StockQuantity < 0 {
		return nil, apperror.NewValidation("stock quantity must not be negative").
			WithDetail("field", "stockQuantity")
	}

	var result *Product
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.suppliers.Exists(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewNotFound("supplier", in.SupplierID)
		}

		if in.CategoryID != nil {
			ok, err := s.categories.Exists(ctx, *in.CategoryID)
			if err != nil {
				return err
			}
			if !ok {
				return apperror.NewNotFound("category", *in.CategoryID)
			}
		}

		existing, err := s.repo.FindByNameBrandSupplier(ctx, in.Name, in.Brand, in.SupplierID)
		if err == nil {
			existing.StockQuantity += in.StockQuantity
			existing.Touch()
			if err := s.repo.Update(ctx, existing); err != nil {
				return err
			}
			logger.Info(ctx, "product stock accumulated",
				"product_id", existing.ID,
				"name", existing.Name,
				"brand", existing.Brand,
				"added", in.StockQuantity,
				"stock", existing.StockQuantity)
			result = existing
			return nil
		}
		if !apperror.IsNotFound(err) {
			return err
		}

		code := in.Code
		if code == "" {
			code, err = s.codes.Next(ctx, codePrefix)
			if err != nil {
				return err
			}
		}

		p := New(code, in.Name, in.Brand, in.SupplierID)
		p.CategoryID = in.CategoryID
		p.ActualPrice = in.ActualPrice
		p.SellingPrice = in.SellingPrice
		p.Discount = in.Discount
		p.StockQuantity = in.StockQuantity
		p.Description = in.Description
		p.Attributes = in.Attributes
		if in.LowStockThreshold != nil {
			p.LowStockThreshold = *in.LowStockThreshold
		}

		if err := p.Validate(ctx); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}

		logger.Info(ctx, "product created",
			"product_id", p.ID,
			"name", p.Name,
			"brand", p.Brand,
			"stock", p.StockQuantity)
		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PoolStock returns the full stock pool of a logical product.
func (s *Service) PoolStock(ctx context.Context, name, brand string) (*PoolStock, error) {
	if name == "" || brand == "" {
		return nil, apperror.NewValidation("name and brand are required")
	}

	rows, err := s.repo.FindByLogicalProduct(ctx, name, brand)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, r := range rows {
		total += r.StockQuantity
	}
	return &PoolStock{Name: name, Brand: brand, Total: total, Rows: rows}, nil
}

// LowStock returns rows at or below their low-stock threshold.
func (s *Service) LowStock(ctx context.Context) ([]*Product, error) {
	return s.repo.ListLowStock(ctx)
}
