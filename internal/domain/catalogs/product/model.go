// Package product provides the Product catalog.
//
// Each product record is a supplier-scoped stock row. Several rows may
// share the same (name, brand) pair; together they form the stock pool
// of one logical product. Availability checks and stock deductions
// operate over the pool, while purchases and order items always target
// a concrete row.
package product

import (
	"context"

	"inventra/internal/core/apperror"
	"inventra/internal/core/entity"
	"inventra/internal/core/id"
	"inventra/internal/core/types"
)

// DefaultLowStockThreshold is applied when a product is created
// without an explicit threshold.
const DefaultLowStockThreshold = 10

// Product is a supplier-scoped stock row.
type Product struct {
	entity.Catalog

	// Brand distinguishes products with the same name
	Brand string `db:"brand" json:"brand"`

	// CategoryID references the product category
	CategoryID *id.ID `db:"category_id" json:"categoryId,omitempty"`

	// SupplierID references the supplier owning this stock row
	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// ActualPrice is the acquisition cost per unit
	ActualPrice types.Money `db:"actual_price" json:"actualPrice"`

	// SellingPrice is the list price per unit
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// Discount is an absolute per-unit discount off the selling price
	Discount types.Money `db:"discount" json:"discount"`

	// StockQuantity is the on-hand quantity of this row
	StockQuantity int `db:"stock_quantity" json:"stockQuantity"`

	// QuantitySold accumulates units sold through completed sales
	QuantitySold int `db:"quantity_sold" json:"quantitySold"`

	// LowStockThreshold triggers replenishment alerts
	LowStockThreshold int `db:"low_stock_threshold" json:"lowStockThreshold"`

	// Description is an optional free-form description
	Description *string `db:"description" json:"description,omitempty"`

	// Attributes stores custom fields (JSONB in PostgreSQL)
	Attributes entity.Attributes `db:"attributes" json:"attributes,omitempty"`
}

// New creates a product row with the default low-stock threshold.
func New(code, name, brand string, supplierID id.ID) *Product {
	return &Product{
		Catalog:           entity.NewCatalog(code, name),
		Brand:             brand,
		SupplierID:        supplierID,
		LowStockThreshold: DefaultLowStockThreshold,
	}
}

// LogicalKey identifies the stock pool a row belongs to.
type LogicalKey struct {
	Name  string
	Brand string
}

// Key returns the logical product key of this row.
func (p *Product) Key() LogicalKey {
	return LogicalKey{Name: p.Name, Brand: p.Brand}
}

// EffectivePrice returns the per-unit selling price after discount.
func (p *Product) EffectivePrice() types.Money {
	price := p.SellingPrice.Sub(p.Discount)
	if price.IsNegative() {
		return types.Zero()
	}
	return price
}

// IsLowStock reports whether the row sits at or below its threshold.
func (p *Product) IsLowStock() bool {
	return p.StockQuantity <= p.LowStockThreshold
}

// Validate implements entity.Validatable interface.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.Brand == "" {
		return apperror.NewValidation("brand is required").
			WithDetail("field", "brand")
	}

	if id.IsNil(p.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if p.ActualPrice.IsNegative() {
		return apperror.NewValidation("actual price must not be negative").
			WithDetail("field", "actualPrice")
	}

	if p.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price must not be negative").
			WithDetail("field", "sellingPrice")
	}

	if p.Discount.IsNegative() {
		return apperror.NewValidation("discount must not be negative").
			WithDetail("field", "discount")
	}

	if p.StockQuantity < 0 {
		return apperror.NewValidation("stock quantity must not be negative").
			WithDetail("field", "stockQuantity")
	}

	if p.LowStockThreshold < 0 {
		return apperror.NewValidation("low stock threshold must not be negative").
			WithDetail("field", "lowStockThreshold")
	}

	return nil
}
