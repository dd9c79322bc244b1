package dto

import (
	"inventra/internal/core/entity"
	"inventra/internal/core/id"
	"inventra/internal/core/types"
	"inventra/internal/domain/catalogs/category"
	"inventra/internal/domain/catalogs/customer"
	"inventra/internal/domain/catalogs/product"
	"inventra/internal/domain/catalogs/supplier"
)

// --- Customer ---

// CreateCustomerRequest is the request body for creating a customer.
type CreateCustomerRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name" binding:"required"`
	ContactNumber string  `json:"contactNumber" binding:"required"`
	Email         string  `json:"email" binding:"required"`
	Address       *string `json:"address"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	c := customer.New(r.Code, r.Name, r.ContactNumber, r.Email)
	c.Address = r.Address
	return c
}

// UpdateCustomerRequest is the request body for updating a customer.
type UpdateCustomerRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name" binding:"required"`
	ContactNumber string  `json:"contactNumber" binding:"required"`
	Email         string  `json:"email" binding:"required"`
	Address       *string `json:"address"`
	Version       int     `json:"version" binding:"required"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) {
	c.Code = r.Code
	c.Name = r.Name
	c.ContactNumber = r.ContactNumber
	c.Email = r.Email
	c.Address = r.Address
	c.Version = r.Version
}

// --- Supplier ---

// CreateSupplierRequest is the request body for creating a supplier.
type CreateSupplierRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name" binding:"required"`
	ContactNumber string  `json:"contactNumber" binding:"required"`
	Email         string  `json:"email" binding:"required"`
	Address       *string `json:"address"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateSupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.New(r.Code, r.Name, r.ContactNumber, r.Email)
	s.Address = r.Address
	return s
}

// UpdateSupplierRequest is the request body for updating a supplier.
type UpdateSupplierRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name" binding:"required"`
	ContactNumber string  `json:"contactNumber" binding:"required"`
	Email         string  `json:"email" binding:"required"`
	Address       *string `json:"address"`
	Version       int     `json:"version" binding:"required"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateSupplierRequest) ApplyTo(s *supplier.Supplier) {
	s.Code = r.Code
	s.Name = r.Name
	s.ContactNumber = r.ContactNumber
	s.Email = r.Email
	s.Address = r.Address
	s.Version = r.Version
}

// --- Category ---

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// ToEntity converts the request to a domain entity.
func (r *CreateCategoryRequest) ToEntity() *category.Category {
	c := category.New(r.Code, r.Name)
	c.Description = r.Description
	return c
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	Code        string  `json:"code"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Version     int     `json:"version" binding:"required"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateCategoryRequest) ApplyTo(c *category.Category) {
	c.Code = r.Code
	c.Name = r.Name
	c.Description = r.Description
	c.Version = r.Version
}

// --- Product ---

// CreateProductRequest is the request body for taking product stock in.
// When the supplier already holds a row for (name, brand), the incoming
// quantity accumulates onto that row instead of creating a new one.
type CreateProductRequest struct {
	Code              string            `json:"code"`
	Name              string            `json:"name" binding:"required"`
	Brand             string            `json:"brand" binding:"required"`
	CategoryID        *id.ID            `json:"categoryId"`
	SupplierID        id.ID             `json:"supplierId" binding:"required"`
	ActualPrice       types.Money       `json:"actualPrice"`
	SellingPrice      types.Money       `json:"sellingPrice"`
	Discount          types.Money       `json:"discount"`
	StockQuantity     int               `json:"stockQuantity" binding:"omitempty,min=0"`
	LowStockThreshold *int              `json:"lowStockThreshold"`
	Description       *string           `json:"description"`
	Attributes        entity.Attributes `json:"attributes"`
}

// ToInput converts the request to the service input.
func (r *CreateProductRequest) ToInput() product.CreateInput {
	return product.CreateInput{
		Code:              r.Code,
		Name:              r.Name,
		Brand:             r.Brand,
		CategoryID:        r.CategoryID,
		SupplierID:        r.SupplierID,
		ActualPrice:       r.ActualPrice,
		SellingPrice:      r.SellingPrice,
		Discount:          r.Discount,
		StockQuantity:     r.StockQuantity,
		LowStockThreshold: r.LowStockThreshold,
		Description:       r.Description,
		Attributes:        r.Attributes,
	}
}

// UpdateProductRequest is the request body for updating a product row.
// Quantities are deliberately absent: stock moves only through orders
// and the stock endpoints.
type UpdateProductRequest struct {
	Code              string            `json:"code"`
	Name              string            `json:"name" binding:"required"`
	Brand             string            `json:"brand" binding:"required"`
	CategoryID        *id.ID            `json:"categoryId"`
	ActualPrice       types.Money       `json:"actualPrice"`
	SellingPrice      types.Money       `json:"sellingPrice"`
	Discount          types.Money       `json:"discount"`
	LowStockThreshold *int              `json:"lowStockThreshold"`
	Description       *string           `json:"description"`
	Attributes        entity.Attributes `json:"attributes"`
	Version           int               `json:"version" binding:"required"`
}

// ApplyTo applies the update to an existing entity.
func (r *UpdateProductRequest) ApplyTo(p *product.Product) {
	p.Code = r.Code
	p.Name = r.Name
	p.Brand = r.Brand
	p.CategoryID = r.CategoryID
	p.ActualPrice = r.ActualPrice
	p.SellingPrice = r.SellingPrice
	p.Discount = r.Discount
	if r.LowStockThreshold != nil {
		p.LowStockThreshold = *r.LowStockThreshold
	}
	p.Description = r.Description
	p.Attributes = r.Attributes
	p.Version = r.Version
}

// --- Stock ---

// AdjustStockRequest changes the quantity of one product row.
type AdjustStockRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// AvailabilityResponse reports the pooled stock of a logical product.
type AvailabilityResponse struct {
	ProductID id.ID  `json:"productId"`
	Name      string `json:"name,omitempty"`
	Brand     string `json:"brand,omitempty"`
	Available int    `json:"available"`
}
