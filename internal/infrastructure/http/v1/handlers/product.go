package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventra/internal/core/apperror"
	"inventra/internal/domain/catalogs/product"
	"inventra/internal/infrastructure/http/v1/dto"
)

// ProductHandler handles product endpoints. Creation accumulates
// stock onto an existing supplier row when one matches, so POST is
// both "new product" and "stock intake".
type ProductHandler struct {
	*BaseHandler
	service *product.Service
}

// NewProductHandler creates a new product handler.
func NewProductHandler(base *BaseHandler, service *product.Service) *ProductHandler {
	return &ProductHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
	var q dto.ListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	result, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Get handles GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := h.ParseID(c)
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.CreateOrAccumulate(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, p)
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(p)
	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// SetDeletionMark handles PATCH /products/:id/deletion-mark
func (h *ProductHandler) SetDeletionMark(c *gin.Context) {
	productID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.SetDeletionMarkRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.SetDeletionMark(c.Request.Context(), productID, req.Marked); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Pool handles GET /products/pool?name=&brand=
// Reports the pooled stock of one logical product across suppliers.
func (h *ProductHandler) Pool(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		h.Error(c, apperror.NewValidation("name is required"))
		return
	}
	brand := c.Query("brand")

	pool, err := h.service.PoolStock(c.Request.Context(), name, brand)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, pool)
}

// LowStock handles GET /products/low-stock
func (h *ProductHandler) LowStock(c *gin.Context) {
	rows, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": rows, "count": len(rows)})
}
