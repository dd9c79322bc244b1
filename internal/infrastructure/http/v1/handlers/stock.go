package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"inventra/internal/core/id"
	"inventra/internal/core/tx"
	"inventra/internal/domain/catalogs/product"
	"inventra/internal/domain/stock"
	"inventra/internal/infrastructure/http/v1/dto"
)

// StockHandler exposes direct stock adjustments. Reductions drain the
// whole pool of the logical product; restores and increases stay on
// the addressed row.
type StockHandler struct {
	*BaseHandler
	allocator *stock.Allocator
	txManager tx.Manager
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, allocator *stock.Allocator, txManager tx.Manager) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		allocator:   allocator,
		txManager:   txManager,
	}
}

// Reduce handles POST /stock/:id/reduce
func (h *StockHandler) Reduce(c *gin.Context) {
	productID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var touched []*product.Product
	err := h.txManager.RunInTransaction(c.Request.Context(), func(ctx context.Context) error {
		var err error
		touched, err = h.allocator.Reduce(ctx, productID, req.Quantity)
		return err
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"rows": touched})
}

// Restore handles POST /stock/:id/restore
func (h *StockHandler) Restore(c *gin.Context) {
	h.adjustRow(c, h.allocator.Restore)
}

// Increase handles POST /stock/:id/increase
func (h *StockHandler) Increase(c *gin.Context) {
	h.adjustRow(c, h.allocator.Increase)
}

func (h *StockHandler) adjustRow(
	c *gin.Context,
	adjust func(ctx context.Context, productID id.ID, quantity int) (*product.Product, error),
) {
	productID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	var row *product.Product
	err := h.txManager.RunInTransaction(c.Request.Context(), func(ctx context.Context) error {
		var err error
		row, err = adjust(ctx, productID, req.Quantity)
		return err
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, row)
}

// Availability handles GET /stock/:id/availability
func (h *StockHandler) Availability(c *gin.Context) {
	productID, ok := h.ParseID(c)
	if !ok {
		return
	}

	available, err := h.allocator.Availability(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.AvailabilityResponse{
		ProductID: productID,
		Available: available,
	})
}
