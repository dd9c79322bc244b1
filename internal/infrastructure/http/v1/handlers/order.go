package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/domain/orders"
	"inventra/internal/infrastructure/http/v1/dto"
	"inventra/internal/infrastructure/storage/postgres"
)

// OrderHandler handles order lifecycle and item endpoints.
type OrderHandler struct {
	*BaseHandler
	service *orders.Service
	audit   *postgres.AuditService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(base *BaseHandler, service *orders.Service, audit *postgres.AuditService) *OrderHandler {
	return &OrderHandler{
		BaseHandler: base,
		service:     service,
		audit:       audit,
	}
}

// History handles GET /orders/:id/history
func (h *OrderHandler) History(c *gin.Context) {
	orderID, ok := h.ParseID(c)
	if !ok {
		return
	}

	limit := h.ParseIntQuery(c, "limit", 50)

	entries, err := h.audit.GetEntityHistory(c.Request.Context(), "order", orderID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"items": entries,
		"count": len(entries),
	})
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := h.ParseID(c)
	if !ok {
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	var q dto.OrderListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid filter id").WithCause(err))
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// GetByIDs handles GET /orders/batch?ids=a,b,c
func (h *OrderHandler) GetByIDs(c *gin.Context) {
	raw := c.Query("ids")
	if raw == "" {
		h.Error(c, apperror.NewValidation("ids is required"))
		return
	}

	parts := strings.Split(raw, ",")
	ids := make([]id.ID, 0, len(parts))
	for _, part := range parts {
		oid, err := id.Parse(strings.TrimSpace(part))
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid id format").WithDetail("id", part))
			return
		}
		ids = append(ids, oid)
	}

	found, err := h.service.GetByIDs(c.Request.Context(), ids)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": found})
}

// ListByCustomer handles GET /customers/:id/orders
func (h *OrderHandler) ListByCustomer(c *gin.Context) {
	customerID, ok := h.ParseID(c)
	if !ok {
		return
	}

	found, err := h.service.ListByCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": found})
}

// UpdateStatus handles PATCH /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateOrderStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// Complete handles POST /orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	orderID, ok := h.ParseID(c)
	if !ok {
		return
	}

	order, err := h.service.Complete(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := h.ParseID(c)
	if !ok {
		return
	}

	order, err := h.service.Cancel(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// ListItems handles GET /orders/:id/items
func (h *OrderHandler) ListItems(c *gin.Context) {
	orderID, ok := h.ParseID(c)
	if !ok {
		return
	}

	items, err := h.service.ListItems(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}

// AddItem handles POST /orders/:id/items
func (h *OrderHandler) AddItem(c *gin.Context) {
	orderID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.AddOrderItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	order, err := h.service.AddItem(c.Request.Context(), orderID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}

// RemoveItem handles DELETE /orders/:id/items/:itemId?quantity=n
// Without a quantity the whole line is removed.
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	orderID, ok := h.ParseID(c)
	if !ok {
		return
	}

	itemID, err := id.Parse(c.Param("itemId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid item id format").WithDetail("itemId", c.Param("itemId")))
		return
	}

	order, err := h.service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}

	quantity := h.ParseIntQuery(c, "quantity", 0)
	if quantity == 0 {
		if item := order.ItemByID(itemID); item != nil {
			quantity = item.Quantity
		} else {
			h.Error(c, apperror.NewNotFound("order item", itemID.String()))
			return
		}
	}

	order, err = h.service.RemoveItem(c.Request.Context(), orderID, itemID, quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, order)
}
