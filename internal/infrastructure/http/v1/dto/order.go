package dto

import (
	"inventra/internal/core/id"
	"inventra/internal/core/types"
	"inventra/internal/domain/catalogs/customer"
	"inventra/internal/domain/catalogs/supplier"
	"inventra/internal/domain/orders"
)

// OrderItemRequest is one requested order line.
type OrderItemRequest struct {
	ProductID id.ID        `json:"productId" binding:"required"`
	Quantity  int          `json:"quantity" binding:"required,min=1"`
	Price     *types.Money `json:"price"`
}

// PartyRequest identifies or describes the customer or supplier of
// an order. Either an id of an existing party or enough detail to
// create one.
type PartyRequest struct {
	ID            *id.ID `json:"id"`
	Name          string `json:"name"`
	ContactNumber string `json:"contactNumber"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

func (p *PartyRequest) toCustomer() *customer.ResolveInput {
	if p == nil {
		return nil
	}
	return &customer.ResolveInput{
		ID:            p.ID,
		Name:          p.Name,
		ContactNumber: p.ContactNumber,
		Email:         p.Email,
		Address:       p.Address,
	}
}

func (p *PartyRequest) toSupplier() *supplier.ResolveInput {
	if p == nil {
		return nil
	}
	return &supplier.ResolveInput{
		ID:            p.ID,
		Name:          p.Name,
		ContactNumber: p.ContactNumber,
		Email:         p.Email,
		Address:       p.Address,
	}
}

// CreateOrderRequest is the request body for creating an order.
type CreateOrderRequest struct {
	Type        orders.OrderType   `json:"type" binding:"required"`
	PaymentType orders.PaymentType `json:"paymentType" binding:"required"`
	Status      *orders.OrderStatus `json:"status"`

	Customer *PartyRequest `json:"customer"`
	Supplier *PartyRequest `json:"supplier"`

	Items []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ToInput converts the request to the service input.
func (r *CreateOrderRequest) ToInput() orders.CreateInput {
	items := make([]orders.ItemInput, len(r.Items))
	for i, it := range r.Items {
		items[i] = orders.ItemInput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		}
	}

	return orders.CreateInput{
		Type:        r.Type,
		PaymentType: r.PaymentType,
		Status:      r.Status,
		Customer:    r.Customer.toCustomer(),
		Supplier:    r.Supplier.toSupplier(),
		Items:       items,
	}
}

// AddOrderItemRequest is the request body for adding an item.
type AddOrderItemRequest struct {
	ProductID id.ID        `json:"productId" binding:"required"`
	Quantity  int          `json:"quantity" binding:"required,min=1"`
	Price     *types.Money `json:"price"`
}

// ToInput converts the request to the service input.
func (r *AddOrderItemRequest) ToInput() orders.AddItemInput {
	return orders.AddItemInput{
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		Price:     r.Price,
	}
}

// UpdateOrderStatusRequest is the request body for a status change.
type UpdateOrderStatusRequest struct {
	Status orders.OrderStatus `json:"status" binding:"required"`
}

// OrderListQuery contains filter parameters for listing orders.
type OrderListQuery struct {
	Type       string `form:"type"`
	Status     string `form:"status"`
	CustomerID string `form:"customerId"`
	SupplierID string `form:"supplierId"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset     int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts query parameters to a domain filter.
func (q *OrderListQuery) ToFilter() (orders.ListFilter, error) {
	f := orders.DefaultListFilter()

	if q.Type != "" {
		t := orders.OrderType(q.Type)
		f.Type = &t
	}
	if q.Status != "" {
		s := orders.OrderStatus(q.Status)
		f.Status = &s
	}
	if q.CustomerID != "" {
		cid, err := id.Parse(q.CustomerID)
		if err != nil {
			return f, err
		}
		f.CustomerID = &cid
	}
	if q.SupplierID != "" {
		sid, err := id.Parse(q.SupplierID)
		if err != nil {
			return f, err
		}
		f.SupplierID = &sid
	}
	if q.Limit > 0 {
		f.Limit = q.Limit
	}
	f.Offset = q.Offset

	return f, nil
}
