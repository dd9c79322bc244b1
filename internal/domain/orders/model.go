// Package orders implements sale and purchase order management:
// line items, totals, and the order status lifecycle with its
// stock side effects.
package orders

import (
	"context"
	"time"

	"inventra/internal/core/apperror"
	"inventra/internal/core/entity"
	"inventra/internal/core/id"
	"inventra/internal/core/types"
)

// OrderType distinguishes outbound sales from inbound purchases.
type OrderType string

const (
	TypeSale     OrderType = "SALE"
	TypePurchase OrderType = "PURCHASE"
)

// Valid reports whether t is a known order type.
func (t OrderType) Valid() bool {
	return t == TypeSale || t == TypePurchase
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusCreated    OrderStatus = "CREATED"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusCompleted  OrderStatus = "COMPLETED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the order is closed to item mutations.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// allowedTransitions is the closed set of lifecycle edges. A completed
// order can still be cancelled, which runs the compensating stock and
// sold-quantity reversals; a cancelled order is final.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	StatusCreated:    {StatusProcessing, StatusCompleted, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {StatusCancelled},
	StatusCancelled:  {},
}

// CanTransitionTo reports whether the edge s -> target is allowed.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// PaymentType is how an order is settled.
type PaymentType string

const (
	PaymentCash     PaymentType = "CASH"
	PaymentCard     PaymentType = "CARD"
	PaymentTransfer PaymentType = "TRANSFER"
	PaymentCredit   PaymentType = "CREDIT"
)

// Valid reports whether p is a known payment type.
func (p PaymentType) Valid() bool {
	switch p {
	case PaymentCash, PaymentCard, PaymentTransfer, PaymentCredit:
		return true
	}
	return false
}

// OrderItem is one line of an order. Product identity is denormalized
// so the line survives product renames and deletion marks.
type OrderItem struct {
	ID               id.ID       `db:"id" json:"id"`
	OrderID          id.ID       `db:"order_id" json:"orderId"`
	ProductID        id.ID       `db:"product_id" json:"productId"`
	ProductName      string      `db:"product_name" json:"productName"`
	Brand            string      `db:"brand" json:"brand"`
	SupplierID       id.ID       `db:"supplier_id" json:"supplierId"`
	Quantity         int         `db:"quantity" json:"quantity"`
	PriceAtOrderTime types.Money `db:"price_at_order_time" json:"priceAtOrderTime"`
	CreatedAt        time.Time   `db:"created_at" json:"createdAt"`
}

// LineTotal returns quantity times the captured unit price.
func (i *OrderItem) LineTotal() types.Money {
	return types.MulInt(i.PriceAtOrderTime, i.Quantity)
}

// Order is a sale or purchase document.
type Order struct {
	entity.BaseDocument

	// Number is the human-readable order number (SO-/PO- prefixed)
	Number string `db:"number" json:"number"`

	Type        OrderType   `db:"type" json:"type"`
	Status      OrderStatus `db:"status" json:"status"`
	PaymentType PaymentType `db:"payment_type" json:"paymentType"`

	// CustomerID is set on SALE orders
	CustomerID *id.ID `db:"customer_id" json:"customerId,omitempty"`

	// SupplierID is set on PURCHASE orders
	SupplierID *id.ID `db:"supplier_id" json:"supplierId,omitempty"`

	// Items are the order lines, loaded with the order
	Items []OrderItem `db:"-" json:"items"`

	// TotalPrice is the sum of line totals, recalculated on every
	// item mutation
	TotalPrice types.Money `db:"total_price" json:"totalPrice"`

	// CompletedAt is set when the order reaches COMPLETED
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

// NewOrder creates an order in CREATED status.
func NewOrder(orderType OrderType, payment PaymentType) *Order {
	return &Order{
		BaseDocument: entity.NewBaseDocument(),
		Type:         orderType,
		Status:       StatusCreated,
		PaymentType:  payment,
		TotalPrice:   types.Zero(),
	}
}

// RecalculateTotal recomputes TotalPrice from the current items.
func (o *Order) RecalculateTotal() {
	total := types.Zero()
	for i := range o.Items {
		total = total.Add(o.Items[i].LineTotal())
	}
	o.TotalPrice = total
}

// ItemByID returns the item with the given id, or nil.
func (o *Order) ItemByID(itemID id.ID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// ItemByLogicalProduct returns the item referencing the logical
// product (name, brand), or nil. Lines merge per logical product,
// regardless of which stock row served them.
func (o *Order) ItemByLogicalProduct(name, brand string) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ProductName == name && o.Items[i].Brand == brand {
			return &o.Items[i]
		}
	}
	return nil
}

// RemoveItemByID drops the item from the order.
func (o *Order) RemoveItemByID(itemID id.ID) {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			return
		}
	}
}

// EnsureModifiable returns an immutable-order error when the order is
// in a terminal status.
func (o *Order) EnsureModifiable() error {
	if o.Status.IsTerminal() {
		return apperror.NewOrderImmutable(o.ID, string(o.Status))
	}
	return nil
}

// Validate implements entity.Validatable interface.
func (o *Order) Validate(ctx context.Context) error {
	if !o.Type.Valid() {
		return apperror.NewValidation("unknown order type").
			WithDetail("type", string(o.Type))
	}
	if !o.Status.Valid() {
		return apperror.NewValidation("unknown order status").
			WithDetail("status", string(o.Status))
	}
	if !o.PaymentType.Valid() {
		return apperror.NewValidation("unknown payment type").
			WithDetail("paymentType", string(o.PaymentType))
	}
	if o.Type == TypeSale && (o.CustomerID == nil || id.IsNil(*o.CustomerID)) {
		return apperror.NewValidation("sale order requires a customer")
	}
	if o.Type == TypePurchase && (o.SupplierID == nil || id.IsNil(*o.SupplierID)) {
		return apperror.NewValidation("purchase order requires a supplier")
	}
	if len(o.Items) == 0 {
		return apperror.NewValidation("order requires at least one item")
	}
	for i := range o.Items {
		if o.Items[i].Quantity <= 0 {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("product_id", o.Items[i].ProductID)
		}
		if o.Items[i].PriceAtOrderTime.IsNegative() {
			return apperror.NewValidation("item price must not be negative").
				WithDetail("product_id", o.Items[i].ProductID)
		}
	}
	return nil
}
