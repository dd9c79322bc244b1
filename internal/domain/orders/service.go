package orders

import (
	"context"
	"fmt"
	"time"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/core/tx"
	"inventra/internal/core/types"
	"inventra/internal/domain"
	"inventra/internal/domain/catalogs/customer"
	"inventra/internal/domain/catalogs/product"
	"inventra/internal/domain/catalogs/supplier"
	"inventra/internal/domain/stock"
	"inventra/pkg/logger"
)

// CustomerResolver resolves or creates the customer of a sale order.
type CustomerResolver interface {
	GetOrCreate(ctx context.Context, in customer.ResolveInput) (*customer.Customer, error)
}

// SupplierResolver resolves or creates the supplier of a purchase order.
type SupplierResolver interface {
	GetOrCreate(ctx context.Context, in supplier.ResolveInput) (*supplier.Supplier, error)
}

// NumberGenerator issues sequential order numbers per prefix.
type NumberGenerator interface {
	Next(ctx context.Context, prefix string) (string, error)
}

// Notifier receives stock rows touched by sale mutations so low-stock
// alerts can be raised. Delivery failures never fail the order
// operation; the service logs and moves on.
type Notifier interface {
	NotifyLowStock(ctx context.Context, rows []*product.Product, order *Order) error
}

// ItemInput is one requested order line.
type ItemInput struct {
	ProductID id.ID        `json:"productId"`
	Quantity  int          `json:"quantity"`
	Price     *types.Money `json:"price,omitempty"`
}

// CreateInput describes a new order.
type CreateInput struct {
	Type        OrderType    `json:"type"`
	PaymentType PaymentType  `json:"paymentType"`
	Status      *OrderStatus `json:"status,omitempty"`

	Customer *customer.ResolveInput `json:"customer,omitempty"`
	Supplier *supplier.ResolveInput `json:"supplier,omitempty"`

	Items []ItemInput `json:"items"`
}

// Service orchestrates order creation, item mutations and the
// status lifecycle.
type Service struct {
	repo      Repository
	products  product.Repository
	allocator *stock.Allocator
	customers CustomerResolver
	suppliers SupplierResolver
	numbers   NumberGenerator
	notifier  Notifier
	txManager tx.Manager
}

// Config wires the order service dependencies.
type Config struct {
	Repo      Repository
	Products  product.Repository
	Allocator *stock.Allocator
	Customers CustomerResolver
	Suppliers SupplierResolver
	Numbers   NumberGenerator
	Notifier  Notifier
	TxManager tx.Manager
}

// NewService creates the order service.
func NewService(cfg Config) *Service {
	return &Service{
		repo:      cfg.Repo,
		products:  cfg.Products,
		allocator: cfg.Allocator,
		customers: cfg.Customers,
		suppliers: cfg.Suppliers,
		numbers:   cfg.Numbers,
		notifier:  cfg.Notifier,
		txManager: cfg.TxManager,
	}
}

func numberPrefix(t OrderType) string {
	if t == TypePurchase {
		return "PO"
	}
	return "SO"
}

// Create validates and persists a new order, allocating stock for
// sales and recording intake for purchases in one transaction.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	var result *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		order := NewOrder(in.Type, in.PaymentType)
		if in.Status != nil {
			order.Status = *in.Status
		}

		number, err := s.numbers.Next(ctx, numberPrefix(in.Type))
		if err != nil {
			return fmt.Errorf("assign order number: %w", err)
		}
		order.Number = number

		switch in.Type {
		case TypeSale:
			err = s.processSale(ctx, order, in)
		case TypePurchase:
			err = s.processPurchase(ctx, order, in)
		}
		if err != nil {
			if apperror.IsAppError(err) {
				return err
			}
			return fmt.Errorf("create %s order: %w", in.Type, err)
		}

		order.RecalculateTotal()

		// Orders may be created directly in COMPLETED status; the
		// completion side effects apply the same as a transition.
		var touched []*product.Product
		if order.Status == StatusCompleted {
			now := time.Now().UTC()
			order.CompletedAt = &now
			touched, err = s.applyCompletion(ctx, order)
			if err != nil {
				return err
			}
		}

		if err := s.repo.Create(ctx, order); err != nil {
			return err
		}

		logger.Info(ctx, "order created",
			"order_id", order.ID,
			"number", order.Number,
			"type", order.Type,
			"status", order.Status,
			"items", len(order.Items),
			"total", order.TotalPrice)

		if len(touched) > 0 {
			s.notify(ctx, touched, order)
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func validateCreateInput(in CreateInput) error {
	if !in.Type.Valid() {
		return apperror.NewValidation("unknown order type").
			WithDetail("type", string(in.Type))
	}
	if !in.PaymentType.Valid() {
		return apperror.NewValidation("unknown payment type").
			WithDetail("paymentType", string(in.PaymentType))
	}
	if in.Status != nil && !in.Status.Valid() {
		return apperror.NewValidation("unknown order status").
			WithDetail("status", string(*in.Status))
	}
	if len(in.Items) == 0 {
		return apperror.NewValidation("order requires at least one item")
	}
	for _, it := range in.Items {
		if id.IsNil(it.ProductID) {
			return apperror.NewValidation("item product id is required")
		}
		if it.Quantity <= 0 {
			return apperror.NewValidation("item quantity must be positive").
				WithDetail("product_id", it.ProductID)
		}
		if it.Price != nil && it.Price.IsNegative() {
			return apperror.NewValidation("item price must not be negative").
				WithDetail("product_id", it.ProductID)
		}
	}
	if in.Type == TypeSale && in.Customer == nil {
		return apperror.NewValidation("sale order requires customer information")
	}
	if in.Type == TypePurchase && in.Supplier == nil {
		return apperror.NewValidation("purchase order requires supplier information")
	}
	return nil
}

// processSale resolves the customer, verifies pooled availability for
// the whole order, then allocates each line.
func (s *Service) processSale(ctx context.Context, order *Order, in CreateInput) error {
	cust, err := s.customers.GetOrCreate(ctx, *in.Customer)
	if err != nil {
		return err
	}
	custID := cust.ID
	order.CustomerID = &custID

	demands := make([]stock.Demand, 0, len(in.Items))
	for _, it := range in.Items {
		demands = append(demands, stock.Demand{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	if err := s.allocator.CheckAvailability(ctx, demands); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, it := range in.Items {
		rows, err := s.allocator.Reduce(ctx, it.ProductID, it.Quantity)
		if err != nil {
			return err
		}
		src := rows[0]

		price := src.EffectivePrice()
		if it.Price != nil {
			price = *it.Price
		}

		order.Items = append(order.Items, OrderItem{
			ID:               id.New(),
			OrderID:          order.ID,
			ProductID:        src.ID,
			ProductName:      src.Name,
			Brand:            src.Brand,
			SupplierID:       src.SupplierID,
			Quantity:         it.Quantity,
			PriceAtOrderTime: price,
			CreatedAt:        now,
		})
	}
	return nil
}

// processPurchase resolves the supplier and records intake per line.
// When the referenced product row belongs to another supplier, the
// intake goes to this supplier's own row for the same logical product,
// created on the fly if absent.
func (s *Service) processPurchase(ctx context.Context, order *Order, in CreateInput) error {
	sup, err := s.suppliers.GetOrCreate(ctx, *in.Supplier)
	if err != nil {
		return err
	}
	supID := sup.ID
	order.SupplierID = &supID

	now := time.Now().UTC()
	for _, it := range in.Items {
		ref, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return err
		}

		target, err := s.intakeRow(ctx, ref, sup.ID, it.Quantity)
		if err != nil {
			return err
		}

		price := target.ActualPrice
		if it.Price != nil {
			price = *it.Price
		}

		order.Items = append(order.Items, OrderItem{
			ID:               id.New(),
			OrderID:          order.ID,
			ProductID:        target.ID,
			ProductName:      target.Name,
			Brand:            target.Brand,
			SupplierID:       target.SupplierID,
			Quantity:         it.Quantity,
			PriceAtOrderTime: price,
			CreatedAt:        now,
		})
	}
	return nil
}

// intakeRow adds quantity to the supplier's row for ref's logical
// product, creating the row when the supplier does not stock it yet.
func (s *Service) intakeRow(ctx context.Context, ref *product.Product, supplierID id.ID, quantity int) (*product.Product, error) {
	if ref.SupplierID == supplierID {
		return s.allocator.Increase(ctx, ref.ID, quantity)
	}

	existing, err := s.products.FindByNameBrandSupplier(ctx, ref.Name, ref.Brand, supplierID)
	if err == nil {
		return s.allocator.Increase(ctx, existing.ID, quantity)
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	row := product.New("", ref.Name, ref.Brand, supplierID)
	row.CategoryID = ref.CategoryID
	row.ActualPrice = ref.ActualPrice
	row.SellingPrice = ref.SellingPrice
	row.Discount = ref.Discount
	row.LowStockThreshold = ref.LowStockThreshold
	row.StockQuantity = quantity
	if err := s.products.Create(ctx, row); err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock row created for supplier",
		"product_id", row.ID,
		"name", row.Name,
		"brand", row.Brand,
		"supplier_id", supplierID,
		"stock", row.StockQuantity)

	return row, nil
}

// UpdateStatus moves the order along the lifecycle, applying stock and
// sold-quantity side effects before the status itself is written.
func (s *Service) UpdateStatus(ctx context.Context, orderID id.ID, newStatus OrderStatus) (*Order, error) {
	if !newStatus.Valid() {
		return nil, apperror.NewValidation("unknown order status").
			WithDetail("status", string(newStatus))
	}

	var result *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}

		prior := order.Status
		if !prior.CanTransitionTo(newStatus) {
			return apperror.NewInvalidStatusTransition(string(prior), string(newStatus))
		}

		var touched []*product.Product
		switch newStatus {
		case StatusCompleted:
			touched, err = s.applyCompletion(ctx, order)
		case StatusCancelled:
			err = s.applyCancellation(ctx, order, prior)
		}
		if err != nil {
			return err
		}

		order.Status = newStatus
		if newStatus == StatusCompleted {
			now := time.Now().UTC()
			order.CompletedAt = &now
		}
		order.Touch()

		if err := s.repo.Update(ctx, order); err != nil {
			return err
		}

		logger.Info(ctx, "order status updated",
			"order_id", order.ID,
			"number", order.Number,
			"from", prior,
			"to", newStatus)

		if len(touched) > 0 {
			s.notify(ctx, touched, order)
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Complete transitions the order to COMPLETED.
func (s *Service) Complete(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.UpdateStatus(ctx, orderID, StatusCompleted)
}

// Cancel transitions the order to CANCELLED.
func (s *Service) Cancel(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.UpdateStatus(ctx, orderID, StatusCancelled)
}

// applyCompletion advances sold-quantity bookkeeping for sale orders.
// Returns the product rows it updated.
func (s *Service) applyCompletion(ctx context.Context, order *Order) ([]*product.Product, error) {
	if order.Type != TypeSale {
		return nil, nil
	}

	updated := make([]*product.Product, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		p, err := s.products.GetForUpdate(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		p.QuantitySold += item.Quantity
		p.Touch()
		updated = append(updated, p)
	}
	if err := s.products.SaveAll(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// applyCancellation reverses the order's stock effects.
//
// Sale lines always return to their rows; sold-quantity is reversed
// only when the sale had been completed. Purchase intake is reversed
// only when the purchase had been completed, and the reversal drains
// the pool the same way a sale would.
func (s *Service) applyCancellation(ctx context.Context, order *Order, prior OrderStatus) error {
	switch order.Type {
	case TypeSale:
		reversed := make([]*product.Product, 0, len(order.Items))
		for i := range order.Items {
			item := &order.Items[i]
			if _, err := s.allocator.Restore(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			if prior == StatusCompleted {
				p, err := s.products.GetForUpdate(ctx, item.ProductID)
				if err != nil {
					return err
				}
				p.QuantitySold -= item.Quantity
				if p.QuantitySold < 0 {
					p.QuantitySold = 0
				}
				p.Touch()
				reversed = append(reversed, p)
			}
		}
		if len(reversed) > 0 {
			if err := s.products.SaveAll(ctx, reversed); err != nil {
				return err
			}
		}
		return nil

	case TypePurchase:
		if prior != StatusCompleted {
			return nil
		}
		for i := range order.Items {
			item := &order.Items[i]
			if _, err := s.allocator.Reduce(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func (s *Service) notify(ctx context.Context, rows []*product.Product, order *Order) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyLowStock(ctx, rows, order); err != nil {
		logger.Warn(ctx, "low stock notification failed",
			"order_id", order.ID,
			"error", err)
	}
}

// GetByID loads an order with its items.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

// ListByCustomer returns a customer's orders, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID id.ID) ([]*Order, error) {
	if id.IsNil(customerID) {
		return nil, apperror.NewValidation("customer id is required")
	}
	return s.repo.FindAllByCustomer(ctx, customerID)
}

// GetByIDs returns the orders matching the given ids, skipping
// unknown ones.
func (s *Service) GetByIDs(ctx context.Context, orderIDs []id.ID) ([]*Order, error) {
	if len(orderIDs) == 0 {
		return []*Order{}, nil
	}
	return s.repo.FindAllByIDs(ctx, orderIDs)
}

// List returns orders matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Order], error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultListFilter().Limit
	}
	return s.repo.List(ctx, filter)
}
