package orders

import (
	"context"
	"time"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/core/types"
	"inventra/internal/domain/catalogs/product"
	"inventra/internal/domain/stock"
	"inventra/pkg/logger"
)

// AddItemInput describes an item addition to an existing order.
type AddItemInput struct {
	ProductID id.ID        `json:"productId"`
	Quantity  int          `json:"quantity"`
	Price     *types.Money `json:"price,omitempty"`
}

// AddItem adds quantity of a product to the order, merging into an
// existing line when one already covers the same logical product.
// Stock moves with the mutation: sales allocate, purchases take in.
func (s *Service) AddItem(ctx context.Context, orderID id.ID, in AddItemInput) (*Order, error) {
	if id.IsNil(in.ProductID) {
		return nil, apperror.NewValidation("product id is required")
	}
	if in.Quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", in.Quantity)
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, apperror.NewValidation("price must not be negative")
	}

	var result *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.EnsureModifiable(); err != nil {
			return err
		}

		ref, err := s.products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}

		if order.Type == TypeSale {
			err = s.allocator.CheckAvailability(ctx, []stock.Demand{
				{ProductID: in.ProductID, Quantity: in.Quantity},
			})
			if err != nil {
				return err
			}
		}

		var touched []*product.Product
		existing := order.ItemByLogicalProduct(ref.Name, ref.Brand)
		if existing != nil {
			touched, err = s.mergeItem(ctx, order, existing, in)
		} else {
			touched, err = s.appendItem(ctx, order, ref, in)
		}
		if err != nil {
			return err
		}

		order.RecalculateTotal()
		order.Touch()
		if err := s.repo.Update(ctx, order); err != nil {
			return err
		}

		logger.Info(ctx, "order item added",
			"order_id", order.ID,
			"product_id", in.ProductID,
			"quantity", in.Quantity,
			"total", order.TotalPrice)

		if order.Type == TypeSale && len(touched) > 0 {
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

// mergeItem grows an existing line by the incremental quantity.
func (s *Service) mergeItem(ctx context.Context, order *Order, item *OrderItem, in AddItemInput) ([]*product.Product, error) {
	var touched []*product.Product

	switch order.Type {
	case TypeSale:
		rows, err := s.allocator.Reduce(ctx, item.ProductID, in.Quantity)
		if err != nil {
			return nil, err
		}
		touched = rows

		// EnsureModifiable rejects COMPLETED orders before item
		// mutations reach this point, so this branch only matters if
		// that guard is ever relaxed.
		if order.Status == StatusCompleted {
			p, err := s.products.GetForUpdate(ctx, item.ProductID)
			if err != nil {
				return nil, err
			}
			p.QuantitySold += in.Quantity
			p.Touch()
			if err := s.products.SaveAll(ctx, []*product.Product{p}); err != nil {
				return nil, err
			}
		}

	case TypePurchase:
		row, err := s.allocator.Increase(ctx, item.ProductID, in.Quantity)
		if err != nil {
			return nil, err
		}
		touched = []*product.Product{row}
	}

	item.Quantity += in.Quantity
	if in.Price != nil {
		item.PriceAtOrderTime = *in.Price
	}
	return touched, nil
}

// appendItem creates a new line against the allocated row.
func (s *Service) appendItem(ctx context.Context, order *Order, ref *product.Product, in AddItemInput) ([]*product.Product, error) {
	var (
		src     *product.Product
		touched []*product.Product
	)

	switch order.Type {
	case TypeSale:
		rows, err := s.allocator.Reduce(ctx, ref.ID, in.Quantity)
		if err != nil {
			return nil, err
		}
		src = rows[0]
		touched = rows

	case TypePurchase:
		row, err := s.intakeRow(ctx, ref, orderSupplier(order, ref), in.Quantity)
		if err != nil {
			return nil, err
		}
		src = row
		touched = []*product.Product{row}
	}

	price := src.EffectivePrice()
	if order.Type == TypePurchase {
		price = src.ActualPrice
	}
	if in.Price != nil {
		price = *in.Price
	}

	order.Items = append(order.Items, OrderItem{
		ID:               id.New(),
		OrderID:          order.ID,
		ProductID:        src.ID,
		ProductName:      src.Name,
		Brand:            src.Brand,
		SupplierID:       src.SupplierID,
		Quantity:         in.Quantity,
		PriceAtOrderTime: price,
		CreatedAt:        time.Now().UTC(),
	})
	return touched, nil
}

// orderSupplier picks the supplier the intake row should belong to.
func orderSupplier(order *Order, ref *product.Product) id.ID {
	if order.SupplierID != nil && !id.IsNil(*order.SupplierID) {
		return *order.SupplierID
	}
	return ref.SupplierID
}

// RemoveItem removes quantity from an order line, reversing its stock
// effect. Removing the full quantity drops the line.
func (s *Service) RemoveItem(ctx context.Context, orderID, itemID id.ID, quantity int) (*Order, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", quantity)
	}

	var result *Order
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		order, err := s.repo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.EnsureModifiable(); err != nil {
			return err
		}

		item := order.ItemByID(itemID)
		if item == nil {
			return apperror.NewNotFound("order item", itemID)
		}
		if quantity > item.Quantity {
			return apperror.NewInvalidInput("cannot remove more than the item quantity").
				WithDetail("requested", quantity).
				WithDetail("current", item.Quantity)
		}

		switch order.Type {
		case TypeSale:
			if err := s.reverseSaleLine(ctx, order, item, quantity); err != nil {
				return err
			}
		case TypePurchase:
			s.reversePurchaseLine(ctx, item, quantity)
		}

		if quantity == item.Quantity {
			order.RemoveItemByID(itemID)
		} else {
			item.Quantity -= quantity
		}

		order.RecalculateTotal()
		order.Touch()
		if err := s.repo.Update(ctx, order); err != nil {
			return err
		}

		logger.Info(ctx, "order item removed",
			"order_id", order.ID,
			"item_id", itemID,
			"quantity", quantity,
			"total", order.TotalPrice)

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// reverseSaleLine returns the removed quantity to its row and, for a
// completed order, rolls back sold-quantity.
func (s *Service) reverseSaleLine(ctx context.Context, order *Order, item *OrderItem, quantity int) error {
	if _, err := s.allocator.Restore(ctx, item.ProductID, quantity); err != nil {
		return err
	}

	// Unreachable through the public item operations today:
	// EnsureModifiable filters COMPLETED orders before removal.
	if order.Status != StatusCompleted {
		return nil
	}

	p, err := s.products.GetForUpdate(ctx, item.ProductID)
	if err != nil {
		return err
	}
	p.QuantitySold -= quantity
	if p.QuantitySold < 0 {
		p.QuantitySold = 0
	}
	p.Touch()
	return s.products.SaveAll(ctx, []*product.Product{p})
}

// reversePurchaseLine takes the removed intake back out of the row
// when it still holds enough stock. A row that has already been drained
// below the removed amount is left alone so mistaken purchase entries
// stay correctable.
func (s *Service) reversePurchaseLine(ctx context.Context, item *OrderItem, quantity int) {
	p, err := s.products.GetForUpdate(ctx, item.ProductID)
	if err != nil {
		logger.Warn(ctx, "purchase reversal skipped, product unavailable",
			"product_id", item.ProductID,
			"error", err)
		return
	}

	if p.StockQuantity < quantity {
		logger.Warn(ctx, "purchase reversal skipped, insufficient remaining stock",
			"product_id", p.ID,
			"stock", p.StockQuantity,
			"removed", quantity)
		return
	}

	p.StockQuantity -= quantity
	p.Touch()
	if err := s.products.Update(ctx, p); err != nil {
		logger.Warn(ctx, "purchase reversal failed",
			"product_id", p.ID,
			"error", err)
	}
}

// ListItems returns the order's items. An order without items yields
// an empty slice.
func (s *Service) ListItems(ctx context.Context, orderID id.ID) ([]OrderItem, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Items == nil {
		return []OrderItem{}, nil
	}
	return order.Items, nil
}
