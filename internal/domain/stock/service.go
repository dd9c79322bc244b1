// Package stock implements pooled stock allocation over product rows.
//
// A logical product (name, brand) may be stocked by several suppliers,
// each holding its own row. Deductions drain the pool greedily in
// ascending row id order; restorations and intakes target a concrete
// row. All operations expect to run inside the caller's transaction so
// the row locks taken here live until the surrounding work commits.
package stock

import (
	"context"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/domain/catalogs/product"
	"inventra/pkg/logger"
)

// Demand is one line of an availability check.
type Demand struct {
	ProductID id.ID
	Quantity  int
}

// Shortfall reports one logical product that cannot cover its demand.
type Shortfall struct {
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// Allocator performs stock deductions and restorations.
type Allocator struct {
	products product.Repository
}

// NewAllocator creates a stock allocator.
func NewAllocator(products product.Repository) *Allocator {
	return &Allocator{products: products}
}

// Reduce deducts quantity from the stock pool of the product's logical
// key. Rows are locked and drained in ascending id order; the deduction
// is all-or-nothing. Returns every row whose quantity changed, in
// allocation order.
func (a *Allocator) Reduce(ctx context.Context, productID id.ID, quantity int) ([]*product.Product, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", quantity)
	}

	anchor, err := a.products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}

	rows, err := a.products.FindByLogicalProductForUpdate(ctx, anchor.Name, anchor.Brand)
	if err != nil {
		return nil, err
	}

	available := 0
	for _, r := range rows {
		available += r.StockQuantity
	}
	if available < quantity {
		return nil, apperror.NewInsufficientStock(anchor.Name, quantity, available)
	}

	remaining := quantity
	touched := make([]*product.Product, 0, 1)
	for _, r := range rows {
		if remaining == 0 {
			break
		}
		if r.StockQuantity == 0 {
			continue
		}

		take := r.StockQuantity
		if take > remaining {
			take = remaining
		}
		r.StockQuantity -= take
		remaining -= take
		r.Touch()

		if err := a.products.Update(ctx, r); err != nil {
			return nil, apperror.NewStockAdjustment(r.ID, err)
		}
		touched = append(touched, r)

		logger.Debug(ctx, "stock deducted",
			"product_id", r.ID,
			"name", r.Name,
			"brand", r.Brand,
			"taken", take,
			"stock", r.StockQuantity)
	}

	return touched, nil
}

// Restore returns quantity to a concrete stock row. Used when sale
// lines are removed or a sale order is cancelled.
func (a *Allocator) Restore(ctx context.Context, productID id.ID, quantity int) (*product.Product, error) {
	return a.addToRow(ctx, productID, quantity, "stock restored")
}

// Increase adds purchased quantity to a concrete stock row.
func (a *Allocator) Increase(ctx context.Context, productID id.ID, quantity int) (*product.Product, error) {
	return a.addToRow(ctx, productID, quantity, "stock increased")
}

func (a *Allocator) addToRow(ctx context.Context, productID id.ID, quantity int, msg string) (*product.Product, error) {
	if quantity <= 0 {
		return nil, apperror.NewValidation("quantity must be positive").
			WithDetail("quantity", quantity)
	}

	p, err := a.products.GetForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}

	p.StockQuantity += quantity
	p.Touch()
	if err := a.products.Update(ctx, p); err != nil {
		return nil, apperror.NewStockAdjustment(p.ID, err)
	}

	logger.Debug(ctx, msg,
		"product_id", p.ID,
		"added", quantity,
		"stock", p.StockQuantity)

	return p, nil
}

// Availability returns the pooled quantity for the product's logical key.
func (a *Allocator) Availability(ctx context.Context, productID id.ID) (int, error) {
	p, err := a.products.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}

	rows, err := a.products.FindByLogicalProduct(ctx, p.Name, p.Brand)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, r := range rows {
		total += r.StockQuantity
	}
	return total, nil
}

// CheckAvailability verifies all demands can be covered by their pools.
// Demands against the same logical product are summed before checking.
// On failure it returns a single insufficient-stock error listing every
// shortfall, so callers can reject an order with the full picture.
func (a *Allocator) CheckAvailability(ctx context.Context, demands []Demand) error {
	type pool struct {
		key       product.LogicalKey
		requested int
		available int
	}

	pools := make(map[product.LogicalKey]*pool)
	order := make([]product.LogicalKey, 0, len(demands))

	for _, d := range demands {
		if d.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("product_id", d.ProductID)
		}

		p, err := a.products.GetByID(ctx, d.ProductID)
		if err != nil {
			return err
		}

		key := p.Key()
		entry, ok := pools[key]
		if !ok {
			rows, err := a.products.FindByLogicalProduct(ctx, key.Name, key.Brand)
			if err != nil {
				return err
			}
			available := 0
			for _, r := range rows {
				available += r.StockQuantity
			}
			entry = &pool{key: key, available: available}
			pools[key] = entry
			order = append(order, key)
		}
		entry.requested += d.Quantity
	}

	var shortfalls []Shortfall
	for _, key := range order {
		entry := pools[key]
		if entry.requested > entry.available {
			shortfalls = append(shortfalls, Shortfall{
				Name:      key.Name,
				Brand:     key.Brand,
				Requested: entry.requested,
				Available: entry.available,
			})
		}
	}

	if len(shortfalls) == 0 {
		return nil
	}

	first := shortfalls[0]
	return apperror.NewInsufficientStock(first.Name, first.Requested, first.Available).
		WithDetail("shortfalls", shortfalls)
}
