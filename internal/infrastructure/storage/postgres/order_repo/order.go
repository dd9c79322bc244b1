// Package order_repo provides the PostgreSQL implementation for order storage.
package order_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/domain"
	"inventra/internal/domain/orders"
	"inventra/internal/infrastructure/storage/postgres"
)

const (
	ordersTable     = "doc_orders"
	orderItemsTable = "doc_order_items"
)

// OrderRepo implements orders.Repository. Orders persist as a header
// row plus item rows; both always load and save together.
type OrderRepo struct {
	txManager  *postgres.TxManager
	audit      *postgres.AuditService
	selectCols []string
}

// NewOrderRepo creates a new order repository. The audit service is
// optional; when set, every order mutation leaves an audit trail on
// the same transaction.
func NewOrderRepo(txManager *postgres.TxManager, audit *postgres.AuditService) *OrderRepo {
	return &OrderRepo{
		txManager:  txManager,
		audit:      audit,
		selectCols: postgres.ExtractDBColumns[orders.Order](),
	}
}

func (r *OrderRepo) logAudit(ctx context.Context, order *orders.Order, action postgres.AuditAction) error {
	if r.audit == nil {
		return nil
	}
	return r.audit.LogChange(ctx, "order", order.ID, action, map[string]any{
		"number":      order.Number,
		"type":        order.Type,
		"status":      order.Status,
		"total_price": order.TotalPrice,
		"items":       len(order.Items),
		"version":     order.Version,
	})
}

func (r *OrderRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *OrderRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *OrderRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(ordersTable)
}

// Create inserts the order header and its items.
func (r *OrderRepo) Create(ctx context.Context, order *orders.Order) error {
	data := postgres.StructToMap(order)

	q := r.builder().
		Insert(ordersTable).
		SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert order: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if err := r.saveItems(ctx, order.ID, order.Items); err != nil {
		return err
	}

	return r.logAudit(ctx, order, postgres.AuditActionCreate)
}

// Update persists the order header with optimistic locking and
// reconciles the item rows.
func (r *OrderRepo) Update(ctx context.Context, order *orders.Order) error {
	data := postgres.StructToMap(order)
	delete(data, "id")
	delete(data, "version")

	q := r.builder().
		Update(ordersTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": order.ID}).
		Where(squirrel.Eq{"version": order.Version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update order: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("order", order.ID)
	}

	if err := r.saveItems(ctx, order.ID, order.Items); err != nil {
		return err
	}

	return r.logAudit(ctx, order, postgres.AuditActionUpdate)
}

// saveItems replaces the item rows of an order. Delete plus insert
// keeps reconciliation simple; item counts per order are small.
func (r *OrderRepo) saveItems(ctx context.Context, orderID id.ID, items []orders.OrderItem) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + orderItemsTable + " WHERE order_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, orderID); err != nil {
		return fmt.Errorf("delete existing items: %w", err)
	}

	if len(items) == 0 {
		return nil
	}

	q := r.builder().
		Insert(orderItemsTable).
		Columns(
			"id", "order_id", "product_id", "product_name", "brand",
			"supplier_id", "quantity", "price_at_order_time", "created_at",
		)

	for _, item := range items {
		q = q.Values(
			item.ID, orderID, item.ProductID, item.ProductName, item.Brand,
			item.SupplierID, item.Quantity, item.PriceAtOrderTime, item.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}

	return nil
}

// GetByID loads the order with its items.
func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*orders.Order, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": orderID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	order := &orders.Order{}
	if err := pgxscan.Get(ctx, r.querier(ctx), order, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("order", orderID.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := r.loadItems(ctx, []*orders.Order{order}); err != nil {
		return nil, err
	}

	return order, nil
}

// FindAllByCustomer returns a customer's orders with items, newest first.
func (r *OrderRepo) FindAllByCustomer(ctx context.Context, customerID id.ID) ([]*orders.Order, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"customer_id": customerID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("created_at DESC")

	return r.findAll(ctx, q)
}

// FindAllByIDs returns orders matching the given ids. Unknown ids are
// skipped.
func (r *OrderRepo) FindAllByIDs(ctx context.Context, orderIDs []id.ID) ([]*orders.Order, error) {
	if len(orderIDs) == 0 {
		return []*orders.Order{}, nil
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"id": orderIDs}).
		OrderBy("created_at DESC")

	return r.findAll(ctx, q)
}

// List returns orders matching the filter, newest first.
func (r *OrderRepo) List(ctx context.Context, filter orders.ListFilter) (domain.ListResult[*orders.Order], error) {
	result := domain.ListResult[*orders.Order]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false})

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}

	countQ := r.builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	items, err := r.findAll(ctx, q)
	if err != nil {
		return result, err
	}
	result.Items = items

	return result, nil
}

func (r *OrderRepo) findAll(ctx context.Context, q squirrel.SelectBuilder) ([]*orders.Order, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var found []*orders.Order
	if err := pgxscan.Select(ctx, r.querier(ctx), &found, sql, args...); err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}

	if err := r.loadItems(ctx, found); err != nil {
		return nil, err
	}

	return found, nil
}

// loadItems fetches item rows for all given orders in one query.
func (r *OrderRepo) loadItems(ctx context.Context, found []*orders.Order) error {
	if len(found) == 0 {
		return nil
	}

	ids := make([]id.ID, 0, len(found))
	byID := make(map[id.ID]*orders.Order, len(found))
	for _, o := range found {
		ids = append(ids, o.ID)
		byID[o.ID] = o
		o.Items = []orders.OrderItem{}
	}

	q := r.builder().
		Select(
			"id", "order_id", "product_id", "product_name", "brand",
			"supplier_id", "quantity", "price_at_order_time", "created_at",
		).
		From(orderItemsTable).
		Where(squirrel.Eq{"order_id": ids}).
		OrderBy("created_at ASC", "id ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build items query: %w", err)
	}

	var items []orders.OrderItem
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return fmt.Errorf("select items: %w", err)
	}

	for _, item := range items {
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	return nil
}
