package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"inventra/internal/core/id"
	"inventra/internal/domain/catalogs/product"
	"inventra/internal/infrastructure/storage/postgres"
)

const productTable = "cat_products"

// ProductRepo implements product.Repository.
//
// Stock pool queries order rows by id ascending. UUIDv7 ids are
// time-ordered, so concurrent allocators always lock rows in the
// same sequence and the oldest row drains first.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[*product.Product](
			txManager,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

func (r *ProductRepo) poolSelect(name, brand string) squirrel.SelectBuilder {
	return r.baseSelect().
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"brand": brand}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("id ASC")
}

// FindByLogicalProduct returns all rows of a stock pool, ascending by id.
func (r *ProductRepo) FindByLogicalProduct(ctx context.Context, name, brand string) ([]*product.Product, error) {
	return r.FindAll(ctx, r.poolSelect(name, brand))
}

// FindByLogicalProductForUpdate returns all rows of a stock pool with
// row locks. Must be called inside a transaction.
func (r *ProductRepo) FindByLogicalProductForUpdate(ctx context.Context, name, brand string) ([]*product.Product, error) {
	return r.FindAll(ctx, r.poolSelect(name, brand).Suffix("FOR UPDATE"))
}

// FindByNameBrandSupplier returns the row a supplier holds for a
// logical product.
func (r *ProductRepo) FindByNameBrandSupplier(ctx context.Context, name, brand string, supplierID id.ID) (*product.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"name": name}).
		Where(squirrel.Eq{"brand": brand}).
		Where(squirrel.Eq{"supplier_id": supplierID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		Limit(1)

	return r.FindOne(ctx, q)
}

// SaveAll persists changes on the given rows one by one, keeping
// the optimistic locking check of Update for every row.
func (r *ProductRepo) SaveAll(ctx context.Context, products []*product.Product) error {
	for _, p := range products {
		if err := r.Update(ctx, p); err != nil {
			return fmt.Errorf("save product %s: %w", p.ID, err)
		}
	}
	return nil
}

// ListLowStock returns rows at or below their low-stock threshold.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*product.Product, error) {
	q := r.baseSelect().
		Where(squirrel.Expr("stock_quantity <= low_stock_threshold")).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC", "brand ASC", "id ASC")

	return r.FindAll(ctx, q)
}
