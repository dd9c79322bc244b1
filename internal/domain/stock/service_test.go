package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/domain"
	"inventra/internal/domain/catalogs/product"
)

// memProductRepo keeps rows in insertion order, which matches
// ascending id order for time-ordered ids.
type memProductRepo struct {
	rows []*product.Product
}

func (m *memProductRepo) Create(_ context.Context, p *product.Product) error {
	m.rows = append(m.rows, p)
	return nil
}

func (m *memProductRepo) GetByID(_ context.Context, productID id.ID) (*product.Product, error) {
	for _, r := range m.rows {
		if r.ID == productID {
			return r, nil
		}
	}
	return nil, apperror.NewNotFound("product", productID)
}

func (m *memProductRepo) GetByCode(_ context.Context, code string) (*product.Product, error) {
	for _, r := range m.rows {
		if r.Code == code {
			return r, nil
		}
	}
	return nil, apperror.NewNotFound("product", code)
}

func (m *memProductRepo) Update(_ context.Context, p *product.Product) error {
	for i, r := range m.rows {
		if r.ID == p.ID {
			m.rows[i] = p
			return nil
		}
	}
	return apperror.NewNotFound("product", p.ID)
}

func (m *memProductRepo) SetDeletionMark(_ context.Context, productID id.ID, marked bool) error {
	for _, r := range m.rows {
		if r.ID == productID {
			r.DeletionMark = marked
			return nil
		}
	}
	return apperror.NewNotFound("product", productID)
}

func (m *memProductRepo) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*product.Product], error) {
	return domain.ListResult[*product.Product]{Items: m.rows, TotalCount: int64(len(m.rows))}, nil
}

func (m *memProductRepo) Exists(_ context.Context, productID id.ID) (bool, error) {
	for _, r := range m.rows {
		if r.ID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	return m.GetByID(ctx, productID)
}

func (m *memProductRepo) FindByLogicalProduct(_ context.Context, name, brand string) ([]*product.Product, error) {
	var out []*product.Product
	for _, r := range m.rows {
		if r.Name == name && r.Brand == brand && !r.DeletionMark {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memProductRepo) FindByLogicalProductForUpdate(ctx context.Context, name, brand string) ([]*product.Product, error) {
	return m.FindByLogicalProduct(ctx, name, brand)
}

func (m *memProductRepo) FindByNameBrandSupplier(_ context.Context, name, brand string, supplierID id.ID) (*product.Product, error) {
	for _, r := range m.rows {
		if r.Name == name && r.Brand == brand && r.SupplierID == supplierID {
			return r, nil
		}
	}
	return nil, apperror.NewNotFound("product", name)
}

func (m *memProductRepo) SaveAll(ctx context.Context, products []*product.Product) error {
	for _, p := range products {
		if err := m.Update(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (m *memProductRepo) ListLowStock(_ context.Context) ([]*product.Product, error) {
	var out []*product.Product
	for _, r := range m.rows {
		if r.IsLowStock() {
			out = append(out, r)
		}
	}
	return out, nil
}

func seedRow(repo *memProductRepo, name, brand string, stock int) *product.Product {
	p := product.New("", name, brand, id.New())
	p.StockQuantity = stock
	_ = repo.Create(context.Background(), p)
	return p
}

func TestAllocator_Reduce_SingleRow(t *testing.T) {
	repo := &memProductRepo{}
	row := seedRow(repo, "Widget", "Acme", 10)
	alloc := NewAllocator(repo)

	touched, err := alloc.Reduce(context.Background(), row.ID, 4)
	require.NoError(t, err)
	require.Len(t, touched, 1)
	assert.Equal(t, 6, touched[0].StockQuantity)
}

func TestAllocator_Reduce_SpansRows(t *testing.T) {
	repo := &memProductRepo{}
	first := seedRow(repo, "Widget", "Acme", 3)
	second := seedRow(repo, "Widget", "Acme", 5)
	third := seedRow(repo, "Widget", "Acme", 7)
	alloc := NewAllocator(repo)

	// 3 + 5 + 7 = 15 available; take 9 across the first three rows
	touched, err := alloc.Reduce(context.Background(), first.ID, 9)
	require.NoError(t, err)
	require.Len(t, touched, 3)

	assert.Equal(t, 0, first.StockQuantity)
	assert.Equal(t, 0, second.StockQuantity)
	assert.Equal(t, 6, third.StockQuantity)
}

func TestAllocator_Reduce_SkipsEmptyRows(t *testing.T) {
	repo := &memProductRepo{}
	empty := seedRow(repo, "Widget", "Acme", 0)
	stocked := seedRow(repo, "Widget", "Acme", 8)
	alloc := NewAllocator(repo)

	touched, err := alloc.Reduce(context.Background(), empty.ID, 5)
	require.NoError(t, err)
	require.Len(t, touched, 1)
	assert.Equal(t, stocked.ID, touched[0].ID)
	assert.Equal(t, 3, stocked.StockQuantity)
	assert.Equal(t, 0, empty.StockQuantity)
}

func TestAllocator_Reduce_InsufficientPool(t *testing.T) {
	repo := &memProductRepo{}
	first := seedRow(repo, "Widget", "Acme", 3)
	second := seedRow(repo, "Widget", "Acme", 4)
	alloc := NewAllocator(repo)

	_, err := alloc.Reduce(context.Background(), first.ID, 8)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))

	// all-or-nothing: no row was changed
	assert.Equal(t, 3, first.StockQuantity)
	assert.Equal(t, 4, second.StockQuantity)

	ae, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 8, ae.Details["requested"])
	assert.Equal(t, 7, ae.Details["available"])
}

func TestAllocator_Reduce_IgnoresOtherPools(t *testing.T) {
	repo := &memProductRepo{}
	widget := seedRow(repo, "Widget", "Acme", 2)
	seedRow(repo, "Widget", "Globex", 100)
	seedRow(repo, "Gadget", "Acme", 100)
	alloc := NewAllocator(repo)

	_, err := alloc.Reduce(context.Background(), widget.ID, 5)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestAllocator_Reduce_InvalidQuantity(t *testing.T) {
	repo := &memProductRepo{}
	row := seedRow(repo, "Widget", "Acme", 10)
	alloc := NewAllocator(repo)

	for _, qty := range []int{0, -3} {
		_, err := alloc.Reduce(context.Background(), row.ID, qty)
		require.Error(t, err)
		ae, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, ae.Code)
	}
}

func TestAllocator_Reduce_UnknownProduct(t *testing.T) {
	alloc := NewAllocator(&memProductRepo{})
	_, err := alloc.Reduce(context.Background(), id.New(), 1)
	assert.True(t, apperror.IsNotFound(err))
}

func TestAllocator_RestoreAndIncrease(t *testing.T) {
	repo := &memProductRepo{}
	row := seedRow(repo, "Widget", "Acme", 2)
	alloc := NewAllocator(repo)

	restored, err := alloc.Restore(context.Background(), row.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 5, restored.StockQuantity)

	increased, err := alloc.Increase(context.Background(), row.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, 15, increased.StockQuantity)

	_, err = alloc.Restore(context.Background(), row.ID, 0)
	require.Error(t, err)
}

func TestAllocator_Availability(t *testing.T) {
	repo := &memProductRepo{}
	row := seedRow(repo, "Widget", "Acme", 3)
	seedRow(repo, "Widget", "Acme", 4)
	seedRow(repo, "Widget", "Globex", 50)
	alloc := NewAllocator(repo)

	total, err := alloc.Availability(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
}

func TestAllocator_CheckAvailability(t *testing.T) {
	repo := &memProductRepo{}
	widget := seedRow(repo, "Widget", "Acme", 5)
	gadget := seedRow(repo, "Gadget", "Acme", 2)
	alloc := NewAllocator(repo)

	t.Run("covered", func(t *testing.T) {
		err := alloc.CheckAvailability(context.Background(), []Demand{
			{ProductID: widget.ID, Quantity: 3},
			{ProductID: gadget.ID, Quantity: 2},
		})
		assert.NoError(t, err)
	})

	t.Run("same pool demands are summed", func(t *testing.T) {
		err := alloc.CheckAvailability(context.Background(), []Demand{
			{ProductID: widget.ID, Quantity: 3},
			{ProductID: widget.ID, Quantity: 3},
		})
		require.Error(t, err)
		assert.True(t, apperror.IsInsufficientStock(err))
	})

	t.Run("reports every shortfall", func(t *testing.T) {
		err := alloc.CheckAvailability(context.Background(), []Demand{
			{ProductID: widget.ID, Quantity: 9},
			{ProductID: gadget.ID, Quantity: 4},
		})
		require.Error(t, err)
		ae, ok := apperror.AsAppError(err)
		require.True(t, ok)
		shortfalls, ok := ae.Details["shortfalls"].([]Shortfall)
		require.True(t, ok)
		assert.Len(t, shortfalls, 2)
	})
}
