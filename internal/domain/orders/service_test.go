package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventra/internal/core/apperror"
	"inventra/internal/core/id"
	"inventra/internal/core/types"
	"inventra/internal/domain"
	"inventra/internal/domain/catalogs/customer"
	"inventra/internal/domain/catalogs/product"
	"inventra/internal/domain/catalogs/supplier"
	"inventra/internal/domain/stock"
)

// --- fakes ---

type nopTx struct{}

func (nopTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

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

type memOrderRepo struct {
	orders map[id.ID]*Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: make(map[id.ID]*Order)}
}

func (m *memOrderRepo) Create(_ context.Context, o *Order) error {
	m.orders[o.ID] = o
	return nil
}

func (m *memOrderRepo) GetByID(_ context.Context, orderID id.ID) (*Order, error) {
	o, ok := m.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("order", orderID)
	}
	return o, nil
}

func (m *memOrderRepo) Update(_ context.Context, o *Order) error {
	if _, ok := m.orders[o.ID]; !ok {
		return apperror.NewNotFound("order", o.ID)
	}
	m.orders[o.ID] = o
	return nil
}

func (m *memOrderRepo) FindAllByCustomer(_ context.Context, customerID id.ID) ([]*Order, error) {
	var out []*Order
	for _, o := range m.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrderRepo) FindAllByIDs(_ context.Context, orderIDs []id.ID) ([]*Order, error) {
	var out []*Order
	for _, oid := range orderIDs {
		if o, ok := m.orders[oid]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrderRepo) List(_ context.Context, filter ListFilter) (domain.ListResult[*Order], error) {
	var out []*Order
	for _, o := range m.orders {
		out = append(out, o)
	}
	return domain.ListResult[*Order]{Items: out, TotalCount: int64(len(out))}, nil
}

type fakeCustomers struct {
	customer *customer.Customer
}

func (f *fakeCustomers) GetOrCreate(_ context.Context, _ customer.ResolveInput) (*customer.Customer, error) {
	return f.customer, nil
}

type fakeSuppliers struct {
	supplier *supplier.Supplier
}

func (f *fakeSuppliers) GetOrCreate(_ context.Context, _ supplier.ResolveInput) (*supplier.Supplier, error) {
	return f.supplier, nil
}

type seqNumbers struct {
	n int
}

func (s *seqNumbers) Next(_ context.Context, prefix string) (string, error) {
	s.n++
	return prefix + "-00001", nil
}

type notifyCall struct {
	rows  []*product.Product
	order *Order
}

type recordNotifier struct {
	calls []notifyCall
}

func (r *recordNotifier) NotifyLowStock(_ context.Context, rows []*product.Product, order *Order) error {
	r.calls = append(r.calls, notifyCall{rows: rows, order: order})
	return nil
}

// --- fixture ---

type fixture struct {
	service  *Service
	products *memProductRepo
	orders   *memOrderRepo
	notifier *recordNotifier
	customer *customer.Customer
	supplier *supplier.Supplier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cust := customer.New("CU-001", "Ada", "+100200300", "ada@example.com")
	sup := supplier.New("SU-001", "Acme Corp", "+400500600", "sales@acme.example.com")

	products := &memProductRepo{}
	ordersRepo := newMemOrderRepo()
	notifier := &recordNotifier{}

	svc := NewService(Config{
		Repo:      ordersRepo,
		Products:  products,
		Allocator: stock.NewAllocator(products),
		Customers: &fakeCustomers{customer: cust},
		Suppliers: &fakeSuppliers{supplier: sup},
		Numbers:   &seqNumbers{},
		Notifier:  notifier,
		TxManager: nopTx{},
	})

	return &fixture{
		service:  svc,
		products: products,
		orders:   ordersRepo,
		notifier: notifier,
		customer: cust,
		supplier: sup,
	}
}

func (f *fixture) seedProduct(name, brand string, supplierID id.ID, stock int, sellingPrice string) *product.Product {
	p := product.New("", name, brand, supplierID)
	p.StockQuantity = stock
	p.SellingPrice = types.MustMoney(sellingPrice)
	p.ActualPrice = types.MustMoney(sellingPrice)
	_ = f.products.Create(context.Background(), p)
	return p
}

func saleInput(productID id.ID, quantity int) CreateInput {
	return CreateInput{
		Type:        TypeSale,
		PaymentType: PaymentCash,
		Customer:    &customer.ResolveInput{Name: "Ada"},
		Items:       []ItemInput{{ProductID: productID, Quantity: quantity}},
	}
}

func purchaseInput(productID id.ID, quantity int) CreateInput {
	return CreateInput{
		Type:        TypePurchase,
		PaymentType: PaymentTransfer,
		Supplier:    &supplier.ResolveInput{Name: "Acme Corp"},
		Items:       []ItemInput{{ProductID: productID, Quantity: quantity}},
	}
}

// --- tests ---

func TestService_Create_Sale(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")

	order, err := f.service.Create(context.Background(), saleInput(p.ID, 2))
	require.NoError(t, err)

	assert.Equal(t, StatusCreated, order.Status)
	assert.Equal(t, "SO-00001", order.Number)
	require.NotNil(t, order.CustomerID)
	assert.Equal(t, f.customer.ID, *order.CustomerID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.True(t, order.TotalPrice.Equal(types.MustMoney("50.00")))

	assert.Equal(t, 8, p.StockQuantity)
	assert.Empty(t, f.notifier.calls)
}

func TestService_Create_Sale_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 1, "25.00")

	_, err := f.service.Create(context.Background(), saleInput(p.ID, 5))
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, 1, p.StockQuantity)
	assert.Empty(t, f.orders.orders)
}

func TestService_Create_Sale_AllocatesAcrossRows(t *testing.T) {
	f := newFixture(t)
	otherSupplier := id.New()
	first := f.seedProduct("Widget", "Acme", f.supplier.ID, 3, "25.00")
	second := f.seedProduct("Widget", "Acme", otherSupplier, 5, "25.00")

	order, err := f.service.Create(context.Background(), saleInput(first.ID, 6))
	require.NoError(t, err)

	assert.Equal(t, 0, first.StockQuantity)
	assert.Equal(t, 2, second.StockQuantity)
	// the line references the first allocated row
	require.Len(t, order.Items, 1)
	assert.Equal(t, first.ID, order.Items[0].ProductID)
}

func TestService_Create_Validation(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")

	cases := map[string]CreateInput{
		"unknown type": {
			Type: "RETURN", PaymentType: PaymentCash,
			Customer: &customer.ResolveInput{Name: "Ada"},
			Items:    []ItemInput{{ProductID: p.ID, Quantity: 1}},
		},
		"no items": {
			Type: TypeSale, PaymentType: PaymentCash,
			Customer: &customer.ResolveInput{Name: "Ada"},
		},
		"zero quantity": {
			Type: TypeSale, PaymentType: PaymentCash,
			Customer: &customer.ResolveInput{Name: "Ada"},
			Items:    []ItemInput{{ProductID: p.ID, Quantity: 0}},
		},
		"sale without customer": {
			Type: TypeSale, PaymentType: PaymentCash,
			Items: []ItemInput{{ProductID: p.ID, Quantity: 1}},
		},
		"purchase without supplier": {
			Type: TypePurchase, PaymentType: PaymentCash,
			Items: []ItemInput{{ProductID: p.ID, Quantity: 1}},
		},
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), in)
			require.Error(t, err)
			ae, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, ae.Code)
		})
	}

	assert.Equal(t, 10, p.StockQuantity)
}

func TestService_Create_Purchase_ExistingRow(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 4, "20.00")

	order, err := f.service.Create(context.Background(), purchaseInput(p.ID, 6))
	require.NoError(t, err)

	assert.Equal(t, "PO-00001", order.Number)
	assert.Equal(t, 10, p.StockQuantity)
	require.Len(t, order.Items, 1)
	assert.Equal(t, p.ID, order.Items[0].ProductID)
}

func TestService_Create_Purchase_NewSupplierRow(t *testing.T) {
	f := newFixture(t)
	otherSupplier := id.New()
	ref := f.seedProduct("Widget", "Acme", otherSupplier, 4, "20.00")

	order, err := f.service.Create(context.Background(), purchaseInput(ref.ID, 6))
	require.NoError(t, err)

	// reference row untouched, intake went to a fresh row of ours
	assert.Equal(t, 4, ref.StockQuantity)
	require.Len(t, f.products.rows, 2)
	created := f.products.rows[1]
	assert.Equal(t, f.supplier.ID, created.SupplierID)
	assert.Equal(t, 6, created.StockQuantity)
	assert.Equal(t, created.ID, order.Items[0].ProductID)
}

func TestService_CompleteSale(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")
	order, err := f.service.Create(context.Background(), saleInput(p.ID, 2))
	require.NoError(t, err)

	completed, err := f.service.Complete(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, 2, p.QuantitySold)
	assert.Equal(t, 8, p.StockQuantity)

	require.Len(t, f.notifier.calls, 1)
	require.Len(t, f.notifier.calls[0].rows, 1)
	assert.Equal(t, p.ID, f.notifier.calls[0].rows[0].ID)
}

func TestService_Create_Sale_DirectlyCompleted(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")

	in := saleInput(p.ID, 2)
	completed := StatusCompleted
	in.Status = &completed

	order, err := f.service.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, order.Status)
	require.NotNil(t, order.CompletedAt)
	assert.Equal(t, 8, p.StockQuantity)
	assert.Equal(t, 2, p.QuantitySold)

	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, order.ID, f.notifier.calls[0].order.ID)
}

func TestService_CancelCompletedSale(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")
	order, err := f.service.Create(context.Background(), saleInput(p.ID, 2))
	require.NoError(t, err)
	_, err = f.service.Complete(context.Background(), order.ID)
	require.NoError(t, err)

	cancelled, err := f.service.Cancel(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, 10, p.StockQuantity)
	assert.Equal(t, 0, p.QuantitySold)
}

func TestService_CancelCreatedSale_RestoresStockOnly(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")
	order, err := f.service.Create(context.Background(), saleInput(p.ID, 3))
	require.NoError(t, err)

	_, err = f.service.Cancel(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, 10, p.StockQuantity)
	assert.Equal(t, 0, p.QuantitySold)
}

func TestService_CancelPurchase(t *testing.T) {
	t.Run("never completed keeps intake", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedProduct("Widget", "Acme", f.supplier.ID, 4, "20.00")
		order, err := f.service.Create(context.Background(), purchaseInput(p.ID, 6))
		require.NoError(t, err)

		_, err = f.service.Cancel(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, p.StockQuantity)
	})

	t.Run("completed intake is reversed", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedProduct("Widget", "Acme", f.supplier.ID, 4, "20.00")
		order, err := f.service.Create(context.Background(), purchaseInput(p.ID, 6))
		require.NoError(t, err)
		_, err = f.service.Complete(context.Background(), order.ID)
		require.NoError(t, err)

		_, err = f.service.Cancel(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, p.StockQuantity)
	})
}

func TestService_UpdateStatus_InvalidTransition(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")
	order, err := f.service.Create(context.Background(), saleInput(p.ID, 2))
	require.NoError(t, err)
	_, err = f.service.Cancel(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = f.service.UpdateStatus(context.Background(), order.ID, StatusCompleted)
	require.Error(t, err)
	ae, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidStatusTransition, ae.Code)

	// no side effects from the rejected transition
	assert.Equal(t, 10, p.StockQuantity)
	assert.Equal(t, 0, p.QuantitySold)
}

func TestService_UpdateStatus_SameStatusRejected(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")
	order, err := f.service.Create(context.Background(), saleInput(p.ID, 2))
	require.NoError(t, err)
	_, err = f.service.UpdateStatus(context.Background(), order.ID, StatusCompleted)
	require.NoError(t, err)

	// repeating the current status is not an edge in the machine
	_, err = f.service.UpdateStatus(context.Background(), order.ID, StatusCompleted)
	require.Error(t, err)
	ae, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidStatusTransition, ae.Code)

	// the first completion's effects are not applied twice
	assert.Equal(t, 8, p.StockQuantity)
	assert.Equal(t, 2, p.QuantitySold)
}

func TestService_AddItem_MergesExistingLine(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")
	order, err := f.service.Create(context.Background(), saleInput(p.ID, 2))
	require.NoError(t, err)

	updated, err := f.service.AddItem(context.Background(), order.ID, AddItemInput{
		ProductID: p.ID,
		Quantity:  3,
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, 5, updated.Items[0].Quantity)
	assert.Equal(t, 5, p.StockQuantity)
	assert.True(t, updated.TotalPrice.Equal(types.MustMoney("125.00")))
}

func TestService_AddItem_NewLine(t *testing.T) {
	f := newFixture(t)
	widget := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")
	gadget := f.seedProduct("Gadget", "Acme", f.supplier.ID, 6, "10.00")
	order, err := f.service.Create(context.Background(), saleInput(widget.ID, 1))
	require.NoError(t, err)

	updated, err := f.service.AddItem(context.Background(), order.ID, AddItemInput{
		ProductID: gadget.ID,
		Quantity:  2,
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 2)
	assert.Equal(t, 4, gadget.StockQuantity)
	assert.True(t, updated.TotalPrice.Equal(types.MustMoney("45.00")))
}

func TestService_AddItem_SaleNotifiesTouchedRows(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")
	order, err := f.service.Create(context.Background(), saleInput(p.ID, 2))
	require.NoError(t, err)
	require.Empty(t, f.notifier.calls)

	_, err = f.service.AddItem(context.Background(), order.ID, AddItemInput{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, f.notifier.calls, 1)
	assert.Equal(t, order.ID, f.notifier.calls[0].order.ID)
}

func TestService_AddItem_ImmutableOrder(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")
	order, err := f.service.Create(context.Background(), saleInput(p.ID, 2))
	require.NoError(t, err)
	_, err = f.service.Complete(context.Background(), order.ID)
	require.NoError(t, err)

	_, err = f.service.AddItem(context.Background(), order.ID, AddItemInput{ProductID: p.ID, Quantity: 1})
	require.Error(t, err)
	ae, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOrderImmutable, ae.Code)

	// no stock or item change
	assert.Equal(t, 8, p.StockQuantity)
	got, err := f.service.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Items[0].Quantity)
}

func TestService_AddItem_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 3, "25.00")
	order, err := f.service.Create(context.Background(), saleInput(p.ID, 2))
	require.NoError(t, err)

	_, err = f.service.AddItem(context.Background(), order.ID, AddItemInput{ProductID: p.ID, Quantity: 5})
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, 1, p.StockQuantity)
}

func TestService_RemoveItem_SaleRestoresStock(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")
	order, err := f.service.Create(context.Background(), saleInput(p.ID, 5))
	require.NoError(t, err)
	require.Equal(t, 5, p.StockQuantity)

	updated, err := f.service.RemoveItem(context.Background(), order.ID, order.Items[0].ID, 2)
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, 3, updated.Items[0].Quantity)
	assert.Equal(t, 7, p.StockQuantity)
	assert.True(t, updated.TotalPrice.Equal(types.MustMoney("75.00")))
}

func TestService_RemoveItem_FullQuantityDropsLine(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")
	order, err := f.service.Create(context.Background(), saleInput(p.ID, 5))
	require.NoError(t, err)

	updated, err := f.service.RemoveItem(context.Background(), order.ID, order.Items[0].ID, 5)
	require.NoError(t, err)

	assert.Empty(t, updated.Items)
	assert.True(t, updated.TotalPrice.IsZero())
	assert.Equal(t, 10, p.StockQuantity)
}

func TestService_RemoveItem_PurchaseSkipsWhenStockDrained(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 0, "20.00")
	order, err := f.service.Create(context.Background(), purchaseInput(p.ID, 5))
	require.NoError(t, err)
	require.Equal(t, 5, p.StockQuantity)

	// most of the intake has since been sold
	p.StockQuantity = 1

	updated, err := f.service.RemoveItem(context.Background(), order.ID, order.Items[0].ID, 2)
	require.NoError(t, err)

	// line shrinks, stock adjustment is skipped
	assert.Equal(t, 3, updated.Items[0].Quantity)
	assert.Equal(t, 1, p.StockQuantity)
}

func TestService_RemoveItem_Validation(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")
	order, err := f.service.Create(context.Background(), saleInput(p.ID, 2))
	require.NoError(t, err)
	itemID := order.Items[0].ID

	_, err = f.service.RemoveItem(context.Background(), order.ID, itemID, 0)
	require.Error(t, err)

	_, err = f.service.RemoveItem(context.Background(), order.ID, itemID, 3)
	require.Error(t, err)
	ae, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidInput, ae.Code)

	_, err = f.service.RemoveItem(context.Background(), order.ID, id.New(), 1)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_ListItems(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")
	order, err := f.service.Create(context.Background(), saleInput(p.ID, 2))
	require.NoError(t, err)

	items, err := f.service.ListItems(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// an order emptied of items lists an empty slice, not an error
	empty := NewOrder(TypeSale, PaymentCash)
	require.NoError(t, f.orders.Create(context.Background(), empty))
	items, err = f.service.ListItems(context.Background(), empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestService_Queries(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("Widget", "Acme", f.supplier.ID, 10, "25.00")
	first, err := f.service.Create(context.Background(), saleInput(p.ID, 1))
	require.NoError(t, err)
	second, err := f.service.Create(context.Background(), saleInput(p.ID, 1))
	require.NoError(t, err)

	byCustomer, err := f.service.ListByCustomer(context.Background(), f.customer.ID)
	require.NoError(t, err)
	assert.Len(t, byCustomer, 2)

	byIDs, err := f.service.GetByIDs(context.Background(), []id.ID{first.ID, second.ID, id.New()})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	none, err := f.service.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.service.GetByID(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}
