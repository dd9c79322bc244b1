package orders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventra/internal/core/id"
	"inventra/internal/core/types"
)

func TestOrderStatus_Transitions(t *testing.T) {
	allowed := map[OrderStatus][]OrderStatus{
		StatusCreated:    {StatusProcessing, StatusCompleted, StatusCancelled},
		StatusProcessing: {StatusCompleted, StatusCancelled},
		StatusCompleted:  {StatusCancelled},
		StatusCancelled:  {},
	}
	all := []OrderStatus{StatusCreated, StatusProcessing, StatusCompleted, StatusCancelled}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, next := range allowed[from] {
				if next == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestOrderStatus_CancelledIsFinal(t *testing.T) {
	for _, to := range []OrderStatus{StatusCreated, StatusProcessing, StatusCompleted, StatusCancelled} {
		assert.False(t, StatusCancelled.CanTransitionTo(to))
	}
}

func TestOrder_RecalculateTotal(t *testing.T) {
	o := NewOrder(TypeSale, PaymentCash)
	assert.True(t, o.TotalPrice.IsZero())

	o.Items = []OrderItem{
		{ID: id.New(), Quantity: 2, PriceAtOrderTime: types.MustMoney("10.50")},
		{ID: id.New(), Quantity: 3, PriceAtOrderTime: types.MustMoney("4.00")},
	}
	o.RecalculateTotal()
	assert.True(t, o.TotalPrice.Equal(types.MustMoney("33.00")))

	o.Items = o.Items[:1]
	o.RecalculateTotal()
	assert.True(t, o.TotalPrice.Equal(types.MustMoney("21.00")))
}

func TestOrder_ItemLookups(t *testing.T) {
	o := NewOrder(TypeSale, PaymentCard)
	first := OrderItem{ID: id.New(), ProductName: "Widget", Brand: "Acme", Quantity: 1, CreatedAt: time.Now()}
	second := OrderItem{ID: id.New(), ProductName: "Gadget", Brand: "Acme", Quantity: 2, CreatedAt: time.Now()}
	o.Items = []OrderItem{first, second}

	require.NotNil(t, o.ItemByID(first.ID))
	assert.Nil(t, o.ItemByID(id.New()))

	found := o.ItemByLogicalProduct("Gadget", "Acme")
	require.NotNil(t, found)
	assert.Equal(t, second.ID, found.ID)
	assert.Nil(t, o.ItemByLogicalProduct("Gadget", "Globex"))

	o.RemoveItemByID(first.ID)
	assert.Len(t, o.Items, 1)
	assert.Nil(t, o.ItemByID(first.ID))
}

func TestOrder_EnsureModifiable(t *testing.T) {
	o := NewOrder(TypeSale, PaymentCash)
	assert.NoError(t, o.EnsureModifiable())

	o.Status = StatusProcessing
	assert.NoError(t, o.EnsureModifiable())

	o.Status = StatusCompleted
	assert.Error(t, o.EnsureModifiable())

	o.Status = StatusCancelled
	assert.Error(t, o.EnsureModifiable())
}

func TestOrder_Validate(t *testing.T) {
	custID := id.New()
	supID := id.New()

	base := func(orderType OrderType) *Order {
		o := NewOrder(orderType, PaymentCash)
		if orderType == TypeSale {
			o.CustomerID = &custID
		} else {
			o.SupplierID = &supID
		}
		o.Items = []OrderItem{{
			ID:               id.New(),
			ProductID:        id.New(),
			Quantity:         1,
			PriceAtOrderTime: types.MustMoney("5.00"),
		}}
		return o
	}

	t.Run("valid sale", func(t *testing.T) {
		require.NoError(t, base(TypeSale).Validate(context.Background()))
	})

	t.Run("sale without customer", func(t *testing.T) {
		o := base(TypeSale)
		o.CustomerID = nil
		assert.Error(t, o.Validate(context.Background()))
	})

	t.Run("purchase without supplier", func(t *testing.T) {
		o := base(TypePurchase)
		o.SupplierID = nil
		assert.Error(t, o.Validate(context.Background()))
	})

	t.Run("no items", func(t *testing.T) {
		o := base(TypeSale)
		o.Items = nil
		assert.Error(t, o.Validate(context.Background()))
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		o := base(TypeSale)
		o.Items[0].Quantity = 0
		assert.Error(t, o.Validate(context.Background()))
	})

	t.Run("negative price", func(t *testing.T) {
		o := base(TypeSale)
		o.Items[0].PriceAtOrderTime = types.MustMoney("-1")
		assert.Error(t, o.Validate(context.Background()))
	})
}
