package product

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventra/internal/core/id"
	"inventra/internal/core/types"
)

func TestNew_DefaultThreshold(t *testing.T) {
	p := New("P-001", "Widget", "Acme", id.New())
	assert.Equal(t, DefaultLowStockThreshold, p.LowStockThreshold)
	assert.Equal(t, 0, p.StockQuantity)
	assert.Equal(t, 0, p.QuantitySold)
}

func TestProduct_Validate(t *testing.T) {
	valid := func() *Product {
		p := New("P-001", "Widget", "Acme", id.New())
		p.SellingPrice = types.MustMoney("19.99")
		return p
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, valid().Validate(context.Background()))
	})

	t.Run("missing brand", func(t *testing.T) {
		p := valid()
		p.Brand = ""
		assert.Error(t, p.Validate(context.Background()))
	})

	t.Run("missing supplier", func(t *testing.T) {
		p := valid()
		p.SupplierID = id.Nil()
		assert.Error(t, p.Validate(context.Background()))
	})

	t.Run("negative selling price", func(t *testing.T) {
		p := valid()
		p.SellingPrice = types.MustMoney("-1")
		assert.Error(t, p.Validate(context.Background()))
	})

	t.Run("negative stock", func(t *testing.T) {
		p := valid()
		p.StockQuantity = -1
		assert.Error(t, p.Validate(context.Background()))
	})
}

func TestProduct_EffectivePrice(t *testing.T) {
	p := New("P-001", "Widget", "Acme", id.New())
	p.SellingPrice = types.MustMoney("20.00")
	p.Discount = types.MustMoney("2.50")
	assert.True(t, p.EffectivePrice().Equal(types.MustMoney("17.50")))

	p.Discount = types.MustMoney("25.00")
	assert.True(t, p.EffectivePrice().IsZero())
}

func TestProduct_IsLowStock(t *testing.T) {
	p := New("P-001", "Widget", "Acme", id.New())
	p.LowStockThreshold = 5

	p.StockQuantity = 6
	assert.False(t, p.IsLowStock())

	p.StockQuantity = 5
	assert.True(t, p.IsLowStock())

	p.StockQuantity = 0
	assert.True(t, p.IsLowStock())
}
