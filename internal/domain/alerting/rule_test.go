package alerting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventra/internal/core/id"
	"inventra/internal/domain/catalogs/product"
)

func row(name, brand string, stock, threshold int) *product.Product {
	p := product.New("", name, brand, id.New())
	p.StockQuantity = stock
	p.LowStockThreshold = threshold
	return p
}

func TestDefaultRule(t *testing.T) {
	rule := DefaultRule()

	cases := []struct {
		stock     int
		threshold int
		want      bool
	}{
		{stock: 11, threshold: 10, want: false},
		{stock: 10, threshold: 10, want: true},
		{stock: 0, threshold: 10, want: true},
		{stock: 3, threshold: 0, want: false},
	}
	for _, tc := range cases {
		got, err := rule.Matches(row("Widget", "Acme", tc.stock, tc.threshold))
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "stock=%d threshold=%d", tc.stock, tc.threshold)
	}
}

func TestCompileRule_CustomExpression(t *testing.T) {
	rule, err := CompileRule(`stock == 0 && brand != "Discontinued"`)
	require.NoError(t, err)

	got, err := rule.Matches(row("Widget", "Acme", 0, 10))
	require.NoError(t, err)
	assert.True(t, got)

	got, err = rule.Matches(row("Widget", "Discontinued", 0, 10))
	require.NoError(t, err)
	assert.False(t, got)
}

func TestCompileRule_Invalid(t *testing.T) {
	_, err := CompileRule("stock <=")
	assert.Error(t, err)

	_, err = CompileRule("stock + threshold")
	assert.Error(t, err)
}

func TestRule_FilterLow(t *testing.T) {
	rule := DefaultRule()
	rows := []*product.Product{
		row("Widget", "Acme", 20, 10),
		row("Gadget", "Acme", 2, 10),
		row("Gizmo", "Acme", 10, 10),
	}

	low, err := rule.FilterLow(rows)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Gadget", low[0].Name)
	assert.Equal(t, "Gizmo", low[1].Name)
}
