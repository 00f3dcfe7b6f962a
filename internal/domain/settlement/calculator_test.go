package settlement_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/settlement"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Orden de ejemplo: 2x A (precio 100, costo 60) y 1x B (precio 50, costo 20).
func sampleItems() ([]entity.OrderItem, map[string]decimal.Decimal) {
	items := []entity.OrderItem{
		{ProductID: "A", Name: "Perfume A", Quantity: 2, UnitPrice: d("100")},
		{ProductID: "B", Name: "Estuche B", Quantity: 1, UnitPrice: d("50")},
	}
	costs := map[string]decimal.Decimal{"A": d("60"), "B": d("20")}
	return items, costs
}

func TestCompute_EjemploContado(t *testing.T) {
	items, costs := sampleItems()
	total := settlement.OrderTotal(items)
	require.True(t, total.Equal(d("250")))

	got, err := settlement.Compute(total, decimal.Zero, items, costs)
	require.NoError(t, err)
	assert.True(t, got.FinalTotal.Equal(d("250")))
	assert.True(t, got.TotalCost.Equal(d("140")), "2x60 + 1x20")
	assert.True(t, got.TotalProfit.Equal(d("110")))
}

func TestCompute_Descuento(t *testing.T) {
	items, costs := sampleItems()
	got, err := settlement.Compute(d("250"), d("25"), items, costs)
	require.NoError(t, err)
	assert.True(t, got.FinalTotal.Equal(d("225")))
	assert.True(t, got.TotalProfit.Equal(d("85")))
}

func TestCompute_DescuentoInvalido(t *testing.T) {
	items, costs := sampleItems()
	tests := []struct {
		name     string
		discount decimal.Decimal
	}{
		{"negativo", d("-1")},
		{"mayor al total", d("250.01")},
		{"fracción de centavo", d("10.005")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := settlement.Compute(d("250"), tc.discount, items, costs)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestCompute_DescuentoIgualAlTotal(t *testing.T) {
	items, costs := sampleItems()
	got, err := settlement.Compute(d("250"), d("250"), items, costs)
	require.NoError(t, err)
	assert.True(t, got.FinalTotal.IsZero())
	assert.True(t, got.TotalProfit.Equal(d("-140")))
}

func TestCompute_ComboCosteaPorUnidad(t *testing.T) {
	items := []entity.OrderItem{
		{ProductID: "A", Quantity: 2, UnitPrice: d("180"), IsCombo: true, ComboMultiplier: 2},
	}
	got, err := settlement.Compute(d("360"), decimal.Zero, items, map[string]decimal.Decimal{"A": d("60")})
	require.NoError(t, err)
	assert.True(t, got.TotalCost.Equal(d("240")), "4 unidades a 60")
}

func TestCompute_SinCostoEsInvariante(t *testing.T) {
	items, _ := sampleItems()
	_, err := settlement.Compute(d("250"), decimal.Zero, items, map[string]decimal.Decimal{"A": d("60")})
	assert.ErrorIs(t, err, domain.ErrInvariant)
}

func TestPendingBalance(t *testing.T) {
	pays := []*entity.Payment{{Amount: d("100")}}
	assert.True(t, settlement.PendingBalance(d("250"), pays).Equal(d("150")))
	pays = append(pays, &entity.Payment{Amount: d("150")})
	assert.True(t, settlement.PendingBalance(d("250"), pays).IsZero())
	pays = append(pays, &entity.Payment{Amount: d("5")})
	assert.True(t, settlement.PendingBalance(d("250"), pays).IsZero(), "nunca negativo")
	assert.True(t, settlement.PendingBalance(d("250"), nil).Equal(d("250")))
}

func TestUnitsByProduct_AgregaLineas(t *testing.T) {
	items := []entity.OrderItem{
		{ProductID: "A", Quantity: 1},
		{ProductID: "A", Quantity: 1, IsCombo: true, ComboMultiplier: 3},
		{ProductID: "B", Quantity: 2},
	}
	units := settlement.UnitsByProduct(items)
	assert.Equal(t, 4, units["A"])
	assert.Equal(t, 2, units["B"])
}

func TestValidMoney(t *testing.T) {
	assert.True(t, settlement.ValidMoney(d("250")))
	assert.True(t, settlement.ValidMoney(d("249.99")))
	assert.True(t, settlement.ValidMoney(d("0.10")))
	assert.False(t, settlement.ValidMoney(d("249.996")))
	assert.False(t, settlement.ValidMoney(d("0.001")))
}

func TestLoyaltyDiscount(t *testing.T) {
	assert.True(t, settlement.LoyaltyDiscount(d("250")).Equal(d("25")))
	assert.True(t, settlement.LoyaltyDiscount(d("99.99")).Equal(d("10")))
}
