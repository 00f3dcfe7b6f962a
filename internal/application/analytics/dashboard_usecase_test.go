package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
	"github.com/jhoicas/boutique-api/internal/infrastructure/memory"
)

var now = time.Date(2026, time.October, 15, 16, 0, 0, 0, time.UTC)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// seed crea una orden procesada con su venta en la fecha indicada.
func seed(t *testing.T, store *memory.Store, at time.Time, method string, paid bool, items ...entity.OrderItem) *entity.Sale {
	t.Helper()
	ctx := context.Background()
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	order := &entity.Order{
		ID: at.Format(time.RFC3339Nano) + method, Items: items, Total: total,
		Status: entity.OrderStatusProcessed, DeliveryMode: entity.DeliveryPickup,
		Source: entity.OrderSourcePOS, CreatedAt: at,
	}
	sale := &entity.Sale{
		ID: "s-" + order.ID, OrderID: order.ID, Total: total, Discount: decimal.Zero,
		PaymentMethod: method, IsPaid: paid, TotalCost: total.Div(d(2)), TotalProfit: total.Div(d(2)),
		CreatedAt: at,
	}
	require.NoError(t, store.Run(ctx, func(r repository.TxRepos) error {
		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}
		return r.Sales.Create(ctx, sale)
	}))
	return sale
}

func TestGetSummary(t *testing.T) {
	store := memory.NewStore()
	perfume := entity.OrderItem{ProductID: "p-1", Name: "Perfume", Quantity: 2, UnitPrice: d(50000)}
	combo := entity.OrderItem{ProductID: "p-2", Name: "Crema x3", Quantity: 1, UnitPrice: d(60000), IsCombo: true, ComboMultiplier: 3}

	seed(t, store, now.Add(-2*time.Hour), entity.PaymentMethodContado, true, perfume)
	credit := seed(t, store, now.Add(-3*24*time.Hour), entity.PaymentMethodCredito, false, combo)
	seed(t, store, now.AddDate(0, -1, 0), entity.PaymentMethodContado, true, perfume) // mes anterior

	ctx := context.Background()
	require.NoError(t, store.Payments().Create(ctx, &entity.Payment{
		ID: "pay-1", SaleID: credit.ID, Amount: d(20000), CreatedAt: now,
	}))

	uc := NewDashboardUseCase(store.Analytics())
	uc.now = func() time.Time { return now }

	sum, err := uc.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.TodayCount)
	assert.True(t, d(100000).Equal(sum.TodaySales))
	assert.True(t, d(50000).Equal(sum.TodayProfit))
	assert.Equal(t, 2, sum.MonthlyCount)
	assert.True(t, d(160000).Equal(sum.MonthlySales))
	assert.True(t, d(40000).Equal(sum.OutstandingCredit))
	assert.Equal(t, "Octubre 2026", sum.DateLabel)

	require.Len(t, sum.TopProducts, 2)
	assert.Equal(t, "p-2", sum.TopProducts[0].ProductID)
	assert.Equal(t, 3, sum.TopProducts[0].Units)
	assert.Equal(t, 2, sum.TopProducts[1].Units)
}

type failingRepo struct{ repository.AnalyticsRepository }

func (failingRepo) GetOutstandingCredit(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, errors.New("sin conexión")
}

func TestGetSummary_PropagaError(t *testing.T) {
	uc := NewDashboardUseCase(failingRepo{memory.NewStore().Analytics()})
	_, err := uc.GetSummary(context.Background())
	assert.ErrorContains(t, err, "crédito pendiente")
}
