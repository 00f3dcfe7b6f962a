package sales_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/sales"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

func TestSettle_ContadoCreaVentaPagada(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Blusa", 100, 60, 10)
	b := f.product(t, "Falda", 50, 20, 5)
	o := f.order(t, "", line(a, 2), line(b, 1))

	bundle, err := f.settle.Settle(f.ctx, o.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado})
	require.NoError(t, err)

	assert.True(t, bundle.Sale.Total.Equal(money(250)))
	assert.True(t, bundle.Sale.TotalCost.Equal(money(140)))
	assert.True(t, bundle.Sale.TotalProfit.Equal(money(110)))
	assert.True(t, bundle.Sale.IsPaid)
	require.Len(t, bundle.Payments, 1)
	assert.True(t, bundle.Payments[0].Amount.Equal(money(250)))
	assert.True(t, bundle.PendingBalance.IsZero())
	assert.Equal(t, entity.OrderStatusProcessed, bundle.Order.Status)

	assert.Equal(t, 8, f.stock(t, a.ID))
	assert.Equal(t, 4, f.stock(t, b.ID))

	stored, err := f.store.Orders().GetByID(f.ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProcessed, stored.Status)
	sale, err := f.store.Sales().GetByOrderID(f.ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.Equal(t, bundle.Sale.ID, sale.ID)
	assert.Equal(t, 1, f.cache.invalidated)
}

func TestSettle_CreditoSinAbonos(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Blusa", 100, 60, 10)
	b := f.product(t, "Falda", 50, 20, 5)
	o := f.order(t, "", line(a, 2), line(b, 1))

	bundle, err := f.settle.Settle(f.ctx, o.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodCredito})
	require.NoError(t, err)
	assert.False(t, bundle.Sale.IsPaid)
	assert.Empty(t, bundle.Payments)
	assert.True(t, bundle.PendingBalance.Equal(money(250)))
}

func TestSettle_OrdenYaProcesada(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Blusa", 100, 60, 10)
	o := f.order(t, "", line(a, 1))

	_, err := f.settle.Settle(f.ctx, o.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado})
	require.NoError(t, err)
	_, err = f.settle.Settle(f.ctx, o.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 9, f.stock(t, a.ID))
}

func TestSettle_OrdenInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.settle.Settle(f.ctx, "no-existe", dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSettle_StockInsuficienteNoDejaCambios(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Blusa", 100, 60, 5)
	b := f.product(t, "Falda", 50, 20, 1)
	o := f.order(t, "", line(a, 2), line(b, 3))

	_, err := f.settle.Settle(f.ctx, o.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.ErrorIs(t, err, domain.ErrConflict)
	var stockErr *sales.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, b.ID, stockErr.ProductID)

	assert.Equal(t, 5, f.stock(t, a.ID), "el descuento de A debe deshacerse")
	assert.Equal(t, 1, f.stock(t, b.ID))
	stored, err := f.store.Orders().GetByID(f.ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPending())
	sale, err := f.store.Sales().GetByOrderID(f.ctx, o.ID)
	require.NoError(t, err)
	assert.Nil(t, sale)
	assert.Zero(t, f.cache.invalidated)
}

func TestSettle_Validaciones(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Blusa", 100, 60, 10)
	o := f.order(t, "", line(a, 1))

	cases := map[string]dto.SettleRequest{
		"método desconocido":                {PaymentMethod: "Tarjeta"},
		"descuento negativo":                {PaymentMethod: entity.PaymentMethodContado, Discount: money(-1)},
		"descuento sobre total":             {PaymentMethod: entity.PaymentMethodContado, Discount: money(101)},
		"canje sin cliente":                 {PaymentMethod: entity.PaymentMethodContado, RedeemLoyalty: true},
		"descuento con fracción de centavo": {PaymentMethod: entity.PaymentMethodContado, Discount: amount("0.005")},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.settle.Settle(f.ctx, o.ID, req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Equal(t, 10, f.stock(t, a.ID))
}

func TestSettle_DescuentoManual(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Blusa", 100, 60, 10)
	o := f.order(t, "", line(a, 2))

	bundle, err := f.settle.Settle(f.ctx, o.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado, Discount: money(30)})
	require.NoError(t, err)
	assert.True(t, bundle.Sale.Total.Equal(money(170)))
	assert.True(t, bundle.Sale.Discount.Equal(money(30)))
	assert.True(t, bundle.Sale.TotalProfit.Equal(money(50)))
	assert.True(t, bundle.Payments[0].Amount.Equal(money(170)))
}

func TestSettle_DescuentoTotalCreditoQuedaPagada(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Blusa", 100, 60, 10)
	o := f.order(t, "", line(a, 1))

	bundle, err := f.settle.Settle(f.ctx, o.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodCredito, Discount: money(100)})
	require.NoError(t, err)
	assert.True(t, bundle.Sale.Total.IsZero())
	assert.True(t, bundle.Sale.IsPaid)
	assert.Empty(t, bundle.Payments)
}

func TestSettle_ComboMueveUnidadesPorMultiplicador(t *testing.T) {
	f := newFixture(t)
	medias := f.product(t, "Medias", 10, 4, 10)
	combo := entity.OrderItem{
		ProductID: medias.ID, Name: "3 medias", Quantity: 2,
		UnitPrice: money(25), IsCombo: true, ComboMultiplier: 3,
	}
	o := f.order(t, "", combo)

	bundle, err := f.settle.Settle(f.ctx, o.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado})
	require.NoError(t, err)
	assert.Equal(t, 4, f.stock(t, medias.ID))
	assert.True(t, bundle.Sale.Total.Equal(money(50)))
	assert.True(t, bundle.Sale.TotalCost.Equal(money(24)))
}

func TestSettle_SellosDeFidelizacion(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Blusa", 100, 60, 50)
	c := f.customer(t, "Laura", "3001112233", 4)

	// 4 -> 5
	o1 := f.order(t, c.ID, line(a, 1))
	_, err := f.settle.Settle(f.ctx, o1.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado})
	require.NoError(t, err)
	assert.Equal(t, 5, f.stamps(t, c.ID))

	// 5 se mantiene en 5 sin canje
	o2 := f.order(t, c.ID, line(a, 1))
	_, err = f.settle.Settle(f.ctx, o2.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado})
	require.NoError(t, err)
	assert.Equal(t, 5, f.stamps(t, c.ID))

	// canje: 10% de descuento y contador a cero
	o3 := f.order(t, c.ID, line(a, 2))
	bundle, err := f.settle.Settle(f.ctx, o3.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado, RedeemLoyalty: true})
	require.NoError(t, err)
	assert.True(t, bundle.Sale.Discount.Equal(money(20)))
	assert.True(t, bundle.Sale.Total.Equal(money(180)))
	assert.True(t, bundle.Sale.LoyaltyRedeemed)
	assert.Equal(t, 0, f.stamps(t, c.ID))
	require.NotNil(t, bundle.Customer)
	assert.Equal(t, 0, bundle.Customer.LoyaltyStamps)

	// sin tarjeta completa no se puede canjear
	o4 := f.order(t, c.ID, line(a, 1))
	_, err = f.settle.Settle(f.ctx, o4.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado, RedeemLoyalty: true})
	assert.ErrorIs(t, err, domain.ErrValidation)

	events, err := f.store.Loyalty().ListByCustomer(f.ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, entity.LoyaltyEarned, events[0].Kind)
	assert.Equal(t, entity.LoyaltyEarned, events[1].Kind)
	assert.Equal(t, entity.LoyaltyRedeemed, events[2].Kind)
}

func TestSettle_ConcurrenteSoloUnaGana(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Blusa", 100, 60, 10)
	o := f.order(t, "", line(a, 3))

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.settle.Settle(f.ctx, o.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 7, f.stock(t, a.ID))
}

func TestCreatePOSSale_LiquidaDeInmediato(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Blusa", 100, 60, 10)

	bundle, err := f.settle.CreatePOSSale(f.ctx, dto.POSSaleRequest{
		POSOrderRequest: dto.POSOrderRequest{Items: []dto.OrderItemRequest{{ProductID: a.ID, Quantity: 2}}},
		SettleRequest:   dto.SettleRequest{PaymentMethod: entity.PaymentMethodCredito},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderSourcePOS, bundle.Order.Source)
	assert.Equal(t, entity.OrderStatusProcessed, bundle.Order.Status)
	assert.True(t, bundle.PendingBalance.Equal(money(200)))
	assert.Equal(t, 8, f.stock(t, a.ID))
}

func TestCreatePOSSale_FallaLiquidacionEliminaOrden(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "Blusa", 100, 60, 10)

	_, err := f.settle.CreatePOSSale(f.ctx, dto.POSSaleRequest{
		POSOrderRequest: dto.POSOrderRequest{Items: []dto.OrderItemRequest{{ProductID: a.ID, Quantity: 1}}},
		SettleRequest:   dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado, Discount: money(500)},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := f.store.Orders().List(f.ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "la orden pendiente debe eliminarse")
	assert.Equal(t, 10, f.stock(t, a.ID))
}
