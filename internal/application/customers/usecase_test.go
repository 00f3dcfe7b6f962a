package customers_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-api/internal/application/customers"
	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
	"github.com/jhoicas/boutique-api/internal/infrastructure/memory"
)

func setup() (*customers.UseCase, *memory.Store) {
	store := memory.NewStore()
	return customers.NewUseCase(store, store.Customers(), store.Sales(), store.Loyalty(), zerolog.Nop()), store
}

func seedCustomer(t *testing.T, store *memory.Store, name, phone string, stamps int) *entity.Customer {
	t.Helper()
	c := &entity.Customer{
		ID: uuid.New().String(), Name: name, Phone: phone, LoyaltyStamps: stamps,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Customers().Create(context.Background(), c))
	return c
}

// seedSale registra una venta del cliente con su orden, sin pasar por la liquidación.
func seedSale(t *testing.T, store *memory.Store, customerID string) *entity.Sale {
	t.Helper()
	ctx := context.Background()
	order := &entity.Order{
		ID: uuid.New().String(), CustomerID: customerID, Status: entity.OrderStatusProcessed,
		Total: decimal.NewFromInt(100), CreatedAt: time.Now(),
	}
	sale := &entity.Sale{
		ID: uuid.New().String(), OrderID: order.ID, CustomerID: customerID,
		Total: decimal.NewFromInt(100), PaymentMethod: entity.PaymentMethodCredito, CreatedAt: time.Now(),
	}
	require.NoError(t, store.Run(ctx, func(r repository.TxRepos) error {
		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}
		return r.Sales.Create(ctx, sale)
	}))
	return sale
}

func TestList_BuscaPorNombreOTelefono(t *testing.T) {
	uc, store := setup()
	seedCustomer(t, store, "Laura Gómez", "3001112233", 0)
	seedCustomer(t, store, "Ana Ruiz", "3109998877", 0)

	res, err := uc.List(context.Background(), "laura", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Laura Gómez", res.Items[0].Name)

	res, err = uc.List(context.Background(), "310999", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Ana Ruiz", res.Items[0].Name)

	res, err = uc.List(context.Background(), "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
}

func TestGet_IncluyeVentas(t *testing.T) {
	uc, store := setup()
	c := seedCustomer(t, store, "Laura", "3001112233", 0)
	sale := seedSale(t, store, c.ID)

	detail, err := uc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	require.Len(t, detail.Sales, 1)
	assert.Equal(t, sale.ID, detail.Sales[0].ID)

	_, err = uc.Get(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_TelefonoNormalizadoYUnico(t *testing.T) {
	uc, store := setup()
	c := seedCustomer(t, store, "Laura", "3001112233", 3)
	seedCustomer(t, store, "Ana", "3109998877", 0)

	out, err := uc.Update(context.Background(), c.ID, dto.UpdateCustomerRequest{Name: "Laura G", Phone: "(300) 111-2244"})
	require.NoError(t, err)
	assert.Equal(t, "3001112244", out.Phone)
	assert.Equal(t, 3, out.LoyaltyStamps)

	_, err = uc.Update(context.Background(), c.ID, dto.UpdateCustomerRequest{Name: "Laura", Phone: "310 999 8877"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Update(context.Background(), c.ID, dto.UpdateCustomerRequest{Name: "Laura", Phone: "sin número"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDelete_ConVentasEsConflicto(t *testing.T) {
	uc, store := setup()
	withSales := seedCustomer(t, store, "Laura", "3001112233", 0)
	seedSale(t, store, withSales.ID)
	plain := seedCustomer(t, store, "Ana", "3109998877", 0)

	assert.ErrorIs(t, uc.Delete(context.Background(), withSales.ID), domain.ErrConflict)
	require.NoError(t, uc.Delete(context.Background(), plain.ID))
	assert.ErrorIs(t, uc.Delete(context.Background(), plain.ID), domain.ErrNotFound)
}

func TestRecomputeLoyalty_CorrigeContador(t *testing.T) {
	uc, store := setup()
	ctx := context.Background()
	c := seedCustomer(t, store, "Laura", "3001112233", 4)
	for _, kind := range []string{entity.LoyaltyEarned, entity.LoyaltyEarned} {
		require.NoError(t, store.Loyalty().Append(ctx, &entity.LoyaltyEvent{
			ID: uuid.New().String(), CustomerID: c.ID, Kind: kind, CreatedAt: time.Now(),
		}))
	}

	before, err := uc.GetLoyalty(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, before.StoredStamps)
	assert.Equal(t, 2, before.FoldedStamps)
	assert.False(t, before.CanRedeem)
	assert.Len(t, before.Events, 2)

	after, err := uc.RecomputeLoyalty(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.StoredStamps)

	stored, err := store.Customers().GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.LoyaltyStamps)

	_, err = uc.RecomputeLoyalty(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
