package sales_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-api/internal/application/orders"
	"github.com/jhoicas/boutique-api/internal/application/sales"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
	"github.com/jhoicas/boutique-api/internal/domain/settlement"
	"github.com/jhoicas/boutique-api/internal/infrastructure/memory"
	"github.com/jhoicas/boutique-api/pkg/whatsapp"
)

// spyCache cuenta invalidaciones; nunca tiene entradas.
type spyCache struct {
	mu          sync.Mutex
	invalidated int
}

func (c *spyCache) Get(_ context.Context, key string, _ any) (string, bool, error) {
	return key, false, nil
}
func (c *spyCache) Set(context.Context, string, any) error { return nil }
func (c *spyCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	return nil
}

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	cache    *spyCache
	intake   *orders.UseCase
	settle   *sales.SettlementUseCase
	ledger   *sales.LedgerUseCase
	reversal *sales.ReversalUseCase
	query    *sales.QueryUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	cache := &spyCache{}
	log := zerolog.Nop()
	intake := orders.NewUseCase(store, store.Orders(), store.Products(), store.Promotions(), store.Customers(),
		whatsapp.NewBuilder("Boutique", "573000000000"), log)
	return &fixture{
		ctx:      context.Background(),
		store:    store,
		cache:    cache,
		intake:   intake,
		settle:   sales.NewSettlementUseCase(store, intake, cache, log),
		ledger:   sales.NewLedgerUseCase(store, store.Sales(), store.Payments(), log),
		reversal: sales.NewReversalUseCase(store, store.Sales(), cache, log),
		query:    sales.NewQueryUseCase(store, store.Sales(), store.Orders(), store.Customers(), store.Payments(), log),
	}
}

func money(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) product(t *testing.T, name string, price, cost int64, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     money(price),
		Cost:      money(cost),
		Stock:     stock,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, f.store.Products().Create(f.ctx, p))
	return p
}

func (f *fixture) customer(t *testing.T, name, phone string, stamps int) *entity.Customer {
	t.Helper()
	c := &entity.Customer{
		ID:            uuid.New().String(),
		Name:          name,
		Phone:         phone,
		LoyaltyStamps: stamps,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	require.NoError(t, f.store.Customers().Create(f.ctx, c))
	return c
}

func line(p *entity.Product, qty int) entity.OrderItem {
	return entity.OrderItem{ProductID: p.ID, Name: p.Name, Quantity: qty, UnitPrice: p.Price, ComboMultiplier: 1}
}

// order crea una orden pendiente directamente en el store.
func (f *fixture) order(t *testing.T, customerID string, items ...entity.OrderItem) *entity.Order {
	t.Helper()
	o := &entity.Order{
		ID:           uuid.New().String(),
		CustomerID:   customerID,
		Items:        items,
		Total:        settlement.OrderTotal(items),
		Status:       entity.OrderStatusPending,
		DeliveryMode: entity.DeliveryPickup,
		Source:       entity.OrderSourcePOS,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, f.store.Run(f.ctx, func(r repository.TxRepos) error {
		return r.Orders.Create(f.ctx, o)
	}))
	return o
}

func (f *fixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func (f *fixture) stamps(t *testing.T, id string) int {
	t.Helper()
	c, err := f.store.Customers().GetByID(f.ctx, id)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c.LoyaltyStamps
}
