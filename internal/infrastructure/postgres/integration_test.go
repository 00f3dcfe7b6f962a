//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/orders"
	"github.com/jhoicas/boutique-api/internal/application/sales"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
	"github.com/jhoicas/boutique-api/internal/infrastructure/cache"
	"github.com/jhoicas/boutique-api/internal/infrastructure/postgres"
	"github.com/jhoicas/boutique-api/pkg/config"
	"github.com/jhoicas/boutique-api/pkg/whatsapp"
)

// PostgresSuite levanta un PostgreSQL real y ejecuta los casos de uso contra los repos pgx.
type PostgresSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	tx        *postgres.TxRunner
	settle    *sales.SettlementUseCase
	ledger    *sales.LedgerUseCase
	reversal  *sales.ReversalUseCase
}

func TestPostgresSuite(t *testing.T) {
	suite.Run(t, new(PostgresSuite))
}

func (s *PostgresSuite) SetupSuite() {
	s.ctx = context.Background()
	ctr, err := tcpostgres.Run(s.ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("boutique"),
		tcpostgres.WithUsername("app"),
		tcpostgres.WithPassword("secret"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err)
	s.container = ctr

	dsn, err := ctr.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	log := zerolog.Nop()
	s.pool, err = postgres.NewPool(s.ctx, config.DBConfig{DatabaseURL: dsn}, log)
	s.Require().NoError(err)
	s.Require().NoError(postgres.Migrate(s.ctx, s.pool, log))
	// idempotente
	s.Require().NoError(postgres.Migrate(s.ctx, s.pool, log))

	s.tx = postgres.NewTxRunner(s.pool, 3, log)
	noCache := cache.NewNoop()
	intake := orders.NewUseCase(s.tx, postgres.NewOrderRepository(s.pool), postgres.NewProductRepository(s.pool),
		postgres.NewPromotionRepository(s.pool), postgres.NewCustomerRepository(s.pool),
		whatsapp.NewBuilder("Boutique", "573000000000"), log)
	salesRepo := postgres.NewSaleRepository(s.pool)
	s.settle = sales.NewSettlementUseCase(s.tx, intake, noCache, log)
	s.ledger = sales.NewLedgerUseCase(s.tx, salesRepo, postgres.NewPaymentRepository(s.pool), log)
	s.reversal = sales.NewReversalUseCase(s.tx, salesRepo, noCache, log)
}

func (s *PostgresSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresSuite) product(stock int) *entity.Product {
	p := &entity.Product{
		ID: uuid.New().String(), Name: "Perfume " + uuid.NewString()[:6],
		Price: decimal.NewFromInt(50000), Cost: decimal.NewFromInt(20000), Stock: stock,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	s.Require().NoError(postgres.NewProductRepository(s.pool).Create(s.ctx, p))
	return p
}

func (s *PostgresSuite) pendingOrder(p *entity.Product, qty int) *entity.Order {
	item := entity.OrderItem{ProductID: p.ID, Name: p.Name, Quantity: qty, UnitPrice: p.Price, ComboMultiplier: 1}
	o := &entity.Order{
		ID: uuid.New().String(), Items: []entity.OrderItem{item}, Total: item.Subtotal(),
		Status: entity.OrderStatusPending, DeliveryMode: entity.DeliveryPickup,
		Source: entity.OrderSourcePOS, CreatedAt: time.Now(),
	}
	s.Require().NoError(s.tx.Run(s.ctx, func(r repository.TxRepos) error {
		return r.Orders.Create(s.ctx, o)
	}))
	return o
}

func (s *PostgresSuite) stock(id string) int {
	p, err := postgres.NewProductRepository(s.pool).GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(p)
	return p.Stock
}

func (s *PostgresSuite) TestMigrate_VersionAplicada() {
	s.Require().NoError(postgres.Migrate(s.ctx, s.pool, zerolog.Nop()))
	version, err := postgres.MigrationVersion(s.ctx, s.pool)
	s.Require().NoError(err)
	s.Equal(int64(1), version)
}

func (s *PostgresSuite) TestOrderRoundTrip() {
	p := s.product(5)
	o := s.pendingOrder(p, 2)

	got, err := postgres.NewOrderRepository(s.pool).GetByID(s.ctx, o.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(entity.OrderStatusPending, got.Status)
	s.Require().Len(got.Items, 1)
	s.Equal(2, got.Items[0].Quantity)
	s.True(p.Price.Equal(got.Items[0].UnitPrice))

	missing, err := postgres.NewOrderRepository(s.pool).GetByID(s.ctx, "no-existe")
	s.NoError(err)
	s.Nil(missing)
}

func (s *PostgresSuite) TestDecrementStock_Condicional() {
	p := s.product(2)
	repo := postgres.NewProductRepository(s.pool)

	err := repo.DecrementStock(s.ctx, p.ID, 3)
	s.ErrorIs(err, domain.ErrInsufficientStock)
	s.Equal(2, s.stock(p.ID))

	s.NoError(repo.DecrementStock(s.ctx, p.ID, 2))
	s.Equal(0, s.stock(p.ID))

	s.ErrorIs(repo.DecrementStock(s.ctx, "no-existe", 1), domain.ErrNotFound)
}

func (s *PostgresSuite) TestSettle_ContadoYReversion() {
	p := s.product(5)
	o := s.pendingOrder(p, 2)

	bundle, err := s.settle.Settle(s.ctx, o.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado})
	s.Require().NoError(err)
	s.True(bundle.Sale.IsPaid)
	s.True(decimal.NewFromInt(100000).Equal(bundle.Sale.Total))
	s.True(decimal.NewFromInt(60000).Equal(bundle.Sale.TotalProfit))
	s.Equal(3, s.stock(p.ID))

	_, err = s.settle.Settle(s.ctx, o.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado})
	s.ErrorIs(err, domain.ErrConflict)

	res, err := s.reversal.Reverse(s.ctx, sales.ReversalTarget{SaleID: bundle.Sale.ID})
	s.Require().NoError(err)
	s.Equal(1, res.DeletedPayments)
	s.Equal(5, s.stock(p.ID))

	_, err = s.reversal.Reverse(s.ctx, sales.ReversalTarget{OrderID: o.ID})
	s.ErrorIs(err, domain.ErrNotFound)
	s.Equal(5, s.stock(p.ID))
}

func (s *PostgresSuite) TestSettle_StockInsuficienteNoDejaRastro() {
	p := s.product(1)
	o := s.pendingOrder(p, 2)

	_, err := s.settle.Settle(s.ctx, o.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado})
	s.ErrorIs(err, domain.ErrInsufficientStock)
	s.Equal(1, s.stock(p.ID))

	sale, err := postgres.NewSaleRepository(s.pool).GetByOrderID(s.ctx, o.ID)
	s.NoError(err)
	s.Nil(sale)
}

func (s *PostgresSuite) TestSettle_ConcurrenteSoloUnaGana() {
	p := s.product(10)
	o := s.pendingOrder(p, 3)

	const workers = 5
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.settle.Settle(s.ctx, o.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodCredito})
		}()
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		s.ErrorIs(err, domain.ErrConflict)
	}
	s.Equal(1, ok)
	s.Equal(7, s.stock(p.ID))
}

func (s *PostgresSuite) TestLedger_AbonosHastaPagar() {
	p := s.product(4)
	o := s.pendingOrder(p, 1)
	bundle, err := s.settle.Settle(s.ctx, o.ID, dto.SettleRequest{PaymentMethod: entity.PaymentMethodCredito})
	s.Require().NoError(err)
	s.False(bundle.Sale.IsPaid)

	led, err := s.ledger.AddPayment(s.ctx, bundle.Sale.ID, dto.AddPaymentRequest{Amount: decimal.NewFromInt(30000)})
	s.Require().NoError(err)
	s.True(decimal.NewFromInt(20000).Equal(led.PendingBalance))

	_, err = s.ledger.AddPayment(s.ctx, bundle.Sale.ID, dto.AddPaymentRequest{Amount: decimal.NewFromInt(25000)})
	s.ErrorIs(err, domain.ErrOverpayment)

	led, err = s.ledger.AddPayment(s.ctx, bundle.Sale.ID, dto.AddPaymentRequest{Amount: decimal.NewFromInt(20000)})
	s.Require().NoError(err)
	s.True(led.Sale.IsPaid)
	s.True(led.PendingBalance.IsZero())
}

func (s *PostgresSuite) TestAnalytics() {
	repo := postgres.NewAnalyticsRepository(s.pool)
	m, err := repo.GetSalesMetrics(s.ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	s.Require().NoError(err)
	s.GreaterOrEqual(m.SaleCount, 0)

	credit, err := repo.GetOutstandingCredit(s.ctx)
	s.Require().NoError(err)
	assert.False(s.T(), credit.IsNegative())

	_, err = repo.GetTopProducts(s.ctx, time.Now().Add(-time.Hour), time.Now().Add(time.Hour), 5)
	require.NoError(s.T(), err)
}
