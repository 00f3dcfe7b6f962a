package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-api/internal/application/ports"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
	"github.com/jhoicas/boutique-api/internal/infrastructure/cache"
	"github.com/jhoicas/boutique-api/internal/infrastructure/memory"
	"github.com/jhoicas/boutique-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/boutique-api/internal/interfaces/http"
	"github.com/jhoicas/boutique-api/pkg/config"
)

// backend repositorios y runner transaccional del driver elegido, más lo que reporta /health.
type backend struct {
	tx         ports.TxRunner
	products   repository.ProductRepository
	categories repository.CategoryRepository
	promotions repository.PromotionRepository
	customers  repository.CustomerRepository
	orders     repository.OrderRepository
	sales      repository.SaleRepository
	payments   repository.PaymentRepository
	loyalty    repository.LoyaltyRepository
	users      repository.UserRepository
	analytics  repository.AnalyticsRepository
	cache      ports.CatalogCache
	health     map[string]httpRouter.Pinger
	closers    []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackend conecta Postgres (o arma el store en memoria) y la caché de Redis si hay REDIS_URL.
func openBackend(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backend, error) {
	b := &backend{health: map[string]httpRouter.Pinger{}, cache: cache.NewNoop()}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		store := memory.NewStore()
		b.tx = store
		b.products, b.categories, b.promotions = store.Products(), store.Categories(), store.Promotions()
		b.customers, b.orders, b.sales = store.Customers(), store.Orders(), store.Sales()
		b.payments, b.loyalty, b.users = store.Payments(), store.Loyalty(), store.Users()
		b.analytics = store.Analytics()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		if cfg.DB.Migrate {
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				b.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
		}
		b.tx = postgres.NewTxRunner(pool, cfg.DB.TxRetries, log)
		b.products = postgres.NewProductRepository(pool)
		b.categories = postgres.NewCategoryRepository(pool)
		b.promotions = postgres.NewPromotionRepository(pool)
		b.customers = postgres.NewCustomerRepository(pool)
		b.orders = postgres.NewOrderRepository(pool)
		b.sales = postgres.NewSaleRepository(pool)
		b.payments = postgres.NewPaymentRepository(pool)
		b.loyalty = postgres.NewLoyaltyRepository(pool)
		b.users = postgres.NewUserRepository(pool)
		b.analytics = postgres.NewAnalyticsRepository(pool)
		b.health["database"] = pool
	}

	if cfg.Redis.URL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			// sin caché el catálogo sigue funcionando contra la base
			log.Warn().Err(err).Msg("Redis no disponible, caché del catálogo desactivada")
		} else {
			redisCache := cache.NewRedisCache(rdb, cfg.App.Name, cfg.Redis.CatalogTTL)
			b.cache = redisCache
			b.health["redis"] = redisCache
			b.closers = append(b.closers, func() { _ = rdb.Close() })
			log.Info().Dur("ttl", cfg.Redis.CatalogTTL).Msg("caché del catálogo en Redis")
		}
	}
	return b, nil
}
