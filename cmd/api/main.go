package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	appanalytics "github.com/jhoicas/boutique-api/internal/application/analytics"
	"github.com/jhoicas/boutique-api/internal/application/auth"
	"github.com/jhoicas/boutique-api/internal/application/catalog"
	"github.com/jhoicas/boutique-api/internal/application/customers"
	"github.com/jhoicas/boutique-api/internal/application/orders"
	"github.com/jhoicas/boutique-api/internal/application/sales"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	httpRouter "github.com/jhoicas/boutique-api/internal/interfaces/http"
	"github.com/jhoicas/boutique-api/pkg/config"
	"github.com/jhoicas/boutique-api/pkg/logger"
	"github.com/jhoicas/boutique-api/pkg/whatsapp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("driver", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	b, err := openBackend(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer b.Close()

	categoryUC := catalog.NewCategoryUseCase(b.categories, b.cache, log.Component("catalog"))
	promotionUC := catalog.NewPromotionUseCase(b.promotions, b.products, b.cache, log.Component("catalog"))
	productUC := catalog.NewProductUseCase(b.products, b.categories, b.cache, log.Component("catalog"))
	storefrontUC := catalog.NewStorefrontUseCase(b.products, categoryUC, promotionUC, b.cache, log.Component("storefront"))

	ordersUC := orders.NewUseCase(b.tx, b.orders, b.products, b.promotions, b.customers,
		whatsapp.NewBuilder(cfg.Store.Name, cfg.Store.WhatsAppPhone), log.Component("orders"))
	salesLog := log.Component("sales")
	settleUC := sales.NewSettlementUseCase(b.tx, ordersUC, b.cache, salesLog)
	ledgerUC := sales.NewLedgerUseCase(b.tx, b.sales, b.payments, salesLog)
	reversalUC := sales.NewReversalUseCase(b.tx, b.sales, b.cache, salesLog)
	salesQueryUC := sales.NewQueryUseCase(b.tx, b.sales, b.orders, b.customers, b.payments, salesLog)
	customersUC := customers.NewUseCase(b.tx, b.customers, b.sales, b.loyalty, log.Component("customers"))
	dashboardUC := appanalytics.NewDashboardUseCase(b.analytics)
	authUC := auth.NewAuthUseCase(b.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if cfg.Admin.Email != "" {
		created, err := authUC.EnsureUser(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.Name, entity.RoleAdmin)
		if err != nil {
			log.Fatal().Err(err).Msg("crear usuario administrador")
		}
		if created {
			log.Info().Str("email", cfg.Admin.Email).Msg("usuario administrador creado")
		}
	}

	app := httpRouter.NewServer(httpRouter.ServerConfig{
		AppName:        cfg.App.Name,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Log:            log.Component("http"),
	})

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Boutique API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		StorefrontUC: storefrontUC,
		ProductUC:    productUC,
		CategoryUC:   categoryUC,
		PromotionUC:  promotionUC,
		OrdersUC:     ordersUC,
		SettleUC:     settleUC,
		LedgerUC:     ledgerUC,
		ReversalUC:   reversalUC,
		SalesQueryUC: salesQueryUC,
		CustomersUC:  customersUC,
		AuthUC:       authUC,
		DashboardUC:  dashboardUC,
		JWTSecret:    cfg.JWT.Secret,
		Health:       b.health,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
