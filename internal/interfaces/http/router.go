package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/boutique-api/internal/application/analytics"
	"github.com/jhoicas/boutique-api/internal/application/auth"
	"github.com/jhoicas/boutique-api/internal/application/catalog"
	"github.com/jhoicas/boutique-api/internal/application/customers"
	"github.com/jhoicas/boutique-api/internal/application/orders"
	"github.com/jhoicas/boutique-api/internal/application/sales"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StorefrontUC *catalog.StorefrontUseCase
	ProductUC    *catalog.ProductUseCase
	CategoryUC   *catalog.CategoryUseCase
	PromotionUC  *catalog.PromotionUseCase
	OrdersUC     *orders.UseCase
	SettleUC     *sales.SettlementUseCase
	LedgerUC     *sales.LedgerUseCase
	ReversalUC   *sales.ReversalUseCase
	SalesQueryUC *sales.QueryUseCase
	CustomersUC  *customers.UseCase
	AuthUC       *auth.AuthUseCase
	DashboardUC  *appanalytics.DashboardUseCase
	JWTSecret    string
	Health       map[string]Pinger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health(deps.Health))

	api := app.Group("/api")

	// Tienda (público)
	store := api.Group("/store")
	storefront := NewStorefrontHandler(deps.StorefrontUC, deps.OrdersUC)
	store.Get("/products", storefront.ListProducts)
	store.Get("/products/:id", storefront.GetProduct)
	store.Get("/categories", storefront.ListCategories)
	store.Get("/promotions", storefront.ListPromotions)
	store.Post("/checkout", storefront.Checkout)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Panel (requiere Bearer Token). Vendedoras operan ventas; lo destructivo es solo admin.
	admin := api.Group("/admin", AuthMiddleware(deps.JWTSecret), RequireRole(entity.RoleAdmin, entity.RoleSeller))
	adminOnly := RequireRole(entity.RoleAdmin)

	orderHandler := NewOrderHandler(deps.OrdersUC, deps.SettleUC, deps.ReversalUC)
	admin.Get("/orders", orderHandler.List)
	admin.Post("/orders", orderHandler.CreatePOS)
	admin.Get("/orders/:id", orderHandler.Get)
	admin.Post("/orders/:id/settle", orderHandler.Settle)
	admin.Delete("/orders/:id", adminOnly, orderHandler.Delete)
	admin.Post("/pos/sales", orderHandler.CreatePOSSale)

	saleHandler := NewSaleHandler(deps.SalesQueryUC, deps.LedgerUC, deps.ReversalUC)
	admin.Get("/sales", saleHandler.List)
	admin.Get("/sales/:id", saleHandler.Get)
	admin.Patch("/sales/:id", adminOnly, saleHandler.Update)
	admin.Delete("/sales/:id", adminOnly, saleHandler.Delete)
	admin.Get("/sales/:id/payments", saleHandler.ListPayments)
	admin.Post("/sales/:id/payments", saleHandler.AddPayment)
	admin.Delete("/sales/:id/payments/:paymentId", adminOnly, saleHandler.DeletePayment)

	productHandler := NewProductHandler(deps.ProductUC)
	admin.Get("/products", productHandler.List)
	admin.Get("/products/:id", productHandler.GetByID)
	admin.Post("/products", adminOnly, productHandler.Create)
	admin.Put("/products/:id", adminOnly, productHandler.Update)
	admin.Delete("/products/:id", adminOnly, productHandler.Delete)
	admin.Post("/products/:id/stock", adminOnly, productHandler.AdjustStock)

	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	admin.Get("/categories", categoryHandler.List)
	admin.Post("/categories", adminOnly, categoryHandler.Create)
	admin.Put("/categories/:id", adminOnly, categoryHandler.Update)
	admin.Delete("/categories/:id", adminOnly, categoryHandler.Delete)

	promotionHandler := NewPromotionHandler(deps.PromotionUC)
	admin.Get("/promotions", promotionHandler.List)
	admin.Post("/promotions", adminOnly, promotionHandler.Create)
	admin.Put("/promotions/:id", adminOnly, promotionHandler.Update)
	admin.Delete("/promotions/:id", adminOnly, promotionHandler.Delete)

	customerHandler := NewCustomerHandler(deps.CustomersUC)
	admin.Get("/customers", customerHandler.List)
	admin.Get("/customers/:id", customerHandler.Get)
	admin.Put("/customers/:id", customerHandler.Update)
	admin.Delete("/customers/:id", adminOnly, customerHandler.Delete)
	admin.Get("/customers/:id/loyalty", customerHandler.GetLoyalty)
	admin.Post("/customers/:id/loyalty/recompute", adminOnly, customerHandler.RecomputeLoyalty)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	admin.Get("/dashboard", adminOnly, dashboardHandler.GetSummary)
}
