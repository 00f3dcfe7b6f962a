package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/boutique-api/internal/application/analytics"
	"github.com/jhoicas/boutique-api/internal/application/auth"
	"github.com/jhoicas/boutique-api/internal/application/catalog"
	"github.com/jhoicas/boutique-api/internal/application/customers"
	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/orders"
	"github.com/jhoicas/boutique-api/internal/application/sales"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/infrastructure/cache"
	"github.com/jhoicas/boutique-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/boutique-api/internal/interfaces/http"
	"github.com/jhoicas/boutique-api/pkg/whatsapp"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type apiFixture struct {
	t     *testing.T
	app   *fiber.App
	store *memory.Store
	admin string
}

// newAPI arma la app completa sobre el store en memoria, igual que cmd/api con STORE_DRIVER=memory.
func newAPI(t *testing.T, health map[string]apphttp.Pinger) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()
	noop := cache.NewNoop()

	categoryUC := catalog.NewCategoryUseCase(store.Categories(), noop, log)
	promotionUC := catalog.NewPromotionUseCase(store.Promotions(), store.Products(), noop, log)
	ordersUC := orders.NewUseCase(store, store.Orders(), store.Products(), store.Promotions(), store.Customers(),
		whatsapp.NewBuilder("Boutique", "573001112233"), log)
	reversalUC := sales.NewReversalUseCase(store, store.Sales(), noop, log)
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer})

	app := apphttp.NewServer(apphttp.ServerConfig{AppName: "test", RequestTimeout: 5 * time.Second, Log: log})
	apphttp.Router(app, apphttp.RouterDeps{
		StorefrontUC: catalog.NewStorefrontUseCase(store.Products(), categoryUC, promotionUC, noop, log),
		ProductUC:    catalog.NewProductUseCase(store.Products(), store.Categories(), noop, log),
		CategoryUC:   categoryUC,
		PromotionUC:  promotionUC,
		OrdersUC:     ordersUC,
		SettleUC:     sales.NewSettlementUseCase(store, ordersUC, noop, log),
		LedgerUC:     sales.NewLedgerUseCase(store, store.Sales(), store.Payments(), log),
		ReversalUC:   reversalUC,
		SalesQueryUC: sales.NewQueryUseCase(store, store.Sales(), store.Orders(), store.Customers(), store.Payments(), log),
		CustomersUC:  customers.NewUseCase(store, store.Customers(), store.Sales(), store.Loyalty(), log),
		AuthUC:       authUC,
		DashboardUC:  appanalytics.NewDashboardUseCase(store.Analytics()),
		JWTSecret:    testJWTSecret,
		Health:       health,
	})

	ctx := context.Background()
	_, err := authUC.EnsureUser(ctx, "admin@tienda.co", "clave-segura", "Admin", entity.RoleAdmin)
	require.NoError(t, err)
	_, err = authUC.EnsureUser(ctx, "vendedora@tienda.co", "clave-segura", "Vendedora", entity.RoleSeller)
	require.NoError(t, err)

	f := &apiFixture{t: t, app: app, store: store}
	f.admin = f.login("admin@tienda.co")
	return f
}

func (f *apiFixture) do(method, path, token string, body any) (int, []byte, http.Header) {
	f.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(f.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(f.t, err)
	return resp.StatusCode, raw, resp.Header
}

func (f *apiFixture) decode(raw []byte, dst any) {
	f.t.Helper()
	require.NoError(f.t, json.Unmarshal(raw, dst), string(raw))
}

func (f *apiFixture) login(email string) string {
	f.t.Helper()
	status, raw, _ := f.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: "clave-segura"})
	require.Equal(f.t, http.StatusOK, status, string(raw))
	var out dto.LoginResponse
	f.decode(raw, &out)
	return out.Token
}

func (f *apiFixture) createProduct(name string, price, cost int64, stock int) dto.ProductResponse {
	f.t.Helper()
	status, raw, _ := f.do(http.MethodPost, "/api/admin/products", f.admin, dto.CreateProductRequest{
		Name: name, Price: decimal.NewFromInt(price), Cost: decimal.NewFromInt(cost), Stock: stock,
	})
	require.Equal(f.t, http.StatusCreated, status, string(raw))
	var p dto.ProductResponse
	f.decode(raw, &p)
	return p
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &e), string(raw))
	return e.Code
}

func TestStorefront_CatalogoYCheckout(t *testing.T) {
	f := newAPI(t, nil)
	p := f.createProduct("Blusa lino", 50000, 20000, 4)

	status, raw, _ := f.do(http.MethodGet, "/api/store/products", "", nil)
	require.Equal(t, http.StatusOK, status)
	var list dto.ProductListResponse
	f.decode(raw, &list)
	require.Len(t, list.Items, 1)
	assert.Nil(t, list.Items[0].Cost, "la tienda pública no expone el costo")

	status, raw, _ = f.do(http.MethodPost, "/api/store/checkout", "", dto.CheckoutRequest{
		Customer:     dto.CheckoutCustomer{Name: "Ana", Phone: "3001234567"},
		DeliveryMode: "pickup",
		Items:        []dto.OrderItemRequest{{ProductID: p.ID, Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var out dto.CheckoutResponse
	f.decode(raw, &out)
	assert.Equal(t, entity.OrderStatusPending, out.Order.Status)
	assert.True(t, out.Order.Total.Equal(decimal.NewFromInt(100000)))
	assert.Contains(t, out.WhatsAppURL, "wa.me/573001112233")

	// checkout no toca stock
	status, raw, _ = f.do(http.MethodGet, "/api/store/products/"+p.ID, "", nil)
	require.Equal(t, http.StatusOK, status)
	var got dto.ProductResponse
	f.decode(raw, &got)
	assert.Equal(t, 4, got.Stock)
}

func TestStorefront_CheckoutInvalido(t *testing.T) {
	f := newAPI(t, nil)

	status, raw, _ := f.do(http.MethodPost, "/api/store/checkout", "", dto.CheckoutRequest{
		Customer:     dto.CheckoutCustomer{Name: "Ana", Phone: "3001234567"},
		DeliveryMode: "pickup",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", errorCode(t, raw))
	assert.Contains(t, string(raw), "items")

	status, raw, _ = f.do(http.MethodPost, "/api/store/checkout", "", dto.CheckoutRequest{
		Customer:     dto.CheckoutCustomer{Name: "Ana", Phone: "3001234567"},
		DeliveryMode: "pickup",
		Items:        []dto.OrderItemRequest{{ProductID: "no-existe", Quantity: 1}},
	})
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}

func TestAdmin_RequiereToken(t *testing.T) {
	f := newAPI(t, nil)
	status, raw, _ := f.do(http.MethodGet, "/api/admin/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, raw))

	status, raw, _ = f.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@tienda.co", Password: "otra"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, raw))
}

func TestAdmin_VendedoraNoRevierteNiEditaCatalogo(t *testing.T) {
	f := newAPI(t, nil)
	seller := f.login("vendedora@tienda.co")

	status, _, _ := f.do(http.MethodGet, "/api/admin/sales", seller, nil)
	assert.Equal(t, http.StatusOK, status)

	for _, tc := range []struct{ method, path string }{
		{http.MethodDelete, "/api/admin/sales/s-1"},
		{http.MethodDelete, "/api/admin/orders/o-1"},
		{http.MethodPost, "/api/admin/products"},
		{http.MethodGet, "/api/admin/dashboard"},
	} {
		status, raw, _ := f.do(tc.method, tc.path, seller, nil)
		assert.Equal(t, http.StatusForbidden, status, tc.path)
		assert.Equal(t, "FORBIDDEN", errorCode(t, raw))
	}
}

func TestAdmin_CreditoAbonosYReversion(t *testing.T) {
	f := newAPI(t, nil)
	p := f.createProduct("Vestido", 80000, 30000, 5)

	status, raw, _ := f.do(http.MethodPost, "/api/admin/orders", f.admin, dto.POSOrderRequest{
		Items: []dto.OrderItemRequest{{ProductID: p.ID, Quantity: 2}},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var order dto.OrderResponse
	f.decode(raw, &order)

	status, raw, _ = f.do(http.MethodPost, "/api/admin/orders/"+order.ID+"/settle", f.admin, dto.SettleRequest{PaymentMethod: entity.PaymentMethodCredito})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var bundle dto.SaleBundleResponse
	f.decode(raw, &bundle)
	saleID := bundle.Sale.ID
	assert.False(t, bundle.Sale.IsPaid)
	assert.True(t, bundle.PendingBalance.Equal(decimal.NewFromInt(160000)))

	// liquidar dos veces es conflicto
	status, raw, _ = f.do(http.MethodPost, "/api/admin/orders/"+order.ID+"/settle", f.admin, dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", errorCode(t, raw))

	status, raw, _ = f.do(http.MethodPost, "/api/admin/sales/"+saleID+"/payments", f.admin, dto.AddPaymentRequest{Amount: decimal.NewFromInt(200000)})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "OVERPAYMENT", errorCode(t, raw))

	status, raw, _ = f.do(http.MethodPost, "/api/admin/sales/"+saleID+"/payments", f.admin, dto.AddPaymentRequest{Amount: decimal.NewFromInt(60000)})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var ledger dto.LedgerResponse
	f.decode(raw, &ledger)
	assert.True(t, ledger.PendingBalance.Equal(decimal.NewFromInt(100000)))

	status, raw, _ = f.do(http.MethodDelete, "/api/admin/sales/"+saleID, f.admin, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var rev dto.ReversalResponse
	f.decode(raw, &rev)
	assert.Equal(t, 1, rev.DeletedPayments)

	status, raw, _ = f.do(http.MethodGet, "/api/admin/products/"+p.ID, f.admin, nil)
	require.Equal(t, http.StatusOK, status)
	var got dto.ProductResponse
	f.decode(raw, &got)
	assert.Equal(t, 5, got.Stock, "la reversión repone el stock")

	// la otra puerta de entrada ya no encuentra nada
	status, raw, _ = f.do(http.MethodDelete, "/api/admin/orders/"+order.ID, f.admin, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}

func TestAdmin_VentaPOSSinStock(t *testing.T) {
	f := newAPI(t, nil)
	p := f.createProduct("Bolso", 120000, 60000, 1)

	in := dto.POSSaleRequest{
		POSOrderRequest: dto.POSOrderRequest{Items: []dto.OrderItemRequest{{ProductID: p.ID, Quantity: 3}}},
		SettleRequest:   dto.SettleRequest{PaymentMethod: entity.PaymentMethodContado},
	}
	status, raw, _ := f.do(http.MethodPost, "/api/admin/pos/sales", f.admin, in)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, raw))

	status, raw, _ = f.do(http.MethodGet, "/api/admin/orders", f.admin, nil)
	require.Equal(t, http.StatusOK, status)
	var list dto.OrderListResponse
	f.decode(raw, &list)
	assert.Empty(t, list.Items, "la orden compensada no queda pendiente")
}

func TestAdmin_QueryInvalido(t *testing.T) {
	f := newAPI(t, nil)
	status, raw, _ := f.do(http.MethodGet, "/api/admin/sales?payment_method=Tarjeta", f.admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "payment_method")

	status, _, _ = f.do(http.MethodGet, "/api/admin/customers?limit=500", f.admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealth(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	f := newAPI(t, map[string]apphttp.Pinger{"database": ok})
	status, raw, _ := f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"database":"connected"`)

	f = newAPI(t, map[string]apphttp.Pinger{"database": ok, "redis": down})
	status, raw, _ = f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, string(raw), `"redis":"error"`)
	assert.NotContains(t, string(raw), "refused")
}
