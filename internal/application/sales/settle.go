// Package sales contiene los casos de uso que mueven dinero y stock: liquidación de
// órdenes, libro de crédito, reversión y consultas del libro de ventas.
package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/ports"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/loyalty"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
	"github.com/jhoicas/boutique-api/internal/domain/settlement"
)

const cashPaymentNote = "Pago de contado"

// OrderIntake puerto hacia la captura de órdenes (lo implementa orders.UseCase).
type OrderIntake interface {
	CreatePOSOrder(ctx context.Context, in dto.POSOrderRequest) (*dto.OrderResponse, error)
}

// SettlementUseCase convierte una orden pendiente en venta: descuenta stock, calcula
// costo y utilidad, registra el pago de contado y actualiza la tarjeta de sellos.
// Todo ocurre en una sola transacción.
type SettlementUseCase struct {
	tx     ports.TxRunner
	intake OrderIntake
	cache  ports.CatalogCache
	log    zerolog.Logger
	now    func() time.Time
}

// NewSettlementUseCase construye el caso de uso. intake solo se usa en CreatePOSSale.
func NewSettlementUseCase(tx ports.TxRunner, intake OrderIntake, cache ports.CatalogCache, log zerolog.Logger) *SettlementUseCase {
	return &SettlementUseCase{tx: tx, intake: intake, cache: cache, log: log, now: time.Now}
}

// Settle liquida la orden orderID.
//
// Errores: ErrValidation (método de pago, descuento, canje sin tarjeta completa),
// ErrNotFound (orden o producto), ErrConflict (orden ya procesada),
// ErrInsufficientStock (alguna línea supera el stock actual).
func (uc *SettlementUseCase) Settle(ctx context.Context, orderID string, in dto.SettleRequest) (*dto.SaleBundleResponse, error) {
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.Validation("método de pago %q no soportado", in.PaymentMethod)
	}
	if in.Discount.IsNegative() {
		return nil, domain.Validation("el descuento no puede ser negativo")
	}
	if !settlement.ValidMoney(in.Discount) {
		return nil, domain.Validation("el descuento %s tiene más de dos decimales", in.Discount)
	}

	var bundle *dto.SaleBundleResponse
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NotFound("orden", orderID)
		}
		if !order.IsPending() {
			return domain.Conflict("la orden %s ya fue procesada", orderID)
		}

		var customer *entity.Customer
		if !order.IsWalkIn() {
			customer, err = r.Customers.GetForUpdate(ctx, order.CustomerID)
			if err != nil {
				return err
			}
			if customer == nil {
				uc.log.Warn().Str("order_id", orderID).Str("customer_id", order.CustomerID).
					Msg("cliente de la orden ya no existe, se liquida como mostrador")
			}
		}

		discount := in.Discount
		if in.RedeemLoyalty {
			if customer == nil {
				return domain.Validation("el canje de sellos requiere un cliente registrado")
			}
			if !loyalty.CanRedeem(customer.LoyaltyStamps) {
				return domain.Validation("el cliente tiene %d de %d sellos", customer.LoyaltyStamps, loyalty.MaxStamps)
			}
			discount = discount.Add(settlement.LoyaltyDiscount(order.Total))
		}
		if discount.GreaterThan(order.Total) {
			return domain.Validation("el descuento %s supera el total %s", discount.StringFixed(2), order.Total.StringFixed(2))
		}

		costs, err := takeStock(ctx, r.Products, order.Items)
		if err != nil {
			return err
		}
		totals, err := settlement.Compute(order.Total, discount, order.Items, costs)
		if err != nil {
			return err
		}

		now := uc.now()
		sale := &entity.Sale{
			ID:              uuid.New().String(),
			OrderID:         order.ID,
			Total:           totals.FinalTotal,
			Discount:        totals.Discount,
			LoyaltyRedeemed: in.RedeemLoyalty,
			PaymentMethod:   in.PaymentMethod,
			IsPaid:          in.PaymentMethod == entity.PaymentMethodContado || totals.FinalTotal.IsZero(),
			TotalCost:       totals.TotalCost,
			TotalProfit:     totals.TotalProfit,
			CreatedAt:       now,
		}
		if customer != nil {
			sale.CustomerID = customer.ID
		}
		if err := r.Sales.Create(ctx, sale); err != nil {
			return err
		}

		var payments []*entity.Payment
		if in.PaymentMethod == entity.PaymentMethodContado && totals.FinalTotal.IsPositive() {
			p := &entity.Payment{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				Amount:    totals.FinalTotal,
				Notes:     cashPaymentNote,
				CreatedAt: now,
			}
			if err := r.Payments.Create(ctx, p); err != nil {
				return err
			}
			payments = append(payments, p)
		}

		if err := r.Orders.UpdateStatus(ctx, order.ID, entity.OrderStatusProcessed); err != nil {
			return err
		}
		order.Status = entity.OrderStatusProcessed

		if customer != nil {
			if err := applyLoyalty(ctx, r, customer, sale, now); err != nil {
				return err
			}
		}

		bundle = dto.ToSaleBundle(customer, order, sale, payments)
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateCatalog(ctx, uc.cache, uc.log)
	uc.log.Info().
		Str("order_id", orderID).
		Str("sale_id", bundle.Sale.ID).
		Str("payment_method", bundle.Sale.PaymentMethod).
		Str("total", bundle.Sale.Total.StringFixed(2)).
		Str("discount", bundle.Sale.Discount.StringFixed(2)).
		Bool("loyalty_redeemed", bundle.Sale.LoyaltyRedeemed).
		Msg("orden liquidada")
	return bundle, nil
}

// CreatePOSSale crea la orden del punto de venta y la liquida de inmediato.
// Si la liquidación falla, la orden pendiente recién creada se elimina y se devuelve
// el error de la liquidación.
func (uc *SettlementUseCase) CreatePOSSale(ctx context.Context, in dto.POSSaleRequest) (*dto.SaleBundleResponse, error) {
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.Validation("método de pago %q no soportado", in.PaymentMethod)
	}
	if in.Discount.IsNegative() {
		return nil, domain.Validation("el descuento no puede ser negativo")
	}
	order, err := uc.intake.CreatePOSOrder(ctx, in.POSOrderRequest)
	if err != nil {
		return nil, err
	}
	bundle, err := uc.Settle(ctx, order.ID, in.SettleRequest)
	if err == nil {
		return bundle, nil
	}

	// Compensación: la orden nunca tomó stock, basta con borrarla.
	// Se usa un contexto propio para poder limpiar aunque el del request haya expirado.
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if cerr := uc.tx.Run(cleanupCtx, func(r repository.TxRepos) error {
		return r.Orders.Delete(cleanupCtx, order.ID)
	}); cerr != nil {
		uc.log.Error().Err(cerr).Str("order_id", order.ID).Msg("no se pudo eliminar la orden POS tras fallar la liquidación")
	}
	return nil, err
}

// takeStock lee el costo vigente y descuenta el stock de cada producto de la orden.
// Los productos se recorren en orden de id para que dos liquidaciones concurrentes
// bloqueen las filas en el mismo orden.
func takeStock(ctx context.Context, products repository.ProductRepository, items []entity.OrderItem) (map[string]decimal.Decimal, error) {
	units := settlement.UnitsByProduct(items)
	ids := make([]string, 0, len(units))
	for id := range units {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	costs := make(map[string]decimal.Decimal, len(ids))
	for _, id := range ids {
		if err := products.DecrementStock(ctx, id, units[id]); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil, &StockError{ProductID: id, Requested: units[id], err: err}
			}
			return nil, err
		}
		p, err := products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NotFound("producto", id)
		}
		costs[id] = p.Cost
	}
	return costs, nil
}

// StockError detalla qué producto no tenía stock suficiente. Envuelve domain.ErrInsufficientStock.
type StockError struct {
	ProductID string
	Requested int
	err       error
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%v: producto %s (%d unidades)", e.err, e.ProductID, e.Requested)
}

func (e *StockError) Unwrap() error { return e.err }

// applyLoyalty agrega el evento de fidelización y guarda el contador derivado.
func applyLoyalty(ctx context.Context, r repository.TxRepos, customer *entity.Customer, sale *entity.Sale, now time.Time) error {
	event := &entity.LoyaltyEvent{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		SaleID:     sale.ID,
		Kind:       loyalty.EventKind(sale.LoyaltyRedeemed),
		CreatedAt:  now,
	}
	if err := r.Loyalty.Append(ctx, event); err != nil {
		return err
	}
	next := loyalty.Next(customer.LoyaltyStamps, sale.LoyaltyRedeemed)
	if err := r.Customers.UpdateStamps(ctx, customer.ID, next); err != nil {
		return err
	}
	customer.LoyaltyStamps = next
	return nil
}

func invalidateCatalog(ctx context.Context, cache ports.CatalogCache, log zerolog.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar la caché del catálogo")
	}
}
