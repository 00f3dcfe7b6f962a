package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/ports"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
	"github.com/jhoicas/boutique-api/internal/domain/settlement"
)

const dateLayout = "2006-01-02"

// QueryUseCase libro de ventas: listado, datos de factura y edición del método de pago.
type QueryUseCase struct {
	tx        ports.TxRunner
	sales     repository.SaleRepository
	orders    repository.OrderRepository
	customers repository.CustomerRepository
	payments  repository.PaymentRepository
	log       zerolog.Logger
	now       func() time.Time
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(
	tx ports.TxRunner,
	sales repository.SaleRepository,
	orders repository.OrderRepository,
	customers repository.CustomerRepository,
	payments repository.PaymentRepository,
	log zerolog.Logger,
) *QueryUseCase {
	return &QueryUseCase{
		tx:        tx,
		sales:     sales,
		orders:    orders,
		customers: customers,
		payments:  payments,
		log:       log,
		now:       time.Now,
	}
}

// List lista ventas con filtros de pago, método, cliente y rango de fechas (To inclusivo).
func (uc *QueryUseCase) List(ctx context.Context, q dto.SaleListQuery) (*dto.SaleListResponse, error) {
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()
	filter := repository.SaleFilter{
		PaymentMethod: q.PaymentMethod,
		CustomerID:    q.CustomerID,
		Limit:         page.Limit,
		Offset:        page.Offset,
	}
	switch q.Paid {
	case "true":
		paid := true
		filter.Paid = &paid
	case "false":
		paid := false
		filter.Paid = &paid
	case "":
	default:
		return nil, domain.Validation("paid debe ser true o false")
	}
	if q.From != "" {
		from, err := time.ParseInLocation(dateLayout, q.From, time.Local)
		if err != nil {
			return nil, domain.Validation("fecha from inválida: %s", q.From)
		}
		filter.From = from
	}
	if q.To != "" {
		to, err := time.ParseInLocation(dateLayout, q.To, time.Local)
		if err != nil {
			return nil, domain.Validation("fecha to inválida: %s", q.To)
		}
		filter.To = to.Add(24*time.Hour - time.Nanosecond)
	}

	list, err := uc.sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		items = append(items, dto.ToSaleResponse(s))
	}
	return &dto.SaleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// GetBundle devuelve los datos de la factura de una venta.
func (uc *QueryUseCase) GetBundle(ctx context.Context, saleID string) (*dto.SaleBundleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NotFound("venta", saleID)
	}
	order, err := uc.orders.GetByID(ctx, sale.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.Invariant("la venta %s apunta a una orden inexistente", saleID)
	}
	var customer *entity.Customer
	if sale.CustomerID != "" {
		if customer, err = uc.customers.GetByID(ctx, sale.CustomerID); err != nil {
			return nil, err
		}
	}
	payments, err := uc.payments.ListBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return dto.ToSaleBundle(customer, order, sale, payments), nil
}

// UpdatePaymentMethod cambia el método de pago de una venta.
// Pasar a Contado liquida el saldo pendiente con un abono; pasar a Crédito recalcula
// is_paid con los abonos existentes.
func (uc *QueryUseCase) UpdatePaymentMethod(ctx context.Context, saleID string, in dto.UpdateSaleRequest) (*dto.LedgerResponse, error) {
	if !entity.ValidPaymentMethod(in.PaymentMethod) {
		return nil, domain.Validation("método de pago %q no soportado", in.PaymentMethod)
	}
	var ledger *dto.LedgerResponse
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		sale, err := r.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NotFound("venta", saleID)
		}
		payments, err := r.Payments.ListBySale(ctx, saleID)
		if err != nil {
			return err
		}

		if in.PaymentMethod == entity.PaymentMethodContado {
			pending := settlement.PendingBalance(sale.Total, payments)
			if pending.IsPositive() {
				p := &entity.Payment{
					ID:        uuid.New().String(),
					SaleID:    saleID,
					Amount:    pending,
					Notes:     "Saldo liquidado al cambiar a contado",
					CreatedAt: uc.now(),
				}
				if err := r.Payments.Create(ctx, p); err != nil {
					return err
				}
				payments = append(payments, p)
			}
		}
		isPaid := !settlement.TotalPaid(payments).LessThan(sale.Total)
		if err := r.Sales.UpdatePaymentState(ctx, saleID, in.PaymentMethod, isPaid); err != nil {
			return err
		}
		sale.PaymentMethod = in.PaymentMethod
		sale.IsPaid = isPaid
		ledger = dto.ToLedgerResponse(sale, payments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sale_id", saleID).Str("payment_method", in.PaymentMethod).
		Bool("is_paid", ledger.Sale.IsPaid).Msg("método de pago actualizado")
	return ledger, nil
}
