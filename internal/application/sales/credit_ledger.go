package sales

import (
	"context"
	"fmt"
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

// LedgerUseCase libro de crédito: abonos contra ventas y saldo pendiente.
// Invariante: is_paid == (suma de abonos >= total) después de cada operación.
type LedgerUseCase struct {
	tx       ports.TxRunner
	sales    repository.SaleRepository
	payments repository.PaymentRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso. sales y payments se usan para lecturas fuera de tx.
func NewLedgerUseCase(tx ports.TxRunner, sales repository.SaleRepository, payments repository.PaymentRepository, log zerolog.Logger) *LedgerUseCase {
	return &LedgerUseCase{tx: tx, sales: sales, payments: payments, log: log, now: time.Now}
}

// AddPayment registra un abono. El monto debe ser positivo y no puede superar el saldo
// pendiente (ErrOverpayment). Cuando el saldo llega a cero la venta queda pagada.
func (uc *LedgerUseCase) AddPayment(ctx context.Context, saleID string, in dto.AddPaymentRequest) (*dto.LedgerResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.Validation("el abono debe ser mayor a cero")
	}
	if !settlement.ValidMoney(in.Amount) {
		return nil, domain.Validation("el abono %s tiene más de dos decimales", in.Amount)
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
		paid := settlement.TotalPaid(payments).Add(in.Amount)
		if paid.GreaterThan(sale.Total) {
			return fmt.Errorf("%w (pendiente %s)", domain.ErrOverpayment,
				settlement.PendingBalance(sale.Total, payments).StringFixed(2))
		}

		p := &entity.Payment{
			ID:        uuid.New().String(),
			SaleID:    saleID,
			Amount:    in.Amount,
			Notes:     in.Notes,
			CreatedAt: uc.now(),
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			return err
		}
		payments = append(payments, p)

		if !paid.LessThan(sale.Total) && !sale.IsPaid {
			if err := r.Sales.UpdatePaymentState(ctx, saleID, sale.PaymentMethod, true); err != nil {
				return err
			}
			sale.IsPaid = true
		}
		ledger = dto.ToLedgerResponse(sale, payments)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("sale_id", saleID).
		Str("amount", in.Amount.StringFixed(2)).
		Str("pending", ledger.PendingBalance.StringFixed(2)).
		Bool("is_paid", ledger.Sale.IsPaid).
		Msg("abono registrado")
	return ledger, nil
}

// GetLedger devuelve la venta con sus abonos, total pagado y saldo pendiente.
func (uc *LedgerUseCase) GetLedger(ctx context.Context, saleID string) (*dto.LedgerResponse, error) {
	sale, err := uc.sales.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NotFound("venta", saleID)
	}
	payments, err := uc.payments.ListBySale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return dto.ToLedgerResponse(sale, payments), nil
}

// DeletePayment elimina un abono registrado por error y recalcula is_paid con los
// abonos restantes.
func (uc *LedgerUseCase) DeletePayment(ctx context.Context, saleID, paymentID string) (*dto.LedgerResponse, error) {
	var ledger *dto.LedgerResponse
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		sale, err := r.Sales.GetForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NotFound("venta", saleID)
		}
		p, err := r.Payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil || p.SaleID != saleID {
			return domain.NotFound("abono", paymentID)
		}
		if err := r.Payments.Delete(ctx, paymentID); err != nil {
			return err
		}
		remaining, err := r.Payments.ListBySale(ctx, saleID)
		if err != nil {
			return err
		}
		isPaid := !settlement.TotalPaid(remaining).LessThan(sale.Total)
		if isPaid != sale.IsPaid {
			if err := r.Sales.UpdatePaymentState(ctx, saleID, sale.PaymentMethod, isPaid); err != nil {
				return err
			}
			sale.IsPaid = isPaid
		}
		ledger = dto.ToLedgerResponse(sale, remaining)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("sale_id", saleID).
		Str("payment_id", paymentID).
		Bool("is_paid", ledger.Sale.IsPaid).
		Msg("abono eliminado")
	return ledger, nil
}
