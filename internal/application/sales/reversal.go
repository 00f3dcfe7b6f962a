package sales

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/ports"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
	"github.com/jhoicas/boutique-api/internal/domain/settlement"
)

// ReversalTarget identifica qué revertir. Debe venir exactamente uno de los dos ids.
type ReversalTarget struct {
	OrderID string
	SaleID  string
}

// ReversalUseCase deshace una orden (y su venta si ya se liquidó): repone el stock una
// sola vez, borra abonos, venta y orden. Ambos puntos de entrada (eliminar orden,
// eliminar venta) pasan por Reverse.
type ReversalUseCase struct {
	tx    ports.TxRunner
	sales repository.SaleRepository
	cache ports.CatalogCache
	log   zerolog.Logger
	now   func() time.Time
}

// NewReversalUseCase construye el caso de uso. sales se usa para resolver venta -> orden sin bloquear.
func NewReversalUseCase(tx ports.TxRunner, sales repository.SaleRepository, cache ports.CatalogCache, log zerolog.Logger) *ReversalUseCase {
	return &ReversalUseCase{tx: tx, sales: sales, cache: cache, log: log, now: time.Now}
}

// Reverse ejecuta la reversión. Una segunda reversión del mismo objetivo devuelve
// ErrNotFound y no vuelve a reponer stock.
func (uc *ReversalUseCase) Reverse(ctx context.Context, target ReversalTarget) (*dto.ReversalResponse, error) {
	if (target.OrderID == "") == (target.SaleID == "") {
		return nil, domain.Validation("indique la orden o la venta a revertir")
	}

	entryPoint := entity.ReversalFromOrder
	orderID := target.OrderID
	if target.SaleID != "" {
		entryPoint = entity.ReversalFromSale
		// Se resuelve la orden sin bloquear; dentro de la tx se bloquea orden y luego venta,
		// el mismo orden que usa la liquidación.
		sale, err := uc.sales.GetByID(ctx, target.SaleID)
		if err != nil {
			return nil, err
		}
		if sale == nil {
			return nil, domain.NotFound("venta", target.SaleID)
		}
		orderID = sale.OrderID
	}

	var out *dto.ReversalResponse
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NotFound("orden", orderID)
		}

		res := &dto.ReversalResponse{
			OrderID:    order.ID,
			EntryPoint: entryPoint,
			Restocked:  []dto.RestockLine{},
		}
		restocked := 0

		if !order.IsPending() {
			sale, err := r.Sales.GetByOrderID(ctx, order.ID)
			if err != nil {
				return err
			}
			if sale == nil {
				return domain.Invariant("la orden procesada %s no tiene venta", order.ID)
			}
			if target.SaleID != "" && sale.ID != target.SaleID {
				return domain.NotFound("venta", target.SaleID)
			}
			if sale, err = r.Sales.GetForUpdate(ctx, sale.ID); err != nil {
				return err
			}
			if sale == nil {
				return domain.NotFound("venta", target.SaleID)
			}
			res.SaleID = sale.ID

			lines, n, err := uc.restock(ctx, r.Products, order)
			if err != nil {
				return err
			}
			res.Restocked = lines
			restocked = n

			if res.DeletedPayments, err = r.Payments.DeleteBySale(ctx, sale.ID); err != nil {
				return err
			}
			if err := r.Sales.Delete(ctx, sale.ID); err != nil {
				return err
			}
		}

		err = r.Reversals.Create(ctx, &entity.Reversal{
			OrderID:        order.ID,
			SaleID:         res.SaleID,
			EntryPoint:     entryPoint,
			RestockedUnits: restocked,
			CreatedAt:      uc.now(),
		})
		if errors.Is(err, domain.ErrDuplicate) {
			return domain.NotFound("orden", order.ID)
		}
		if err != nil {
			return err
		}
		if err := r.Orders.Delete(ctx, order.ID); err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.SaleID != "" {
		invalidateCatalog(ctx, uc.cache, uc.log)
	}
	uc.log.Info().
		Str("order_id", out.OrderID).
		Str("sale_id", out.SaleID).
		Str("entry_point", out.EntryPoint).
		Int("deleted_payments", out.DeletedPayments).
		Int("restocked_products", len(out.Restocked)).
		Msg("orden revertida")
	return out, nil
}

// restock devuelve al inventario las unidades de cada producto de la orden.
// Un producto eliminado del catálogo no se puede reponer: se omite y se registra.
func (uc *ReversalUseCase) restock(ctx context.Context, products repository.ProductRepository, order *entity.Order) ([]dto.RestockLine, int, error) {
	units := settlement.UnitsByProduct(order.Items)
	ids := make([]string, 0, len(units))
	for id := range units {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := make([]dto.RestockLine, 0, len(ids))
	total := 0
	for _, id := range ids {
		line := dto.RestockLine{ProductID: id, Units: units[id]}
		err := products.IncrementStock(ctx, id, units[id])
		switch {
		case errors.Is(err, domain.ErrNotFound):
			line.Skipped = true
			uc.log.Warn().Str("order_id", order.ID).Str("product_id", id).Int("units", units[id]).
				Msg("producto eliminado, no se repone stock")
		case err != nil:
			return nil, 0, err
		default:
			total += units[id]
		}
		lines = append(lines, line)
	}
	return lines, total, nil
}
