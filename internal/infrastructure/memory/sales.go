package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

var (
	_ repository.OrderRepository    = (*OrderRepo)(nil)
	_ repository.SaleRepository     = (*SaleRepo)(nil)
	_ repository.PaymentRepository  = (*PaymentRepo)(nil)
	_ repository.ReversalRepository = (*ReversalRepo)(nil)
)

// OrderRepo implementación en memoria de OrderRepository.
type OrderRepo struct{ v view }

// Create persiste la orden con una copia de sus líneas.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.orders[o.ID]; ok {
			return domain.ErrDuplicate
		}
		cp := *o
		cp.Items = copyItems(o.Items)
		st.orders[o.ID] = cp
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.v.do(ctx, func(st *state) error {
		if o, ok := st.orders[id]; ok {
			o.Items = copyItems(o.Items)
			out = &o
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: la transacción ya tiene acceso exclusivo.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

// UpdateStatus cambia el estado de la orden.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return r.v.do(ctx, func(st *state) error {
		o, ok := st.orders[id]
		if !ok {
			return domain.NotFound("orden", id)
		}
		o.Status = status
		st.orders[id] = o
		return nil
	})
}

// List ordena de la más reciente a la más antigua.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.v.do(ctx, func(st *state) error {
		var list []entity.Order
		for _, o := range st.orders {
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.CustomerID != "" && o.CustomerID != f.CustomerID {
				continue
			}
			list = append(list, o)
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
		for _, o := range paginate(list, f.Limit, f.Offset) {
			o.Items = copyItems(o.Items)
			out = append(out, &o)
		}
		return nil
	})
	return out, err
}

// Delete elimina la orden. Falla si todavía tiene venta (como la FK en PostgreSQL).
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	return r.v.do(ctx, func(st *state) error {
		for _, s := range st.sales {
			if s.OrderID == id {
				return domain.Conflict("la orden %s tiene venta asociada", id)
			}
		}
		delete(st.orders, id)
		return nil
	})
}

// SaleRepo implementación en memoria de SaleRepository.
type SaleRepo struct{ v view }

// Create persiste la venta. Una orden solo puede tener una venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.orders[s.OrderID]; !ok {
			return domain.NotFound("orden", s.OrderID)
		}
		for _, other := range st.sales {
			if other.OrderID == s.OrderID {
				return domain.ErrDuplicate
			}
		}
		st.sales[s.ID] = *s
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.v.do(ctx, func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID dentro de la transacción.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

// GetByOrderID devuelve la venta de la orden o (nil, nil).
func (r *SaleRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.v.do(ctx, func(st *state) error {
		for _, s := range st.sales {
			if s.OrderID == orderID {
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

// UpdatePaymentState actualiza método y bandera de pagado.
func (r *SaleRepo) UpdatePaymentState(ctx context.Context, id, method string, isPaid bool) error {
	return r.v.do(ctx, func(st *state) error {
		s, ok := st.sales[id]
		if !ok {
			return domain.NotFound("venta", id)
		}
		s.PaymentMethod = method
		s.IsPaid = isPaid
		st.sales[id] = s
		return nil
	})
}

// List ordena de la más reciente a la más antigua. From/To en cero no filtran.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.v.do(ctx, func(st *state) error {
		var list []entity.Sale
		for _, s := range st.sales {
			if f.Paid != nil && s.IsPaid != *f.Paid {
				continue
			}
			if f.PaymentMethod != "" && s.PaymentMethod != f.PaymentMethod {
				continue
			}
			if f.CustomerID != "" && s.CustomerID != f.CustomerID {
				continue
			}
			if !f.From.IsZero() && s.CreatedAt.Before(f.From) {
				continue
			}
			if !f.To.IsZero() && s.CreatedAt.After(f.To) {
				continue
			}
			list = append(list, s)
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
		for _, s := range paginate(list, f.Limit, f.Offset) {
			out = append(out, &s)
		}
		return nil
	})
	return out, err
}

// CountByCustomer cuenta las ventas del cliente.
func (r *SaleRepo) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	n := 0
	err := r.v.do(ctx, func(st *state) error {
		for _, s := range st.sales {
			if s.CustomerID == customerID {
				n++
			}
		}
		return nil
	})
	return n, err
}

// Delete elimina la venta. Falla si todavía tiene abonos.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	return r.v.do(ctx, func(st *state) error {
		for _, p := range st.payments {
			if p.SaleID == id {
				return domain.Conflict("la venta %s tiene abonos", id)
			}
		}
		delete(st.sales, id)
		return nil
	})
}

// PaymentRepo implementación en memoria de PaymentRepository.
type PaymentRepo struct{ v view }

// Create persiste un abono de una venta existente.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.sales[p.SaleID]; !ok {
			return domain.NotFound("venta", p.SaleID)
		}
		if !p.Amount.IsPositive() {
			return domain.Validation("el abono debe ser mayor a cero")
		}
		st.payments[p.ID] = *p
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	var out *entity.Payment
	err := r.v.do(ctx, func(st *state) error {
		if p, ok := st.payments[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// ListBySale devuelve los abonos en orden cronológico.
func (r *PaymentRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	err := r.v.do(ctx, func(st *state) error {
		var list []entity.Payment
		for _, p := range st.payments {
			if p.SaleID == saleID {
				list = append(list, p)
			}
		}
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].ID < list[j].ID
			}
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		})
		for _, p := range list {
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

// Delete elimina un abono.
func (r *PaymentRepo) Delete(ctx context.Context, id string) error {
	return r.v.do(ctx, func(st *state) error {
		delete(st.payments, id)
		return nil
	})
}

// DeleteBySale elimina los abonos de la venta.
func (r *PaymentRepo) DeleteBySale(ctx context.Context, saleID string) (int, error) {
	n := 0
	err := r.v.do(ctx, func(st *state) error {
		for id, p := range st.payments {
			if p.SaleID == saleID {
				delete(st.payments, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

// ReversalRepo implementación en memoria de ReversalRepository.
type ReversalRepo struct{ v view }

// Create registra la reversión; ErrDuplicate si la orden ya fue revertida.
func (r *ReversalRepo) Create(ctx context.Context, rev *entity.Reversal) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.reversals[rev.OrderID]; ok {
			return domain.ErrDuplicate
		}
		st.reversals[rev.OrderID] = *rev
		return nil
	})
}

// GetByOrderID devuelve (nil, nil) si la orden no fue revertida.
func (r *ReversalRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Reversal, error) {
	var out *entity.Reversal
	err := r.v.do(ctx, func(st *state) error {
		if rev, ok := st.reversals[orderID]; ok {
			out = &rev
		}
		return nil
	})
	return out, err
}
