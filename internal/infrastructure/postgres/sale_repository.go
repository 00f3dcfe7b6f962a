package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

var (
	_ repository.SaleRepository     = (*SaleRepo)(nil)
	_ repository.PaymentRepository  = (*PaymentRepo)(nil)
	_ repository.ReversalRepository = (*ReversalRepo)(nil)
)

const saleColumns = `id, order_id, COALESCE(customer_id, ''), total, discount, loyalty_redeemed,
	payment_method, is_paid, total_cost, total_profit, created_at`

// SaleRepo persiste las ventas (una por orden liquidada).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.OrderID, &s.CustomerID, &s.Total, &s.Discount, &s.LoyaltyRedeemed,
		&s.PaymentMethod, &s.IsPaid, &s.TotalCost, &s.TotalProfit, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste la venta. ErrDuplicate si la orden ya tiene venta (UNIQUE order_id).
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (id, order_id, customer_id, total, discount, loyalty_redeemed,
			payment_method, is_paid, total_cost, total_profit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.OrderID, nullable(s.CustomerID), s.Total, s.Discount, s.LoyaltyRedeemed,
		s.PaymentMethod, s.IsPaid, s.TotalCost, s.TotalProfit, s.CreatedAt)
	switch violatedConstraint(err) {
	case "sales_order_id_fkey":
		return domain.NotFound("orden", s.OrderID)
	case "sales_customer_id_fkey":
		return domain.NotFound("cliente", s.CustomerID)
	}
	return translate(err, "insert sale")
}

// GetByID (nil, nil) si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la venta; los abonos concurrentes se serializan aquí.
func (r *SaleRepo) GetForUpdate(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id)
}

// GetByOrderID venta de la orden, (nil, nil) si la orden no está liquidada.
func (r *SaleRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE order_id = $1`, orderID)
}

func (r *SaleRepo) getOne(ctx context.Context, sql, arg string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, sql, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "get sale")
	}
	return s, nil
}

// UpdatePaymentState actualiza método y bandera de pagado.
func (r *SaleRepo) UpdatePaymentState(ctx context.Context, id, method string, isPaid bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE sales SET payment_method = $2, is_paid = $3 WHERE id = $1`, id, method, isPaid)
	if err != nil {
		return translate(err, "update sale payment state")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("venta", id)
	}
	return nil
}

// List ordena de la más reciente a la más antigua. From/To en cero no filtran.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]*entity.Sale, error) {
	var w where
	if f.Paid != nil {
		w.add("is_paid = ?", *f.Paid)
	}
	if f.PaymentMethod != "" {
		w.add("payment_method = ?", f.PaymentMethod)
	}
	if f.CustomerID != "" {
		w.add("customer_id = ?", f.CustomerID)
	}
	if !f.From.IsZero() {
		w.add("created_at >= ?", f.From)
	}
	if !f.To.IsZero() {
		w.add("created_at <= ?", f.To)
	}
	page, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales`+w.String()+` ORDER BY created_at DESC, id`+page, args...)
	if err != nil {
		return nil, translate(err, "list sales")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Sale, error) {
		return scanSale(row)
	})
	return out, translate(err, "scan sales")
}

// CountByCustomer cuenta las ventas del cliente.
func (r *SaleRepo) CountByCustomer(ctx context.Context, customerID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE customer_id = $1`, customerID).Scan(&n)
	return n, translate(err, "count sales")
}

// Delete elimina la venta. ErrConflict si todavía tiene abonos.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return domain.Conflict("la venta %s tiene abonos", id)
	}
	return translate(err, "delete sale")
}

// PaymentRepo persiste los abonos del libro de crédito.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentColumns = `id, sale_id, amount, notes, created_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	if err := row.Scan(&p.ID, &p.SaleID, &p.Amount, &p.Notes, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un abono de una venta existente.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	if !p.Amount.IsPositive() {
		return domain.Validation("el abono debe ser mayor a cero")
	}
	_, err := r.q.Exec(ctx, `INSERT INTO payments (`+paymentColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.SaleID, p.Amount, p.Notes, p.CreatedAt)
	if isForeignKeyViolation(err) {
		return domain.NotFound("venta", p.SaleID)
	}
	return translate(err, "insert payment")
}

// GetByID (nil, nil) si no existe.
func (r *PaymentRepo) GetByID(ctx context.Context, id string) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "get payment")
	}
	return p, nil
}

// ListBySale devuelve los abonos en orden cronológico.
func (r *PaymentRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+paymentColumns+` FROM payments WHERE sale_id = $1 ORDER BY created_at, id`, saleID)
	if err != nil {
		return nil, translate(err, "list payments")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Payment, error) {
		return scanPayment(row)
	})
	return out, translate(err, "scan payments")
}

// Delete elimina un abono.
func (r *PaymentRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	return translate(err, "delete payment")
}

// DeleteBySale elimina los abonos de la venta y devuelve cuántos borró.
func (r *PaymentRepo) DeleteBySale(ctx context.Context, saleID string) (int, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM payments WHERE sale_id = $1`, saleID)
	if err != nil {
		return 0, translate(err, "delete payments")
	}
	return int(tag.RowsAffected()), nil
}

// ReversalRepo registro de intención de las reversiones.
type ReversalRepo struct {
	q Querier
}

// NewReversalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReversalRepository(q Querier) *ReversalRepo {
	return &ReversalRepo{q: q}
}

// Create registra la reversión. ErrDuplicate si la orden ya fue revertida (PK order_id).
func (r *ReversalRepo) Create(ctx context.Context, rev *entity.Reversal) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO reversals (order_id, sale_id, entry_point, restocked_units, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		rev.OrderID, rev.SaleID, rev.EntryPoint, rev.RestockedUnits, rev.CreatedAt)
	return translate(err, "insert reversal")
}

// GetByOrderID (nil, nil) si la orden no fue revertida.
func (r *ReversalRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.Reversal, error) {
	var rev entity.Reversal
	err := r.q.QueryRow(ctx, `
		SELECT order_id, sale_id, entry_point, restocked_units, created_at
		FROM reversals WHERE order_id = $1`, orderID).
		Scan(&rev.OrderID, &rev.SaleID, &rev.EntryPoint, &rev.RestockedUnits, &rev.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "get reversal")
	}
	return &rev, nil
}
