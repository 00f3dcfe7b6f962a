package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, COALESCE(customer_id, ''), total, status, delivery_mode, source, notes, created_at`

// OrderRepo persiste órdenes con sus líneas congeladas (order_items).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	if err := row.Scan(&o.ID, &o.CustomerID, &o.Total, &o.Status, &o.DeliveryMode, &o.Source, &o.Notes, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserta la orden y sus líneas en un solo batch.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO orders (id, customer_id, total, status, delivery_mode, source, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID, nullable(o.CustomerID), o.Total, o.Status, o.DeliveryMode, o.Source, o.Notes, o.CreatedAt)
	for i, it := range o.Items {
		batch.Queue(`
			INSERT INTO order_items (order_id, line_no, product_id, name, quantity, unit_price, is_combo, combo_multiplier)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			o.ID, i+1, it.ProductID, it.Name, it.Quantity, it.UnitPrice, it.IsCombo, max(it.ComboMultiplier, 1))
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range batch.Len() {
		if _, err := br.Exec(); err != nil {
			if isForeignKeyViolation(err) {
				return domain.NotFound("cliente", o.CustomerID)
			}
			return translate(err, "insert order")
		}
	}
	return translate(br.Close(), "insert order")
}

// GetByID carga la orden con sus líneas. (nil, nil) si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila de la orden: dos liquidaciones concurrentes se serializan aquí.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) getOne(ctx context.Context, sql, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, sql, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "get order")
	}
	if err := r.loadItems(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// loadItems completa las líneas de varias órdenes con una sola consulta.
func (r *OrderRepo) loadItems(ctx context.Context, orders []*entity.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Order, len(orders))
	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT order_id, product_id, name, quantity, unit_price, is_combo, combo_multiplier
		FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, line_no`, ids)
	if err != nil {
		return translate(err, "list order items")
	}
	defer rows.Close()
	for rows.Next() {
		var orderID string
		var it entity.OrderItem
		if err := rows.Scan(&orderID, &it.ProductID, &it.Name, &it.Quantity, &it.UnitPrice, &it.IsCombo, &it.ComboMultiplier); err != nil {
			return translate(err, "scan order item")
		}
		o := byID[orderID]
		o.Items = append(o.Items, it)
	}
	return translate(rows.Err(), "list order items")
}

// UpdateStatus cambia el estado de la orden.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return translate(err, "update order status")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("orden", id)
	}
	return nil
}

// List ordena de la más reciente a la más antigua.
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var w where
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.CustomerID != "" {
		w.add("customer_id = ?", f.CustomerID)
	}
	page, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+orderColumns+` FROM orders`+w.String()+` ORDER BY created_at DESC, id`+page, args...)
	if err != nil {
		return nil, translate(err, "list orders")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Order, error) {
		return scanOrder(row)
	})
	if err != nil {
		return nil, translate(err, "scan orders")
	}
	return out, r.loadItems(ctx, out)
}

// Delete elimina la orden y sus líneas. ErrConflict si todavía tiene venta.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return domain.Conflict("la orden %s tiene venta asociada", id)
	}
	return translate(err, "delete order")
}
