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
	_ repository.CustomerRepository = (*CustomerRepo)(nil)
	_ repository.LoyaltyRepository  = (*LoyaltyRepo)(nil)
)

const customerColumns = `id, name, phone, address, loyalty_stamps, created_at, updated_at`

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.LoyaltyStamps, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) getOne(ctx context.Context, op, sql string, arg string) (*entity.Customer, error) {
	c, err := scanCustomer(r.q.QueryRow(ctx, sql, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, op)
	}
	return c, nil
}

// Create persiste un nuevo cliente. ErrDuplicate si el teléfono ya está registrado.
func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO customers (`+customerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Name, c.Phone, c.Address, c.LoyaltyStamps, c.CreatedAt, c.UpdatedAt)
	return translate(err, "insert customer")
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	return r.getOne(ctx, "get customer", `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila del cliente hasta el fin de la transacción.
func (r *CustomerRepo) GetForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.getOne(ctx, "lock customer", `SELECT `+customerColumns+` FROM customers WHERE id = $1 FOR UPDATE`, id)
}

// GetByPhone busca por teléfono normalizado.
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*entity.Customer, error) {
	return r.getOne(ctx, "get customer by phone", `SELECT `+customerColumns+` FROM customers WHERE phone = $1`, phone)
}

// Update actualiza nombre, teléfono y dirección.
func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE customers SET name = $2, phone = $3, address = $4, updated_at = $5 WHERE id = $1`,
		c.ID, c.Name, c.Phone, c.Address, c.UpdatedAt)
	if err != nil {
		return translate(err, "update customer")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("cliente", c.ID)
	}
	return nil
}

// UpdateStamps guarda el contador de sellos.
func (r *CustomerRepo) UpdateStamps(ctx context.Context, id string, stamps int) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE customers SET loyalty_stamps = $2, updated_at = now() WHERE id = $1`, id, stamps)
	if err != nil {
		return translate(err, "update stamps")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("cliente", id)
	}
	return nil
}

// List busca por nombre o teléfono y ordena por nombre.
func (r *CustomerRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, error) {
	var w where
	if search != "" {
		w.add("(name ILIKE '%' || ? || '%' OR phone LIKE '%' || ? || '%')", search)
	}
	page, args := w.page(limit, offset)
	rows, err := r.q.Query(ctx, `SELECT `+customerColumns+` FROM customers`+w.String()+` ORDER BY name, id`+page, args...)
	if err != nil {
		return nil, translate(err, "list customers")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Customer, error) {
		return scanCustomer(row)
	})
	return out, translate(err, "scan customers")
}

// Delete elimina el cliente. Con ventas asociadas la FK lo impide (ErrConflict);
// sus órdenes quedan como mostrador y sus eventos de fidelización se borran.
func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return domain.Conflict("el cliente %s tiene ventas", id)
	}
	return translate(err, "delete customer")
}

// LoyaltyRepo registro append-only de eventos de fidelización.
type LoyaltyRepo struct {
	q Querier
}

// NewLoyaltyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLoyaltyRepository(q Querier) *LoyaltyRepo {
	return &LoyaltyRepo{q: q}
}

// Append agrega un evento. NotFound si el cliente no existe.
func (r *LoyaltyRepo) Append(ctx context.Context, ev *entity.LoyaltyEvent) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO loyalty_events (id, customer_id, sale_id, kind, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		ev.ID, ev.CustomerID, ev.SaleID, ev.Kind, ev.CreatedAt)
	if isForeignKeyViolation(err) {
		return domain.NotFound("cliente", ev.CustomerID)
	}
	return translate(err, "append loyalty event")
}

// ListByCustomer devuelve los eventos en el orden en que se registraron.
func (r *LoyaltyRepo) ListByCustomer(ctx context.Context, customerID string) ([]*entity.LoyaltyEvent, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, customer_id, sale_id, kind, created_at
		FROM loyalty_events WHERE customer_id = $1 ORDER BY seq`, customerID)
	if err != nil {
		return nil, translate(err, "list loyalty events")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.LoyaltyEvent, error) {
		var ev entity.LoyaltyEvent
		err := row.Scan(&ev.ID, &ev.CustomerID, &ev.SaleID, &ev.Kind, &ev.CreatedAt)
		return &ev, err
	})
	return out, translate(err, "scan loyalty events")
}
