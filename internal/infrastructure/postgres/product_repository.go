package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, description, price, cost, stock, COALESCE(category_id, ''),
	is_new_arrival, is_coming_soon, is_gift_option, image_url, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Cost, &p.Stock, &p.CategoryID,
		&p.IsNewArrival, &p.IsComingSoon, &p.IsGiftOption, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (id, name, description, price, cost, stock, category_id,
			is_new_arrival, is_coming_soon, is_gift_option, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.Name, p.Description, p.Price, p.Cost, p.Stock, nullable(p.CategoryID),
		p.IsNewArrival, p.IsComingSoon, p.IsGiftOption, p.ImageURL, p.CreatedAt, p.UpdatedAt,
	)
	return translate(err, "insert product")
}

// GetByID obtiene un producto por ID. (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "get product")
	}
	return p, nil
}

// Update actualiza datos descriptivos y precios. El stock no se toca aquí.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE products SET name = $2, description = $3, price = $4, cost = $5, category_id = $6,
			is_new_arrival = $7, is_coming_soon = $8, is_gift_option = $9, image_url = $10, updated_at = $11
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Price, p.Cost, nullable(p.CategoryID),
		p.IsNewArrival, p.IsComingSoon, p.IsGiftOption, p.ImageURL, p.UpdatedAt,
	)
	if err != nil {
		return translate(err, "update product")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("producto", p.ID)
	}
	return nil
}

// List filtra el catálogo y ordena por nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var w where
	if f.CategoryID != "" {
		w.add("category_id = ?", f.CategoryID)
	}
	if f.NewArrivals {
		w.addRaw("is_new_arrival")
	}
	if f.ComingSoon {
		w.addRaw("is_coming_soon")
	}
	if f.GiftOptions {
		w.addRaw("is_gift_option")
	}
	if f.Search != "" {
		w.add("name ILIKE '%' || ? || '%'", f.Search)
	}
	page, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+` FROM products`+w.String()+` ORDER BY name, id`+page, args...)
	if err != nil {
		return nil, translate(err, "list products")
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, translate(err, "scan product")
		}
		out = append(out, p)
	}
	return out, translate(rows.Err(), "list products")
}

// Delete elimina el producto; sus combos caen por cascada.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	return translate(err, "delete product")
}

// DecrementStock resta units con una actualización condicional: nunca deja stock negativo
// y no hace falta leer antes. Si no afecta filas se distingue producto inexistente de stock insuficiente.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, units int) error {
	if units <= 0 {
		return domain.Validation("unidades a descontar deben ser positivas")
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET stock = stock - $2, updated_at = $3 WHERE id = $1 AND stock >= $2`,
		id, units, time.Now().UTC())
	if err != nil {
		return translate(err, "decrement stock")
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var stock int
	err = r.q.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, id).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFound("producto", id)
	}
	if err != nil {
		return translate(err, "read stock")
	}
	return fmt.Errorf("%w: hay %d, se piden %d", domain.ErrInsufficientStock, stock, units)
}

// IncrementStock suma units. domain.ErrNotFound si el producto ya no existe.
func (r *ProductRepo) IncrementStock(ctx context.Context, id string, units int) error {
	if units <= 0 {
		return domain.Validation("unidades a reponer deben ser positivas")
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = $3 WHERE id = $1`,
		id, units, time.Now().UTC())
	if err != nil {
		return translate(err, "increment stock")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("producto", id)
	}
	return nil
}
