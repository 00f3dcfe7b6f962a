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
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
	_ repository.PromotionRepository = (*PromotionRepo)(nil)
)

// CategoryRepo implementación de CategoryRepository.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste la categoría. ErrDuplicate si el slug ya existe.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	_, err := r.q.Exec(ctx, `INSERT INTO categories (id, name, slug, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Slug, c.CreatedAt)
	return translate(err, "insert category")
}

// GetByID (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	err := r.q.QueryRow(ctx, `SELECT id, name, slug, created_at FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "get category")
	}
	return &c, nil
}

// List ordena por nombre.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, slug, created_at FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, translate(err, "list categories")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Category, error) {
		var c entity.Category
		err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.CreatedAt)
		return &c, err
	})
	return out, translate(err, "scan categories")
}

// Update renombra la categoría.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	tag, err := r.q.Exec(ctx, `UPDATE categories SET name = $2, slug = $3 WHERE id = $1`, c.ID, c.Name, c.Slug)
	if err != nil {
		return translate(err, "update category")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("categoría", c.ID)
	}
	return nil
}

// Delete elimina la categoría; la FK deja sus productos sin categoría.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	return translate(err, "delete category")
}

// PromotionRepo implementación de PromotionRepository.
type PromotionRepo struct {
	q Querier
}

// NewPromotionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPromotionRepository(q Querier) *PromotionRepo {
	return &PromotionRepo{q: q}
}

const promotionColumns = `id, product_id, name, combo_quantity, combo_price, active, created_at`

func scanPromotion(row pgx.Row) (*entity.Promotion, error) {
	var p entity.Promotion
	if err := row.Scan(&p.ID, &p.ProductID, &p.Name, &p.ComboQuantity, &p.ComboPrice, &p.Active, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un combo. NotFound si el producto no existe.
func (r *PromotionRepo) Create(ctx context.Context, p *entity.Promotion) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO promotions (`+promotionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.ProductID, p.Name, p.ComboQuantity, p.ComboPrice, p.Active, p.CreatedAt)
	if isForeignKeyViolation(err) {
		return domain.NotFound("producto", p.ProductID)
	}
	return translate(err, "insert promotion")
}

// GetByID (nil, nil) si no existe.
func (r *PromotionRepo) GetByID(ctx context.Context, id string) (*entity.Promotion, error) {
	p, err := scanPromotion(r.q.QueryRow(ctx, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err, "get promotion")
	}
	return p, nil
}

// List ordena por nombre; activeOnly deja fuera los combos desactivados.
func (r *PromotionRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Promotion, error) {
	sql := `SELECT ` + promotionColumns + ` FROM promotions`
	if activeOnly {
		sql += ` WHERE active`
	}
	rows, err := r.q.Query(ctx, sql+` ORDER BY name, id`)
	if err != nil {
		return nil, translate(err, "list promotions")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entity.Promotion, error) {
		return scanPromotion(row)
	})
	return out, translate(err, "scan promotions")
}

// Update reemplaza el combo.
func (r *PromotionRepo) Update(ctx context.Context, p *entity.Promotion) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE promotions SET product_id = $2, name = $3, combo_quantity = $4, combo_price = $5, active = $6
		WHERE id = $1`,
		p.ID, p.ProductID, p.Name, p.ComboQuantity, p.ComboPrice, p.Active)
	if isForeignKeyViolation(err) {
		return domain.NotFound("producto", p.ProductID)
	}
	if err != nil {
		return translate(err, "update promotion")
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("promoción", p.ID)
	}
	return nil
}

// Delete elimina el combo.
func (r *PromotionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	return translate(err, "delete promotion")
}
