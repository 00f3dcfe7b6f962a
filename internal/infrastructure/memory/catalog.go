package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
	_ repository.PromotionRepository = (*PromotionRepo)(nil)
)

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct{ v view }

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.products[p.ID]; ok {
			return domain.ErrDuplicate
		}
		if p.Stock < 0 {
			return domain.Validation("stock negativo")
		}
		st.products[p.ID] = *p
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.do(ctx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// Update actualiza datos descriptivos; conserva el stock guardado.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	return r.v.do(ctx, func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok {
			return domain.NotFound("producto", p.ID)
		}
		upd := *p
		upd.Stock = cur.Stock
		upd.CreatedAt = cur.CreatedAt
		st.products[p.ID] = upd
		return nil
	})
}

// List filtra y ordena por nombre.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.do(ctx, func(st *state) error {
		search := strings.ToLower(f.Search)
		var list []entity.Product
		for _, p := range st.products {
			if f.CategoryID != "" && p.CategoryID != f.CategoryID {
				continue
			}
			if (f.NewArrivals && !p.IsNewArrival) || (f.ComingSoon && !p.IsComingSoon) || (f.GiftOptions && !p.IsGiftOption) {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
				continue
			}
			list = append(list, p)
		}
		sortByName(list, func(p entity.Product) string { return p.Name })
		for _, p := range paginate(list, f.Limit, f.Offset) {
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

// Delete elimina el producto y sus combos.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.v.do(ctx, func(st *state) error {
		delete(st.products, id)
		for pid, promo := range st.promotions {
			if promo.ProductID == id {
				delete(st.promotions, pid)
			}
		}
		return nil
	})
}

// DecrementStock resta units solo si alcanza.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, units int) error {
	if units <= 0 {
		return domain.Validation("unidades a descontar deben ser positivas")
	}
	return r.v.do(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.NotFound("producto", id)
		}
		if p.Stock < units {
			return fmt.Errorf("%w: hay %d, se piden %d", domain.ErrInsufficientStock, p.Stock, units)
		}
		p.Stock -= units
		st.products[id] = p
		return nil
	})
}

// IncrementStock suma units.
func (r *ProductRepo) IncrementStock(ctx context.Context, id string, units int) error {
	if units <= 0 {
		return domain.Validation("unidades a reponer deben ser positivas")
	}
	return r.v.do(ctx, func(st *state) error {
		p, ok := st.products[id]
		if !ok {
			return domain.NotFound("producto", id)
		}
		p.Stock += units
		st.products[id] = p
		return nil
	})
}

// CategoryRepo implementación en memoria de CategoryRepository.
type CategoryRepo struct{ v view }

// Create persiste una categoría. El slug es único.
func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	return r.v.do(ctx, func(st *state) error {
		for _, other := range st.categories {
			if other.Slug == c.Slug {
				return domain.ErrDuplicate
			}
		}
		st.categories[c.ID] = *c
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.v.do(ctx, func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

// List ordena por nombre.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.v.do(ctx, func(st *state) error {
		list := make([]entity.Category, 0, len(st.categories))
		for _, c := range st.categories {
			list = append(list, c)
		}
		sortByName(list, func(c entity.Category) string { return c.Name })
		for _, c := range list {
			out = append(out, &c)
		}
		return nil
	})
	return out, err
}

// Update renombra la categoría.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.categories[c.ID]; !ok {
			return domain.NotFound("categoría", c.ID)
		}
		for id, other := range st.categories {
			if id != c.ID && other.Slug == c.Slug {
				return domain.ErrDuplicate
			}
		}
		st.categories[c.ID] = *c
		return nil
	})
}

// Delete elimina la categoría; sus productos quedan sin categoría.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	return r.v.do(ctx, func(st *state) error {
		delete(st.categories, id)
		for pid, p := range st.products {
			if p.CategoryID == id {
				p.CategoryID = ""
				st.products[pid] = p
			}
		}
		return nil
	})
}

// PromotionRepo implementación en memoria de PromotionRepository.
type PromotionRepo struct{ v view }

// Create persiste un combo.
func (r *PromotionRepo) Create(ctx context.Context, p *entity.Promotion) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.products[p.ProductID]; !ok {
			return domain.NotFound("producto", p.ProductID)
		}
		st.promotions[p.ID] = *p
		return nil
	})
}

// GetByID devuelve (nil, nil) si no existe.
func (r *PromotionRepo) GetByID(ctx context.Context, id string) (*entity.Promotion, error) {
	var out *entity.Promotion
	err := r.v.do(ctx, func(st *state) error {
		if p, ok := st.promotions[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// List ordena por nombre.
func (r *PromotionRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Promotion, error) {
	var out []*entity.Promotion
	err := r.v.do(ctx, func(st *state) error {
		var list []entity.Promotion
		for _, p := range st.promotions {
			if activeOnly && !p.Active {
				continue
			}
			list = append(list, p)
		}
		sortByName(list, func(p entity.Promotion) string { return p.Name })
		for _, p := range list {
			out = append(out, &p)
		}
		return nil
	})
	return out, err
}

// Update reemplaza el combo.
func (r *PromotionRepo) Update(ctx context.Context, p *entity.Promotion) error {
	return r.v.do(ctx, func(st *state) error {
		if _, ok := st.promotions[p.ID]; !ok {
			return domain.NotFound("promoción", p.ID)
		}
		st.promotions[p.ID] = *p
		return nil
	})
}

// Delete elimina el combo.
func (r *PromotionRepo) Delete(ctx context.Context, id string) error {
	return r.v.do(ctx, func(st *state) error {
		delete(st.promotions, id)
		return nil
	})
}
