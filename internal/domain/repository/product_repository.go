package repository

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// ProductFilter filtros del catálogo. Los flags en false no filtran.
type ProductFilter struct {
	CategoryID  string
	NewArrivals bool
	ComingSoon  bool
	GiftOptions bool
	Search      string
	Limit       int
	Offset      int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// El stock solo se modifica con las operaciones atómicas DecrementStock/IncrementStock.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// Update actualiza datos descriptivos y precios; no toca Stock.
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
	// DecrementStock resta units solo si stock >= units (actualización condicional).
	// Devuelve domain.ErrInsufficientStock o domain.ErrNotFound; nunca recorta a cero.
	DecrementStock(ctx context.Context, id string, units int) error
	// IncrementStock suma units. domain.ErrNotFound si el producto ya no existe.
	IncrementStock(ctx context.Context, id string, units int) error
}
