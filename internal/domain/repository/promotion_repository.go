package repository

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// PromotionRepository define el puerto de persistencia para los combos.
type PromotionRepository interface {
	Create(ctx context.Context, promo *entity.Promotion) error
	GetByID(ctx context.Context, id string) (*entity.Promotion, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Promotion, error)
	Update(ctx context.Context, promo *entity.Promotion) error
	Delete(ctx context.Context, id string) error
}
