package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/ports"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

// PromotionUseCase casos de uso para combos (N unidades de un producto a precio fijo).
type PromotionUseCase struct {
	repo     repository.PromotionRepository
	products repository.ProductRepository
	cache    ports.CatalogCache
	log      zerolog.Logger
}

// NewPromotionUseCase construye el caso de uso.
func NewPromotionUseCase(repo repository.PromotionRepository, products repository.ProductRepository, cache ports.CatalogCache, log zerolog.Logger) *PromotionUseCase {
	return &PromotionUseCase{repo: repo, products: products, cache: cache, log: log}
}

// Create crea un combo para un producto existente. Activo por defecto.
func (uc *PromotionUseCase) Create(ctx context.Context, in dto.PromotionRequest) (*dto.PromotionResponse, error) {
	if err := uc.validate(ctx, in); err != nil {
		return nil, err
	}
	p := &entity.Promotion{
		ID:            uuid.New().String(),
		ProductID:     in.ProductID,
		Name:          in.Name,
		ComboQuantity: in.ComboQuantity,
		ComboPrice:    in.ComboPrice,
		Active:        in.Active == nil || *in.Active,
		CreatedAt:     time.Now(),
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache, uc.log)
	out := dto.ToPromotionResponse(p)
	return &out, nil
}

// List lista combos; activeOnly para la tienda.
func (uc *PromotionUseCase) List(ctx context.Context, activeOnly bool) ([]dto.PromotionResponse, error) {
	list, err := uc.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PromotionResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.ToPromotionResponse(p))
	}
	return out, nil
}

// Update reemplaza los datos del combo. Las órdenes ya creadas conservan el precio congelado.
func (uc *PromotionUseCase) Update(ctx context.Context, id string, in dto.PromotionRequest) (*dto.PromotionResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("promoción", id)
	}
	if err := uc.validate(ctx, in); err != nil {
		return nil, err
	}
	p.ProductID = in.ProductID
	p.Name = in.Name
	p.ComboQuantity = in.ComboQuantity
	p.ComboPrice = in.ComboPrice
	if in.Active != nil {
		p.Active = *in.Active
	}
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	invalidate(ctx, uc.cache, uc.log)
	out := dto.ToPromotionResponse(p)
	return &out, nil
}

// Delete elimina un combo.
func (uc *PromotionUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NotFound("promoción", id)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	invalidate(ctx, uc.cache, uc.log)
	return nil
}

func (uc *PromotionUseCase) validate(ctx context.Context, in dto.PromotionRequest) error {
	if in.ComboQuantity < 2 {
		return domain.Validation("un combo debe tener al menos 2 unidades")
	}
	if !in.ComboPrice.IsPositive() {
		return domain.Validation("el precio del combo debe ser mayor a cero")
	}
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NotFound("producto", in.ProductID)
	}
	return nil
}
