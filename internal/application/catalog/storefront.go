package catalog

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/ports"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

// StorefrontUseCase lecturas públicas del catálogo. Pasa por la caché; cualquier
// escritura del catálogo, liquidación o reversión la invalida.
type StorefrontUseCase struct {
	products   repository.ProductRepository
	categories *CategoryUseCase
	promotions *PromotionUseCase
	cache      ports.CatalogCache
	log        zerolog.Logger
}

// NewStorefrontUseCase construye el caso de uso.
func NewStorefrontUseCase(products repository.ProductRepository, categories *CategoryUseCase, promotions *PromotionUseCase, cache ports.CatalogCache, log zerolog.Logger) *StorefrontUseCase {
	return &StorefrontUseCase{products: products, categories: categories, promotions: promotions, cache: cache, log: log}
}

// ListProducts listado público (sin costo).
func (uc *StorefrontUseCase) ListProducts(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	key := fmt.Sprintf("products:c=%s:n=%t:s=%t:g=%t:q=%s:l=%d:o=%d",
		q.CategoryID, q.NewArrivals, q.ComingSoon, q.GiftOptions, q.Search, q.Limit, q.Offset)
	var out dto.ProductListResponse
	slot, hit := uc.fromCache(ctx, key, &out)
	if hit {
		return &out, nil
	}
	res, err := listProducts(ctx, uc.products, q, false)
	if err != nil {
		return nil, err
	}
	uc.toCache(ctx, slot, res)
	return res, nil
}

// GetProduct detalle público de un producto.
func (uc *StorefrontUseCase) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	key := "product:" + id
	var out dto.ProductResponse
	slot, hit := uc.fromCache(ctx, key, &out)
	if hit {
		return &out, nil
	}
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", id)
	}
	out = dto.ToProductResponse(p, false)
	uc.toCache(ctx, slot, out)
	return &out, nil
}

// ListCategories categorías de la tienda.
func (uc *StorefrontUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	var out []dto.CategoryResponse
	slot, hit := uc.fromCache(ctx, "categories", &out)
	if hit {
		return out, nil
	}
	out, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	uc.toCache(ctx, slot, out)
	return out, nil
}

// ListPromotions combos activos de la tienda.
func (uc *StorefrontUseCase) ListPromotions(ctx context.Context) ([]dto.PromotionResponse, error) {
	var out []dto.PromotionResponse
	slot, hit := uc.fromCache(ctx, "promotions", &out)
	if hit {
		return out, nil
	}
	out, err := uc.promotions.List(ctx, true)
	if err != nil {
		return nil, err
	}
	uc.toCache(ctx, slot, out)
	return out, nil
}

// fromCache devuelve el slot donde guardar la lectura de la base si no hubo acierto.
// Un slot vacío (caché caída) desactiva la escritura.
func (uc *StorefrontUseCase) fromCache(ctx context.Context, key string, dst any) (string, bool) {
	if uc.cache == nil {
		return "", false
	}
	slot, found, err := uc.cache.Get(ctx, key, dst)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
		return "", false
	}
	return slot, found
}

func (uc *StorefrontUseCase) toCache(ctx context.Context, slot string, value any) {
	if uc.cache == nil || slot == "" {
		return
	}
	if err := uc.cache.Set(ctx, slot, value); err != nil {
		uc.log.Warn().Err(err).Str("slot", slot).Msg("escritura de caché fallida")
	}
}
