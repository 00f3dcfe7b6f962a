// Package catalog administra productos, categorías y combos, y sirve las lecturas de la
// tienda a través de la caché del catálogo.
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

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia con AdjustStock,
// la liquidación y la reversión.
type ProductUseCase struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	cache      ports.CatalogCache
	log        zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categories repository.CategoryRepository, cache ports.CatalogCache, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, categories: categories, cache: cache, log: log}
}

// Create crea un nuevo producto.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validatePrices(in.Price, in.Cost); err != nil {
		return nil, err
	}
	if in.Stock < 0 {
		return nil, domain.Validation("el stock inicial no puede ser negativo")
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Product{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Cost:         in.Cost,
		Stock:        in.Stock,
		CategoryID:   in.CategoryID,
		IsNewArrival: in.IsNewArrival,
		IsComingSoon: in.IsComingSoon,
		IsGiftOption: in.IsGiftOption,
		ImageURL:     in.ImageURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	out := dto.ToProductResponse(p, true)
	return &out, nil
}

// Get obtiene un producto por ID (vista de administración, con costo).
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", id)
	}
	out := dto.ToProductResponse(p, true)
	return &out, nil
}

// Update actualiza datos descriptivos y precios. No toca el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := validatePrices(in.Price, in.Cost); err != nil {
		return nil, err
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NotFound("producto", id)
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Cost = in.Cost
	p.CategoryID = in.CategoryID
	p.IsNewArrival = in.IsNewArrival
	p.IsComingSoon = in.IsComingSoon
	p.IsGiftOption = in.IsGiftOption
	p.ImageURL = in.ImageURL
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	out := dto.ToProductResponse(p, true)
	return &out, nil
}

// List lista productos para la administración (incluye costo).
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	return listProducts(ctx, uc.repo, q, true)
}

// Delete elimina un producto. Las órdenes conservan su copia congelada de la línea.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NotFound("producto", id)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

// AdjustStock suma (delta > 0) o resta (delta < 0) unidades con una actualización
// condicional. Restar más de lo disponible devuelve ErrInsufficientStock.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, id string, in dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	var err error
	switch {
	case in.Delta > 0:
		err = uc.repo.IncrementStock(ctx, id, in.Delta)
	case in.Delta < 0:
		err = uc.repo.DecrementStock(ctx, id, -in.Delta)
	default:
		return nil, domain.Validation("el ajuste de stock no puede ser cero")
	}
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)
	uc.log.Info().Str("product_id", id).Int("delta", in.Delta).Msg("stock ajustado")
	return uc.Get(ctx, id)
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, categoryID string) error {
	if categoryID == "" {
		return nil
	}
	c, err := uc.categories.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NotFound("categoría", categoryID)
	}
	return nil
}

func (uc *ProductUseCase) invalidate(ctx context.Context) {
	invalidate(ctx, uc.cache, uc.log)
}

func listProducts(ctx context.Context, repo repository.ProductRepository, q dto.ProductListQuery, withCost bool) (*dto.ProductListResponse, error) {
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()
	list, err := repo.List(ctx, repository.ProductFilter{
		CategoryID:  q.CategoryID,
		NewArrivals: q.NewArrivals,
		ComingSoon:  q.ComingSoon,
		GiftOptions: q.GiftOptions,
		Search:      q.Search,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.ToProductResponse(p, withCost))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func invalidate(ctx context.Context, cache ports.CatalogCache, log zerolog.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo invalidar la caché del catálogo")
	}
}
