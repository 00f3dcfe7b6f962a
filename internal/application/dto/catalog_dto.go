package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/admin/products.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Description  string          `json:"description,omitempty" validate:"max=2000"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Stock        int             `json:"stock" validate:"gte=0"`
	CategoryID   string          `json:"category_id,omitempty"`
	IsNewArrival bool            `json:"is_new_arrival"`
	IsComingSoon bool            `json:"is_coming_soon"`
	IsGiftOption bool            `json:"is_gift_option"`
	ImageURL     string          `json:"image_url,omitempty" validate:"omitempty,url"`
}

// UpdateProductRequest body para PUT /api/admin/products/:id. El stock se ajusta aparte.
type UpdateProductRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Description  string          `json:"description,omitempty" validate:"max=2000"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	CategoryID   string          `json:"category_id,omitempty"`
	IsNewArrival bool            `json:"is_new_arrival"`
	IsComingSoon bool            `json:"is_coming_soon"`
	IsGiftOption bool            `json:"is_gift_option"`
	ImageURL     string          `json:"image_url,omitempty" validate:"omitempty,url"`
}

// AdjustStockRequest body para POST /api/admin/products/:id/stock (positivo repone, negativo descuenta).
type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"required,ne=0"`
}

// ProductResponse producto en respuestas. Cost solo se expone en la consola de administración.
type ProductResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Price        decimal.Decimal  `json:"price"`
	Cost         *decimal.Decimal `json:"cost,omitempty"`
	Stock        int              `json:"stock"`
	CategoryID   string           `json:"category_id,omitempty"`
	IsNewArrival bool             `json:"is_new_arrival"`
	IsComingSoon bool             `json:"is_coming_soon"`
	IsGiftOption bool             `json:"is_gift_option"`
	ImageURL     string           `json:"image_url,omitempty"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductListQuery query string del catálogo.
type ProductListQuery struct {
	CategoryID  string `query:"category_id"`
	NewArrivals bool   `query:"new_arrivals"`
	ComingSoon  bool   `query:"coming_soon"`
	GiftOptions bool   `query:"gift_options"`
	Search      string `query:"q" validate:"max=100"`
	Limit       int    `query:"limit"`
	Offset      int    `query:"offset"`
}

// CategoryRequest body para crear/actualizar categorías. Slug se deriva del nombre si va vacío.
type CategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug,omitempty" validate:"omitempty,max=100"`
}

// CategoryResponse categoría en respuestas.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// PromotionRequest body para crear/actualizar combos.
type PromotionRequest struct {
	ProductID     string          `json:"product_id" validate:"required"`
	Name          string          `json:"name" validate:"required,max=120"`
	ComboQuantity int             `json:"combo_quantity" validate:"gte=2,lte=100"`
	ComboPrice    decimal.Decimal `json:"combo_price"`
	Active        *bool           `json:"active,omitempty"`
}

// PromotionResponse combo en respuestas.
type PromotionResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	ComboQuantity int             `json:"combo_quantity"`
	ComboPrice    decimal.Decimal `json:"combo_price"`
	Active        bool            `json:"active"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
