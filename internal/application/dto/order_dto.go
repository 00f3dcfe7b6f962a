package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutCustomer datos del cliente capturados en el checkout de la tienda.
type CheckoutCustomer struct {
	Name    string `json:"name" validate:"required,max=120"`
	Phone   string `json:"phone" validate:"required,min=7,max=20"`
	Address string `json:"address,omitempty" validate:"max=300"`
}

// OrderItemRequest línea del carrito. PromotionID convierte la línea en combo.
type OrderItemRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"required,gt=0,lte=999"`
	PromotionID string `json:"promotion_id,omitempty"`
}

// CheckoutRequest body para POST /api/store/checkout.
type CheckoutRequest struct {
	Customer     CheckoutCustomer   `json:"customer"`
	DeliveryMode string             `json:"delivery_mode" validate:"required,oneof=pickup delivery"`
	Notes        string             `json:"notes,omitempty" validate:"max=500"`
	Items        []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CheckoutResponse orden creada y enlace de WhatsApp para confirmarla con la tienda.
type CheckoutResponse struct {
	Order       OrderResponse `json:"order"`
	WhatsAppURL string        `json:"whatsapp_url"`
}

// POSOrderRequest body para POST /api/admin/orders. CustomerID vacío = cliente de mostrador.
type POSOrderRequest struct {
	CustomerID   string             `json:"customer_id,omitempty"`
	DeliveryMode string             `json:"delivery_mode,omitempty" validate:"omitempty,oneof=pickup delivery"`
	Notes        string             `json:"notes,omitempty" validate:"max=500"`
	Items        []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderItemResponse línea congelada de la orden.
type OrderItemResponse struct {
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	IsCombo         bool            `json:"is_combo"`
	ComboMultiplier int             `json:"combo_multiplier"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// OrderResponse orden en respuestas.
type OrderResponse struct {
	ID           string              `json:"id"`
	CustomerID   string              `json:"customer_id,omitempty"`
	Items        []OrderItemResponse `json:"items"`
	Total        decimal.Decimal     `json:"total"`
	Status       string              `json:"status"`
	DeliveryMode string              `json:"delivery_mode"`
	Source       string              `json:"source"`
	Notes        string              `json:"notes,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// OrderListQuery query string de GET /api/admin/orders.
type OrderListQuery struct {
	Status     string `query:"status" validate:"omitempty,oneof=pending processed"`
	CustomerID string `query:"customer_id"`
	Limit      int    `query:"limit"`
	Offset     int    `query:"offset"`
}

// OrderListResponse listado paginado de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
