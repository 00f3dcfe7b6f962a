package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden.
const (
	OrderStatusPending   = "pending"
	OrderStatusProcessed = "processed"
)

// Modos de entrega.
const (
	DeliveryPickup   = "pickup"
	DeliveryDelivery = "delivery"
)

// Origen de la orden.
const (
	OrderSourceStorefront = "storefront"
	OrderSourcePOS        = "pos"
)

// Order es el carrito capturado en el checkout o en el POS, antes de liquidarse.
// Items es una copia desnormalizada: nombre y precio se congelan al crear la orden.
type Order struct {
	ID           string
	CustomerID   string // vacío = cliente de mostrador
	Items        []OrderItem
	Total        decimal.Decimal
	Status       string
	DeliveryMode string
	Source       string
	Notes        string
	CreatedAt    time.Time
}

// OrderItem línea congelada de la orden.
type OrderItem struct {
	ProductID       string
	Name            string
	Quantity        int
	UnitPrice       decimal.Decimal
	IsCombo         bool
	ComboMultiplier int
}

// StockUnits unidades de inventario que mueve la línea (cantidad por multiplicador del combo).
func (i OrderItem) StockUnits() int {
	m := i.ComboMultiplier
	if !i.IsCombo || m < 1 {
		m = 1
	}
	return i.Quantity * m
}

// Subtotal cantidad por precio unitario congelado.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsPending indica si la orden aún puede liquidarse.
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsWalkIn indica una orden sin cliente registrado.
func (o *Order) IsWalkIn() bool {
	return o.CustomerID == ""
}
