package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo del catálogo.
// Stock es un entero que nunca baja de cero: solo se modifica con actualizaciones
// condicionales (settlement, reversión, ajuste manual).
type Product struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal // precio de venta
	Cost         decimal.Decimal // costo unitario, base de total_cost en la venta
	Stock        int
	CategoryID   string // vacío si no tiene categoría
	IsNewArrival bool
	IsComingSoon bool // visible en la tienda pero no se puede comprar
	IsGiftOption bool
	ImageURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Purchasable indica si el producto puede agregarse a una orden.
func (p *Product) Purchasable() bool {
	return !p.IsComingSoon
}
