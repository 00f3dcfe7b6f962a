package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion es un combo: ComboQuantity unidades de un producto por ComboPrice.
// Una línea de orden que usa la promoción mueve Quantity*ComboQuantity unidades de stock.
type Promotion struct {
	ID            string
	ProductID     string
	Name          string
	ComboQuantity int
	ComboPrice    decimal.Decimal
	Active        bool
	CreatedAt     time.Time
}
