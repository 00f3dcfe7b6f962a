package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment abono registrado contra una venta.
type Payment struct {
	ID        string
	SaleID    string
	Amount    decimal.Decimal
	Notes     string
	CreatedAt time.Time
}
