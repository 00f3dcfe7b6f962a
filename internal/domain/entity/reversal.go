package entity

import "time"

// Puntos de entrada de la reversión.
const (
	ReversalFromOrder = "order"
	ReversalFromSale  = "sale"
)

// Reversal registro de una reversión ejecutada. OrderID es clave primaria:
// una orden solo puede revertirse una vez.
type Reversal struct {
	OrderID        string
	SaleID         string // vacío si la orden estaba pendiente
	EntryPoint     string
	RestockedUnits int
	CreatedAt      time.Time
}
