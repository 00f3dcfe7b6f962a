package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago.
const (
	PaymentMethodContado = "Contado" // pago completo al liquidar
	PaymentMethodCredito = "Crédito" // abonos registrados en el libro de crédito
)

// ValidPaymentMethod indica si el método es uno de los soportados.
func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodContado || m == PaymentMethodCredito
}

// Sale registro financiero creado al liquidar una orden (uno a uno con Order).
type Sale struct {
	ID              string
	OrderID         string
	CustomerID      string
	Total           decimal.Decimal // total de la orden menos el descuento
	Discount        decimal.Decimal
	LoyaltyRedeemed bool
	PaymentMethod   string
	IsPaid          bool
	TotalCost       decimal.Decimal
	TotalProfit     decimal.Decimal
	CreatedAt       time.Time
}
