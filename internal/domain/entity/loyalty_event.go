package entity

import "time"

// Tipos de evento de fidelización.
const (
	LoyaltyEarned   = "earned"
	LoyaltyRedeemed = "redeemed"
)

// LoyaltyEvent registro append-only de sellos ganados o canjeados.
// Customer.LoyaltyStamps es el resultado de reproducir estos eventos.
type LoyaltyEvent struct {
	ID         string
	CustomerID string
	SaleID     string
	Kind       string
	CreatedAt  time.Time
}
