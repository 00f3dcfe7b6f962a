package entity

import (
	"strings"
	"time"
)

// Customer representa un cliente registrado. Phone (solo dígitos) es la clave de negocio
// para el upsert en el checkout.
type Customer struct {
	ID            string
	Name          string
	Phone         string
	Address       string
	LoyaltyStamps int // contador derivado de LoyaltyEvent, 0..5
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NormalizePhone deja solo los dígitos del teléfono ("+57 300-123 4567" -> "573001234567").
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
