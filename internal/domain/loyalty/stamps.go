// Package loyalty implementa la tarjeta de sellos: cada venta liquidada a un cliente
// registrado suma un sello hasta MaxStamps; el canje reinicia el contador a cero.
package loyalty

import "github.com/jhoicas/boutique-api/internal/domain/entity"

// MaxStamps sellos necesarios para canjear el descuento.
const MaxStamps = 5

// Next aplica una venta al contador.
func Next(stamps int, redeemed bool) int {
	if redeemed {
		return 0
	}
	if stamps < 0 {
		stamps = 0
	}
	if stamps+1 > MaxStamps {
		return MaxStamps
	}
	return stamps + 1
}

// CanRedeem indica si el cliente completó la tarjeta.
func CanRedeem(stamps int) bool {
	return stamps >= MaxStamps
}

// Fold reproduce los eventos en orden y devuelve el contador resultante.
func Fold(events []*entity.LoyaltyEvent) int {
	stamps := 0
	for _, ev := range events {
		stamps = Next(stamps, ev.Kind == entity.LoyaltyRedeemed)
	}
	return stamps
}

// EventKind tipo de evento que produce una venta.
func EventKind(redeemed bool) string {
	if redeemed {
		return entity.LoyaltyRedeemed
	}
	return entity.LoyaltyEarned
}
