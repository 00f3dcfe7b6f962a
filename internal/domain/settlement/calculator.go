// Package settlement contiene la aritmética de la liquidación de una orden:
// descuento, total final, costo y utilidad. No tiene dependencias de infraestructura.
package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// MoneyPlaces decimales con los que se guarda el dinero (NUMERIC(14,2)).
const MoneyPlaces = 2

// ValidMoney indica si d no tiene más de dos decimales. Los montos con más precisión
// se rechazan: redondearlos al guardar cambiaría las decisiones de pagado y sobrepago.
func ValidMoney(d decimal.Decimal) bool {
	return d.Equal(d.Round(MoneyPlaces))
}

// LoyaltyDiscountRate porcentaje de descuento al canjear la tarjeta de sellos.
var LoyaltyDiscountRate = decimal.NewFromFloat(0.10)

// Totals resultado de la liquidación.
type Totals struct {
	Discount    decimal.Decimal
	FinalTotal  decimal.Decimal
	TotalCost   decimal.Decimal
	TotalProfit decimal.Decimal
}

// OrderTotal suma los subtotales congelados de las líneas.
func OrderTotal(items []entity.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// LoyaltyDiscount descuento por canje sobre el total de la orden, redondeado a 2 decimales.
func LoyaltyDiscount(orderTotal decimal.Decimal) decimal.Decimal {
	return orderTotal.Mul(LoyaltyDiscountRate).Round(2)
}

// Compute calcula descuento, total final, costo y utilidad.
// costs es el costo unitario vigente por producto; las unidades de combo se costean
// por unidad de inventario (cantidad * multiplicador).
// Un descuento negativo o mayor al total es un error de validación (no se recorta).
func Compute(orderTotal, discount decimal.Decimal, items []entity.OrderItem, costs map[string]decimal.Decimal) (Totals, error) {
	if discount.IsNegative() {
		return Totals{}, domain.Validation("el descuento no puede ser negativo")
	}
	if !ValidMoney(discount) {
		return Totals{}, domain.Validation("el descuento %s tiene más de dos decimales", discount)
	}
	if discount.GreaterThan(orderTotal) {
		return Totals{}, domain.Validation("el descuento %s supera el total %s", discount.StringFixed(2), orderTotal.StringFixed(2))
	}
	final := orderTotal.Sub(discount)
	cost := decimal.Zero
	for _, it := range items {
		unit, ok := costs[it.ProductID]
		if !ok {
			return Totals{}, domain.Invariant("sin costo para el producto %s", it.ProductID)
		}
		cost = cost.Add(unit.Mul(decimal.NewFromInt(int64(it.StockUnits()))))
	}
	return Totals{
		Discount:    discount,
		FinalTotal:  final,
		TotalCost:   cost,
		TotalProfit: final.Sub(cost),
	}, nil
}

// PendingBalance saldo pendiente de una venta: max(0, total - pagado).
func PendingBalance(total decimal.Decimal, payments []*entity.Payment) decimal.Decimal {
	bal := total.Sub(TotalPaid(payments))
	if bal.IsNegative() {
		return decimal.Zero
	}
	return bal
}

// TotalPaid suma de los abonos.
func TotalPaid(payments []*entity.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// UnitsByProduct agrega las unidades de inventario por producto (varias líneas pueden
// referenciar el mismo producto, por ejemplo una unidad suelta y un combo).
func UnitsByProduct(items []entity.OrderItem) map[string]int {
	units := make(map[string]int, len(items))
	for _, it := range items {
		units[it.ProductID] += it.StockUnits()
	}
	return units
}
