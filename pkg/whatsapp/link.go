// Package whatsapp arma el enlace wa.me con el resumen de una orden para que el
// cliente la confirme con la tienda.
package whatsapp

import (
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// Builder arma enlaces para el número de la tienda.
type Builder struct {
	storeName  string
	storePhone string // solo dígitos, con indicativo de país
	printer    *message.Printer
}

// NewBuilder crea el builder. storePhone se normaliza a dígitos.
func NewBuilder(storeName, storePhone string) *Builder {
	return &Builder{
		storeName:  storeName,
		storePhone: entity.NormalizePhone(storePhone),
		printer:    message.NewPrinter(language.Spanish),
	}
}

// FormatMoney formatea pesos sin decimales con separador de miles: 12500 -> "$12.500".
func (b *Builder) FormatMoney(d decimal.Decimal) string {
	return "$" + b.printer.Sprintf("%d", d.Round(0).IntPart())
}

// OrderLink devuelve https://wa.me/<teléfono>?text=<mensaje>.
func (b *Builder) OrderLink(order *entity.Order, customer *entity.Customer) string {
	return "https://wa.me/" + b.storePhone + "?text=" + url.QueryEscape(b.OrderMessage(order, customer))
}

// OrderMessage texto plano del pedido.
func (b *Builder) OrderMessage(order *entity.Order, customer *entity.Customer) string {
	var sb strings.Builder
	sb.WriteString("Hola " + b.storeName + ", quiero confirmar mi pedido:\n\n")
	for _, it := range order.Items {
		sb.WriteString(b.printer.Sprintf("• %d x %s", it.Quantity, it.Name))
		if it.IsCombo {
			sb.WriteString(b.printer.Sprintf(" (combo de %d)", it.ComboMultiplier))
		}
		sb.WriteString(" = " + b.FormatMoney(it.Subtotal()) + "\n")
	}
	sb.WriteString("\nTotal: " + b.FormatMoney(order.Total) + "\n")
	if order.DeliveryMode == entity.DeliveryDelivery {
		sb.WriteString("Entrega: a domicilio\n")
	} else {
		sb.WriteString("Entrega: recoger en tienda\n")
	}
	if customer != nil {
		sb.WriteString("\nNombre: " + customer.Name + "\n")
		sb.WriteString("Teléfono: " + customer.Phone + "\n")
		if customer.Address != "" {
			sb.WriteString("Dirección: " + customer.Address + "\n")
		}
	}
	if order.Notes != "" {
		sb.WriteString("Notas: " + order.Notes + "\n")
	}
	sb.WriteString("\nPedido #" + shortID(order.ID))
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
