package whatsapp_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/pkg/whatsapp"
)

func TestFormatMoney_SeparadorDeMiles(t *testing.T) {
	b := whatsapp.NewBuilder("Boutique", "+57 300 000 0000")
	assert.Equal(t, "$12.500", b.FormatMoney(decimal.NewFromInt(12500)))
	assert.Equal(t, "$1.250.000", b.FormatMoney(decimal.NewFromInt(1250000)))
	assert.Equal(t, "$999", b.FormatMoney(decimal.NewFromInt(999)))
}

func TestOrderLink(t *testing.T) {
	b := whatsapp.NewBuilder("Boutique Ana", "+57 300-123 4567")
	order := &entity.Order{
		ID: "0f8c2a1e-aaaa-bbbb-cccc-000000000000",
		Items: []entity.OrderItem{
			{ProductID: "p1", Name: "Blusa lino", Quantity: 2, UnitPrice: decimal.NewFromInt(45000), ComboMultiplier: 1},
			{ProductID: "p2", Name: "3 medias", Quantity: 1, UnitPrice: decimal.NewFromInt(20000), IsCombo: true, ComboMultiplier: 3},
		},
		Total:        decimal.NewFromInt(110000),
		DeliveryMode: entity.DeliveryDelivery,
	}
	customer := &entity.Customer{Name: "Laura", Phone: "3001112233", Address: "Cra 1 # 2-3"}

	link := b.OrderLink(order, customer)
	require.True(t, strings.HasPrefix(link, "https://wa.me/573001234567?text="))

	u, err := url.Parse(link)
	require.NoError(t, err)
	msg := u.Query().Get("text")
	assert.Contains(t, msg, "Hola Boutique Ana")
	assert.Contains(t, msg, "2 x Blusa lino = $90.000")
	assert.Contains(t, msg, "1 x 3 medias (combo de 3) = $20.000")
	assert.Contains(t, msg, "Total: $110.000")
	assert.Contains(t, msg, "a domicilio")
	assert.Contains(t, msg, "Dirección: Cra 1 # 2-3")
	assert.Contains(t, msg, "Pedido #0f8c2a1e")
}
