package catalog

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/boutique-api/internal/domain"
)

func validatePrices(price, cost decimal.Decimal) error {
	if price.IsNegative() {
		return domain.Validation("el precio no puede ser negativo")
	}
	if cost.IsNegative() {
		return domain.Validation("el costo no puede ser negativo")
	}
	return nil
}

// Slugify convierte un nombre en slug: minúsculas, sin tildes, palabras unidas con guiones.
// "Vestidos de Baño" -> "vestidos-de-bano".
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
