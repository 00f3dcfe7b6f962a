package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/boutique-api/internal/domain"
)

func TestTaxonomy_CategoriasAnidadas(t *testing.T) {
	assert.True(t, errors.Is(domain.ErrInsufficientStock, domain.ErrConflict),
		"stock insuficiente es un conflicto")
	assert.True(t, errors.Is(domain.ErrOverpayment, domain.ErrValidation),
		"sobrepago es un error de validación")
	assert.False(t, errors.Is(domain.ErrOverpayment, domain.ErrConflict))
}

func TestHelpers_EnvuelvenSentinel(t *testing.T) {
	assert.ErrorIs(t, domain.Validation("descuento %s negativo", "-1"), domain.ErrValidation)
	assert.ErrorIs(t, domain.NotFound("venta", "abc"), domain.ErrNotFound)
	assert.ErrorIs(t, domain.Conflict("orden %s ya procesada", "x"), domain.ErrConflict)
	assert.ErrorIs(t, domain.Invariant("saldo negativo"), domain.ErrInvariant)
	assert.Contains(t, domain.NotFound("venta", "abc").Error(), "venta abc")
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, domain.IsRetryable(fmt.Errorf("begin: %w", domain.ErrTransient)))
	assert.False(t, domain.IsRetryable(domain.ErrConflict))
	assert.False(t, domain.IsRetryable(nil))
}
