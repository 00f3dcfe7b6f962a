package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Las capas externas envuelven estos sentinels con fmt.Errorf("%w: ...") y los
// handlers los comparan con errors.Is.
var (
	ErrValidation   = errors.New("entrada inválida")
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrConflict     = errors.New("conflicto con el estado actual")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrTransient    = errors.New("almacenamiento no disponible, reintente")
	ErrInvariant    = errors.New("violación de invariante")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")

	// Errores específicos que pertenecen a una categoría de la taxonomía.
	ErrInsufficientStock = fmt.Errorf("%w: stock insuficiente", ErrConflict)
	ErrOverpayment       = fmt.Errorf("%w: el abono supera el saldo pendiente", ErrValidation)
)

// Validation envuelve ErrValidation con un detalle legible.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound envuelve ErrNotFound indicando el recurso.
func NotFound(resource, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}

// Conflict envuelve ErrConflict con un detalle legible.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Invariant envuelve ErrInvariant. Nunca debería ocurrir; el caller aborta la operación.
func Invariant(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

// IsRetryable indica si la operación puede reintentarse (solo errores transitorios de I/O).
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}
