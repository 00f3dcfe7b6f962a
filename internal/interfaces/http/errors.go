package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/domain"
)

// retryAfterSeconds sugerencia al cliente ante errores transitorios.
const retryAfterSeconds = "1"

type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: los errores específicos envuelven a su categoría.
var errorMappings = []errorMapping{
	{domain.ErrOverpayment, fiber.StatusBadRequest, "OVERPAYMENT"},
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrTransient, fiber.StatusServiceUnavailable, "UNAVAILABLE"},
	{context.DeadlineExceeded, fiber.StatusServiceUnavailable, "TIMEOUT"},
	{domain.ErrInvariant, fiber.StatusInternalServerError, "INVARIANT"},
}

// NewErrorHandler traduce los errores devueltos por los handlers a {"code","message"}.
// Los 5xx se registran en el log; su mensaje no se expone al cliente.
func NewErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, code, message := classify(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", status).
				Str("request_id", requestID(c)).
				Msg("error en petición")
		}
		if status == fiber.StatusServiceUnavailable {
			c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: message})
	}
}

func classify(err error) (status int, code, message string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, strings.ToUpper(strings.ReplaceAll(utils.StatusMessage(fe.Code), " ", "_")), fe.Message
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.status >= fiber.StatusInternalServerError {
				return m.status, m.code, "error interno"
			}
			if m.status == fiber.StatusServiceUnavailable {
				return m.status, m.code, domain.ErrTransient.Error()
			}
			return m.status, m.code, err.Error()
		}
	}
	return fiber.StatusInternalServerError, "INTERNAL", "error interno"
}
