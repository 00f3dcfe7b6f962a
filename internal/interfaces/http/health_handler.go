package http

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
)

const healthTimeout = 3 * time.Second

// Pinger dependencia cuya conectividad reporta /health (pool de Postgres, Redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health responde 200 si todas las dependencias contestan y 503 si alguna falla.
// Nunca expone credenciales ni detalles del error.
func Health(deps map[string]Pinger) fiber.Handler {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		status := fiber.StatusOK
		checks := fiber.Map{}
		for _, name := range names {
			checks[name] = "connected"
			if err := deps[name].Ping(ctx); err != nil {
				checks[name] = "error"
				status = fiber.StatusServiceUnavailable
			}
		}
		overall := "ok"
		if status != fiber.StatusOK {
			overall = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{"status": overall, "checks": checks})
	}
}
