package cache

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/application/ports"
)

var _ ports.CatalogCache = Noop{}

// Noop caché vacía: nunca encuentra nada y no guarda nada.
type Noop struct{}

// NewNoop devuelve la caché que se usa sin REDIS_URL.
func NewNoop() Noop { return Noop{} }

func (Noop) Get(_ context.Context, key string, _ any) (string, bool, error) { return key, false, nil }
func (Noop) Set(context.Context, string, any) error                         { return nil }
func (Noop) Invalidate(context.Context) error                               { return nil }
