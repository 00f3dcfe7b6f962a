package repository

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// OrderFilter filtros del listado de órdenes.
type OrderFilter struct {
	Status     string
	CustomerID string
	Limit      int
	Offset     int
}

// OrderRepository define el puerto de persistencia para Order (con sus líneas congeladas).
// GetByID y GetForUpdate devuelven (nil, nil) si la orden no existe.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) dentro de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error)
	Delete(ctx context.Context, id string) error
}
