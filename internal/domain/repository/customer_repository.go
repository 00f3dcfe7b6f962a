package repository

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// CustomerRepository define el puerto de persistencia para Customer.
// Las lecturas devuelven (nil, nil) si el cliente no existe.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id string) (*entity.Customer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	// Update actualiza nombre, teléfono y dirección.
	Update(ctx context.Context, customer *entity.Customer) error
	UpdateStamps(ctx context.Context, id string, stamps int) error
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Customer, error)
	Delete(ctx context.Context, id string) error
}
