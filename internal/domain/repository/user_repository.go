package repository

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios de administración.
type UserRepository interface {
	Create(ctx context.Context, user *entity.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*entity.AdminUser, error)
	GetByID(ctx context.Context, id string) (*entity.AdminUser, error)
}
