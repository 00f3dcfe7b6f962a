package repository

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para los abonos de una venta.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	ListBySale(ctx context.Context, saleID string) ([]*entity.Payment, error)
	Delete(ctx context.Context, id string) error
	// DeleteBySale elimina todos los abonos de la venta y devuelve cuántos eliminó.
	DeleteBySale(ctx context.Context, saleID string) (int, error)
}
