package repository

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// ReversalRepository persiste el registro de intención/auditoría de cada reversión.
type ReversalRepository interface {
	// Create devuelve domain.ErrDuplicate si la orden ya fue revertida.
	Create(ctx context.Context, reversal *entity.Reversal) error
	GetByOrderID(ctx context.Context, orderID string) (*entity.Reversal, error)
}
