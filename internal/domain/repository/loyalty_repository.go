package repository

import (
	"context"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// LoyaltyRepository registro append-only de eventos de fidelización.
type LoyaltyRepository interface {
	Append(ctx context.Context, event *entity.LoyaltyEvent) error
	// ListByCustomer devuelve los eventos en orden cronológico.
	ListByCustomer(ctx context.Context, customerID string) ([]*entity.LoyaltyEvent, error)
}
