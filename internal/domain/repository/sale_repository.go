package repository

import (
	"context"
	"time"

	"github.com/jhoicas/boutique-api/internal/domain/entity"
)

// SaleFilter filtros del libro de ventas. Paid nil = todas.
type SaleFilter struct {
	Paid          *bool
	PaymentMethod string
	CustomerID    string
	From          time.Time
	To            time.Time
	Limit         int
	Offset        int
}

// SaleRepository define el puerto de persistencia para Sale.
// Las lecturas devuelven (nil, nil) si la venta no existe.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Sale, error)
	GetByOrderID(ctx context.Context, orderID string) (*entity.Sale, error)
	// UpdatePaymentState actualiza método de pago y bandera de pagado.
	UpdatePaymentState(ctx context.Context, id, paymentMethod string, isPaid bool) error
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	CountByCustomer(ctx context.Context, customerID string) (int, error)
	Delete(ctx context.Context, id string) error
}
