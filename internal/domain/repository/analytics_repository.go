package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics agregados de ventas en un período.
type SalesMetrics struct {
	SaleCount int
	Revenue   decimal.Decimal // suma de sales.total
	Cost      decimal.Decimal
	Profit    decimal.Decimal
}

// ProductUnits unidades vendidas de un producto (desde las líneas congeladas de las órdenes).
type ProductUnits struct {
	ProductID string
	Name      string
	Units     int
	Revenue   decimal.Decimal
}

// AnalyticsRepository consultas read-only para el dashboard.
type AnalyticsRepository interface {
	GetSalesMetrics(ctx context.Context, from, to time.Time) (SalesMetrics, error)
	// GetOutstandingCredit saldo pendiente total de las ventas a crédito no pagadas.
	GetOutstandingCredit(ctx context.Context) (decimal.Decimal, error)
	GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]ProductUnits, error)
}
