package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics suma ventas, costo y utilidad del período [from, to].
// COALESCE devuelve cero si no hay ventas.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	const query = `
	SELECT
	    COUNT(*)                        AS sale_count,
	    COALESCE(SUM(total),        0)  AS revenue,
	    COALESCE(SUM(total_cost),   0)  AS cost,
	    COALESCE(SUM(total_profit), 0)  AS profit
	FROM sales
	WHERE created_at BETWEEN $1 AND $2`

	var m repository.SalesMetrics
	err := r.q.QueryRow(ctx, query, from, to).Scan(&m.SaleCount, &m.Revenue, &m.Cost, &m.Profit)
	if err != nil {
		return repository.SalesMetrics{}, translate(err, "analytics.GetSalesMetrics")
	}
	return m, nil
}

// GetOutstandingCredit saldo pendiente de las ventas no pagadas (total menos abonos, nunca negativo).
func (r *AnalyticsRepo) GetOutstandingCredit(ctx context.Context) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(GREATEST(s.total - COALESCE(p.paid, 0), 0)), 0)
	FROM sales s
	LEFT JOIN (
	    SELECT sale_id, SUM(amount) AS paid FROM payments GROUP BY sale_id
	) p ON p.sale_id = s.id
	WHERE NOT s.is_paid`

	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query).Scan(&total); err != nil {
		return decimal.Zero, translate(err, "analytics.GetOutstandingCredit")
	}
	return total, nil
}

// GetTopProducts productos con más unidades vendidas en el período, desde las líneas congeladas.
// Los combos cuentan cantidad por multiplicador; el nombre vigente del producto tiene prioridad.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.ProductUnits, error) {
	const query = `
	SELECT
	    oi.product_id,
	    COALESCE(MAX(p.name), MAX(oi.name))                                                AS name,
	    SUM(oi.quantity * CASE WHEN oi.is_combo THEN oi.combo_multiplier ELSE 1 END)::INT AS units,
	    SUM(oi.quantity * oi.unit_price)                                                   AS revenue
	FROM sales s
	JOIN order_items oi ON oi.order_id = s.order_id
	LEFT JOIN products p ON p.id = oi.product_id
	WHERE s.created_at BETWEEN $1 AND $2
	GROUP BY oi.product_id
	ORDER BY units DESC, oi.product_id
	LIMIT $3`

	rows, err := r.q.Query(ctx, query, from, to, limitArg(limit))
	if err != nil {
		return nil, translate(err, "analytics.GetTopProducts")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (repository.ProductUnits, error) {
		var pu repository.ProductUnits
		err := row.Scan(&pu.ProductID, &pu.Name, &pu.Units, &pu.Revenue)
		return pu, err
	})
	return out, translate(err, "analytics.GetTopProducts scan")
}
