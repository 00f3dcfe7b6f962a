package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/admin/dashboard.
type DashboardSummaryDTO struct {
	// Métricas del día actual (00:00 – 23:59)
	TodaySales  decimal.Decimal `json:"today_sales"`
	TodayProfit decimal.Decimal `json:"today_profit"`
	TodayCount  int             `json:"today_count"`

	// Métricas del mes en curso (día 1 – hoy)
	MonthlySales  decimal.Decimal `json:"monthly_sales"`
	MonthlyProfit decimal.Decimal `json:"monthly_profit"`
	MonthlyCount  int             `json:"monthly_count"`

	// Saldo pendiente de todas las ventas a crédito
	OutstandingCredit decimal.Decimal `json:"outstanding_credit"`

	TopProducts []TopProductDTO `json:"top_products"`

	DateLabel string `json:"date_label"` // ej: "Octubre 2026"
}

// TopProductDTO producto más vendido del mes.
type TopProductDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Units     int             `json:"units"`
	Revenue   decimal.Decimal `json:"revenue"`
}
