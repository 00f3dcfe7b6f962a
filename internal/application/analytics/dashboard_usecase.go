// Package analytics contiene el resumen financiero del dashboard de la boutique.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // productos en el widget del dashboard

// DashboardUseCase genera el resumen financiero del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only sobre sales y orders).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro consultas en paralelo con errgroup; la primera que falla cancela el resto:
//  1. GetSalesMetrics(hoy)          → TodaySales, TodayProfit, TodayCount
//  2. GetSalesMetrics(mes)          → MonthlySales, MonthlyProfit, MonthlyCount
//  3. GetOutstandingCredit()        → OutstandingCredit
//  4. GetTopProducts(mes, top 5)    → TopProducts
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Hoy: 00:00:00 – 23:59:59.999
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)

	// Mes en curso: día 1 a las 00:00 – hoy a las 23:59:59
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := todayEnd

	var (
		today, month repository.SalesMetrics
		credit       decimal.Decimal
		top          []repository.ProductUnits
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if today, err = uc.analyticsRepo.GetSalesMetrics(gctx, todayStart, todayEnd); err != nil {
			return fmt.Errorf("dashboard: métricas de hoy: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if month, err = uc.analyticsRepo.GetSalesMetrics(gctx, monthStart, monthEnd); err != nil {
			return fmt.Errorf("dashboard: métricas del mes: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if credit, err = uc.analyticsRepo.GetOutstandingCredit(gctx); err != nil {
			return fmt.Errorf("dashboard: crédito pendiente: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		if top, err = uc.analyticsRepo.GetTopProducts(gctx, monthStart, monthEnd, dashboardTopProducts); err != nil {
			return fmt.Errorf("dashboard: top productos: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	products := make([]dto.TopProductDTO, 0, len(top))
	for _, p := range top {
		products = append(products, dto.TopProductDTO{
			ProductID: p.ProductID,
			Name:      p.Name,
			Units:     p.Units,
			Revenue:   p.Revenue.Round(2),
		})
	}

	return &dto.DashboardSummaryDTO{
		TodaySales:        today.Revenue.Round(2),
		TodayProfit:       today.Profit.Round(2),
		TodayCount:        today.SaleCount,
		MonthlySales:      month.Revenue.Round(2),
		MonthlyProfit:     month.Profit.Round(2),
		MonthlyCount:      month.SaleCount,
		OutstandingCredit: credit.Round(2),
		TopProducts:       products,
		DateLabel:         monthLabel(now),
	}, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Octubre 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
