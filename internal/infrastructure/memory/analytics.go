package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregados del dashboard calculados sobre el estado en memoria.
type AnalyticsRepo struct{ v view }

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}

// GetSalesMetrics suma ventas, costo y utilidad del período.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, from, to time.Time) (repository.SalesMetrics, error) {
	m := repository.SalesMetrics{Revenue: decimal.Zero, Cost: decimal.Zero, Profit: decimal.Zero}
	err := r.v.do(ctx, func(st *state) error {
		for _, s := range st.sales {
			if !inRange(s.CreatedAt, from, to) {
				continue
			}
			m.SaleCount++
			m.Revenue = m.Revenue.Add(s.Total)
			m.Cost = m.Cost.Add(s.TotalCost)
			m.Profit = m.Profit.Add(s.TotalProfit)
		}
		return nil
	})
	return m, err
}

// GetOutstandingCredit saldo pendiente de las ventas no pagadas.
func (r *AnalyticsRepo) GetOutstandingCredit(ctx context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.v.do(ctx, func(st *state) error {
		paid := map[string]decimal.Decimal{}
		for _, p := range st.payments {
			paid[p.SaleID] = paid[p.SaleID].Add(p.Amount)
		}
		for _, s := range st.sales {
			if s.IsPaid {
				continue
			}
			if bal := s.Total.Sub(paid[s.ID]); bal.IsPositive() {
				total = total.Add(bal)
			}
		}
		return nil
	})
	return total, err
}

// GetTopProducts productos con más unidades vendidas en el período (ventas liquidadas).
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, from, to time.Time, limit int) ([]repository.ProductUnits, error) {
	var out []repository.ProductUnits
	err := r.v.do(ctx, func(st *state) error {
		byID := map[string]*repository.ProductUnits{}
		for _, s := range st.sales {
			if !inRange(s.CreatedAt, from, to) {
				continue
			}
			o, ok := st.orders[s.OrderID]
			if !ok {
				continue
			}
			for _, it := range o.Items {
				pu, ok := byID[it.ProductID]
				if !ok {
					pu = &repository.ProductUnits{ProductID: it.ProductID, Name: it.Name, Revenue: decimal.Zero}
					if p, ok := st.products[it.ProductID]; ok {
						pu.Name = p.Name
					}
					byID[it.ProductID] = pu
				}
				pu.Units += it.StockUnits()
				pu.Revenue = pu.Revenue.Add(it.Subtotal())
			}
		}
		for _, pu := range byID {
			out = append(out, *pu)
		}
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Units == out[j].Units {
				return out[i].ProductID < out[j].ProductID
			}
			return out[i].Units > out[j].Units
		})
		out = paginate(out, limit, 0)
		return nil
	})
	return out, err
}
