package dto

import (
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/settlement"
)

// ToOrderResponse convierte una orden con sus líneas congeladas.
func ToOrderResponse(o *entity.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:       it.ProductID,
			Name:            it.Name,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			IsCombo:         it.IsCombo,
			ComboMultiplier: it.ComboMultiplier,
			Subtotal:        it.Subtotal(),
		})
	}
	return OrderResponse{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		Items:        items,
		Total:        o.Total,
		Status:       o.Status,
		DeliveryMode: o.DeliveryMode,
		Source:       o.Source,
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
	}
}

// ToSaleResponse convierte una venta.
func ToSaleResponse(s *entity.Sale) SaleResponse {
	return SaleResponse{
		ID:              s.ID,
		OrderID:         s.OrderID,
		CustomerID:      s.CustomerID,
		Total:           s.Total,
		Discount:        s.Discount,
		LoyaltyRedeemed: s.LoyaltyRedeemed,
		PaymentMethod:   s.PaymentMethod,
		IsPaid:          s.IsPaid,
		TotalCost:       s.TotalCost,
		TotalProfit:     s.TotalProfit,
		CreatedAt:       s.CreatedAt,
	}
}

// ToPaymentResponses convierte los abonos; nunca devuelve nil para que el JSON sea [].
func ToPaymentResponses(list []*entity.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, PaymentResponse{
			ID:        p.ID,
			SaleID:    p.SaleID,
			Amount:    p.Amount,
			Notes:     p.Notes,
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}

// ToCustomerResponse convierte un cliente; nil si no hay cliente (mostrador).
func ToCustomerResponse(c *entity.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		Address:       c.Address,
		LoyaltyStamps: c.LoyaltyStamps,
		CreatedAt:     c.CreatedAt,
	}
}

// ToLedgerResponse arma el libro de crédito de una venta.
func ToLedgerResponse(s *entity.Sale, payments []*entity.Payment) *LedgerResponse {
	return &LedgerResponse{
		Sale:           ToSaleResponse(s),
		Payments:       ToPaymentResponses(payments),
		TotalPaid:      settlement.TotalPaid(payments),
		PendingBalance: settlement.PendingBalance(s.Total, payments),
	}
}

// ToSaleBundle arma los datos de la factura.
func ToSaleBundle(c *entity.Customer, o *entity.Order, s *entity.Sale, payments []*entity.Payment) *SaleBundleResponse {
	return &SaleBundleResponse{
		Customer:       ToCustomerResponse(c),
		Order:          ToOrderResponse(o),
		Sale:           ToSaleResponse(s),
		Payments:       ToPaymentResponses(payments),
		TotalPaid:      settlement.TotalPaid(payments),
		PendingBalance: settlement.PendingBalance(s.Total, payments),
	}
}

// ToProductResponse convierte un producto. withCost expone el costo (solo administración).
func ToProductResponse(p *entity.Product, withCost bool) ProductResponse {
	out := ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Stock:        p.Stock,
		CategoryID:   p.CategoryID,
		IsNewArrival: p.IsNewArrival,
		IsComingSoon: p.IsComingSoon,
		IsGiftOption: p.IsGiftOption,
		ImageURL:     p.ImageURL,
		UpdatedAt:    p.UpdatedAt,
	}
	if withCost {
		cost := p.Cost
		out.Cost = &cost
	}
	return out
}

// ToCategoryResponse convierte una categoría.
func ToCategoryResponse(c *entity.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

// ToPromotionResponse convierte un combo.
func ToPromotionResponse(p *entity.Promotion) PromotionResponse {
	return PromotionResponse{
		ID:            p.ID,
		ProductID:     p.ProductID,
		Name:          p.Name,
		ComboQuantity: p.ComboQuantity,
		ComboPrice:    p.ComboPrice,
		Active:        p.Active,
	}
}
