package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettleRequest body para POST /api/admin/orders/:id/settle.
type SettleRequest struct {
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=Contado Crédito"`
	Discount      decimal.Decimal `json:"discount"`
	RedeemLoyalty bool            `json:"redeem_loyalty"`
}

// POSSaleRequest body para POST /api/admin/pos/sales: crea la orden y la liquida.
type POSSaleRequest struct {
	POSOrderRequest
	SettleRequest
}

// SaleResponse venta con el estado de su libro de crédito.
type SaleResponse struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"order_id"`
	CustomerID      string          `json:"customer_id,omitempty"`
	Total           decimal.Decimal `json:"total"`
	Discount        decimal.Decimal `json:"discount"`
	LoyaltyRedeemed bool            `json:"loyalty_redeemed"`
	PaymentMethod   string          `json:"payment_method"`
	IsPaid          bool            `json:"is_paid"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	TotalProfit     decimal.Decimal `json:"total_profit"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PaymentResponse abono en respuestas.
type PaymentResponse struct {
	ID        string          `json:"id"`
	SaleID    string          `json:"sale_id"`
	Amount    decimal.Decimal `json:"amount"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// AddPaymentRequest body para POST /api/admin/sales/:id/payments.
type AddPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Notes  string          `json:"notes,omitempty" validate:"max=300"`
}

// LedgerResponse libro de crédito de una venta.
type LedgerResponse struct {
	Sale           SaleResponse      `json:"sale"`
	Payments       []PaymentResponse `json:"payments"`
	TotalPaid      decimal.Decimal   `json:"total_paid"`
	PendingBalance decimal.Decimal   `json:"pending_balance"`
}

// SaleBundleResponse datos de la factura: cliente, orden con líneas, venta y abonos.
// Es lo que recibe el frontend para renderizar el comprobante.
type SaleBundleResponse struct {
	Customer       *CustomerResponse `json:"customer,omitempty"`
	Order          OrderResponse     `json:"order"`
	Sale           SaleResponse      `json:"sale"`
	Payments       []PaymentResponse `json:"payments"`
	TotalPaid      decimal.Decimal   `json:"total_paid"`
	PendingBalance decimal.Decimal   `json:"pending_balance"`
}

// UpdateSaleRequest body para PATCH /api/admin/sales/:id.
type UpdateSaleRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=Contado Crédito"`
}

// SaleListQuery query string de GET /api/admin/sales. From/To en formato YYYY-MM-DD.
type SaleListQuery struct {
	Paid          string `query:"paid" validate:"omitempty,oneof=true false"`
	PaymentMethod string `query:"payment_method" validate:"omitempty,oneof=Contado Crédito"`
	CustomerID    string `query:"customer_id"`
	From          string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To            string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Limit         int    `query:"limit"`
	Offset        int    `query:"offset"`
}

// RestockLine unidades devueltas al inventario por producto en una reversión.
// Skipped indica que el producto ya no existe y no se pudo reponer.
type RestockLine struct {
	ProductID string `json:"product_id"`
	Units     int    `json:"units"`
	Skipped   bool   `json:"skipped,omitempty"`
}

// ReversalResponse resumen de la reversión.
type ReversalResponse struct {
	OrderID         string        `json:"order_id"`
	SaleID          string        `json:"sale_id,omitempty"`
	EntryPoint      string        `json:"entry_point"`
	Restocked       []RestockLine `json:"restocked"`
	DeletedPayments int           `json:"deleted_payments"`
}

// SaleListResponse listado paginado del libro de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
