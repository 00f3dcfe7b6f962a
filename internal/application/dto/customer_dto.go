package dto

import "time"

// UpdateCustomerRequest body para PUT /api/admin/customers/:id.
type UpdateCustomerRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Phone   string `json:"phone" validate:"required,min=7,max=20"`
	Address string `json:"address,omitempty" validate:"max=300"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address,omitempty"`
	LoyaltyStamps int       `json:"loyalty_stamps"`
	CreatedAt     time.Time `json:"created_at"`
}

// CustomerDetailResponse cliente con su historial de compras.
type CustomerDetailResponse struct {
	CustomerResponse
	Sales []SaleResponse `json:"sales"`
}

// LoyaltyEventResponse evento de la tarjeta de sellos.
type LoyaltyEventResponse struct {
	ID        string    `json:"id"`
	SaleID    string    `json:"sale_id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// LoyaltyResponse estado de la tarjeta de sellos. StoredStamps es el contador guardado en
// el cliente; FoldedStamps el que resulta de reproducir los eventos.
type LoyaltyResponse struct {
	CustomerID   string                 `json:"customer_id"`
	StoredStamps int                    `json:"stored_stamps"`
	FoldedStamps int                    `json:"folded_stamps"`
	CanRedeem    bool                   `json:"can_redeem"`
	Events       []LoyaltyEventResponse `json:"events"`
}

// CustomerListResponse listado paginado de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
