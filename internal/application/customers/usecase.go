// Package customers administra clientes registrados y su tarjeta de sellos.
package customers

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/ports"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/loyalty"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
)

const historyLimit = 50 // ventas recientes en el detalle del cliente

// UseCase casos de uso de clientes.
type UseCase struct {
	tx        ports.TxRunner
	customers repository.CustomerRepository
	sales     repository.SaleRepository
	loyalty   repository.LoyaltyRepository
	log       zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, customers repository.CustomerRepository, sales repository.SaleRepository, loyaltyRepo repository.LoyaltyRepository, log zerolog.Logger) *UseCase {
	return &UseCase{tx: tx, customers: customers, sales: sales, loyalty: loyaltyRepo, log: log}
}

// List busca clientes por nombre o teléfono.
func (uc *UseCase) List(ctx context.Context, search string, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	page.DefaultPage()
	list, err := uc.customers.List(ctx, search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *dto.ToCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Get devuelve el cliente con sus ventas más recientes.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.CustomerDetailResponse, error) {
	c, err := uc.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("cliente", id)
	}
	list, err := uc.sales.List(ctx, repository.SaleFilter{CustomerID: id, Limit: historyLimit})
	if err != nil {
		return nil, err
	}
	sales := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		sales = append(sales, dto.ToSaleResponse(s))
	}
	return &dto.CustomerDetailResponse{CustomerResponse: *dto.ToCustomerResponse(c), Sales: sales}, nil
}

// Update actualiza nombre, teléfono y dirección. ErrDuplicate si el teléfono ya es de otro cliente.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	phone := entity.NormalizePhone(in.Phone)
	if phone == "" {
		return nil, domain.Validation("teléfono inválido")
	}
	c, err := uc.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("cliente", id)
	}
	c.Name = in.Name
	c.Phone = phone
	c.Address = in.Address
	c.UpdatedAt = time.Now()
	if err := uc.customers.Update(ctx, c); err != nil {
		return nil, err
	}
	return dto.ToCustomerResponse(c), nil
}

// Delete elimina un cliente sin ventas. Con ventas registradas devuelve ErrConflict.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.tx.Run(ctx, func(r repository.TxRepos) error {
		c, err := r.Customers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound("cliente", id)
		}
		n, err := r.Sales.CountByCustomer(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.Conflict("el cliente tiene %d ventas registradas", n)
		}
		return r.Customers.Delete(ctx, id)
	})
}

// GetLoyalty devuelve el contador guardado, el que resulta de reproducir los eventos
// y el historial.
func (uc *UseCase) GetLoyalty(ctx context.Context, id string) (*dto.LoyaltyResponse, error) {
	c, err := uc.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NotFound("cliente", id)
	}
	events, err := uc.loyalty.ListByCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLoyaltyResponse(c, events), nil
}

// RecomputeLoyalty reescribe el contador del cliente a partir de sus eventos.
func (uc *UseCase) RecomputeLoyalty(ctx context.Context, id string) (*dto.LoyaltyResponse, error) {
	var out *dto.LoyaltyResponse
	err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		c, err := r.Customers.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound("cliente", id)
		}
		events, err := r.Loyalty.ListByCustomer(ctx, id)
		if err != nil {
			return err
		}
		folded := loyalty.Fold(events)
		if folded != c.LoyaltyStamps {
			uc.log.Warn().Str("customer_id", id).Int("stored", c.LoyaltyStamps).Int("folded", folded).
				Msg("contador de sellos corregido")
			if err := r.Customers.UpdateStamps(ctx, id, folded); err != nil {
				return err
			}
			c.LoyaltyStamps = folded
		}
		out = toLoyaltyResponse(c, events)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func toLoyaltyResponse(c *entity.Customer, events []*entity.LoyaltyEvent) *dto.LoyaltyResponse {
	out := &dto.LoyaltyResponse{
		CustomerID:   c.ID,
		StoredStamps: c.LoyaltyStamps,
		FoldedStamps: loyalty.Fold(events),
		CanRedeem:    loyalty.CanRedeem(c.LoyaltyStamps),
		Events:       make([]dto.LoyaltyEventResponse, 0, len(events)),
	}
	for _, ev := range events {
		out.Events = append(out.Events, dto.LoyaltyEventResponse{
			ID:        ev.ID,
			SaleID:    ev.SaleID,
			Kind:      ev.Kind,
			CreatedAt: ev.CreatedAt,
		})
	}
	return out
}
