// Package orders captura órdenes desde la tienda (checkout) y desde el punto de venta.
// Una orden congela nombre y precio de cada línea; no reserva stock.
package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/ports"
	"github.com/jhoicas/boutique-api/internal/domain"
	"github.com/jhoicas/boutique-api/internal/domain/entity"
	"github.com/jhoicas/boutique-api/internal/domain/repository"
	"github.com/jhoicas/boutique-api/internal/domain/settlement"
)

// LinkBuilder arma el enlace de WhatsApp con el resumen de la orden.
type LinkBuilder interface {
	OrderLink(order *entity.Order, customer *entity.Customer) string
}

// UseCase casos de uso de captura y consulta de órdenes.
type UseCase struct {
	tx         ports.TxRunner
	orders     repository.OrderRepository
	products   repository.ProductRepository
	promotions repository.PromotionRepository
	customers  repository.CustomerRepository
	links      LinkBuilder
	log        zerolog.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tx ports.TxRunner,
	orders repository.OrderRepository,
	products repository.ProductRepository,
	promotions repository.PromotionRepository,
	customers repository.CustomerRepository,
	links LinkBuilder,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		tx:         tx,
		orders:     orders,
		products:   products,
		promotions: promotions,
		customers:  customers,
		links:      links,
		log:        log,
		now:        time.Now,
	}
}

// Checkout crea la orden de la tienda. El cliente se busca por teléfono normalizado y
// se crea o se actualiza (nombre y dirección) en la misma transacción que la orden.
func (uc *UseCase) Checkout(ctx context.Context, in dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	phone := entity.NormalizePhone(in.Customer.Phone)
	if phone == "" || in.Customer.Name == "" {
		return nil, domain.Validation("nombre y teléfono del cliente son obligatorios")
	}
	if in.DeliveryMode != entity.DeliveryPickup && in.DeliveryMode != entity.DeliveryDelivery {
		return nil, domain.Validation("modo de entrega %q no soportado", in.DeliveryMode)
	}
	if in.DeliveryMode == entity.DeliveryDelivery && in.Customer.Address == "" {
		return nil, domain.Validation("la entrega a domicilio requiere dirección")
	}
	items, err := uc.snapshot(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	order := &entity.Order{
		ID:           uuid.New().String(),
		Items:        items,
		Total:        settlement.OrderTotal(items),
		Status:       entity.OrderStatusPending,
		DeliveryMode: in.DeliveryMode,
		Source:       entity.OrderSourceStorefront,
		Notes:        in.Notes,
		CreatedAt:    now,
	}
	var customer *entity.Customer
	err = uc.tx.Run(ctx, func(r repository.TxRepos) error {
		c, err := upsertCustomer(ctx, r.Customers, in.Customer, phone, now)
		if err != nil {
			return err
		}
		order.CustomerID = c.ID
		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}
		customer = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("order_id", order.ID).Str("customer_id", customer.ID).
		Str("total", order.Total.StringFixed(2)).Int("lines", len(items)).Msg("orden de tienda creada")
	return &dto.CheckoutResponse{
		Order:       dto.ToOrderResponse(order),
		WhatsAppURL: uc.links.OrderLink(order, customer),
	}, nil
}

// CreatePOSOrder crea una orden desde el punto de venta. Sin CustomerID es una venta de mostrador.
func (uc *UseCase) CreatePOSOrder(ctx context.Context, in dto.POSOrderRequest) (*dto.OrderResponse, error) {
	mode := in.DeliveryMode
	if mode == "" {
		mode = entity.DeliveryPickup
	}
	if mode != entity.DeliveryPickup && mode != entity.DeliveryDelivery {
		return nil, domain.Validation("modo de entrega %q no soportado", mode)
	}
	if in.CustomerID != "" {
		c, err := uc.customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, domain.NotFound("cliente", in.CustomerID)
		}
	}
	items, err := uc.snapshot(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	order := &entity.Order{
		ID:           uuid.New().String(),
		CustomerID:   in.CustomerID,
		Items:        items,
		Total:        settlement.OrderTotal(items),
		Status:       entity.OrderStatusPending,
		DeliveryMode: mode,
		Source:       entity.OrderSourcePOS,
		Notes:        in.Notes,
		CreatedAt:    uc.now(),
	}
	if err := uc.tx.Run(ctx, func(r repository.TxRepos) error {
		return r.Orders.Create(ctx, order)
	}); err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("customer_id", order.CustomerID).
		Str("total", order.Total.StringFixed(2)).Msg("orden POS creada")
	out := dto.ToOrderResponse(order)
	return &out, nil
}

// List lista órdenes, las más recientes primero.
func (uc *UseCase) List(ctx context.Context, q dto.OrderListQuery) (*dto.OrderListResponse, error) {
	if q.Status != "" && q.Status != entity.OrderStatusPending && q.Status != entity.OrderStatusProcessed {
		return nil, domain.Validation("estado %q no soportado", q.Status)
	}
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()
	list, err := uc.orders.List(ctx, repository.OrderFilter{
		Status:     q.Status,
		CustomerID: q.CustomerID,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		items = append(items, dto.ToOrderResponse(o))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Get obtiene una orden por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.NotFound("orden", id)
	}
	out := dto.ToOrderResponse(o)
	return &out, nil
}

// snapshot valida las líneas y congela nombre y precio desde el catálogo.
// La verificación de stock es orientativa: el stock solo se descuenta al liquidar.
func (uc *UseCase) snapshot(ctx context.Context, lines []dto.OrderItemRequest) ([]entity.OrderItem, error) {
	if len(lines) == 0 {
		return nil, domain.Validation("la orden no tiene productos")
	}
	items := make([]entity.OrderItem, 0, len(lines))
	stock := make(map[string]int, len(lines))
	for _, line := range lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			return nil, domain.Validation("línea inválida: producto y cantidad positiva son obligatorios")
		}
		p, err := uc.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.NotFound("producto", line.ProductID)
		}
		if !p.Purchasable() {
			return nil, domain.Validation("el producto %s aún no está disponible", p.Name)
		}
		stock[p.ID] = p.Stock

		item := entity.OrderItem{
			ProductID:       p.ID,
			Name:            p.Name,
			Quantity:        line.Quantity,
			UnitPrice:       p.Price,
			ComboMultiplier: 1,
		}
		if line.PromotionID != "" {
			promo, err := uc.promotions.GetByID(ctx, line.PromotionID)
			if err != nil {
				return nil, err
			}
			if promo == nil {
				return nil, domain.NotFound("promoción", line.PromotionID)
			}
			if !promo.Active || promo.ProductID != p.ID {
				return nil, domain.Validation("la promoción %s no aplica al producto %s", promo.Name, p.Name)
			}
			item.Name = promo.Name
			item.UnitPrice = promo.ComboPrice
			item.IsCombo = true
			item.ComboMultiplier = promo.ComboQuantity
		}
		items = append(items, item)
	}
	for id, units := range settlement.UnitsByProduct(items) {
		if units > stock[id] {
			return nil, fmt.Errorf("%w: producto %s pide %d, hay %d",
				domain.ErrInsufficientStock, id, units, stock[id])
		}
	}
	return items, nil
}

func upsertCustomer(ctx context.Context, repo repository.CustomerRepository, in dto.CheckoutCustomer, phone string, now time.Time) (*entity.Customer, error) {
	c, err := repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &entity.Customer{
			ID:        uuid.New().String(),
			Name:      in.Name,
			Phone:     phone,
			Address:   in.Address,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := repo.Create(ctx, c); err != nil {
			return nil, err
		}
		return c, nil
	}
	c.Name = in.Name
	if in.Address != "" {
		c.Address = in.Address
	}
	c.UpdatedAt = now
	if err := repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
