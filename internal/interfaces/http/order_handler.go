package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/orders"
	"github.com/jhoicas/boutique-api/internal/application/sales"
)

// OrderHandler órdenes del panel: listado, POS, liquidación y reversión.
type OrderHandler struct {
	uc       *orders.UseCase
	settle   *sales.SettlementUseCase
	reversal *sales.ReversalUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *orders.UseCase, settle *sales.SettlementUseCase, reversal *sales.ReversalUseCase) *OrderHandler {
	return &OrderHandler{uc: uc, settle: settle, reversal: reversal}
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "pending | processed"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        limit        query  int     false  "Límite"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.OrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var q dto.OrderListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/orders/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CreatePOS godoc
// @Summary      Crear orden de mostrador
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.POSOrderRequest  true  "Cliente opcional y líneas"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/orders [post]
func (h *OrderHandler) CreatePOS(c *fiber.Ctx) error {
	var in dto.POSOrderRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreatePOSOrder(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Settle godoc
// @Summary      Liquidar orden
// @Description  Convierte la orden pendiente en venta: descuenta stock, registra el pago de contado y suma sello.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la orden"
// @Param        body  body  dto.SettleRequest  true  "Método de pago y descuento"
// @Success      201   {object}  dto.SaleBundleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/admin/orders/{id}/settle [post]
func (h *OrderHandler) Settle(c *fiber.Ctx) error {
	var in dto.SettleRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.settle.Settle(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Revertir orden
// @Description  Elimina la orden; si ya tenía venta repone el stock y borra venta y abonos.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.ReversalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	out, err := h.reversal.Reverse(c.UserContext(), sales.ReversalTarget{OrderID: c.Params("id")})
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// CreatePOSSale godoc
// @Summary      Venta de mostrador
// @Description  Crea la orden y la liquida en un solo paso.
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.POSSaleRequest  true  "Líneas, cliente opcional y pago"
// @Success      201   {object}  dto.SaleBundleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/pos/sales [post]
func (h *OrderHandler) CreatePOSSale(c *fiber.Ctx) error {
	var in dto.POSSaleRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.settle.CreatePOSSale(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
