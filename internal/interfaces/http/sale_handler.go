package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/sales"
)

// SaleHandler ventas liquidadas: consulta, cambio de método, abonos y reversión.
type SaleHandler struct {
	query    *sales.QueryUseCase
	ledger   *sales.LedgerUseCase
	reversal *sales.ReversalUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(query *sales.QueryUseCase, ledger *sales.LedgerUseCase, reversal *sales.ReversalUseCase) *SaleHandler {
	return &SaleHandler{query: query, ledger: ledger, reversal: reversal}
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        paid            query  string  false  "true | false"
// @Param        payment_method  query  string  false  "Contado | Crédito"
// @Param        customer_id     query  string  false  "Cliente"
// @Param        from            query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to              query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit           query  int     false  "Límite"
// @Param        offset          query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.SaleListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var q dto.SaleListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.query.List(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Venta con orden, cliente y abonos
// @Description  Devuelve el paquete JSON que sirve de comprobante.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleBundleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/sales/{id} [get]
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	out, err := h.query.GetBundle(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Cambiar método de pago
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleRequest  true  "Nuevo método"
// @Success      200   {object}  dto.LedgerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admin/sales/{id} [patch]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSaleRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.query.UpdatePaymentMethod(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Revertir venta
// @Description  Repone stock y elimina venta, abonos y orden.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.ReversalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	out, err := h.reversal.Reverse(c.UserContext(), sales.ReversalTarget{SaleID: c.Params("id")})
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListPayments godoc
// @Summary      Estado de cuenta de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.LedgerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/sales/{id}/payments [get]
func (h *SaleHandler) ListPayments(c *fiber.Ctx) error {
	out, err := h.ledger.GetLedger(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// AddPayment godoc
// @Summary      Registrar abono
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la venta"
// @Param        body  body  dto.AddPaymentRequest  true  "Monto y notas"
// @Success      201   {object}  dto.LedgerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/sales/{id}/payments [post]
func (h *SaleHandler) AddPayment(c *fiber.Ctx) error {
	var in dto.AddPaymentRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.ledger.AddPayment(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeletePayment godoc
// @Summary      Eliminar abono
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id         path  string  true  "ID de la venta"
// @Param        paymentId  path  string  true  "ID del abono"
// @Success      200  {object}  dto.LedgerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/sales/{id}/payments/{paymentId} [delete]
func (h *SaleHandler) DeletePayment(c *fiber.Ctx) error {
	out, err := h.ledger.DeletePayment(c.UserContext(), c.Params("id"), c.Params("paymentId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
