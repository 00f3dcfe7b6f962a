package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/boutique-api/internal/application/customers"
	"github.com/jhoicas/boutique-api/internal/application/dto"
)

// CustomerHandler maneja las peticiones HTTP de clientes (protegido).
type CustomerHandler struct {
	uc *customers.UseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *customers.UseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// List GET /api/admin/customers?q=&limit=&offset=
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "query inválido")
	}
	page.DefaultPage()
	if err := validateStruct(&page); err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), strings.TrimSpace(c.Query("q")), page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get GET /api/admin/customers/:id (incluye historial de ventas)
func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update PUT /api/admin/customers/:id
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCustomerRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete DELETE /api/admin/customers/:id (409 si tiene ventas)
func (h *CustomerHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetLoyalty GET /api/admin/customers/:id/loyalty
func (h *CustomerHandler) GetLoyalty(c *fiber.Ctx) error {
	out, err := h.uc.GetLoyalty(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RecomputeLoyalty POST /api/admin/customers/:id/loyalty/recompute
func (h *CustomerHandler) RecomputeLoyalty(c *fiber.Ctx) error {
	out, err := h.uc.RecomputeLoyalty(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
