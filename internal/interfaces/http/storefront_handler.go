package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/boutique-api/internal/application/catalog"
	"github.com/jhoicas/boutique-api/internal/application/dto"
	"github.com/jhoicas/boutique-api/internal/application/orders"
)

// StorefrontHandler endpoints públicos de la tienda (catálogo y checkout).
type StorefrontHandler struct {
	uc     *catalog.StorefrontUseCase
	orders *orders.UseCase
}

// NewStorefrontHandler construye el handler.
func NewStorefrontHandler(uc *catalog.StorefrontUseCase, ordersUC *orders.UseCase) *StorefrontHandler {
	return &StorefrontHandler{uc: uc, orders: ordersUC}
}

// ListProducts godoc
// @Summary      Catálogo público
// @Tags         store
// @Produce      json
// @Param        category_id   query  string  false  "Categoría"
// @Param        new_arrivals  query  bool    false  "Solo novedades"
// @Param        coming_soon   query  bool    false  "Solo próximamente"
// @Param        gift_options  query  bool    false  "Solo opciones de regalo"
// @Param        q             query  string  false  "Búsqueda por nombre"
// @Param        limit         query  int     false  "Límite"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/store/products [get]
func (h *StorefrontHandler) ListProducts(c *fiber.Ctx) error {
	var q dto.ProductListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	out, err := h.uc.ListProducts(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetProduct godoc
// @Summary      Detalle de producto
// @Tags         store
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/store/products/{id} [get]
func (h *StorefrontHandler) GetProduct(c *fiber.Ctx) error {
	out, err := h.uc.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListCategories godoc
// @Summary      Categorías
// @Tags         store
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/store/categories [get]
func (h *StorefrontHandler) ListCategories(c *fiber.Ctx) error {
	out, err := h.uc.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListPromotions godoc
// @Summary      Combos activos
// @Tags         store
// @Produce      json
// @Success      200  {array}  dto.PromotionResponse
// @Router       /api/store/promotions [get]
func (h *StorefrontHandler) ListPromotions(c *fiber.Ctx) error {
	out, err := h.uc.ListPromotions(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Checkout godoc
// @Summary      Checkout de la tienda
// @Description  Crea la orden pendiente y devuelve el enlace de WhatsApp para confirmarla.
// @Tags         store
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckoutRequest  true  "Cliente, entrega y líneas"
// @Success      201   {object}  dto.CheckoutResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/store/checkout [post]
func (h *StorefrontHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.orders.Checkout(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
