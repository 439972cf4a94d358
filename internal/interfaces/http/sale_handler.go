package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
)

// SaleHandler maneja ventas y reversiones (protegido).
type SaleHandler struct {
	uc    *inventory.AllocationUseCase
	clock inventory.Clock
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *inventory.AllocationUseCase, clock inventory.Clock) *SaleHandler {
	return &SaleHandler{uc: uc, clock: clock}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Asigna cada línea desde los lotes más antiguos. Si una línea no alcanza no se registra nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Fecha y líneas"
// @Success      201   {object}  dto.SaleSummary
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  OutOfStockResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateSale(c.Context(), inventory.CreateSaleInputFromRequest(stampFrom(c, h.clock), in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta con sus asignaciones
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleSummary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	out, err := h.uc.GetSale(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Allocate godoc
// @Summary      Agregar una línea a una venta existente
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la venta"
// @Param        body  body  dto.SaleLineRequest  true  "Producto, cantidad y precio"
// @Success      201   {array}   dto.SaleItemSummary
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  OutOfStockResponse
// @Router       /api/sales/{id}/items [post]
func (h *SaleHandler) Allocate(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	var in dto.SaleLineRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Allocate(c.Context(), inventory.AllocateInputFromRequest(stampFrom(c, h.clock), id, in))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Delete godoc
// @Summary      Revertir venta completa
// @Tags         sales
// @Security     Bearer
// @Param        id   path  int  true  "ID de la venta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.ReverseSale(c.Context(), id, stampFrom(c, h.clock)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReverseItem godoc
// @Summary      Revertir un SaleItem
// @Description  Devuelve la cantidad al lote exacto del que salió.
// @Tags         sales
// @Security     Bearer
// @Param        id   path  int  true  "ID del SaleItem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sale-items/{id} [delete]
func (h *SaleHandler) ReverseItem(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.uc.Reverse(c.Context(), id, stampFrom(c, h.clock)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
