package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-ledger/internal/application/dto"
	"github.com/jhoicas/Inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/Inventario-ledger/internal/application/usecase"
)

// InventoryHandler consultas transversales del inventario: reposición y bitácora (protegido).
type InventoryHandler struct {
	replenishment *inventory.ReplenishmentUseCase
	activity      *usecase.ActivityUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(replenishment *inventory.ReplenishmentUseCase, activity *usecase.ActivityUseCase) *InventoryHandler {
	return &InventoryHandler{replenishment: replenishment, activity: activity}
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos por debajo del nivel de alerta con la cantidad sugerida de pedido,
//
//	ordenados por unidades vendidas y luego por déficit.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReplenishmentListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReplenishmentListResponse{Total: len(list), Replenishments: list})
}

// ListActivityLogs godoc
// @Summary      Bitácora de auditoría
// @Description  Entradas más recientes primero.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.ListResponse[dto.ActivityLogResponse]
// @Router       /api/activity-logs [get]
func (h *InventoryHandler) ListActivityLogs(c *fiber.Ctx) error {
	page := pageFrom(c)
	logs, err := h.activity.List(c.Context(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewListResponse(logs, page))
}
