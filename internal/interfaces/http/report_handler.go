package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/report"
)

// ReportHandler agregados del inventario (protegido).
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Summary godoc
// @Summary      Resumen del inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DataResponse
// @Router       /api/reports/summary [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	s, err := h.uc.Summary()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(s))
}

// LowStock godoc
// @Summary      Items en o por debajo de su nivel mínimo
// @Description  Devuelve los items activos con quantity <= min_stock_level
//               y la cantidad sugerida de pedido para reponer.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]any
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.uc.LowStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"total":   len(list),
		"items":   list,
	})
}
