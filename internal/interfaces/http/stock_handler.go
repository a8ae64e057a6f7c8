package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/stock"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StockHandler maneja ajustes de stock y posteo de transacciones (protegido).
type StockHandler struct {
	uc *stock.UseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.UseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Adjust godoc
// @Summary      Ajustar stock por delta con signo
// @Description  Delta positivo = entrada (stock_in), negativo = salida
//               (stock_out). Si el delta dejaría la cantidad negativa se
//               responde 409 y el item no cambia.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del item"
// @Param        body  body  dto.AdjustStockRequest  true  "delta y nota"
// @Success      200   {object}  dto.DataResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items/{id}/stock [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("id es requerido"))
	}
	var req dto.AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("cuerpo inválido"))
	}
	updated, err := h.uc.Adjust(c.Context(), GetUserID(c), id, req.Delta, req.Note)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(dto.ToItemResponse(updated)))
}

// PostTransaction godoc
// @Summary      Postear una transacción multi-línea (venta / recepción)
// @Description  Todas las líneas se aplican o ninguna: si alguna fallaría
//               por stock insuficiente o item inexistente, la transacción
//               completa se rechaza sin efectos.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostTransactionRequest  true  "líneas y nota"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *StockHandler) PostTransaction(c *fiber.Ctx) error {
	var req dto.PostTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("cuerpo inválido"))
	}
	lines := make([]entity.TransactionLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, entity.TransactionLine{ItemID: l.ItemID, Delta: l.Delta})
	}
	txID, applied, err := h.uc.PostTransaction(c.Context(), GetUserID(c), lines, req.Note)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.ItemResponse, 0, len(applied))
	for _, it := range applied {
		items = append(items, *dto.ToItemResponse(it))
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransactionResponse{
		Success: true,
		TxID:    txID,
		Items:   items,
	})
}
