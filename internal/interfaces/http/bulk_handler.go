package http

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/bulk"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
)

// BulkHandler maneja el endpoint de mutaciones por lote (protegido).
type BulkHandler struct {
	engine *bulk.Engine
}

// NewBulkHandler construye el handler.
func NewBulkHandler(engine *bulk.Engine) *BulkHandler {
	return &BulkHandler{engine: engine}
}

// Mutate godoc
// @Summary      Mutación por lote (create / update / delete)
// @Description  Procesa hasta 100 items con semántica best-effort: los
//               fallos individuales no detienen al resto. La respuesta
//               reporta successful, failed y errors en orden de entrada.
//               Los errores de forma del lote (vacío, demasiado grande,
//               operación desconocida) son 400 y no procesan ningún item.
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkRequest  true  "operation + items"
// @Success      200   {object}  dto.BulkResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items/bulk [post]
func (h *BulkHandler) Mutate(c *fiber.Ctx) error {
	var req dto.BulkRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("cuerpo inválido"))
	}

	actor := GetUserID(c)
	var (
		res *dto.BulkResult
		err error
	)
	switch req.Operation {
	case dto.BulkOpCreate:
		res, err = h.engine.Create(c.Context(), actor, dto.NormalizeItems(req.Items))
	case dto.BulkOpUpdate:
		res, err = h.engine.Update(c.Context(), actor, dto.NormalizeItems(req.Items))
	case dto.BulkOpDelete:
		res, err = h.engine.Delete(c.Context(), actor, parseDeleteIDs(req.Items))
	default:
		return respondError(c, domain.ErrUnknownOperation)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBulkResponse(res))
}

// parseDeleteIDs acepta tanto la lista plana de ids ("abc") como objetos
// {"id":"abc"}. Un elemento irreconocible queda como id vacío y el motor
// lo reporta como fallo de ese item.
func parseDeleteIDs(raws []json.RawMessage) []string {
	ids := make([]string, len(raws))
	for i, raw := range raws {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			ids[i] = s
			continue
		}
		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil {
			ids[i] = obj.ID
		}
	}
	return ids
}
