package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/audit"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// AuditHandler consulta de sólo lectura del audit log (protegido).
type AuditHandler struct {
	uc *audit.UseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.UseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Consultar el audit log
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "Filtrar por item"
// @Param        action   query  string  false  "insert | update | delete | stock_in | stock_out"
// @Param        from     query  string  false  "Fecha inicial (RFC3339)"
// @Param        to       query  string  false  "Fecha final (RFC3339)"
// @Param        limit    query  int     false  "Límite"   default(50)
// @Param        offset   query  int     false  "Offset"   default(0)
// @Success      200  {object}  map[string]any
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	f := repository.AuditFilter{
		ItemID: c.Query("item_id"),
		Action: c.Query("action"),
		Limit:  c.QueryInt("limit", 50),
		Offset: c.QueryInt("offset", 0),
	}
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("from inválido: se espera RFC3339"))
		}
		f.From = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("to inválido: se espera RFC3339"))
		}
		f.To = &t
	}

	entries, err := h.uc.List(f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"total":   len(entries),
		"entries": entries,
	})
}
