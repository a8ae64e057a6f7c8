package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/item"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ItemHandler maneja las peticiones HTTP para items (protegido).
type ItemHandler struct {
	uc *item.UseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(uc *item.UseCase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

// Create godoc
// @Summary      Crear item de inventario
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  map[string]any  true  "sku, name, quantity, unit_price (+ opcionales)"
// @Success      201   {object}  dto.DataResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	n, err := dto.NormalizeItemPayload(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("cuerpo inválido"))
	}
	created, err := h.uc.Create(c.Context(), GetUserID(c), n)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK(dto.ToItemResponse(created)))
}

// GetByID godoc
// @Summary      Obtener item por ID
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del item"
// @Success      200  {object}  dto.DataResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("id es requerido"))
	}
	it, err := h.uc.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(dto.ToItemResponse(it)))
}

// List godoc
// @Summary      Listar items
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "active | inactive | discontinued"
// @Param        category_id  query  string  false  "Categoría"
// @Param        location_id  query  string  false  "Ubicación"
// @Param        q            query  string  false  "Búsqueda por sku o nombre"
// @Param        limit        query  int     false  "Límite"   default(20)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.ItemListResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	page.Limit = c.QueryInt("limit", 20)
	page.Offset = c.QueryInt("offset", 0)
	page.DefaultPage()

	list, err := h.uc.List(repository.ItemFilter{
		Status:     c.Query("status"),
		CategoryID: c.Query("category_id"),
		LocationID: c.Query("location_id"),
		Search:     c.Query("q"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *dto.ToItemResponse(it))
	}
	return c.JSON(dto.ItemListResponse{
		Success: true,
		Items:   items,
		Page:    dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// Update godoc
// @Summary      Actualizar item (patch parcial; el SKU es inmutable)
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string          true  "ID del item"
// @Param        body  body  map[string]any  true  "Campos a actualizar"
// @Success      200   {object}  dto.DataResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/items/{id} [put]
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("id es requerido"))
	}
	n, err := dto.NormalizeItemPayload(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("cuerpo inválido"))
	}
	updated, err := h.uc.Update(c.Context(), GetUserID(c), id, n)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(dto.ToItemResponse(updated)))
}

// Delete godoc
// @Summary      Eliminar item
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del item"
// @Success      200  {object}  dto.DataResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [delete]
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("id es requerido"))
	}
	if err := h.uc.Delete(c.Context(), GetUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OK(fiber.Map{"deleted": id}))
}
