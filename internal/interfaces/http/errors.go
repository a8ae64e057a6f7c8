package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/validation"
)

// respondError mapea errores de dominio a estados HTTP con el envoltorio
// {success:false, error}. Los errores de forma de lote y de validación son
// 400; NotFound 404; duplicado de SKU y stock insuficiente 409.
func respondError(c *fiber.Ctx, err error) error {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(vErr.Error()))
	case errors.Is(err, domain.ErrEmptyBatch),
		errors.Is(err, domain.ErrBatchTooLarge),
		errors.Is(err, domain.ErrUnknownOperation),
		errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(err.Error()))
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail(err.Error()))
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail("el SKU ya existe"))
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail(err.Error()))
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.Fail(err.Error()))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail(err.Error()))
	}
}
