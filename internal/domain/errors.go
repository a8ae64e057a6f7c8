package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrEmptyBatch        = errors.New("lote vacío")
	ErrBatchTooLarge     = errors.New("lote demasiado grande")
	ErrUnknownOperation  = errors.New("operación desconocida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
)

// InsufficientStockError detalla un rechazo por stock insuficiente:
// cuánto se pidió descontar y cuánto había disponible.
type InsufficientStockError struct {
	ItemID    string
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para item %s: solicitado %d, disponible %d",
		e.ItemID, e.Requested, e.Available)
}

// Is permite detectar el error con errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// BatchSizeError detalla un lote que excede el máximo permitido.
type BatchSizeError struct {
	Size int
	Max  int
}

func (e *BatchSizeError) Error() string {
	return fmt.Sprintf("lote demasiado grande: %d items (máximo %d)", e.Size, e.Max)
}

// Is permite detectar el error con errors.Is(err, ErrBatchTooLarge).
func (e *BatchSizeError) Is(target error) bool {
	return target == ErrBatchTooLarge
}
