// Package bulk implementa el motor de mutaciones por lote: create, update
// y delete sobre una secuencia ordenada de items con semántica best-effort.
// El fallo de un item no detiene a sus hermanos; el resultado reporta
// cuántos entraron, cuántos fallaron y por qué, en orden de entrada.
package bulk

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/item"
	"github.com/jhoicas/almacen-api/internal/application/ports"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/domain/validation"
)

// MaxBatchSize máximo de items por lote. Un lote mayor se rechaza completo
// antes de tocar el Item Store.
const MaxBatchSize = 100

// Engine orquesta lotes de mutaciones. Cada item corre en su propia
// transacción (item + entrada de auditoría atómicos entre sí); el lote
// como conjunto NO es atómico — eso es deliberado y distinto del posteo
// de transacciones de stock.
type Engine struct {
	tx    ports.TxRunner
	items repository.ItemRepository
}

// NewEngine construye el motor.
func NewEngine(tx ports.TxRunner, items repository.ItemRepository) *Engine {
	return &Engine{tx: tx, items: items}
}

// checkShape valida la forma del lote. Error aquí = 400, cero items procesados.
func checkShape(n int) error {
	if n == 0 {
		return domain.ErrEmptyBatch
	}
	if n > MaxBatchSize {
		return &domain.BatchSizeError{Size: n, Max: MaxBatchSize}
	}
	return nil
}

// reasonFor aplana violaciones a un string estable tipo "sku: duplicate".
func reasonFor(violations []validation.Violation) string {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "; ")
}

// Create procesa un lote de altas en orden de entrada. La unicidad de SKU
// se verifica contra el store, lo que cubre también duplicados dentro del
// mismo lote: el primero ya está confirmado cuando se valida el segundo.
func (e *Engine) Create(ctx context.Context, actor string, batch []dto.NormalizedItem) (*dto.BulkResult, error) {
	if err := checkShape(len(batch)); err != nil {
		return nil, err
	}

	res := &dto.BulkResult{}
	for idx, n := range batch {
		violations := append([]validation.Violation{}, n.Violations...)
		violations = append(violations, validation.Validate(n.Input, validation.ModeCreate)...)
		if len(violations) > 0 {
			res.Failed++
			res.Errors = append(res.Errors, dto.BulkItemError{Index: idx, Reason: reasonFor(violations)})
			continue
		}

		var created *entity.Item
		err := e.tx.Run(ctx, func(items repository.ItemRepository, audit repository.AuditRepository) error {
			if existing, err := items.GetBySKU(*n.Input.SKU); err != nil {
				return err
			} else if existing != nil {
				return domain.ErrDuplicate
			}
			it := item.NewItemFromInput(n.Input)
			if err := items.Create(it); err != nil {
				return err
			}
			if err := audit.Append(&entity.AuditEntry{
				ID:        uuid.New().String(),
				ItemID:    it.ID,
				Action:    entity.ActionInsert,
				Actor:     actor,
				After:     it.Snapshot(),
				CreatedAt: time.Now(),
			}); err != nil {
				return err
			}
			created = it
			return nil
		})
		if err != nil {
			res.Failed++
			reason := err.Error()
			if errors.Is(err, domain.ErrDuplicate) {
				reason = validation.Violation{Field: "sku", Reason: validation.ReasonDuplicate}.String()
			}
			res.Errors = append(res.Errors, dto.BulkItemError{Index: idx, Reason: reason})
			continue
		}
		res.Successful++
		res.Items = append(res.Items, *dto.ToItemResponse(created))
	}
	return res, nil
}

// Update procesa un lote de patches. Un id desconocido es fallo del item
// ("not found"), no de la petición.
func (e *Engine) Update(ctx context.Context, actor string, batch []dto.NormalizedItem) (*dto.BulkResult, error) {
	if err := checkShape(len(batch)); err != nil {
		return nil, err
	}

	res := &dto.BulkResult{}
	for idx, n := range batch {
		if n.Input.ID == "" {
			res.Failed++
			res.Errors = append(res.Errors, dto.BulkItemError{
				Index:  idx,
				Reason: validation.Violation{Field: "id", Reason: validation.ReasonRequired}.String(),
			})
			continue
		}

		var updated *entity.Item
		err := e.tx.Run(ctx, func(items repository.ItemRepository, audit repository.AuditRepository) error {
			current, err := items.GetByIDForUpdate(n.Input.ID)
			if err != nil {
				return err
			}
			if current == nil {
				return domain.ErrNotFound
			}

			violations := append([]validation.Violation{}, n.Violations...)
			violations = append(violations, validation.Validate(n.Input, validation.ModeUpdate)...)
			if n.Input.SKU != nil && *n.Input.SKU != current.SKU {
				violations = append(violations, validation.Violation{Field: "sku", Reason: validation.ReasonImmutable})
			}
			if len(violations) > 0 {
				return &validation.Error{Violations: violations}
			}

			before := current.Snapshot()
			item.ApplyPatch(current, n.Input)
			current.UpdatedAt = time.Now()
			if err := items.Update(current); err != nil {
				return err
			}
			if err := audit.Append(&entity.AuditEntry{
				ID:        uuid.New().String(),
				ItemID:    current.ID,
				Action:    entity.ActionUpdate,
				Actor:     actor,
				Before:    before,
				After:     current.Snapshot(),
				CreatedAt: time.Now(),
			}); err != nil {
				return err
			}
			updated = current
			return nil
		})
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, dto.BulkItemError{Index: idx, ID: n.Input.ID, Reason: itemReason(err)})
			continue
		}
		res.Successful++
		res.Items = append(res.Items, *dto.ToItemResponse(updated))
	}
	return res, nil
}

// Delete procesa un lote de bajas por id. Ids ya borrados se reportan como
// "not found" de ese item; no se resucitan ni se cuentan dos veces.
func (e *Engine) Delete(ctx context.Context, actor string, ids []string) (*dto.BulkResult, error) {
	if err := checkShape(len(ids)); err != nil {
		return nil, err
	}

	res := &dto.BulkResult{}
	for idx, id := range ids {
		if id == "" {
			res.Failed++
			res.Errors = append(res.Errors, dto.BulkItemError{
				Index:  idx,
				Reason: validation.Violation{Field: "id", Reason: validation.ReasonRequired}.String(),
			})
			continue
		}
		err := e.tx.Run(ctx, func(items repository.ItemRepository, audit repository.AuditRepository) error {
			current, err := items.GetByIDForUpdate(id)
			if err != nil {
				return err
			}
			if current == nil {
				return domain.ErrNotFound
			}
			if err := items.Delete(id); err != nil {
				return err
			}
			return audit.Append(&entity.AuditEntry{
				ID:        uuid.New().String(),
				ItemID:    id,
				Action:    entity.ActionDelete,
				Actor:     actor,
				Before:    current.Snapshot(),
				CreatedAt: time.Now(),
			})
		})
		if err != nil {
			res.Failed++
			res.Errors = append(res.Errors, dto.BulkItemError{Index: idx, ID: id, Reason: itemReason(err)})
			continue
		}
		res.Successful++
	}
	return res, nil
}

// itemReason traduce errores por item a razones estables para el cliente.
func itemReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not found"
	case errors.Is(err, domain.ErrDuplicate):
		return validation.Violation{Field: "sku", Reason: validation.ReasonDuplicate}.String()
	default:
		var vErr *validation.Error
		if errors.As(err, &vErr) {
			return reasonFor(vErr.Violations)
		}
		return err.Error()
	}
}
