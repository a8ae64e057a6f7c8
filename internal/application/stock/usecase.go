// Package stock implementa los ajustes de cantidad por delta con signo y
// el posteo de transacciones multi-línea (venta / recepción). El ajuste
// individual es atómico item+auditoría; el posteo es atómico a través de
// TODAS sus líneas: dos fases, validar todo y luego aplicar todo.
package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/ports"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase ajustes de stock y posteo de transacciones.
type UseCase struct {
	tx ports.TxRunner
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner) *UseCase {
	return &UseCase{tx: tx}
}

// Adjust aplica un delta con signo a la cantidad de un item. La dirección
// (stock_in / stock_out) se deriva del signo. Si el delta dejaría la
// cantidad negativa, el ajuste se rechaza con InsufficientStockError y el
// item queda intacto. No existe "fijar cantidad absoluta": sólo deltas,
// para que el audit log registre siempre qué cambió.
func (uc *UseCase) Adjust(ctx context.Context, actor, itemID string, delta int64, note string) (*entity.Item, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Item
	err := uc.tx.Run(ctx, func(items repository.ItemRepository, audit repository.AuditRepository) error {
		current, err := items.GetByIDForUpdate(itemID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.Quantity+delta < 0 {
			return &domain.InsufficientStockError{
				ItemID:    itemID,
				Requested: -delta,
				Available: current.Quantity,
			}
		}

		before := current.Snapshot()
		current.Quantity += delta
		now := time.Now()
		current.UpdatedAt = now
		if err := items.Update(current); err != nil {
			return err
		}
		if err := audit.Append(&entity.AuditEntry{
			ID:        uuid.New().String(),
			ItemID:    itemID,
			Action:    entity.DirectionForDelta(delta),
			Delta:     delta,
			Actor:     actor,
			Note:      note,
			Before:    before,
			After:     current.Snapshot(),
			CreatedAt: now,
		}); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// PostTransaction aplica una secuencia de líneas (item + delta) como una
// unidad: si cualquier línea fallaría (NotFound o stock insuficiente),
// ninguna se aplica y se devuelve el primer fallo encontrado.
//
// Dos fases dentro de una sola transacción:
//  1. cargar cada item con lock y simular los deltas en memoria,
//     acumulando por item (una venta puede repetir el mismo item);
//  2. sólo si todas las líneas pasan, escribir cantidades y auditoría.
//
// El Rollback del TxRunner garantiza cero efectos observables ante fallo.
func (uc *UseCase) PostTransaction(ctx context.Context, actor string, lines []entity.TransactionLine, note string) (string, []*entity.Item, error) {
	if len(lines) == 0 {
		return "", nil, domain.ErrEmptyBatch
	}

	txID := uuid.New().String()
	var applied []*entity.Item
	err := uc.tx.Run(ctx, func(items repository.ItemRepository, audit repository.AuditRepository) error {
		// Fase 1: validar todas las líneas sobre copias en memoria.
		loaded := make(map[string]*entity.Item)
		order := make([]string, 0, len(lines))
		for _, line := range lines {
			it, ok := loaded[line.ItemID]
			if !ok {
				got, err := items.GetByIDForUpdate(line.ItemID)
				if err != nil {
					return err
				}
				if got == nil {
					return domain.ErrNotFound
				}
				it = got
				loaded[line.ItemID] = it
				order = append(order, line.ItemID)
			}
			if it.Quantity+line.Delta < 0 {
				return &domain.InsufficientStockError{
					ItemID:    line.ItemID,
					Requested: -line.Delta,
					Available: it.Quantity,
				}
			}
			it.Quantity += line.Delta
		}

		// Fase 2: persistir cantidades finales y una entrada de auditoría
		// por línea, todas con el mismo transaction id.
		now := time.Now()
		for _, line := range lines {
			if err := audit.Append(&entity.AuditEntry{
				ID:        uuid.New().String(),
				TxID:      txID,
				ItemID:    line.ItemID,
				Action:    entity.DirectionForDelta(line.Delta),
				Delta:     line.Delta,
				Actor:     actor,
				Note:      note,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}
		for _, id := range order {
			it := loaded[id]
			it.UpdatedAt = now
			if err := items.Update(it); err != nil {
				return err
			}
		}

		applied = make([]*entity.Item, 0, len(order))
		for _, id := range order {
			applied = append(applied, loaded[id])
		}
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return txID, applied, nil
}
