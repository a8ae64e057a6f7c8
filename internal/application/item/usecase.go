package item

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ports"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/domain/validation"
)

// UseCase operaciones CRUD sobre items individuales. Toda mutación corre
// dentro del TxRunner para que item y entrada de auditoría se confirmen
// juntos o no se confirme ninguno.
type UseCase struct {
	tx    ports.TxRunner
	items repository.ItemRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx ports.TxRunner, items repository.ItemRepository) *UseCase {
	return &UseCase{tx: tx, items: items}
}

// Create valida y persiste un item nuevo. Devuelve *validation.Error si hay
// violaciones de campos, domain.ErrDuplicate si el SKU ya existe.
func (uc *UseCase) Create(ctx context.Context, actor string, in dto.NormalizedItem) (*entity.Item, error) {
	violations := append([]validation.Violation{}, in.Violations...)
	violations = append(violations, validation.Validate(in.Input, validation.ModeCreate)...)
	if len(violations) > 0 {
		return nil, &validation.Error{Violations: violations}
	}

	if existing, err := uc.items.GetBySKU(*in.Input.SKU); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}

	it := NewItemFromInput(in.Input)
	err := uc.tx.Run(ctx, func(items repository.ItemRepository, audit repository.AuditRepository) error {
		if err := items.Create(it); err != nil {
			return err
		}
		return audit.Append(&entity.AuditEntry{
			ID:        uuid.New().String(),
			ItemID:    it.ID,
			Action:    entity.ActionInsert,
			Actor:     actor,
			After:     it.Snapshot(),
			CreatedAt: time.Now(),
		})
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

// NewItemFromInput materializa la entidad desde un input ya validado
// (create). Asigna ID, estado por defecto y timestamps.
func NewItemFromInput(in validation.ItemInput) *entity.Item {
	now := time.Now()
	it := &entity.Item{
		ID:        uuid.New().String(),
		SKU:       *in.SKU,
		Name:      *in.Name,
		Quantity:  *in.Quantity,
		UnitPrice: *in.UnitPrice,
		Status:    entity.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.MinStockLevel != nil {
		it.MinStockLevel = in.MinStockLevel
	}
	if in.MaxStockLevel != nil {
		it.MaxStockLevel = in.MaxStockLevel
	}
	if in.CategoryID != nil {
		it.CategoryID = *in.CategoryID
	}
	if in.LocationID != nil {
		it.LocationID = *in.LocationID
	}
	if in.Status != nil {
		it.Status = *in.Status
	}
	return it
}

// GetByID obtiene un item. domain.ErrNotFound si no existe.
func (uc *UseCase) GetByID(id string) (*entity.Item, error) {
	it, err := uc.items.GetByID(id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, domain.ErrNotFound
	}
	return it, nil
}

// List lista items con filtros y paginación.
func (uc *UseCase) List(f repository.ItemFilter) ([]*entity.Item, error) {
	return uc.items.List(f)
}

// Update aplica un patch parcial. El SKU es inmutable: un patch que
// intente cambiarlo se rechaza con violación {sku, immutable}.
func (uc *UseCase) Update(ctx context.Context, actor, id string, in dto.NormalizedItem) (*entity.Item, error) {
	var updated *entity.Item
	err := uc.tx.Run(ctx, func(items repository.ItemRepository, audit repository.AuditRepository) error {
		current, err := items.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}

		violations := append([]validation.Violation{}, in.Violations...)
		violations = append(violations, validation.Validate(in.Input, validation.ModeUpdate)...)
		if in.Input.SKU != nil && *in.Input.SKU != current.SKU {
			violations = append(violations, validation.Violation{Field: "sku", Reason: validation.ReasonImmutable})
		}
		if len(violations) > 0 {
			return &validation.Error{Violations: violations}
		}

		before := current.Snapshot()
		ApplyPatch(current, in.Input)
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
		return nil, err
	}
	return updated, nil
}

// ApplyPatch copia sobre la entidad los campos presentes del patch.
// El SKU no se toca (inmutable); quantity sólo cambia vía ajustes de stock
// cuando el patch no lo trae.
func ApplyPatch(it *entity.Item, in validation.ItemInput) {
	if in.Name != nil {
		it.Name = *in.Name
	}
	if in.Quantity != nil {
		it.Quantity = *in.Quantity
	}
	if in.MinStockLevel != nil {
		it.MinStockLevel = in.MinStockLevel
	}
	if in.MaxStockLevel != nil {
		it.MaxStockLevel = in.MaxStockLevel
	}
	if in.UnitPrice != nil {
		it.UnitPrice = *in.UnitPrice
	}
	if in.CategoryID != nil {
		it.CategoryID = *in.CategoryID
	}
	if in.LocationID != nil {
		it.LocationID = *in.LocationID
	}
	if in.Status != nil {
		it.Status = *in.Status
	}
}

// Delete elimina el item y deja la entrada delete en el audit log con el
// snapshot previo. El audit log nunca se poda: el historial del item
// sobrevive a su borrado.
func (uc *UseCase) Delete(ctx context.Context, actor, id string) error {
	return uc.tx.Run(ctx, func(items repository.ItemRepository, audit repository.AuditRepository) error {
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
}
