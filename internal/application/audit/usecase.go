package audit

import (
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase consulta de sólo lectura sobre el audit log. El log es para
// verificación y despliegue en la UI; nunca se usa para reconstruir el
// estado de los items.
type UseCase struct {
	audit repository.AuditRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(audit repository.AuditRepository) *UseCase {
	return &UseCase{audit: audit}
}

// List devuelve entradas filtradas por item, acción y rango de fechas,
// en orden de inserción.
func (uc *UseCase) List(f repository.AuditFilter) ([]dto.AuditEntryResponse, error) {
	entries, err := uc.audit.List(f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AuditEntryResponse{
			ID:        e.ID,
			TxID:      e.TxID,
			ItemID:    e.ItemID,
			Action:    e.Action,
			Delta:     e.Delta,
			Actor:     e.Actor,
			Note:      e.Note,
			Before:    e.Before,
			After:     e.After,
			CreatedAt: e.CreatedAt,
		})
	}
	return out, nil
}
