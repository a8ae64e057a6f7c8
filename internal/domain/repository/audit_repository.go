package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// AuditFilter filtros de consulta del audit log.
type AuditFilter struct {
	ItemID string
	Action string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// AuditRepository define el puerto del audit log. Append-only: no existe
// Update ni Delete — las entradas escritas son inmutables.
type AuditRepository interface {
	Append(entry *entity.AuditEntry) error
	// List devuelve entradas en orden de inserción (más antigua primero).
	List(f AuditFilter) ([]*entity.AuditEntry, error)
}
