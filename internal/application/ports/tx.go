package ports

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando
// repositorios atados a esa transacción. Si fn devuelve error se hace
// Rollback; si no, Commit. Es la frontera de atomicidad del sistema:
// cada mutación individual y cada posteo multi-línea corre dentro de
// un Run.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		audit repository.AuditRepository,
	) error) error
}
