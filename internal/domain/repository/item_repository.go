package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// ItemFilter filtros para listar items. Limit <= 0 significa sin límite.
type ItemFilter struct {
	Status     string
	CategoryID string
	LocationID string
	Search     string // subcadena sobre sku o name
	Limit      int
	Offset     int
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// Cada mutación individual es atómica: ningún lector concurrente puede
// observar un item creado pero sin indexar por SKU, o viceversa.
type ItemRepository interface {
	// Create persiste un item nuevo. Devuelve domain.ErrDuplicate si el SKU
	// ya existe (defensa adicional a la validación del motor).
	Create(item *entity.Item) error
	GetByID(id string) (*entity.Item, error)
	GetBySKU(sku string) (*entity.Item, error)
	// GetByIDForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	// Sólo tiene sentido dentro de una transacción.
	GetByIDForUpdate(id string) (*entity.Item, error)
	// Update persiste los campos del item. domain.ErrNotFound si no existe.
	Update(item *entity.Item) error
	// Delete elimina el item. domain.ErrNotFound si no existe.
	Delete(id string) error
	List(f ItemFilter) ([]*entity.Item, error)
}
