// Package memory implementa los puertos de persistencia sobre mapas en
// memoria protegidos por mutex. Es el backend de los tests y del modo
// STORE_DRIVER=memory; expone exactamente los mismos puertos que el
// adaptador PostgreSQL.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// state el contenido del store: items indexados por id y por SKU, el
// audit log en orden de inserción, y el orden de alta de cada item.
type state struct {
	items   map[string]*entity.Item
	bySKU   map[string]string // sku -> id
	seq     map[string]uint64 // id -> orden de alta (para listados estables)
	nextSeq uint64
	audit   []*entity.AuditEntry
}

func newState() *state {
	return &state{
		items: map[string]*entity.Item{},
		bySKU: map[string]string{},
		seq:   map[string]uint64{},
	}
}

// clone copia profunda del estado. Las entradas de auditoría son
// inmutables, así que basta copiar el slice con capacidad exacta (los
// appends del clon no comparten backing array con el original).
func (st *state) clone() *state {
	c := &state{
		items:   make(map[string]*entity.Item, len(st.items)),
		bySKU:   make(map[string]string, len(st.bySKU)),
		seq:     make(map[string]uint64, len(st.seq)),
		nextSeq: st.nextSeq,
		audit:   make([]*entity.AuditEntry, len(st.audit)),
	}
	for id, it := range st.items {
		c.items[id] = it.Clone()
	}
	for sku, id := range st.bySKU {
		c.bySKU[sku] = id
	}
	for id, n := range st.seq {
		c.seq[id] = n
	}
	copy(c.audit, st.audit)
	return c
}

// Store contenedor compartido entre los repositorios en memoria.
// mu protege el estado; txMu serializa mutaciones y transacciones para
// que el commit copy-on-write del TxRunner no pierda escrituras directas.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	st   *state
}

// NewStore construye un store vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	s *Store
}

// NewItemRepository construye el adaptador sobre el store.
func NewItemRepository(s *Store) *ItemRepo {
	return &ItemRepo{s: s}
}

// Create inserta el item. La comprobación de SKU y la doble indexación
// (por id y por SKU) ocurren bajo el mismo lock: ningún lector puede ver
// el item a medio indexar.
func (r *ItemRepo) Create(item *entity.Item) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	return r.createLocked(item)
}

func (r *ItemRepo) createLocked(item *entity.Item) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := r.s.st
	if _, dup := st.bySKU[item.SKU]; dup {
		return domain.ErrDuplicate
	}
	if _, dup := st.items[item.ID]; dup {
		return domain.ErrDuplicate
	}
	st.items[item.ID] = item.Clone()
	st.bySKU[item.SKU] = item.ID
	st.seq[item.ID] = st.nextSeq
	st.nextSeq++
	return nil
}

// GetByID devuelve una copia del item, o (nil, nil) si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.st.items[id].Clone(), nil
}

// GetBySKU devuelve una copia del item por SKU, o (nil, nil) si no existe.
func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	id, ok := r.s.st.bySKU[sku]
	if !ok {
		return nil, nil
	}
	return r.s.st.items[id].Clone(), nil
}

// GetByIDForUpdate equivale a GetByID: en este adaptador el aislamiento
// lo da el TxRunner, que serializa las transacciones completas.
func (r *ItemRepo) GetByIDForUpdate(id string) (*entity.Item, error) {
	return r.GetByID(id)
}

// Update reemplaza los campos del item. domain.ErrNotFound si no existe.
// El SKU almacenado se conserva: es inmutable.
func (r *ItemRepo) Update(item *entity.Item) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.st.items[item.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored := item.Clone()
	stored.SKU = current.SKU
	r.s.st.items[item.ID] = stored
	return nil
}

// Delete elimina el item y su índice por SKU. domain.ErrNotFound si no existe.
func (r *ItemRepo) Delete(id string) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := r.s.st
	current, ok := st.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(st.items, id)
	delete(st.bySKU, current.SKU)
	delete(st.seq, id)
	return nil
}

// List lista copias de los items según filtro, en orden de alta.
func (r *ItemRepo) List(f repository.ItemFilter) ([]*entity.Item, error) {
	r.s.mu.RLock()
	st := r.s.st
	matched := make([]*entity.Item, 0, len(st.items))
	for _, it := range st.items {
		if f.Status != "" && it.Status != f.Status {
			continue
		}
		if f.CategoryID != "" && it.CategoryID != f.CategoryID {
			continue
		}
		if f.LocationID != "" && it.LocationID != f.LocationID {
			continue
		}
		if f.Search != "" {
			needle := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(it.SKU), needle) &&
				!strings.Contains(strings.ToLower(it.Name), needle) {
				continue
			}
		}
		matched = append(matched, it.Clone())
	}
	seq := make(map[string]uint64, len(matched))
	for _, it := range matched {
		seq[it.ID] = st.seq[it.ID]
	}
	r.s.mu.RUnlock()

	sort.Slice(matched, func(a, b int) bool {
		return seq[matched[a].ID] < seq[matched[b].ID]
	})

	if f.Offset > 0 {
		if f.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación en memoria del audit log (append-only).
type AuditRepo struct {
	s *Store
}

// NewAuditRepository construye el adaptador sobre el store.
func NewAuditRepository(s *Store) *AuditRepo {
	return &AuditRepo{s: s}
}

// Append agrega la entrada al final del log.
func (r *AuditRepo) Append(entry *entity.AuditEntry) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e := *entry
	r.s.st.audit = append(r.s.st.audit, &e)
	return nil
}

// List filtra el log preservando el orden de inserción.
func (r *AuditRepo) List(f repository.AuditFilter) ([]*entity.AuditEntry, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var matched []*entity.AuditEntry
	for _, e := range r.s.st.audit {
		if f.ItemID != "" && e.ItemID != f.ItemID {
			continue
		}
		if f.Action != "" && e.Action != f.Action {
			continue
		}
		if f.From != nil && e.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && e.CreatedAt.After(*f.To) {
			continue
		}
		copied := *e
		matched = append(matched, &copied)
	}
	if f.Offset > 0 {
		if f.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(matched) {
		matched = matched[:f.Limit]
	}
	return matched, nil
}
