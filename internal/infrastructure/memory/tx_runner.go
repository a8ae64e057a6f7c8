package memory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/application/ports"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner transacciones copy-on-write sobre el store en memoria.
// fn trabaja contra una copia del estado; el commit es un swap de puntero
// bajo lock. Si fn falla, la copia se descarta: ningún efecto parcial
// llega a ser observable por otros lectores, igual que con el Rollback
// de PostgreSQL.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn dentro de una transacción. txMu serializa transacciones
// entre sí y con las mutaciones directas; dos creates concurrentes del
// mismo SKU terminan con exactamente un éxito y un ErrDuplicate.
func (r *TxRunner) Run(ctx context.Context, fn func(
	items repository.ItemRepository,
	audit repository.AuditRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.RLock()
	shadow := &Store{st: r.s.st.clone()}
	r.s.mu.RUnlock()

	if err := fn(NewItemRepository(shadow), NewAuditRepository(shadow)); err != nil {
		return err
	}

	r.s.mu.Lock()
	r.s.st = shadow.st
	r.s.mu.Unlock()
	return nil
}
