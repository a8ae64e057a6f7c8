package memory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newItem(id, sku string, qty int64) *entity.Item {
	now := time.Now()
	return &entity.Item{
		ID:        id,
		SKU:       sku,
		Name:      "Item " + sku,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString("10.00"),
		Status:    entity.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// ItemRepo — unicidad, copias defensivas, not found
// ──────────────────────────────────────────────────────────────────────────────

func TestItemRepo_CreateYGet(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewItemRepository(store)

	require.NoError(t, repo.Create(newItem("id-1", "A-1", 5)))

	byID, err := repo.GetByID("id-1")
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "A-1", byID.SKU)

	bySKU, err := repo.GetBySKU("A-1")
	require.NoError(t, err)
	require.NotNil(t, bySKU)
	assert.Equal(t, "id-1", bySKU.ID)
}

func TestItemRepo_GetInexistente_NilNil(t *testing.T) {
	repo := memory.NewItemRepository(memory.NewStore())

	it, err := repo.GetByID("fantasma")
	require.NoError(t, err)
	assert.Nil(t, it, "el contrato es (nil, nil) para no encontrado")

	it, err = repo.GetBySKU("fantasma")
	require.NoError(t, err)
	assert.Nil(t, it)
}

func TestItemRepo_SKUDuplicado_ErrDuplicate(t *testing.T) {
	repo := memory.NewItemRepository(memory.NewStore())
	require.NoError(t, repo.Create(newItem("id-1", "A-1", 5)))

	err := repo.Create(newItem("id-2", "A-1", 9))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// El original queda intacto.
	it, gerr := repo.GetBySKU("A-1")
	require.NoError(t, gerr)
	assert.Equal(t, "id-1", it.ID)
}

// Las lecturas devuelven copias: mutar lo devuelto no toca el store.
func TestItemRepo_GetDevuelveCopia(t *testing.T) {
	repo := memory.NewItemRepository(memory.NewStore())
	require.NoError(t, repo.Create(newItem("id-1", "A-1", 5)))

	got, err := repo.GetByID("id-1")
	require.NoError(t, err)
	got.Quantity = 999
	got.Name = "mutado"

	fresh, err := repo.GetByID("id-1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), fresh.Quantity)
	assert.Equal(t, "Item A-1", fresh.Name)
}

func TestItemRepo_Update_ConservaSKU(t *testing.T) {
	repo := memory.NewItemRepository(memory.NewStore())
	require.NoError(t, repo.Create(newItem("id-1", "A-1", 5)))

	patch := newItem("id-1", "OTRO-SKU", 7)
	require.NoError(t, repo.Update(patch))

	it, err := repo.GetByID("id-1")
	require.NoError(t, err)
	assert.Equal(t, "A-1", it.SKU, "el SKU almacenado es inmutable")
	assert.Equal(t, int64(7), it.Quantity)

	// El índice por SKU sigue apuntando al item.
	bySKU, err := repo.GetBySKU("A-1")
	require.NoError(t, err)
	require.NotNil(t, bySKU)
}

func TestItemRepo_UpdateInexistente_NotFound(t *testing.T) {
	repo := memory.NewItemRepository(memory.NewStore())
	err := repo.Update(newItem("fantasma", "A-1", 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemRepo_Delete_LiberaElSKU(t *testing.T) {
	repo := memory.NewItemRepository(memory.NewStore())
	require.NoError(t, repo.Create(newItem("id-1", "A-1", 5)))
	require.NoError(t, repo.Delete("id-1"))

	assert.ErrorIs(t, repo.Delete("id-1"), domain.ErrNotFound)

	// El SKU queda libre para un item nuevo.
	require.NoError(t, repo.Create(newItem("id-2", "A-1", 3)))
}

// ──────────────────────────────────────────────────────────────────────────────
// List — filtros, orden de alta y paginación
// ──────────────────────────────────────────────────────────────────────────────

func TestItemRepo_List_OrdenDeAlta(t *testing.T) {
	repo := memory.NewItemRepository(memory.NewStore())
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(newItem(
			fmt.Sprintf("id-%d", i), fmt.Sprintf("SKU-%d", i), int64(i))))
	}

	list, err := repo.List(repository.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, list, 5)
	for i, it := range list {
		assert.Equal(t, fmt.Sprintf("id-%d", i), it.ID, "el listado respeta el orden de alta")
	}
}

func TestItemRepo_List_FiltroYBusqueda(t *testing.T) {
	repo := memory.NewItemRepository(memory.NewStore())
	taladro := newItem("id-1", "HER-001", 5)
	taladro.Name = "Taladro percutor"
	taladro.CategoryID = "herramientas"
	require.NoError(t, repo.Create(taladro))

	tornillo := newItem("id-2", "FIJ-001", 100)
	tornillo.Name = "Tornillo 3/8"
	tornillo.CategoryID = "fijaciones"
	tornillo.Status = entity.StatusInactive
	require.NoError(t, repo.Create(tornillo))

	list, err := repo.List(repository.ItemFilter{CategoryID: "herramientas"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "id-1", list[0].ID)

	list, err = repo.List(repository.ItemFilter{Status: entity.StatusInactive})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "id-2", list[0].ID)

	// La búsqueda es por subcadena case-insensitive sobre sku o nombre.
	list, err = repo.List(repository.ItemFilter{Search: "taladro"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "id-1", list[0].ID)

	list, err = repo.List(repository.ItemFilter{Search: "fij-"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "id-2", list[0].ID)
}

func TestItemRepo_List_Paginacion(t *testing.T) {
	repo := memory.NewItemRepository(memory.NewStore())
	for i := 0; i < 10; i++ {
		require.NoError(t, repo.Create(newItem(
			fmt.Sprintf("id-%d", i), fmt.Sprintf("SKU-%d", i), 1)))
	}

	list, err := repo.List(repository.ItemFilter{Limit: 3, Offset: 4})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "id-4", list[0].ID)
	assert.Equal(t, "id-6", list[2].ID)

	list, err = repo.List(repository.ItemFilter{Offset: 99})
	require.NoError(t, err)
	assert.Empty(t, list, "offset más allá del final devuelve vacío, no error")
}

// ──────────────────────────────────────────────────────────────────────────────
// AuditRepo — append-only
// ──────────────────────────────────────────────────────────────────────────────

func TestAuditRepo_AppendYFiltros(t *testing.T) {
	store := memory.NewStore()
	repo := memory.NewAuditRepository(store)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, action := range []string{entity.ActionInsert, entity.ActionUpdate, entity.ActionStockOut} {
		require.NoError(t, repo.Append(&entity.AuditEntry{
			ID:        fmt.Sprintf("e-%d", i),
			ItemID:    "item-1",
			Action:    action,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := repo.List(repository.AuditFilter{ItemID: "item-1"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "e-0", all[0].ID, "el log conserva el orden de inserción")

	updates, err := repo.List(repository.AuditFilter{Action: entity.ActionUpdate})
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, "e-1", updates[0].ID)

	from := base.Add(30 * time.Minute)
	to := base.Add(90 * time.Minute)
	ranged, err := repo.List(repository.AuditFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "e-1", ranged[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner — commit, rollback y serialización
// ──────────────────────────────────────────────────────────────────────────────

func TestTxRunner_FalloDescartaTodosLosEfectos(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	itemRepo := memory.NewItemRepository(store)
	auditRepo := memory.NewAuditRepository(store)

	require.NoError(t, itemRepo.Create(newItem("id-1", "A-1", 10)))

	boom := errors.New("boom")
	err := runner.Run(context.Background(), func(items repository.ItemRepository, audit repository.AuditRepository) error {
		it, _ := items.GetByID("id-1")
		it.Quantity = 999
		if uerr := items.Update(it); uerr != nil {
			return uerr
		}
		if aerr := audit.Append(&entity.AuditEntry{ID: "e-1", ItemID: "id-1", Action: entity.ActionUpdate}); aerr != nil {
			return aerr
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// Ni el update ni el append deben ser visibles.
	it, gerr := itemRepo.GetByID("id-1")
	require.NoError(t, gerr)
	assert.Equal(t, int64(10), it.Quantity)

	entries, aerr := auditRepo.List(repository.AuditFilter{})
	require.NoError(t, aerr)
	assert.Empty(t, entries)
}

func TestTxRunner_CommitPublicaTodosLosEfectos(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	itemRepo := memory.NewItemRepository(store)
	auditRepo := memory.NewAuditRepository(store)

	err := runner.Run(context.Background(), func(items repository.ItemRepository, audit repository.AuditRepository) error {
		if cerr := items.Create(newItem("id-1", "A-1", 10)); cerr != nil {
			return cerr
		}
		return audit.Append(&entity.AuditEntry{ID: "e-1", ItemID: "id-1", Action: entity.ActionInsert})
	})
	require.NoError(t, err)

	it, gerr := itemRepo.GetByID("id-1")
	require.NoError(t, gerr)
	require.NotNil(t, it)

	entries, aerr := auditRepo.List(repository.AuditFilter{})
	require.NoError(t, aerr)
	assert.Len(t, entries, 1)
}

func TestTxRunner_ContextoCancelado_NoEjecuta(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := runner.Run(ctx, func(items repository.ItemRepository, audit repository.AuditRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// Dos transacciones concurrentes que crean el mismo SKU: exactamente una
// gana. Es la misma garantía que da el índice único de PostgreSQL.
func TestTxRunner_CreacionConcurrenteMismoSKU_UnSoloExito(t *testing.T) {
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	itemRepo := memory.NewItemRepository(store)

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results <- runner.Run(context.Background(), func(items repository.ItemRepository, audit repository.AuditRepository) error {
				if existing, err := items.GetBySKU("A-1"); err != nil {
					return err
				} else if existing != nil {
					return domain.ErrDuplicate
				}
				return items.Create(newItem(fmt.Sprintf("id-%d", i), "A-1", 1))
			})
		}(i)
	}
	wg.Wait()
	close(results)

	var ok, dup int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrDuplicate):
			dup++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactamente una transacción debe ganar")
	assert.Equal(t, workers-1, dup)

	list, err := itemRepo.List(repository.ItemFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
