package bulk_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/bulk"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testActor = "00000000-0000-0000-0000-000000000001"

type fixture struct {
	engine *bulk.Engine
	items  *memory.ItemRepo
	audit  *memory.AuditRepo
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{
		engine: bulk.NewEngine(memory.NewTxRunner(store), memory.NewItemRepository(store)),
		items:  memory.NewItemRepository(store),
		audit:  memory.NewAuditRepository(store),
	}
}

// rawItem arma el payload crudo de un item de alta válido.
func rawItem(sku, name string, qty int64) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"sku":%q,"name":%q,"quantity":%d,"unit_price":"100.00"}`, sku, name, qty))
}

func normalize(raws ...json.RawMessage) []dto.NormalizedItem {
	return dto.NormalizeItems(raws)
}

// ──────────────────────────────────────────────────────────────────────────────
// Forma del lote — lote vacío y lote demasiado grande
// ──────────────────────────────────────────────────────────────────────────────

func TestBulkCreate_LoteVacio_Rechazado(t *testing.T) {
	f := newFixture()
	_, err := f.engine.Create(context.Background(), testActor, nil)
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
}

func TestBulkCreate_LoteDemasiadoGrande_RechazadoSinProcesar(t *testing.T) {
	f := newFixture()
	raws := make([]json.RawMessage, 0, bulk.MaxBatchSize+1)
	for i := 0; i < bulk.MaxBatchSize+1; i++ {
		raws = append(raws, rawItem(fmt.Sprintf("SKU-%03d", i), "Item", 1))
	}

	_, err := f.engine.Create(context.Background(), testActor, normalize(raws...))
	assert.ErrorIs(t, err, domain.ErrBatchTooLarge)

	// Ningún item debe haber entrado al store: el rechazo es previo.
	list, lerr := f.items.List(repository.ItemFilter{})
	require.NoError(t, lerr)
	assert.Empty(t, list, "un lote sobre el límite no procesa ni un item")
}

func TestBulkCreate_LoteEnElLimite_SeProcesa(t *testing.T) {
	f := newFixture()
	raws := make([]json.RawMessage, 0, bulk.MaxBatchSize)
	for i := 0; i < bulk.MaxBatchSize; i++ {
		raws = append(raws, rawItem(fmt.Sprintf("SKU-%03d", i), "Item", 1))
	}

	res, err := f.engine.Create(context.Background(), testActor, normalize(raws...))
	require.NoError(t, err)
	assert.Equal(t, bulk.MaxBatchSize, res.Successful)
	assert.Equal(t, 0, res.Failed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Create — best-effort, duplicados y contabilidad del resultado
// ──────────────────────────────────────────────────────────────────────────────

func TestBulkCreate_TodoValido(t *testing.T) {
	f := newFixture()
	res, err := f.engine.Create(context.Background(), testActor, normalize(
		rawItem("A-1", "Alfa", 10),
		rawItem("B-2", "Beta", 20),
	))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 0, res.Failed)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "A-1", res.Items[0].SKU)
	assert.Equal(t, "B-2", res.Items[1].SKU)

	// Cada alta deja su entrada insert en el audit log.
	entries, aerr := f.audit.List(repository.AuditFilter{Action: entity.ActionInsert})
	require.NoError(t, aerr)
	assert.Len(t, entries, 2)
}

func TestBulkCreate_FalloIndividualNoDetieneAlResto(t *testing.T) {
	f := newFixture()
	res, err := f.engine.Create(context.Background(), testActor, normalize(
		rawItem("A-1", "Alfa", 10),
		json.RawMessage(`{"name":"Sin SKU","quantity":1,"unit_price":"1.00"}`),
		rawItem("C-3", "Gamma", 30),
	))
	require.NoError(t, err, "los fallos por item no son error de la petición")

	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index, "el error debe apuntar al item fallido")
	assert.Equal(t, "sku: required", res.Errors[0].Reason)

	// Los hermanos válidos quedaron confirmados.
	it, gerr := f.items.GetBySKU("C-3")
	require.NoError(t, gerr)
	require.NotNil(t, it, "el item posterior al fallo debe haberse creado")
}

func TestBulkCreate_SKUDuplicadoContraElStore(t *testing.T) {
	f := newFixture()
	_, err := f.engine.Create(context.Background(), testActor, normalize(rawItem("A-1", "Alfa", 10)))
	require.NoError(t, err)

	res, err := f.engine.Create(context.Background(), testActor, normalize(rawItem("A-1", "Clon", 5)))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "sku: duplicate", res.Errors[0].Reason)

	// El original no debe haberse tocado.
	it, gerr := f.items.GetBySKU("A-1")
	require.NoError(t, gerr)
	assert.Equal(t, "Alfa", it.Name)
}

// Duplicado DENTRO del mismo lote: el primero entra, el segundo falla,
// porque cada item se confirma antes de validar al siguiente.
func TestBulkCreate_SKUDuplicadoDentroDelLote(t *testing.T) {
	f := newFixture()
	res, err := f.engine.Create(context.Background(), testActor, normalize(
		rawItem("A-1", "Primero", 10),
		rawItem("A-1", "Segundo", 20),
	))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index, "el duplicado es el segundo, no el primero")
	assert.Equal(t, "sku: duplicate", res.Errors[0].Reason)

	it, gerr := f.items.GetBySKU("A-1")
	require.NoError(t, gerr)
	assert.Equal(t, "Primero", it.Name, "el primero del lote es el que queda")
}

func TestBulkCreate_ValorNoNumerico_FalloDelItem(t *testing.T) {
	f := newFixture()
	res, err := f.engine.Create(context.Background(), testActor, normalize(
		json.RawMessage(`{"sku":"A-1","name":"Alfa","quantity":"tres","unit_price":"1.00"}`),
		rawItem("B-2", "Beta", 2),
	))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 0, res.Errors[0].Index)
	assert.Contains(t, res.Errors[0].Reason, "quantity: not_a_number")
}

func TestBulkCreate_SumaDeContadoresIgualAlLote(t *testing.T) {
	f := newFixture()
	res, err := f.engine.Create(context.Background(), testActor, normalize(
		rawItem("A-1", "Alfa", 1),
		json.RawMessage(`{"quantity":-1}`),
		rawItem("C-3", "Gamma", 3),
		rawItem("A-1", "Clon", 4),
	))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Successful+res.Failed,
		"successful + failed debe igualar el tamaño del lote")
	assert.Len(t, res.Errors, res.Failed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update — patches por lote
// ──────────────────────────────────────────────────────────────────────────────

func TestBulkUpdate_PatchValido(t *testing.T) {
	f := newFixture()
	created, err := f.engine.Create(context.Background(), testActor, normalize(rawItem("A-1", "Alfa", 10)))
	require.NoError(t, err)
	id := created.Items[0].ID

	res, err := f.engine.Update(context.Background(), testActor, normalize(
		json.RawMessage(fmt.Sprintf(`{"id":%q,"name":"Alfa v2","quantity":99}`, id)),
	))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 0, res.Failed)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Alfa v2", res.Items[0].Name)
	assert.Equal(t, int64(99), res.Items[0].Quantity)
	assert.Equal(t, "A-1", res.Items[0].SKU, "el SKU no cambia en un patch")
}

func TestBulkUpdate_IDDesconocido_NotFoundDelItem(t *testing.T) {
	f := newFixture()
	res, err := f.engine.Update(context.Background(), testActor, normalize(
		json.RawMessage(`{"id":"no-existe","name":"Fantasma"}`),
	))
	require.NoError(t, err, "un id desconocido es fallo del item, no de la petición")

	assert.Equal(t, 0, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "no-existe", res.Errors[0].ID)
	assert.Equal(t, "not found", res.Errors[0].Reason)
}

func TestBulkUpdate_SinID_Required(t *testing.T) {
	f := newFixture()
	res, err := f.engine.Update(context.Background(), testActor, normalize(
		json.RawMessage(`{"name":"Sin id"}`),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "id: required", res.Errors[0].Reason)
}

func TestBulkUpdate_CambiarSKU_Immutable(t *testing.T) {
	f := newFixture()
	created, err := f.engine.Create(context.Background(), testActor, normalize(rawItem("A-1", "Alfa", 10)))
	require.NoError(t, err)
	id := created.Items[0].ID

	res, err := f.engine.Update(context.Background(), testActor, normalize(
		json.RawMessage(fmt.Sprintf(`{"id":%q,"sku":"B-2"}`, id)),
	))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "sku: immutable", res.Errors[0].Reason)

	// El item no debe haber cambiado.
	it, gerr := f.items.GetBySKU("A-1")
	require.NoError(t, gerr)
	require.NotNil(t, it)
}

// Un patch que repite el SKU actual no es violación: no lo está cambiando.
func TestBulkUpdate_MismoSKU_EsValido(t *testing.T) {
	f := newFixture()
	created, err := f.engine.Create(context.Background(), testActor, normalize(rawItem("A-1", "Alfa", 10)))
	require.NoError(t, err)
	id := created.Items[0].ID

	res, err := f.engine.Update(context.Background(), testActor, normalize(
		json.RawMessage(fmt.Sprintf(`{"id":%q,"sku":"A-1","name":"Alfa v2"}`, id)),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 0, res.Failed)
}

// ──────────────────────────────────────────────────────────────────────────────
// Delete — bajas por lote
// ──────────────────────────────────────────────────────────────────────────────

func TestBulkDelete_MezclaExistentesYFantasmas(t *testing.T) {
	f := newFixture()
	created, err := f.engine.Create(context.Background(), testActor, normalize(
		rawItem("A-1", "Alfa", 10),
		rawItem("B-2", "Beta", 20),
	))
	require.NoError(t, err)

	res, err := f.engine.Delete(context.Background(), testActor, []string{
		created.Items[0].ID,
		"no-existe",
		created.Items[1].ID,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
	assert.Equal(t, "not found", res.Errors[0].Reason)

	list, lerr := f.items.List(repository.ItemFilter{})
	require.NoError(t, lerr)
	assert.Empty(t, list)
}

// Borrar dos veces el mismo id en el lote: el segundo es not found.
func TestBulkDelete_IDRepetidoEnElLote(t *testing.T) {
	f := newFixture()
	created, err := f.engine.Create(context.Background(), testActor, normalize(rawItem("A-1", "Alfa", 10)))
	require.NoError(t, err)
	id := created.Items[0].ID

	res, err := f.engine.Delete(context.Background(), testActor, []string{id, id})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Successful)
	assert.Equal(t, 1, res.Failed)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 1, res.Errors[0].Index)
	assert.Equal(t, "not found", res.Errors[0].Reason)
}

// El historial del item sobrevive a su borrado: la entrada delete guarda
// el snapshot previo.
func TestBulkDelete_AuditConservaSnapshot(t *testing.T) {
	f := newFixture()
	created, err := f.engine.Create(context.Background(), testActor, normalize(rawItem("A-1", "Alfa", 10)))
	require.NoError(t, err)
	id := created.Items[0].ID

	_, err = f.engine.Delete(context.Background(), testActor, []string{id})
	require.NoError(t, err)

	entries, aerr := f.audit.List(repository.AuditFilter{ItemID: id, Action: entity.ActionDelete})
	require.NoError(t, aerr)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].Before, "la baja debe llevarse el snapshot previo")
	assert.Equal(t, testActor, entries[0].Actor)
}
