package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, sku, name, quantity, min_stock_level, max_stock_level, unit_price, category_id, location_id, status, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL
// (usable con pool o tx). La unicidad de SKU la respalda un constraint
// único en la tabla: defensa en profundidad frente a carreras que la
// validación de la capa de aplicación no puede ver.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un item nuevo. domain.ErrDuplicate si el SKU ya existe.
func (r *ItemRepo) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.SKU, item.Name, item.Quantity,
		item.MinStockLevel, item.MaxStockLevel, item.UnitPrice,
		nullable(item.CategoryID), nullable(item.LocationID), item.Status,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepo) scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	var categoryID, locationID *string
	err := row.Scan(
		&it.ID, &it.SKU, &it.Name, &it.Quantity,
		&it.MinStockLevel, &it.MaxStockLevel, &it.UnitPrice,
		&categoryID, &locationID, &it.Status,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID != nil {
		it.CategoryID = *categoryID
	}
	if locationID != nil {
		it.LocationID = *locationID
	}
	return &it, nil
}

// GetByID obtiene un item por ID. (nil, nil) si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
	it, err := r.scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// GetBySKU obtiene un item por SKU. (nil, nil) si no existe.
func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+itemColumns+` FROM items WHERE sku = $1`, sku)
	it, err := r.scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by sku: %w", err)
	}
	return it, nil
}

// GetByIDForUpdate obtiene el item y bloquea la fila (SELECT FOR UPDATE).
// La fila del item es el punto de serialización de las mutaciones: dos
// ajustes concurrentes sobre el mismo item se ordenan aquí, sin lock global.
func (r *ItemRepo) GetByIDForUpdate(id string) (*entity.Item, error) {
	row := r.q.QueryRow(context.Background(),
		`SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
	it, err := r.scanItem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item for update: %w", err)
	}
	return it, nil
}

// Update persiste los campos mutables. domain.ErrNotFound si no hay fila.
// El SKU no se toca: es inmutable a nivel de aplicación y de SQL.
func (r *ItemRepo) Update(item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, quantity = $3, min_stock_level = $4, max_stock_level = $5,
			unit_price = $6, category_id = $7, location_id = $8, status = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		item.ID, item.Name, item.Quantity, item.MinStockLevel, item.MaxStockLevel,
		item.UnitPrice, nullable(item.CategoryID), nullable(item.LocationID),
		item.Status, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un item por ID. domain.ErrNotFound si no hay fila.
func (r *ItemRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista items según filtro, ordenados por fecha de creación.
func (r *ItemRepo) List(f repository.ItemFilter) ([]*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE 1=1`
	var args []any
	pos := 1
	if f.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, f.Status)
		pos++
	}
	if f.CategoryID != "" {
		query += fmt.Sprintf(" AND category_id = $%d", pos)
		args = append(args, f.CategoryID)
		pos++
	}
	if f.LocationID != "" {
		query += fmt.Sprintf(" AND location_id = $%d", pos)
		args = append(args, f.LocationID)
		pos++
	}
	if f.Search != "" {
		query += fmt.Sprintf(" AND (sku ILIKE $%d OR name ILIKE $%d)", pos, pos)
		args = append(args, "%"+f.Search+"%")
		pos++
	}
	query += " ORDER BY created_at ASC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := r.scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// nullable convierte "" a NULL para las referencias opacas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
