package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implementación del audit log sobre PostgreSQL (usable con pool
// o tx). Sólo INSERT y SELECT: la tabla no tiene camino de UPDATE/DELETE.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append persiste una entrada de auditoría.
func (r *AuditRepo) Append(entry *entity.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	query := `
		INSERT INTO audit_entries (id, tx_id, item_id, action, delta, actor, note, before, after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	txID := (*string)(nil)
	if entry.TxID != "" {
		txID = &entry.TxID
	}
	_, err := r.q.Exec(context.Background(), query,
		entry.ID, txID, entry.ItemID, entry.Action, entry.Delta,
		entry.Actor, entry.Note, entry.Before, entry.After, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// List consulta entradas por item, acción y rango de fechas, en orden de
// inserción (más antigua primero).
func (r *AuditRepo) List(f repository.AuditFilter) ([]*entity.AuditEntry, error) {
	query := `
		SELECT id, tx_id, item_id, action, delta, actor, note, before, after, created_at
		FROM audit_entries WHERE 1=1`
	var args []any
	pos := 1
	if f.ItemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, f.ItemID)
		pos++
	}
	if f.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", pos)
		args = append(args, f.Action)
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += " ORDER BY created_at ASC, id ASC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var e entity.AuditEntry
		var txID *string
		if err := rows.Scan(&e.ID, &txID, &e.ItemID, &e.Action, &e.Delta,
			&e.Actor, &e.Note, &e.Before, &e.After, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if txID != nil {
			e.TxID = *txID
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
