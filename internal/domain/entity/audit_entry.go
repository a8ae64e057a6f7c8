package entity

import (
	"encoding/json"
	"time"
)

// Acciones registradas en el audit log.
const (
	ActionInsert   = "insert"
	ActionUpdate   = "update"
	ActionDelete   = "delete"
	ActionStockIn  = "stock_in"
	ActionStockOut = "stock_out"
)

// AuditEntry registro inmutable de una mutación confirmada sobre un item.
// Es append-only: una vez escrito nunca se modifica ni se elimina, aunque
// el item referenciado sea borrado después. No se usa para reconstruir
// estado (el Item Store es la fuente de verdad).
type AuditEntry struct {
	ID        string
	TxID      string // agrupa las líneas de una misma transacción de stock
	ItemID    string
	Action    string // insert, update, delete, stock_in, stock_out
	Delta     int64  // sólo en stock_in/stock_out; con signo
	Actor     string // UserID autenticado que originó la mutación
	Note      string
	Before    json.RawMessage // snapshot previo (update, delete, stock_*)
	After     json.RawMessage // snapshot posterior (insert, update, stock_*)
	CreatedAt time.Time
}
