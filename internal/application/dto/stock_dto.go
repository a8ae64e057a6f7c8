package dto

import (
	"encoding/json"
	"time"
)

// AdjustStockRequest body para POST /api/items/:id/stock.
// Delta con signo: positivo = entrada, negativo = salida. La dirección
// nunca se manda aparte; se deriva del signo.
type AdjustStockRequest struct {
	Delta int64  `json:"delta"`
	Note  string `json:"note"`
}

// TransactionLineRequest una línea de un posteo de transacción.
type TransactionLineRequest struct {
	ItemID string `json:"item_id"`
	Delta  int64  `json:"delta"`
}

// PostTransactionRequest body para POST /api/transactions. Todas las
// líneas se aplican o ninguna (atómico, a diferencia del bulk).
type PostTransactionRequest struct {
	Lines []TransactionLineRequest `json:"lines"`
	Note  string                   `json:"note"`
}

// TransactionResponse resultado de un posteo confirmado.
type TransactionResponse struct {
	Success bool           `json:"success"`
	TxID    string         `json:"transaction_id"`
	Items   []ItemResponse `json:"items"`
}

// AuditEntryResponse salida de una entrada del audit log.
type AuditEntryResponse struct {
	ID        string          `json:"id"`
	TxID      string          `json:"transaction_id,omitempty"`
	ItemID    string          `json:"item_id"`
	Action    string          `json:"action"`
	Delta     int64           `json:"delta,omitempty"`
	Actor     string          `json:"actor"`
	Note      string          `json:"note,omitempty"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
