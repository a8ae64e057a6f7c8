package dto

import "encoding/json"

// Operaciones aceptadas en el endpoint bulk.
const (
	BulkOpCreate = "create"
	BulkOpUpdate = "update"
	BulkOpDelete = "delete"
)

// BulkRequest envoltorio de un lote: operación + items crudos.
// Los items se decodifican item por item para que un payload malformado
// cuente como fallo de ese item y no de la petición completa.
type BulkRequest struct {
	Operation string            `json:"operation"`
	Items     []json.RawMessage `json:"items"`
}

// BulkItemError error de un item concreto del lote, en orden de entrada.
// Index refiere a la posición en el lote; ID se incluye cuando se conoce
// (update/delete), para que el cliente pueda cruzar con su planilla.
type BulkItemError struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// BulkResult resultado de un lote procesado con semántica best-effort.
// Invariante: Successful + Failed == número de items de entrada.
type BulkResult struct {
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Errors     []BulkItemError `json:"errors"`
	Items      []ItemResponse  `json:"items,omitempty"` // items confirmados (create/update)
}

// BulkResponse envoltorio HTTP del resultado bulk.
type BulkResponse struct {
	Success    bool            `json:"success"`
	Successful int             `json:"successful"`
	Failed     int             `json:"failed"`
	Errors     []BulkItemError `json:"errors"`
	Items      []ItemResponse  `json:"items,omitempty"`
}

// ToBulkResponse arma el envoltorio HTTP a partir del resultado del motor.
func ToBulkResponse(r *BulkResult) BulkResponse {
	errs := r.Errors
	if errs == nil {
		errs = []BulkItemError{}
	}
	return BulkResponse{
		Success:    true,
		Successful: r.Successful,
		Failed:     r.Failed,
		Errors:     errs,
		Items:      r.Items,
	}
}
