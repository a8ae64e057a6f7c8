package entity

// DirectionForDelta deriva la acción de auditoría del signo del delta.
// Positivo = entrada (stock_in), negativo = salida (stock_out).
// La dirección nunca se recibe del cliente: siempre se deriva, para que
// el audit log registre qué cambió y no sólo el estado final.
func DirectionForDelta(delta int64) string {
	if delta >= 0 {
		return ActionStockIn
	}
	return ActionStockOut
}

// TransactionLine una línea de una transacción de stock (venta o recepción).
// Delta con signo: positivo suma, negativo descuenta.
type TransactionLine struct {
	ItemID string
	Delta  int64
}
