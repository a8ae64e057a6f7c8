package report

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// UseCase agregados simples sobre el inventario: el resumen que usan los
// tests para verificar efectos de las mutaciones bulk, y la lista de
// items por debajo de su nivel mínimo con cantidad sugerida de pedido.
type UseCase struct {
	items repository.ItemRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(items repository.ItemRepository) *UseCase {
	return &UseCase{items: items}
}

// Summary agregados del inventario completo.
type Summary struct {
	TotalItems int             `json:"total_items"`
	TotalUnits int64           `json:"total_units"`
	TotalValue decimal.Decimal `json:"total_value"` // Σ quantity × unit_price
	ByStatus   map[string]int  `json:"by_status"`
}

// Summary calcula conteos y valoración sobre todos los items.
func (uc *UseCase) Summary() (*Summary, error) {
	list, err := uc.items.List(repository.ItemFilter{})
	if err != nil {
		return nil, err
	}
	s := &Summary{
		TotalValue: decimal.Zero,
		ByStatus:   map[string]int{},
	}
	for _, it := range list {
		s.TotalItems++
		s.TotalUnits += it.Quantity
		s.TotalValue = s.TotalValue.Add(it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)))
		s.ByStatus[it.Status]++
	}
	return s, nil
}

// LowStockItem un item en o por debajo de su nivel mínimo.
type LowStockItem struct {
	ItemID            string `json:"item_id"`
	SKU               string `json:"sku"`
	Name              string `json:"name"`
	Quantity          int64  `json:"quantity"`
	MinStockLevel     int64  `json:"min_stock_level"`
	SuggestedOrderQty int64  `json:"suggested_order_qty"`
}

// LowStock lista items activos con quantity <= minStockLevel. La cantidad
// sugerida repone hasta maxStockLevel si está definido; si no, hasta el
// doble del mínimo.
func (uc *UseCase) LowStock() ([]LowStockItem, error) {
	list, err := uc.items.List(repository.ItemFilter{Status: entity.StatusActive})
	if err != nil {
		return nil, err
	}
	var out []LowStockItem
	for _, it := range list {
		if it.MinStockLevel == nil || it.Quantity > *it.MinStockLevel {
			continue
		}
		ideal := *it.MinStockLevel * 2
		if it.MaxStockLevel != nil {
			ideal = *it.MaxStockLevel
		}
		suggested := ideal - it.Quantity
		if suggested < 0 {
			suggested = 0
		}
		out = append(out, LowStockItem{
			ItemID:            it.ID,
			SKU:               it.SKU,
			Name:              it.Name,
			Quantity:          it.Quantity,
			MinStockLevel:     *it.MinStockLevel,
			SuggestedOrderQty: suggested,
		})
	}
	return out, nil
}
