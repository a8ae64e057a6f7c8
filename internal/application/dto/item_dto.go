package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ItemResponse salida de un item de inventario.
type ItemResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Quantity      int64           `json:"quantity"`
	MinStockLevel *int64          `json:"min_stock_level,omitempty"`
	MaxStockLevel *int64          `json:"max_stock_level,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CategoryID    string          `json:"category_id,omitempty"`
	LocationID    string          `json:"location_id,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToItemResponse mapea la entidad a su representación HTTP.
func ToItemResponse(i *entity.Item) *ItemResponse {
	if i == nil {
		return nil
	}
	return &ItemResponse{
		ID:            i.ID,
		SKU:           i.SKU,
		Name:          i.Name,
		Quantity:      i.Quantity,
		MinStockLevel: i.MinStockLevel,
		MaxStockLevel: i.MaxStockLevel,
		UnitPrice:     i.UnitPrice,
		CategoryID:    i.CategoryID,
		LocationID:    i.LocationID,
		Status:        i.Status,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// ItemListResponse lista paginada de items.
type ItemListResponse struct {
	Success bool           `json:"success"`
	Items   []ItemResponse `json:"items"`
	Page    PageResponse   `json:"page"`
}
