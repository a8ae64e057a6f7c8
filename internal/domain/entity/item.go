package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Estados posibles de un item de inventario (value object conceptual).
const (
	StatusActive       = "active"
	StatusInactive     = "inactive"
	StatusDiscontinued = "discontinued"
)

// ValidStatus indica si s es un estado reconocido.
func ValidStatus(s string) bool {
	return s == StatusActive || s == StatusInactive || s == StatusDiscontinued
}

// Item representa un artículo del inventario identificado por un SKU único.
// Quantity nunca es negativa; el SKU es inmutable una vez creado el item.
// CategoryID y LocationID son referencias opacas (la existencia la valida el
// servicio correspondiente, no este dominio).
type Item struct {
	ID            string
	SKU           string // código único del artículo
	Name          string
	Quantity      int64
	MinStockLevel *int64 // opcional; punto de reorden
	MaxStockLevel *int64 // opcional; nivel ideal de stock
	UnitPrice     decimal.Decimal
	CategoryID    string
	LocationID    string
	Status        string // active, inactive, discontinued
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// itemSnapshot campos que se registran en el audit log como before/after.
type itemSnapshot struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Quantity      int64           `json:"quantity"`
	MinStockLevel *int64          `json:"min_stock_level,omitempty"`
	MaxStockLevel *int64          `json:"max_stock_level,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CategoryID    string          `json:"category_id,omitempty"`
	LocationID    string          `json:"location_id,omitempty"`
	Status        string          `json:"status"`
}

// Snapshot serializa los campos mutables del item para el audit log.
func (i *Item) Snapshot() json.RawMessage {
	if i == nil {
		return nil
	}
	b, err := json.Marshal(itemSnapshot{
		SKU:           i.SKU,
		Name:          i.Name,
		Quantity:      i.Quantity,
		MinStockLevel: i.MinStockLevel,
		MaxStockLevel: i.MaxStockLevel,
		UnitPrice:     i.UnitPrice,
		CategoryID:    i.CategoryID,
		LocationID:    i.LocationID,
		Status:        i.Status,
	})
	if err != nil {
		return nil
	}
	return b
}

// Clone devuelve una copia independiente del item (los punteros de niveles
// de stock también se copian).
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	if i.MinStockLevel != nil {
		v := *i.MinStockLevel
		c.MinStockLevel = &v
	}
	if i.MaxStockLevel != nil {
		v := *i.MaxStockLevel
		c.MaxStockLevel = &v
	}
	return &c
}
