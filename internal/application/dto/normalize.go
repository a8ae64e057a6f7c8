package dto

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/validation"
)

// Normalización de payloads "sueltos": los clientes históricos del API
// mandan claves en snake_case o camelCase y números como número o como
// string. Aquí se convierte cada payload a un validation.ItemInput
// canónico; el núcleo nunca ve las variantes. Un valor no numérico no
// tumba la petición completa: se registra como violación not_a_number
// del item concreto.

// alias de claves aceptadas, en orden de preferencia.
var itemKeyAliases = map[string][]string{
	"id":            {"id"},
	"sku":           {"sku"},
	"name":          {"name", "nombre"},
	"quantity":      {"quantity", "qty", "cantidad"},
	"minStockLevel": {"min_stock_level", "minStockLevel"},
	"maxStockLevel": {"max_stock_level", "maxStockLevel"},
	"unitPrice":     {"unit_price", "unitPrice", "price"},
	"categoryId":    {"category_id", "categoryId"},
	"locationId":    {"location_id", "locationId"},
	"status":        {"status"},
	"note":          {"note", "nota"},
}

// NormalizedItem payload de un item ya normalizado, junto con las
// violaciones detectadas durante la normalización (tipos no numéricos).
type NormalizedItem struct {
	Input      validation.ItemInput
	Violations []validation.Violation
}

// NormalizeItemPayload convierte un objeto JSON crudo en un ItemInput
// canónico. Nunca devuelve error por tipos: los problemas de tipo se
// reportan como violaciones para que el motor bulk los cuente por item.
func NormalizeItemPayload(raw json.RawMessage) (NormalizedItem, error) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return NormalizedItem{}, err
	}
	return normalizeItemMap(m), nil
}

func normalizeItemMap(m map[string]any) NormalizedItem {
	var n NormalizedItem

	if s, ok := lookupString(m, "id"); ok {
		n.Input.ID = s
	}
	n.Input.SKU = stringField(m, "sku")
	n.Input.Name = stringField(m, "name")
	n.Input.CategoryID = stringField(m, "categoryId")
	n.Input.LocationID = stringField(m, "locationId")
	n.Input.Status = stringField(m, "status")
	n.Input.Note = stringField(m, "note")

	n.Input.Quantity = n.intField(m, "quantity")
	n.Input.MinStockLevel = n.intField(m, "minStockLevel")
	n.Input.MaxStockLevel = n.intField(m, "maxStockLevel")
	n.Input.UnitPrice = n.decimalField(m, "unitPrice")

	return n
}

// lookup busca la primera clave alias presente en el mapa.
func lookup(m map[string]any, canonical string) (any, bool) {
	for _, k := range itemKeyAliases[canonical] {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func lookupString(m map[string]any, canonical string) (string, bool) {
	v, ok := lookup(m, canonical)
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func stringField(m map[string]any, canonical string) *string {
	v, ok := lookup(m, canonical)
	if !ok || v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		return &s
	}
	// Valor presente pero de tipo no string: lo representamos como vacío
	// para que el validador lo marque como requerido/ inválido.
	empty := ""
	return &empty
}

// intField coerciona número JSON o string numérico a int64. Fracciones y
// texto no numérico generan not_a_number.
func (n *NormalizedItem) intField(m map[string]any, canonical string) *int64 {
	v, ok := lookup(m, canonical)
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return &i
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return &i
		}
	}
	n.Violations = append(n.Violations, validation.Violation{
		Field:  canonical,
		Reason: validation.ReasonNotANumber,
	})
	return nil
}

// decimalField coerciona número JSON o string numérico a decimal.
func (n *NormalizedItem) decimalField(m map[string]any, canonical string) *decimal.Decimal {
	v, ok := lookup(m, canonical)
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case json.Number:
		if d, err := decimal.NewFromString(t.String()); err == nil {
			return &d
		}
	case string:
		if d, err := decimal.NewFromString(strings.TrimSpace(t)); err == nil {
			return &d
		}
	}
	n.Violations = append(n.Violations, validation.Violation{
		Field:  canonical,
		Reason: validation.ReasonNotANumber,
	})
	return nil
}

// NormalizeItems normaliza los payloads de un lote, preservando el orden.
// Un payload que ni siquiera es un objeto JSON se marca con violación
// sobre el campo "item" en lugar de abortar el lote.
func NormalizeItems(raws []json.RawMessage) []NormalizedItem {
	out := make([]NormalizedItem, 0, len(raws))
	for _, raw := range raws {
		n, err := NormalizeItemPayload(raw)
		if err != nil {
			n = NormalizedItem{Violations: []validation.Violation{
				{Field: "item", Reason: validation.ReasonInvalid},
			}}
		}
		out = append(out, n)
	}
	return out
}
