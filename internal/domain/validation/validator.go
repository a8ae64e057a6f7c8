// Package validation contiene la validación pura de items: funciones sin
// efectos secundarios que devuelven la lista de violaciones encontradas.
// La unicidad de SKU no se valida aquí (requiere consultar el Item Store);
// eso lo hace el motor de mutaciones con ReasonDuplicate.
package validation

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Razones de violación. Son códigos estables: los tests y los clientes
// del API los comparan literalmente.
const (
	ReasonRequired      = "required"
	ReasonNotANumber    = "not_a_number"
	ReasonNonNegative   = "must_be_non_negative"
	ReasonMinExceedsMax = "min_exceeds_max"
	ReasonDuplicate     = "duplicate"
	ReasonImmutable     = "immutable"
	ReasonInvalidStatus = "invalid_status"
	ReasonInvalid       = "invalid_payload"
)

// Modo de validación: alta o modificación parcial.
type Mode int

const (
	ModeCreate Mode = iota
	ModeUpdate
)

// Violation una violación de validación sobre un campo concreto.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Reason
}

// Error agrupa violaciones para propagarlas como error de Go.
type Error struct {
	Violations []Violation
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("validación fallida: %s", strings.Join(parts, "; "))
}

// ItemInput entrada canónica ya normalizada desde el payload HTTP.
// Los punteros distinguen "campo ausente" de "campo presente con cero".
type ItemInput struct {
	ID            string
	SKU           *string
	Name          *string
	Quantity      *int64
	MinStockLevel *int64
	MaxStockLevel *int64
	UnitPrice     *decimal.Decimal
	CategoryID    *string
	LocationID    *string
	Status        *string
	Note          *string
}

// Validate valida un ItemInput según el modo. Devuelve todas las violaciones
// encontradas (un item puede acumular varias). No toca ningún repositorio.
func Validate(in ItemInput, mode Mode) []Violation {
	var out []Violation

	if mode == ModeCreate {
		if in.SKU == nil || strings.TrimSpace(*in.SKU) == "" {
			out = append(out, Violation{Field: "sku", Reason: ReasonRequired})
		}
		if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
			out = append(out, Violation{Field: "name", Reason: ReasonRequired})
		}
		if in.Quantity == nil {
			out = append(out, Violation{Field: "quantity", Reason: ReasonRequired})
		}
		if in.UnitPrice == nil {
			out = append(out, Violation{Field: "unitPrice", Reason: ReasonRequired})
		}
	} else {
		// En update los campos son opcionales, pero si vienen no pueden quedar vacíos.
		if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
			out = append(out, Violation{Field: "name", Reason: ReasonRequired})
		}
	}

	if in.Quantity != nil && *in.Quantity < 0 {
		out = append(out, Violation{Field: "quantity", Reason: ReasonNonNegative})
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		out = append(out, Violation{Field: "unitPrice", Reason: ReasonNonNegative})
	}
	if in.MinStockLevel != nil && *in.MinStockLevel < 0 {
		out = append(out, Violation{Field: "minStockLevel", Reason: ReasonNonNegative})
	}
	if in.MaxStockLevel != nil && *in.MaxStockLevel < 0 {
		out = append(out, Violation{Field: "maxStockLevel", Reason: ReasonNonNegative})
	}
	if in.MinStockLevel != nil && in.MaxStockLevel != nil &&
		*in.MinStockLevel >= 0 && *in.MaxStockLevel >= 0 &&
		*in.MinStockLevel > *in.MaxStockLevel {
		out = append(out, Violation{Field: "stockLevels", Reason: ReasonMinExceedsMax})
	}
	if in.Status != nil && !entity.ValidStatus(*in.Status) {
		out = append(out, Violation{Field: "status", Reason: ReasonInvalidStatus})
	}

	return out
}
