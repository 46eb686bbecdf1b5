// Package model defines the core domain models used throughout the application.
package model

import (
	"github.com/shopspring/decimal"
)

// CostField identifies one of the calculator's input fields.
type CostField string

// Input field constants.
const (
	FieldDirectMaterials       CostField = "direct_materials"
	FieldDirectLabor           CostField = "direct_labor"
	FieldManufacturingOverhead CostField = "manufacturing_overhead"
	FieldOtherCosts            CostField = "other_costs"
	FieldTotalUnits            CostField = "total_units"

	// FieldGeneral tags cross-field business rule outcomes that do not
	// belong to a single input.
	FieldGeneral CostField = "general"
)

// CostCategories lists the four cost categories in display order.
var CostCategories = []CostField{
	FieldDirectMaterials,
	FieldDirectLabor,
	FieldManufacturingOverhead,
	FieldOtherCosts,
}

// Label returns the human-readable name for a field.
func (f CostField) Label() string {
	switch f {
	case FieldDirectMaterials:
		return "Direct Materials"
	case FieldDirectLabor:
		return "Direct Labor"
	case FieldManufacturingOverhead:
		return "Manufacturing Overhead"
	case FieldOtherCosts:
		return "Other Costs"
	case FieldTotalUnits:
		return "Total Units"
	case FieldGeneral:
		return "General"
	default:
		return string(f)
	}
}

// IsCostCategory reports whether the field is one of the four cost categories.
func (f CostField) IsCostCategory() bool {
	switch f {
	case FieldDirectMaterials, FieldDirectLabor, FieldManufacturingOverhead, FieldOtherCosts:
		return true
	default:
		return false
	}
}

// CostInput carries the numeric inputs for a single calculation request.
// All cost fields must be non-negative; OtherCosts defaults to zero and
// TotalUnits to one when not supplied. Those invariants are enforced by the
// validator, not by this type.
type CostInput struct {
	DirectMaterials       decimal.Decimal `json:"direct_materials"`
	DirectLabor           decimal.Decimal `json:"direct_labor"`
	ManufacturingOverhead decimal.Decimal `json:"manufacturing_overhead"`
	OtherCosts            decimal.Decimal `json:"other_costs"`
	TotalUnits            int64           `json:"total_units"`
}

// Amount returns the cost amount for one of the four cost categories.
// It returns zero for non-category fields.
func (c CostInput) Amount(f CostField) decimal.Decimal {
	switch f {
	case FieldDirectMaterials:
		return c.DirectMaterials
	case FieldDirectLabor:
		return c.DirectLabor
	case FieldManufacturingOverhead:
		return c.ManufacturingOverhead
	case FieldOtherCosts:
		return c.OtherCosts
	default:
		return decimal.Zero
	}
}

// TotalCost sums the four cost categories without rounding.
func (c CostInput) TotalCost() decimal.Decimal {
	return c.DirectMaterials.
		Add(c.DirectLabor).
		Add(c.ManufacturingOverhead).
		Add(c.OtherCosts)
}
