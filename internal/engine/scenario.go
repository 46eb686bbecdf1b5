package engine

import (
	"github.com/shopspring/decimal"

	"github.com/adiprasetya/hppcalc/internal/model"
)

// Overrides lists the fields a scenario replaces on the base input. Nil
// pointers keep the base value.
type Overrides struct {
	DirectMaterials       *decimal.Decimal `json:"direct_materials,omitempty"`
	DirectLabor           *decimal.Decimal `json:"direct_labor,omitempty"`
	ManufacturingOverhead *decimal.Decimal `json:"manufacturing_overhead,omitempty"`
	OtherCosts            *decimal.Decimal `json:"other_costs,omitempty"`
	TotalUnits            *int64           `json:"total_units,omitempty"`
}

// Apply overlays the overrides onto a copy of the base input.
func (o Overrides) Apply(base model.CostInput) model.CostInput {
	out := base
	if o.DirectMaterials != nil {
		out.DirectMaterials = *o.DirectMaterials
	}
	if o.DirectLabor != nil {
		out.DirectLabor = *o.DirectLabor
	}
	if o.ManufacturingOverhead != nil {
		out.ManufacturingOverhead = *o.ManufacturingOverhead
	}
	if o.OtherCosts != nil {
		out.OtherCosts = *o.OtherCosts
	}
	if o.TotalUnits != nil {
		out.TotalUnits = *o.TotalUnits
	}
	return out
}

// Scenario is one named variation applied atop a base input.
type Scenario struct {
	Name      string    `json:"name"`
	Overrides Overrides `json:"overrides"`
}

// ScenarioResult carries one scenario's outcome. Err is non-nil when the
// scenario's input was rejected; other scenarios are unaffected.
type ScenarioResult struct {
	Err    error
	Result *model.HPPResult
	Name   string
	Input  model.CostInput
}

// CalculateScenarios evaluates each scenario independently against the base
// input. A failing scenario records its rejection and does not abort the
// batch.
func (e *Engine) CalculateScenarios(base model.CostInput, scenarios []Scenario) []ScenarioResult {
	results := make([]ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		input := sc.Overrides.Apply(base)
		result, err := e.Calculate(input)
		results = append(results, ScenarioResult{
			Name:   sc.Name,
			Input:  input,
			Result: result,
			Err:    err,
		})
	}
	return results
}
