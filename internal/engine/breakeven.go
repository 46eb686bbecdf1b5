package engine

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/adiprasetya/hppcalc/internal/model"
)

// ErrInvalidSellingPrice indicates a non-positive selling price.
var ErrInvalidSellingPrice = errors.New("selling price per unit must be positive")

// BreakEvenAnalysis is the outcome of a break-even computation. Manufacturing
// overhead is treated as the fixed-cost component; the remaining three
// categories spread over the unit count form the variable cost per unit.
type BreakEvenAnalysis struct {
	SellingPricePerUnit decimal.Decimal `json:"selling_price_per_unit"`
	HPPPerUnit          decimal.Decimal `json:"hpp_per_unit"`
	ProfitPerUnit       decimal.Decimal `json:"profit_per_unit"`
	ProfitMargin        decimal.Decimal `json:"profit_margin"`
	FixedCosts          decimal.Decimal `json:"fixed_costs"`
	VariableCostPerUnit decimal.Decimal `json:"variable_cost_per_unit"`
	ContributionMargin  decimal.Decimal `json:"contribution_margin"`
	BreakEvenUnits      int64           `json:"break_even_units"`
}

// BreakEven computes profitability and break-even volume for the given cost
// input at a selling price. The input is validated and calculated through
// the regular engine path first, so a rejected input returns the same
// *RejectionError as Calculate.
func (e *Engine) BreakEven(input model.CostInput, sellingPricePerUnit decimal.Decimal) (*BreakEvenAnalysis, error) {
	if !sellingPricePerUnit.IsPositive() {
		return nil, ErrInvalidSellingPrice
	}

	result, err := e.Calculate(input)
	if err != nil {
		return nil, err
	}

	norm := e.normalize(input)
	units := decimal.NewFromInt(norm.TotalUnits)

	fixed := norm.ManufacturingOverhead
	variable := norm.DirectMaterials.Add(norm.DirectLabor).Add(norm.OtherCosts)
	variablePerUnit := decimal.Zero
	if norm.TotalUnits > 0 {
		variablePerUnit = variable.DivRound(units, e.cfg.DecimalPlaces)
	}

	contribution := sellingPricePerUnit.Sub(variablePerUnit)

	// Break-even volume is only defined when each unit sold recovers some
	// fixed cost.
	var breakEvenUnits int64
	if contribution.IsPositive() && fixed.IsPositive() {
		breakEvenUnits = fixed.Div(contribution).Ceil().IntPart()
	}

	profitPerUnit := sellingPricePerUnit.Sub(result.HPPPerUnit)
	margin := profitPerUnit.Mul(decimal.New(100, 0)).DivRound(sellingPricePerUnit, e.cfg.PercentPlaces)

	return &BreakEvenAnalysis{
		SellingPricePerUnit: sellingPricePerUnit,
		HPPPerUnit:          result.HPPPerUnit,
		ProfitPerUnit:       profitPerUnit,
		ProfitMargin:        margin,
		FixedCosts:          fixed,
		VariableCostPerUnit: variablePerUnit,
		ContributionMargin:  contribution,
		BreakEvenUnits:      breakEvenUnits,
	}, nil
}
