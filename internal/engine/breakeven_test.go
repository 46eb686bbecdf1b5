package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/adiprasetya/hppcalc/internal/model"
)

func TestEngine_BreakEven(t *testing.T) {
	e := newTestEngine()

	input := model.CostInput{
		DirectMaterials:       decimal.NewFromInt(200_000),
		DirectLabor:           decimal.NewFromInt(100_000),
		ManufacturingOverhead: decimal.NewFromInt(150_000),
		OtherCosts:            decimal.Zero,
		TotalUnits:            50,
	}

	analysis, err := e.BreakEven(input, decimal.NewFromInt(10_000))
	if err != nil {
		t.Fatalf("BreakEven failed: %v", err)
	}

	requireDecimal(t, analysis.FixedCosts, "150000", "FixedCosts")
	requireDecimal(t, analysis.VariableCostPerUnit, "6000", "VariableCostPerUnit")
	requireDecimal(t, analysis.ContributionMargin, "4000", "ContributionMargin")
	if analysis.BreakEvenUnits != 38 {
		t.Errorf("BreakEvenUnits = %d, want 38", analysis.BreakEvenUnits)
	}

	// HPP per unit is 450000/50 = 9000, so each sale clears 1000.
	requireDecimal(t, analysis.HPPPerUnit, "9000", "HPPPerUnit")
	requireDecimal(t, analysis.ProfitPerUnit, "1000", "ProfitPerUnit")
	requireDecimal(t, analysis.ProfitMargin, "10", "ProfitMargin")
}

func TestEngine_BreakEvenNoContribution(t *testing.T) {
	e := newTestEngine()

	input := model.CostInput{
		DirectMaterials:       decimal.NewFromInt(500_000),
		DirectLabor:           decimal.NewFromInt(300_000),
		ManufacturingOverhead: decimal.NewFromInt(200_000),
		TotalUnits:            100,
	}

	// Variable cost per unit is 8000; a price at or below that never
	// recovers fixed cost.
	analysis, err := e.BreakEven(input, decimal.NewFromInt(8_000))
	if err != nil {
		t.Fatalf("BreakEven failed: %v", err)
	}
	if analysis.BreakEvenUnits != 0 {
		t.Errorf("BreakEvenUnits = %d, want 0 when contribution margin is zero", analysis.BreakEvenUnits)
	}
	if !analysis.ContributionMargin.IsZero() {
		t.Errorf("ContributionMargin = %s, want 0", analysis.ContributionMargin)
	}
}

func TestEngine_BreakEvenRejectsBadPrice(t *testing.T) {
	e := newTestEngine()

	for _, price := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-100)} {
		if _, err := e.BreakEven(standardInput(), price); !errors.Is(err, ErrInvalidSellingPrice) {
			t.Errorf("BreakEven(price=%s) error = %v, want ErrInvalidSellingPrice", price, err)
		}
	}
}

func TestEngine_BreakEvenPropagatesRejection(t *testing.T) {
	e := newTestEngine()

	input := standardInput()
	input.TotalUnits = 0

	_, err := e.BreakEven(input, decimal.NewFromInt(10_000))
	var rejection *RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("error = %v, want *RejectionError", err)
	}
}
