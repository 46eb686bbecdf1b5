package engine

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/adiprasetya/hppcalc/internal/model"
	"github.com/adiprasetya/hppcalc/internal/validate"
)

func newTestEngine() *Engine {
	return New(validate.New(validate.DefaultConfig()), DefaultConfig())
}

func standardInput() model.CostInput {
	return model.CostInput{
		DirectMaterials:       decimal.NewFromInt(500_000),
		DirectLabor:           decimal.NewFromInt(300_000),
		ManufacturingOverhead: decimal.NewFromInt(200_000),
		OtherCosts:            decimal.Zero,
		TotalUnits:            100,
	}
}

func requireDecimal(t *testing.T, got decimal.Decimal, want string, label string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}

func TestEngine_Calculate(t *testing.T) {
	e := newTestEngine()

	result, err := e.Calculate(standardInput())
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	requireDecimal(t, result.TotalCosts, "1000000", "TotalCosts")
	requireDecimal(t, result.TotalHPP, "1000000", "TotalHPP")
	requireDecimal(t, result.HPPPerUnit, "10000", "HPPPerUnit")
	if result.TotalUnits != 100 {
		t.Errorf("TotalUnits = %d, want 100", result.TotalUnits)
	}
	if !result.Valid {
		t.Error("result not marked valid")
	}

	wantShares := map[model.CostField]string{
		model.FieldDirectMaterials:       "50",
		model.FieldDirectLabor:           "30",
		model.FieldManufacturingOverhead: "20",
		model.FieldOtherCosts:            "0",
	}
	for field, want := range wantShares {
		entry, ok := result.BreakdownFor(field)
		if !ok {
			t.Fatalf("breakdown missing %s", field)
		}
		requireDecimal(t, entry.Percentage, want, string(field)+" percentage")
	}
}

func TestEngine_CalculateIsIdempotent(t *testing.T) {
	e := newTestEngine()

	first, err := e.Calculate(standardInput())
	if err != nil {
		t.Fatalf("first Calculate failed: %v", err)
	}
	second, err := e.Calculate(standardInput())
	if err != nil {
		t.Fatalf("second Calculate failed: %v", err)
	}

	if first != second {
		t.Error("identical inputs should return the same cached result")
	}
	if e.CacheSize() != 1 {
		t.Errorf("CacheSize = %d, want 1", e.CacheSize())
	}

	history := e.History()
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].CacheHit {
		t.Error("first calculation recorded as cache hit")
	}
	if !history[1].CacheHit {
		t.Error("second calculation not recorded as cache hit")
	}
}

func TestEngine_ClearCacheForcesRecompute(t *testing.T) {
	e := newTestEngine()

	first, err := e.Calculate(standardInput())
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	e.ClearCache()
	if e.CacheSize() != 0 {
		t.Fatalf("CacheSize after clear = %d, want 0", e.CacheSize())
	}

	second, err := e.Calculate(standardInput())
	if err != nil {
		t.Fatalf("Calculate after clear failed: %v", err)
	}
	if first == second {
		t.Error("expected a fresh result after ClearCache")
	}
	if !first.TotalHPP.Equal(second.TotalHPP) {
		t.Errorf("recomputed TotalHPP = %s, want %s", second.TotalHPP, first.TotalHPP)
	}
}

func TestEngine_EquivalentInputsShareCacheEntry(t *testing.T) {
	e := newTestEngine()

	a := standardInput()
	b := standardInput()
	// Same value, different representation.
	b.DirectMaterials = decimal.RequireFromString("500000.004")

	ra, err := e.Calculate(a)
	if err != nil {
		t.Fatalf("Calculate(a) failed: %v", err)
	}
	rb, err := e.Calculate(b)
	if err != nil {
		t.Fatalf("Calculate(b) failed: %v", err)
	}
	if ra != rb {
		t.Error("inputs equal after normalization should share one cache entry")
	}
}

func TestEngine_CalculateRejectsInvalidInput(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		mutate func(*model.CostInput)
		name   string
	}{
		{name: "zero units", mutate: func(in *model.CostInput) { in.TotalUnits = 0 }},
		{name: "negative units", mutate: func(in *model.CostInput) { in.TotalUnits = -5 }},
		{name: "negative materials", mutate: func(in *model.CostInput) {
			in.DirectMaterials = decimal.NewFromInt(-1)
		}},
		{name: "all-zero costs", mutate: func(in *model.CostInput) {
			in.DirectMaterials = decimal.Zero
			in.DirectLabor = decimal.Zero
			in.ManufacturingOverhead = decimal.Zero
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := standardInput()
			tt.mutate(&input)

			result, err := e.Calculate(input)
			if result != nil {
				t.Error("rejected input still produced a result")
			}
			var rejection *RejectionError
			if !errors.As(err, &rejection) {
				t.Fatalf("error = %v, want *RejectionError", err)
			}
			if rejection.Result.Valid() {
				t.Error("rejection carries no validation errors")
			}
		})
	}
}

func TestEngine_BreakdownSumsToTotal(t *testing.T) {
	e := newTestEngine()

	input := model.CostInput{
		DirectMaterials:       decimal.RequireFromString("333333.33"),
		DirectLabor:           decimal.RequireFromString("333333.33"),
		ManufacturingOverhead: decimal.RequireFromString("333333.34"),
		OtherCosts:            decimal.RequireFromString("0.01"),
		TotalUnits:            7,
	}
	result, err := e.Calculate(input)
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	sum := decimal.Zero
	for _, entry := range result.Breakdown {
		sum = sum.Add(entry.Amount)
	}
	if !sum.Equal(result.TotalCosts) {
		t.Errorf("breakdown amounts sum to %s, want %s", sum, result.TotalCosts)
	}
}

func TestEngine_PerUnitTimesUnitsWithinTolerance(t *testing.T) {
	e := newTestEngine()

	// Uneven divisions round the per-unit figure; the rounding loss across
	// all units stays within half a cent per unit.
	for _, units := range []int64{3, 7, 13, 37, 999} {
		input := standardInput()
		input.TotalUnits = units

		result, err := e.Calculate(input)
		if err != nil {
			t.Fatalf("Calculate(units=%d) failed: %v", units, err)
		}

		recovered := result.HPPPerUnit.Mul(decimal.NewFromInt(units))
		diff := recovered.Sub(result.TotalCosts).Abs()
		tolerance := decimal.RequireFromString("0.01").Mul(decimal.NewFromInt(units))
		if diff.GreaterThan(tolerance) {
			t.Errorf("units=%d: per-unit %s x units recovers %s, off from %s by %s (tolerance %s)",
				units, result.HPPPerUnit, recovered, result.TotalCosts, diff, tolerance)
		}
	}
}

func TestEngine_HistoryEvictsOldestPastLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HistoryLimit = 5
	e := New(validate.New(validate.DefaultConfig()), cfg)

	for i := int64(1); i <= 8; i++ {
		input := standardInput()
		input.TotalUnits = i
		if _, err := e.Calculate(input); err != nil {
			t.Fatalf("Calculate(units=%d) failed: %v", i, err)
		}
	}

	history := e.History()
	if len(history) != 5 {
		t.Fatalf("history length = %d, want 5", len(history))
	}
	if history[0].Input.TotalUnits != 4 {
		t.Errorf("oldest surviving entry has units %d, want 4", history[0].Input.TotalUnits)
	}
	if history[4].Input.TotalUnits != 8 {
		t.Errorf("newest entry has units %d, want 8", history[4].Input.TotalUnits)
	}

	e.ClearHistory()
	if len(e.History()) != 0 {
		t.Error("ClearHistory left entries behind")
	}
}
