package validate

import (
	"testing"

	"github.com/adiprasetya/hppcalc/internal/model"
)

func validValues() map[model.CostField]any {
	return map[model.CostField]any{
		model.FieldDirectMaterials:       "500000",
		model.FieldDirectLabor:           "300000",
		model.FieldManufacturingOverhead: "200000",
		model.FieldOtherCosts:            "0",
		model.FieldTotalUnits:            "100",
	}
}

func TestValidator_ValidateField(t *testing.T) {
	v := New(DefaultConfig())

	tests := []struct {
		raw      any
		name     string
		field    model.CostField
		wantCode model.ValidationCode
		wantErr  bool
	}{
		{name: "valid materials", field: model.FieldDirectMaterials, raw: "500000"},
		{name: "missing materials", field: model.FieldDirectMaterials, raw: "", wantErr: true, wantCode: model.CodeRequired},
		{name: "negative materials", field: model.FieldDirectMaterials, raw: "-1", wantErr: true, wantCode: model.CodeBelowMinimum},
		{name: "materials above cap", field: model.FieldDirectMaterials, raw: "1000000000001", wantErr: true, wantCode: model.CodeAboveMaximum},
		{name: "materials not a number", field: model.FieldDirectLabor, raw: "abc", wantErr: true, wantCode: model.CodeInvalidNumber},
		{name: "absent other costs is fine", field: model.FieldOtherCosts, raw: ""},
		{name: "negative other costs", field: model.FieldOtherCosts, raw: "-5", wantErr: true, wantCode: model.CodeBelowMinimum},
		{name: "valid units", field: model.FieldTotalUnits, raw: "1"},
		{name: "zero units", field: model.FieldTotalUnits, raw: "0", wantErr: true, wantCode: model.CodeBelowMinimum},
		{name: "fractional units", field: model.FieldTotalUnits, raw: "2,5", wantErr: true, wantCode: model.CodeNonInteger},
		{name: "units above cap", field: model.FieldTotalUnits, raw: "1000000001", wantErr: true, wantCode: model.CodeAboveMaximum},
		{name: "unknown field", field: model.CostField("bogus"), raw: "1", wantErr: true, wantCode: model.CodeInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidateField(tt.field, tt.raw)
			if result.Valid() == tt.wantErr {
				t.Fatalf("ValidateField(%s, %v) valid = %t, want %t (errors: %v)",
					tt.field, tt.raw, result.Valid(), !tt.wantErr, result.Errors)
			}
			if tt.wantErr && !result.HasError(tt.field, tt.wantCode) {
				t.Errorf("ValidateField(%s, %v) missing code %s, got %v",
					tt.field, tt.raw, tt.wantCode, result.Errors)
			}
		})
	}
}

func TestValidator_PrecisionWarning(t *testing.T) {
	v := New(DefaultConfig())

	result := v.ValidateField(model.FieldDirectMaterials, "100.125")
	if !result.Valid() {
		t.Fatalf("expected precision to warn, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Code != model.CodePrecision {
		t.Errorf("expected one precision warning, got %v", result.Warnings)
	}
}

func TestValidator_ValidateHPPData(t *testing.T) {
	v := New(DefaultConfig())

	t.Run("valid input passes", func(t *testing.T) {
		result := v.ValidateHPPData(validValues())
		if !result.Valid() {
			t.Fatalf("expected valid, got errors: %v", result.Errors)
		}
		if len(result.Warnings) != 0 {
			t.Errorf("expected no warnings, got %v", result.Warnings)
		}
	})

	t.Run("all-zero costs fail with zero-total", func(t *testing.T) {
		values := validValues()
		values[model.FieldDirectMaterials] = "0"
		values[model.FieldDirectLabor] = "0"
		values[model.FieldManufacturingOverhead] = "0"

		result := v.ValidateHPPData(values)
		if result.Valid() {
			t.Fatal("expected zero-total error")
		}
		if !result.HasError(model.FieldGeneral, model.CodeZeroTotal) {
			t.Errorf("expected zero-total on the general field, got %v", result.Errors)
		}
	})

	t.Run("zero units with positive costs fail once", func(t *testing.T) {
		values := validValues()
		values[model.FieldTotalUnits] = "0"

		result := v.ValidateHPPData(values)
		if result.Valid() {
			t.Fatal("expected units error")
		}
		if !result.HasError(model.FieldTotalUnits, model.CodeBelowMinimum) {
			t.Errorf("expected below-minimum on units, got %v", result.Errors)
		}
		count := 0
		for _, e := range result.Errors {
			if e.Field == model.FieldTotalUnits {
				count++
			}
		}
		if count != 1 {
			t.Errorf("units flagged %d times, want once: %v", count, result.Errors)
		}
	})

	t.Run("unparseable field suppresses zero-total", func(t *testing.T) {
		values := validValues()
		values[model.FieldDirectMaterials] = "abc"
		values[model.FieldDirectLabor] = "0"
		values[model.FieldManufacturingOverhead] = "0"

		result := v.ValidateHPPData(values)
		if result.HasError(model.FieldGeneral, model.CodeZeroTotal) {
			t.Errorf("zero-total should not fire while a field is unparseable: %v", result.Errors)
		}
	})

	t.Run("high per-unit cost warns", func(t *testing.T) {
		values := validValues()
		values[model.FieldDirectMaterials] = "20000000"
		values[model.FieldTotalUnits] = "1"

		result := v.ValidateHPPData(values)
		if !result.Valid() {
			t.Fatalf("expected valid with warning, got errors: %v", result.Errors)
		}
		found := false
		for _, w := range result.Warnings {
			if w.Code == model.CodeHighPerUnit {
				found = true
			}
		}
		if !found {
			t.Errorf("expected high-per-unit warning, got %v", result.Warnings)
		}
	})
}
