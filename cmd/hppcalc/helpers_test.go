package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adiprasetya/hppcalc/internal/common"
	"github.com/adiprasetya/hppcalc/internal/model"
	"github.com/adiprasetya/hppcalc/internal/storage"
)

func TestParseCostInput(t *testing.T) {
	tests := []struct {
		raw           map[model.CostField]any
		name          string
		expectedError string
		expectedTotal string
		expectedUnits int64
	}{
		{
			name: "plain values",
			raw: map[model.CostField]any{
				model.FieldDirectMaterials:       "500000",
				model.FieldDirectLabor:           "300000",
				model.FieldManufacturingOverhead: "200000",
				model.FieldOtherCosts:            "0",
				model.FieldTotalUnits:            "100",
			},
			expectedTotal: "1000000",
			expectedUnits: 100,
		},
		{
			name: "rupiah formatting",
			raw: map[model.CostField]any{
				model.FieldDirectMaterials:       "Rp 1.500.000,50",
				model.FieldDirectLabor:           "250,000",
				model.FieldManufacturingOverhead: "100000",
				model.FieldOtherCosts:            "",
				model.FieldTotalUnits:            "50",
			},
			expectedTotal: "1850000.50",
			expectedUnits: 50,
		},
		{
			name: "missing required field",
			raw: map[model.CostField]any{
				model.FieldDirectMaterials:       "",
				model.FieldDirectLabor:           "300000",
				model.FieldManufacturingOverhead: "200000",
				model.FieldTotalUnits:            "100",
			},
			expectedError: "validation error",
		},
		{
			name: "zero units",
			raw: map[model.CostField]any{
				model.FieldDirectMaterials:       "500000",
				model.FieldDirectLabor:           "300000",
				model.FieldManufacturingOverhead: "200000",
				model.FieldTotalUnits:            "0",
			},
			expectedError: "validation error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, vr, err := parseCostInput(tt.raw)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.False(t, vr.Valid())
				var userErr *common.UserError
				assert.True(t, errors.As(err, &userErr), "validation failure should surface as a UserError")
				return
			}

			require.NoError(t, err)
			assert.True(t, vr.Valid())
			assert.True(t, input.TotalCost().Equal(decimal.RequireFromString(tt.expectedTotal)),
				"total = %s, want %s", input.TotalCost(), tt.expectedTotal)
			assert.Equal(t, tt.expectedUnits, input.TotalUnits)
		})
	}
}

func TestApplyPreference(t *testing.T) {
	tests := []struct {
		check         func(*testing.T, model.Preferences)
		name          string
		key           string
		value         string
		expectedError string
	}{
		{
			name: "theme", key: "theme", value: "dark",
			check: func(t *testing.T, p model.Preferences) { assert.Equal(t, "dark", p.Theme) },
		},
		{
			name: "language", key: "language", value: "en",
			check: func(t *testing.T, p model.Preferences) { assert.Equal(t, "en", p.Language) },
		},
		{
			name: "auto-save off", key: "auto-save", value: "false",
			check: func(t *testing.T, p model.Preferences) { assert.False(t, p.AutoSave) },
		},
		{
			name: "notifications on", key: "notifications", value: "true",
			check: func(t *testing.T, p model.Preferences) { assert.True(t, p.Notifications) },
		},
		{name: "invalid theme", key: "theme", value: "neon", expectedError: "theme must be light or dark"},
		{name: "invalid bool", key: "auto-save", value: "maybe", expectedError: "expects true/false"},
		{name: "unknown key", key: "font-size", value: "12", expectedError: "unknown preference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs := model.DefaultPreferences()
			err := applyPreference(&prefs, tt.key, tt.value)

			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			require.NoError(t, err)
			tt.check(t, prefs)
		})
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "uuid-length id truncates", id: "a81bc81b-dead-4e5d-abff-90865d1e13b1", want: "a81bc81b"},
		{name: "exactly eight stays whole", id: "12345678", want: "12345678"},
		{name: "short imported id stays whole", id: "abc", want: "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shortID(tt.id))
		})
	}
}

func TestFindRecord(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore(10)

	ids := []string{"aaaa1111-record", "aaab2222-record", "cccc3333-record"}
	for i, id := range ids {
		rec := model.CalculationRecord{
			ID:        id,
			Timestamp: time.Now().Add(time.Duration(i) * time.Second),
			Result:    &model.HPPResult{Valid: true},
		}
		require.NoError(t, store.SaveCalculation(ctx, &rec))
	}

	t.Run("full id", func(t *testing.T) {
		record, err := findRecord(ctx, store, "cccc3333-record")
		require.NoError(t, err)
		assert.Equal(t, "cccc3333-record", record.ID)
	})

	t.Run("unique prefix", func(t *testing.T) {
		record, err := findRecord(ctx, store, "cccc")
		require.NoError(t, err)
		assert.Equal(t, "cccc3333-record", record.ID)
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		_, err := findRecord(ctx, store, "aaa")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ambiguous")
	})

	t.Run("no match", func(t *testing.T) {
		_, err := findRecord(ctx, store, "zzzz")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no calculation")
	})
}

func TestRenderResult(t *testing.T) {
	result := &model.HPPResult{
		TotalCosts: decimal.NewFromInt(1_000_000),
		TotalHPP:   decimal.NewFromInt(1_000_000),
		HPPPerUnit: decimal.NewFromInt(10_000),
		TotalUnits: 100,
		Valid:      true,
		Breakdown: []model.BreakdownEntry{
			{Field: model.FieldDirectMaterials, Label: "Direct Materials",
				Amount: decimal.NewFromInt(500_000), Percentage: decimal.NewFromInt(50)},
			{Field: model.FieldDirectLabor, Label: "Direct Labor",
				Amount: decimal.NewFromInt(500_000), Percentage: decimal.NewFromInt(50)},
		},
	}

	out := renderResult(result)
	assert.Contains(t, out, "Direct Materials")
	assert.Contains(t, out, "Rp 500.000")
	assert.Contains(t, out, "Rp 1.000.000")
	assert.Contains(t, out, "50.0%")
	assert.True(t, strings.Contains(out, "HPP per unit (100 units)"))
}
