package state

import (
	"errors"
	"fmt"

	"github.com/adiprasetya/hppcalc/internal/model"
)

// Path addresses one mutable location in the state tree. Only the declared
// constants are legal; arbitrary path strings are rejected rather than
// resolved dynamically.
type Path string

// Legal mutation targets.
const (
	PathUITheme      Path = "ui.theme"
	PathUILanguage   Path = "ui.language"
	PathUIActiveView Path = "ui.active_view"
	PathUILoading    Path = "ui.loading"

	PathFormDirectMaterials       Path = "form.direct_materials"
	PathFormDirectLabor           Path = "form.direct_labor"
	PathFormManufacturingOverhead Path = "form.manufacturing_overhead"
	PathFormOtherCosts            Path = "form.other_costs"
	PathFormTotalUnits            Path = "form.total_units"

	PathCalculationCurrent   Path = "calculation.current"
	PathCalculationLastError Path = "calculation.last_error"

	PathHistoryCalculations Path = "history.calculations"
	PathHistoryCap          Path = "history.cap"

	PathSettings Path = "settings"

	PathAppInitialized Path = "app.initialized"
)

// ErrUnknownPath indicates a path outside the declared accessor table.
var ErrUnknownPath = errors.New("unknown state path")

// accessor binds a path to typed get/set/equality functions on the tree.
// Equality is explicit and per-type; no reflection-based deep comparison.
type accessor struct {
	get   func(*State) any
	set   func(*State, any) error
	equal func(a, b any) bool
}

func typeError(path Path, want string, got any) error {
	return fmt.Errorf("state path %s expects %s, got %T", path, want, got)
}

func stringAccessor(path Path, get func(*State) *string) accessor {
	return accessor{
		get: func(s *State) any { return *get(s) },
		set: func(s *State, v any) error {
			str, ok := v.(string)
			if !ok {
				return typeError(path, "string", v)
			}
			*get(s) = str
			return nil
		},
		equal: func(a, b any) bool { return a == b },
	}
}

func boolAccessor(path Path, get func(*State) *bool) accessor {
	return accessor{
		get: func(s *State) any { return *get(s) },
		set: func(s *State, v any) error {
			b, ok := v.(bool)
			if !ok {
				return typeError(path, "bool", v)
			}
			*get(s) = b
			return nil
		},
		equal: func(a, b any) bool { return a == b },
	}
}

var accessors = map[Path]accessor{
	PathUITheme:      stringAccessor(PathUITheme, func(s *State) *string { return &s.UI.Theme }),
	PathUILanguage:   stringAccessor(PathUILanguage, func(s *State) *string { return &s.UI.Language }),
	PathUIActiveView: stringAccessor(PathUIActiveView, func(s *State) *string { return &s.UI.ActiveView }),
	PathUILoading:    boolAccessor(PathUILoading, func(s *State) *bool { return &s.UI.Loading }),

	PathFormDirectMaterials:       stringAccessor(PathFormDirectMaterials, func(s *State) *string { return &s.Form.DirectMaterials }),
	PathFormDirectLabor:           stringAccessor(PathFormDirectLabor, func(s *State) *string { return &s.Form.DirectLabor }),
	PathFormManufacturingOverhead: stringAccessor(PathFormManufacturingOverhead, func(s *State) *string { return &s.Form.ManufacturingOverhead }),
	PathFormOtherCosts:            stringAccessor(PathFormOtherCosts, func(s *State) *string { return &s.Form.OtherCosts }),
	PathFormTotalUnits:            stringAccessor(PathFormTotalUnits, func(s *State) *string { return &s.Form.TotalUnits }),

	PathCalculationCurrent: {
		get: func(s *State) any { return s.Calculation.Current },
		set: func(s *State, v any) error {
			if v == nil {
				s.Calculation.Current = nil
				return nil
			}
			r, ok := v.(*model.HPPResult)
			if !ok {
				return typeError(PathCalculationCurrent, "*model.HPPResult", v)
			}
			s.Calculation.Current = r
			return nil
		},
		equal: func(a, b any) bool {
			return resultsEqual(asResult(a), asResult(b))
		},
	},
	PathCalculationLastError: stringAccessor(PathCalculationLastError, func(s *State) *string { return &s.Calculation.LastError }),

	PathHistoryCalculations: {
		get: func(s *State) any { return s.History.Calculations },
		set: func(s *State, v any) error {
			if v == nil {
				s.History.Calculations = nil
				return nil
			}
			recs, ok := v.([]model.CalculationRecord)
			if !ok {
				return typeError(PathHistoryCalculations, "[]model.CalculationRecord", v)
			}
			s.History.Calculations = recs
			return nil
		},
		equal: func(a, b any) bool {
			return recordsEqual(asRecords(a), asRecords(b))
		},
	},
	PathHistoryCap: {
		get: func(s *State) any { return s.History.Cap },
		set: func(s *State, v any) error {
			n, ok := v.(int)
			if !ok {
				return typeError(PathHistoryCap, "int", v)
			}
			s.History.Cap = n
			return nil
		},
		equal: func(a, b any) bool { return a == b },
	},

	PathSettings: {
		get: func(s *State) any { return s.Settings },
		set: func(s *State, v any) error {
			prefs, ok := v.(model.Preferences)
			if !ok {
				return typeError(PathSettings, "model.Preferences", v)
			}
			s.Settings = prefs
			return nil
		},
		equal: func(a, b any) bool { return a == b }, // Preferences is comparable
	},

	PathAppInitialized: boolAccessor(PathAppInitialized, func(s *State) *bool { return &s.App.Initialized }),
}

func asResult(v any) *model.HPPResult {
	if v == nil {
		return nil
	}
	r, _ := v.(*model.HPPResult)
	return r
}

func asRecords(v any) []model.CalculationRecord {
	if v == nil {
		return nil
	}
	recs, _ := v.([]model.CalculationRecord)
	return recs
}

// resultsEqual compares results field by field; timestamps compare by
// instant.
func resultsEqual(a, b *model.HPPResult) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !a.TotalCosts.Equal(b.TotalCosts) ||
		!a.TotalHPP.Equal(b.TotalHPP) ||
		!a.HPPPerUnit.Equal(b.HPPPerUnit) ||
		a.TotalUnits != b.TotalUnits ||
		a.Valid != b.Valid ||
		!a.Timestamp.Equal(b.Timestamp) {
		return false
	}
	if len(a.Breakdown) != len(b.Breakdown) {
		return false
	}
	for i := range a.Breakdown {
		ae, be := a.Breakdown[i], b.Breakdown[i]
		if ae.Field != be.Field || !ae.Amount.Equal(be.Amount) || !ae.Percentage.Equal(be.Percentage) {
			return false
		}
	}
	return true
}

func recordsEqual(a, b []model.CalculationRecord) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || !a[i].Timestamp.Equal(b[i].Timestamp) {
			return false
		}
	}
	return true
}
