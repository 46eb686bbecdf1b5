// Package state implements the observable application state container: a
// typed state tree addressed through a fixed set of path accessors, with
// subscriptions, a bounded change log, and persistence wiring.
package state

import (
	"time"

	"github.com/adiprasetya/hppcalc/internal/model"
)

// UIState holds presentation-facing flags.
type UIState struct {
	Theme      string `json:"theme"`
	Language   string `json:"language"`
	ActiveView string `json:"active_view"`
	Loading    bool   `json:"loading"`
}

// FormState holds the raw field values as entered, before validation.
type FormState struct {
	DirectMaterials       string `json:"direct_materials"`
	DirectLabor           string `json:"direct_labor"`
	ManufacturingOverhead string `json:"manufacturing_overhead"`
	OtherCosts            string `json:"other_costs"`
	TotalUnits            string `json:"total_units"`
}

// CalculationState holds the current result and the last calculation error.
type CalculationState struct {
	Current   *model.HPPResult `json:"current"`
	LastError string           `json:"last_error"`
}

// HistoryState holds the bounded calculation history, newest first.
type HistoryState struct {
	Calculations []model.CalculationRecord `json:"calculations"`
	Cap          int                       `json:"cap"`
}

// AppState holds process-lifetime metadata.
type AppState struct {
	SessionStart time.Time `json:"session_start"`
	Version      string    `json:"version"`
	Initialized  bool      `json:"initialized"`
}

// State is the single long-lived application state tree. It is owned
// exclusively by the Container; components read it through path lookups or
// snapshots and mutate it only through the container's update operations.
type State struct {
	UI          UIState           `json:"ui"`
	Form        FormState         `json:"form"`
	Calculation CalculationState  `json:"calculation"`
	History     HistoryState      `json:"history"`
	Settings    model.Preferences `json:"settings"`
	App         AppState          `json:"app"`
}

// DefaultHistoryCap bounds the in-tree calculation history by default.
const DefaultHistoryCap = 50

// defaultState builds the tree used before any stored data is merged in.
func defaultState(version string, now time.Time) State {
	prefs := model.DefaultPreferences()
	return State{
		UI: UIState{
			Theme:      prefs.Theme,
			Language:   prefs.Language,
			ActiveView: "calculator",
		},
		History: HistoryState{
			Cap: DefaultHistoryCap,
		},
		Settings: prefs,
		App: AppState{
			Version:      version,
			SessionStart: now,
		},
	}
}

// clone returns a deep-independent copy of the tree.
func (s State) clone() State {
	out := s
	out.Calculation.Current = s.Calculation.Current.Clone()
	out.History.Calculations = make([]model.CalculationRecord, len(s.History.Calculations))
	for i, rec := range s.History.Calculations {
		rec.Result = rec.Result.Clone()
		out.History.Calculations[i] = rec
	}
	return out
}
