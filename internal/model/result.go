package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BreakdownEntry describes one cost category's contribution to the total.
type BreakdownEntry struct {
	Field      CostField       `json:"field"`
	Label      string          `json:"label"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// HPPResult is the immutable outcome of one cost calculation. Results are
// superseded by later calculations, never updated in place.
type HPPResult struct {
	Timestamp  time.Time        `json:"timestamp"`
	Breakdown  []BreakdownEntry `json:"breakdown"`
	TotalCosts decimal.Decimal  `json:"total_costs"`
	TotalHPP   decimal.Decimal  `json:"total_hpp"`
	HPPPerUnit decimal.Decimal  `json:"hpp_per_unit"`
	TotalUnits int64            `json:"total_units"`
	Valid      bool             `json:"valid"`
}

// BreakdownFor returns the breakdown entry for a cost category.
func (r *HPPResult) BreakdownFor(f CostField) (BreakdownEntry, bool) {
	for _, e := range r.Breakdown {
		if e.Field == f {
			return e, true
		}
	}
	return BreakdownEntry{}, false
}

// Clone returns a deep copy of the result. The breakdown slice is the only
// mutable part; decimals are value types.
func (r *HPPResult) Clone() *HPPResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Breakdown = make([]BreakdownEntry, len(r.Breakdown))
	copy(out.Breakdown, r.Breakdown)
	return &out
}
