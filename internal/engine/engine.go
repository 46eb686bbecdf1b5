// Package engine implements the cost-of-goods-sold calculation engine: pure
// computation of cost breakdowns over validated inputs, with a result cache
// and a rolling calculation history.
package engine

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adiprasetya/hppcalc/internal/model"
	"github.com/adiprasetya/hppcalc/internal/validate"
)

// Config holds the engine's tunable behavior.
type Config struct {
	DecimalPlaces int32
	PercentPlaces int32
	HistoryLimit  int
	CacheEnabled  bool
}

// DefaultConfig returns the engine configuration used by the application.
func DefaultConfig() Config {
	return Config{
		DecimalPlaces: 2,
		PercentPlaces: 1,
		HistoryLimit:  100,
		CacheEnabled:  true,
	}
}

// RejectionError is returned when validation refuses an input. The full
// ValidationResult travels with it; no partial or zeroed result is produced.
type RejectionError struct {
	Result model.ValidationResult
}

func (e *RejectionError) Error() string {
	if len(e.Result.Errors) == 1 {
		return fmt.Sprintf("calculation rejected: %s", e.Result.Errors[0].Message)
	}
	msgs := make([]string, 0, len(e.Result.Errors))
	for _, fe := range e.Result.Errors {
		msgs = append(msgs, fe.Message)
	}
	return fmt.Sprintf("calculation rejected: %s", strings.Join(msgs, "; "))
}

// HistoryEntry records one successful calculation in the engine's rolling
// history, independent of the state container's persisted history.
type HistoryEntry struct {
	At       time.Time
	Result   *model.HPPResult
	Input    model.CostInput
	CacheHit bool
}

// Engine computes HPP results. It is safe for concurrent use; the cache and
// history are guarded by a single mutex.
type Engine struct {
	validator *validate.Validator
	cache     map[string]*model.HPPResult
	now       func() time.Time
	history   []HistoryEntry
	cfg       Config
	mu        sync.Mutex
}

// New creates an engine backed by the given validator.
func New(v *validate.Validator, cfg Config) *Engine {
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = DefaultConfig().HistoryLimit
	}
	return &Engine{
		validator: v,
		cfg:       cfg,
		cache:     make(map[string]*model.HPPResult),
		now:       time.Now,
	}
}

// Calculate validates and computes the cost breakdown for one input. On
// validation failure it returns a *RejectionError carrying the errors and no
// result. Identical normalized inputs hit the cache and return the same
// immutable result snapshot.
func (e *Engine) Calculate(input model.CostInput) (*model.HPPResult, error) {
	norm := e.normalize(input)

	vr := e.validator.ValidateHPPData(valuesOf(norm))
	if !vr.Valid() {
		return nil, &RejectionError{Result: vr}
	}

	key := cacheKey(norm)

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cfg.CacheEnabled {
		if cached, ok := e.cache[key]; ok {
			e.appendHistory(HistoryEntry{At: e.now(), Input: norm, Result: cached, CacheHit: true})
			return cached, nil
		}
	}

	result := e.compute(norm)
	if e.cfg.CacheEnabled {
		e.cache[key] = result
	}
	e.appendHistory(HistoryEntry{At: e.now(), Input: norm, Result: result})

	slog.Debug("calculation complete",
		"total_costs", result.TotalCosts,
		"hpp_per_unit", result.HPPPerUnit,
		"total_units", result.TotalUnits)

	return result, nil
}

// normalize rounds the cost fields to the configured precision using
// half-away-from-zero semantics and floors the unit count at zero.
func (e *Engine) normalize(input model.CostInput) model.CostInput {
	norm := model.CostInput{
		DirectMaterials:       input.DirectMaterials.Round(e.cfg.DecimalPlaces),
		DirectLabor:           input.DirectLabor.Round(e.cfg.DecimalPlaces),
		ManufacturingOverhead: input.ManufacturingOverhead.Round(e.cfg.DecimalPlaces),
		OtherCosts:            input.OtherCosts.Round(e.cfg.DecimalPlaces),
		TotalUnits:            input.TotalUnits,
	}
	if norm.TotalUnits < 0 {
		norm.TotalUnits = 0
	}
	return norm
}

// compute derives the result from an already-validated, normalized input.
// Percentage shares are rounded per category and deliberately not
// renormalized to sum to exactly 100.
func (e *Engine) compute(norm model.CostInput) *model.HPPResult {
	totalCosts := norm.TotalCost()

	perUnit := decimal.Zero
	if norm.TotalUnits > 0 {
		perUnit = totalCosts.DivRound(decimal.NewFromInt(norm.TotalUnits), e.cfg.DecimalPlaces)
	}

	breakdown := make([]model.BreakdownEntry, 0, len(model.CostCategories))
	for _, field := range model.CostCategories {
		amount := norm.Amount(field)
		pct := decimal.Zero
		if totalCosts.IsPositive() {
			pct = amount.Mul(decimal.New(100, 0)).DivRound(totalCosts, e.cfg.PercentPlaces)
		}
		breakdown = append(breakdown, model.BreakdownEntry{
			Field:      field,
			Label:      field.Label(),
			Amount:     amount,
			Percentage: pct,
		})
	}

	return &model.HPPResult{
		TotalCosts: totalCosts,
		TotalHPP:   totalCosts, // aggregate production cost, by identity
		HPPPerUnit: perUnit,
		TotalUnits: norm.TotalUnits,
		Breakdown:  breakdown,
		Valid:      true,
		Timestamp:  e.now(),
	}
}

// appendHistory records an entry, evicting the oldest past the limit.
// Callers must hold e.mu.
func (e *Engine) appendHistory(entry HistoryEntry) {
	e.history = append(e.history, entry)
	if len(e.history) > e.cfg.HistoryLimit {
		e.history = e.history[len(e.history)-e.cfg.HistoryLimit:]
	}
}

// History returns a copy of the rolling history, oldest first.
func (e *Engine) History() []HistoryEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]HistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

// ClearHistory discards the rolling history.
func (e *Engine) ClearHistory() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.history = nil
}

// ClearCache discards all cached results. The cache has no other eviction;
// unbounded growth within one session is an accepted limitation.
func (e *Engine) ClearCache() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache = make(map[string]*model.HPPResult)
}

// CacheSize returns the number of cached results.
func (e *Engine) CacheSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cache)
}

// cacheKey identifies a normalized input by its five fields. Inputs
// differing only in formatting have already collapsed by this point.
func cacheKey(norm model.CostInput) string {
	return fmt.Sprintf("%s|%s|%s|%s|%d",
		norm.DirectMaterials, norm.DirectLabor, norm.ManufacturingOverhead,
		norm.OtherCosts, norm.TotalUnits)
}

// valuesOf adapts a normalized input into the validator's raw-value map.
func valuesOf(norm model.CostInput) map[model.CostField]any {
	return map[model.CostField]any{
		model.FieldDirectMaterials:       norm.DirectMaterials,
		model.FieldDirectLabor:           norm.DirectLabor,
		model.FieldManufacturingOverhead: norm.ManufacturingOverhead,
		model.FieldOtherCosts:            norm.OtherCosts,
		model.FieldTotalUnits:            norm.TotalUnits,
	}
}
