package validate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/adiprasetya/hppcalc/internal/model"
)

// Config holds the tunable validation limits.
type Config struct {
	MinAmount            decimal.Decimal
	MaxAmount            decimal.Decimal
	PerUnitWarnThreshold decimal.Decimal
	MinUnits             int64
	MaxUnits             int64
	DecimalPlaces        int32
}

// DefaultConfig returns the limits used by the application.
func DefaultConfig() Config {
	return Config{
		MinAmount:            decimal.Zero,
		MaxAmount:            decimal.New(1, 12), // 1e12
		PerUnitWarnThreshold: decimal.New(1, 7),  // 1e7
		MinUnits:             1,
		MaxUnits:             1_000_000_000,
		DecimalPlaces:        2,
	}
}

// rule checks one raw value and reports outcomes into the result. A rule
// that hits a structural failure (not a number) skips its own remaining
// checks but never suppresses other rules in the field's list.
type rule interface {
	check(field model.CostField, raw any, result *model.ValidationResult)
}

// Validator applies per-field rule lists and the cross-field business rules.
type Validator struct {
	rules map[model.CostField][]rule
	cfg   Config
}

// New creates a validator with the declared field rules.
func New(cfg Config) *Validator {
	amount := amountRule{cfg: cfg}
	v := &Validator{
		cfg: cfg,
		rules: map[model.CostField][]rule{
			model.FieldDirectMaterials:       {requiredRule{}, amount},
			model.FieldDirectLabor:           {requiredRule{}, amount},
			model.FieldManufacturingOverhead: {requiredRule{}, amount},
			model.FieldOtherCosts:            {optionalRule{inner: amount}},
			model.FieldTotalUnits:            {requiredRule{}, unitsRule{cfg: cfg}},
		},
	}
	return v
}

// ValidateField runs the rule list for a single field against a raw value.
func (v *Validator) ValidateField(field model.CostField, raw any) model.ValidationResult {
	var result model.ValidationResult
	rules, ok := v.rules[field]
	if !ok {
		result.AddError(field, model.CodeInvalidNumber, fmt.Sprintf("unknown field %q", field))
		return result
	}
	for _, r := range rules {
		r.check(field, raw, &result)
	}
	return result
}

// ValidateAll validates every declared field independently and merges the
// outcomes. Missing map entries are treated as absent values.
func (v *Validator) ValidateAll(values map[model.CostField]any) model.ValidationResult {
	var result model.ValidationResult
	for _, field := range []model.CostField{
		model.FieldDirectMaterials,
		model.FieldDirectLabor,
		model.FieldManufacturingOverhead,
		model.FieldOtherCosts,
		model.FieldTotalUnits,
	} {
		result.Merge(v.ValidateField(field, values[field]))
	}
	return result
}

// ValidateHPPData runs ValidateAll and then the cross-field business rules:
// the four costs must sum above zero, a positive total requires a positive
// unit count, and an implausibly high per-unit cost produces a warning.
func (v *Validator) ValidateHPPData(values map[model.CostField]any) model.ValidationResult {
	result := v.ValidateAll(values)

	total := decimal.Zero
	parsedAll := true
	for _, field := range model.CostCategories {
		raw, ok := values[field]
		if !ok || isEmpty(raw) {
			continue // other costs may be absent; required rule covers the rest
		}
		d, err := ParseAmount(raw)
		if err != nil {
			parsedAll = false
			continue
		}
		total = total.Add(d)
	}

	if parsedAll && result.Valid() && !total.IsPositive() {
		result.AddError(model.FieldGeneral, model.CodeZeroTotal, "total cost cannot be zero")
		return result
	}

	units, err := ParseUnits(values[model.FieldTotalUnits])
	if err != nil {
		return result
	}
	if total.IsPositive() && units <= 0 {
		if _, flagged := result.FirstError(model.FieldTotalUnits); !flagged {
			result.AddError(model.FieldTotalUnits, model.CodeBelowMinimum,
				fmt.Sprintf("total units must be at least %d when costs are entered", v.cfg.MinUnits))
		}
	}
	if units > 0 && total.IsPositive() {
		perUnit := total.DivRound(decimal.NewFromInt(units), v.cfg.DecimalPlaces)
		if perUnit.GreaterThan(v.cfg.PerUnitWarnThreshold) {
			result.AddWarning(model.FieldGeneral, model.CodeHighPerUnit,
				fmt.Sprintf("cost per unit of %s is unusually high; check the entered values", perUnit))
		}
	}
	return result
}

// requiredRule fails when the value is absent or an empty string.
type requiredRule struct{}

func (requiredRule) check(field model.CostField, raw any, result *model.ValidationResult) {
	if isEmpty(raw) {
		result.AddError(field, model.CodeRequired, fmt.Sprintf("%s is required", field.Label()))
	}
}

// optionalRule skips its inner rule entirely when the value is absent.
type optionalRule struct {
	inner rule
}

func (r optionalRule) check(field model.CostField, raw any, result *model.ValidationResult) {
	if isEmpty(raw) {
		return
	}
	r.inner.check(field, raw, result)
}

// amountRule validates a currency-style amount against the configured range
// and precision.
type amountRule struct {
	cfg Config
}

func (r amountRule) check(field model.CostField, raw any, result *model.ValidationResult) {
	if isEmpty(raw) {
		return // requiredRule owns the absent case
	}
	d, err := ParseAmount(raw)
	if err != nil {
		result.AddError(field, model.CodeInvalidNumber, fmt.Sprintf("%s must be a number", field.Label()))
		return // structural failure: skip the range checks
	}
	if d.LessThan(r.cfg.MinAmount) {
		result.AddError(field, model.CodeBelowMinimum,
			fmt.Sprintf("%s cannot be less than %s", field.Label(), r.cfg.MinAmount))
	}
	if d.GreaterThan(r.cfg.MaxAmount) {
		result.AddError(field, model.CodeAboveMaximum,
			fmt.Sprintf("%s cannot exceed %s", field.Label(), r.cfg.MaxAmount))
	}
	if !d.Round(r.cfg.DecimalPlaces).Equal(d) {
		result.AddWarning(field, model.CodePrecision,
			fmt.Sprintf("%s will be rounded to %d decimal places", field.Label(), r.cfg.DecimalPlaces))
	}
}

// unitsRule validates the unit count as a bounded positive integer.
type unitsRule struct {
	cfg Config
}

func (r unitsRule) check(field model.CostField, raw any, result *model.ValidationResult) {
	if isEmpty(raw) {
		return
	}
	n, err := ParseUnits(raw)
	switch {
	case err == nil:
	case isNonIntegerErr(err):
		result.AddError(field, model.CodeNonInteger, fmt.Sprintf("%s must be a whole number", field.Label()))
		return
	default:
		result.AddError(field, model.CodeInvalidNumber, fmt.Sprintf("%s must be a number", field.Label()))
		return
	}
	if n < r.cfg.MinUnits {
		result.AddError(field, model.CodeBelowMinimum,
			fmt.Sprintf("%s must be at least %d", field.Label(), r.cfg.MinUnits))
	}
	if n > r.cfg.MaxUnits {
		result.AddError(field, model.CodeAboveMaximum,
			fmt.Sprintf("%s cannot exceed %d", field.Label(), r.cfg.MaxUnits))
	}
}
