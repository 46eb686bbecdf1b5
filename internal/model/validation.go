package model

// ValidationCode classifies a single validation outcome.
type ValidationCode string

// Validation outcome codes.
const (
	CodeRequired      ValidationCode = "required"
	CodeInvalidNumber ValidationCode = "invalid-number"
	CodeNonInteger    ValidationCode = "non-integer"
	CodeBelowMinimum  ValidationCode = "below-minimum"
	CodeAboveMaximum  ValidationCode = "above-maximum"
	CodeZeroTotal     ValidationCode = "zero-total"
	CodePrecision     ValidationCode = "precision"
	CodeHighPerUnit   ValidationCode = "high-per-unit"
)

// FieldMessage is a single validation error or warning tied to a field.
type FieldMessage struct {
	Field   CostField      `json:"field"`
	Code    ValidationCode `json:"code"`
	Message string         `json:"message"`
}

// ValidationResult carries the ordered errors and warnings produced by one
// validation call. It is constructed fresh per call and consumed immediately;
// an expected-invalid input is a described outcome here, never a panic.
type ValidationResult struct {
	Errors   []FieldMessage `json:"errors"`
	Warnings []FieldMessage `json:"warnings"`
}

// Valid reports whether validation passed (warnings do not block).
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// AddError appends a blocking validation error.
func (r *ValidationResult) AddError(field CostField, code ValidationCode, message string) {
	r.Errors = append(r.Errors, FieldMessage{Field: field, Code: code, Message: message})
}

// AddWarning appends a non-blocking validation warning.
func (r *ValidationResult) AddWarning(field CostField, code ValidationCode, message string) {
	r.Warnings = append(r.Warnings, FieldMessage{Field: field, Code: code, Message: message})
}

// Merge appends another result's errors and warnings, preserving order.
func (r *ValidationResult) Merge(other ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// FirstError returns the first error for the given field, if any.
func (r *ValidationResult) FirstError(field CostField) (FieldMessage, bool) {
	for _, e := range r.Errors {
		if e.Field == field {
			return e, true
		}
	}
	return FieldMessage{}, false
}

// HasError reports whether any error carries the given field and code.
func (r *ValidationResult) HasError(field CostField, code ValidationCode) bool {
	for _, e := range r.Errors {
		if e.Field == field && e.Code == code {
			return true
		}
	}
	return false
}
