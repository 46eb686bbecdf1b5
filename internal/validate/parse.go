// Package validate implements the field and cross-field validation rules
// that gate the calculation engine.
package validate

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse errors. These are internal signals consumed by the rules; expected
// bad input is always reported back as a ValidationResult, never returned
// to callers of the Validator.
var (
	ErrEmptyValue  = errors.New("empty value")
	ErrNotANumber  = errors.New("not a number")
	ErrNotAnInt    = errors.New("not an integer")
	ErrUnsupported = errors.New("unsupported value type")
)

// currencyMarkers are stripped from textual amounts before parsing.
var currencyMarkers = []string{"Rp", "rp", "RP", "IDR", "idr", "$"}

// ParseAmount converts a raw field value into a decimal amount. Textual
// values are parsed leniently: a currency marker and surrounding spaces are
// stripped, thousands separators removed, and a decimal comma converted to a
// decimal point. Both "Rp 1.000.000,50" and "1,000,000.50" parse to the same
// amount.
func ParseAmount(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero, ErrEmptyValue
	case decimal.Decimal:
		return v, nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, ErrNotANumber
		}
		return decimal.NewFromFloat(v), nil
	case string:
		return parseAmountText(v)
	default:
		return decimal.Zero, fmt.Errorf("%w: %T", ErrUnsupported, raw)
	}
}

func parseAmountText(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, ErrEmptyValue
	}
	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, ErrEmptyValue
	}

	s = normalizeSeparators(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotANumber, raw)
	}
	return d, nil
}

// normalizeSeparators reduces mixed thousands/decimal separators to a plain
// dot-decimal form. When both separators appear, the rightmost one is the
// decimal separator. A lone comma with at most two trailing digits is a
// decimal comma; repeated dots are thousands separators (Rupiah grouping).
// A single dot always keeps its meaning as a decimal point, so "100.125"
// stays 100.125 rather than collapsing to 100125.
func normalizeSeparators(s string) string {
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			// 1.234.567,89
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// 1,234,567.89
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}

// ParseUnits converts a raw field value into an integer unit count.
// Fractional values are rejected with ErrNotAnInt rather than truncated.
func ParseUnits(raw any) (int64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, ErrEmptyValue
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, ErrNotANumber
		}
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %v", ErrNotAnInt, v)
		}
		return int64(v), nil
	case decimal.Decimal:
		if !v.IsInteger() {
			return 0, fmt.Errorf("%w: %s", ErrNotAnInt, v)
		}
		return v.IntPart(), nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, ErrEmptyValue
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, nil
		}
		d, err := parseAmountText(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrNotANumber, raw)
		}
		if !d.IsInteger() {
			return 0, fmt.Errorf("%w: %q", ErrNotAnInt, raw)
		}
		return d.IntPart(), nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupported, raw)
	}
}

// isNonIntegerErr distinguishes a fractional value from other parse failures.
func isNonIntegerErr(err error) bool {
	return errors.Is(err, ErrNotAnInt)
}

// IsEmpty reports whether a raw value counts as "not provided": nil or a
// blank string. Optional fields default when IsEmpty holds.
func IsEmpty(raw any) bool {
	return isEmpty(raw)
}

// isEmpty reports whether a raw value counts as "not provided" for the
// required rule.
func isEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}
