package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adiprasetya/hppcalc/internal/common"
	"github.com/adiprasetya/hppcalc/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")

	// ErrNotFound aliases the shared sentinel so callers can match either.
	ErrNotFound = common.ErrNotFound
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecord validates a calculation record before persisting it.
func validateRecord(record *model.CalculationRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	return record.Validate()
}

// validatePreferences validates a preferences payload.
func validatePreferences(prefs *model.Preferences) error {
	if prefs == nil {
		return fmt.Errorf("%w: preferences", ErrNilParameter)
	}
	return nil
}
