// Package service defines the interfaces between the core and its
// collaborators.
package service

import (
	"context"
	"time"

	"github.com/adiprasetya/hppcalc/internal/model"
)

// Store is the persistence contract consumed by the state container. It
// covers two logical namespaces: calculation records (a capped, newest-first
// list) and preferences. A failing store is a recoverable condition; the
// caller degrades to memory-only operation.
type Store interface {
	// Calculation record operations.
	SaveCalculation(ctx context.Context, record *model.CalculationRecord) error
	GetCalculations(ctx context.Context, limit int) ([]model.CalculationRecord, error)
	GetCalculationByID(ctx context.Context, id string) (*model.CalculationRecord, error)
	DeleteCalculation(ctx context.Context, id string) error
	ClearCalculations(ctx context.Context) error
	CountCalculations(ctx context.Context) (int, error)

	// Preference operations.
	GetPreferences(ctx context.Context) (*model.Preferences, error)
	SavePreferences(ctx context.Context, prefs *model.Preferences) error

	// Store management.
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for persistence operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
