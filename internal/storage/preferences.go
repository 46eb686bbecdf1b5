package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/adiprasetya/hppcalc/internal/model"
)

// preferencesKey is the row key for the single preferences document.
const preferencesKey = "preferences"

// GetPreferences returns the stored preferences, or ErrNotFound when none
// have been saved yet; the caller falls back to defaults.
func (s *SQLiteStore) GetPreferences(ctx context.Context) (*model.Preferences, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE key = ?`, preferencesKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: preferences", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	var prefs model.Preferences
	if err := json.Unmarshal([]byte(value), &prefs); err != nil {
		return nil, fmt.Errorf("corrupt preferences payload: %w", err)
	}
	return &prefs, nil
}

// SavePreferences stores the preferences document, replacing any previous
// version.
func (s *SQLiteStore) SavePreferences(ctx context.Context, prefs *model.Preferences) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePreferences(prefs); err != nil {
		return err
	}

	value, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		preferencesKey, string(value),
	); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}
