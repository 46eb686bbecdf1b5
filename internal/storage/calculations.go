package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adiprasetya/hppcalc/internal/model"
)

// SaveCalculation inserts a record and trims the history to the configured
// cap, evicting the oldest entries.
func (s *SQLiteStore) SaveCalculation(ctx context.Context, record *model.CalculationRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}

	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO calculations
			(id, name, timestamp, direct_materials, direct_labor,
			 manufacturing_overhead, other_costs, total_units, result_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Name,
		record.Timestamp.UTC(),
		record.Input.DirectMaterials.String(),
		record.Input.DirectLabor.String(),
		record.Input.ManufacturingOverhead.String(),
		record.Input.OtherCosts.String(),
		record.Input.TotalUnits,
		string(resultJSON),
	); err != nil {
		return fmt.Errorf("failed to save calculation: %w", err)
	}

	// Evict beyond the cap, oldest first.
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM calculations WHERE id NOT IN (
			SELECT id FROM calculations ORDER BY timestamp DESC, created_at DESC LIMIT ?
		)`, s.historyCap); err != nil {
		return fmt.Errorf("failed to trim calculation history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit calculation: %w", err)
	}
	return nil
}

// GetCalculations returns records newest first. A limit below one means the
// configured cap.
func (s *SQLiteStore) GetCalculations(ctx context.Context, limit int) ([]model.CalculationRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = s.historyCap
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, timestamp, direct_materials, direct_labor,
		       manufacturing_overhead, other_costs, total_units, result_json
		FROM calculations
		ORDER BY timestamp DESC, created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query calculations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.CalculationRecord
	for rows.Next() {
		record, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calculations: %w", err)
	}
	return records, nil
}

// GetCalculationByID returns a single record or ErrNotFound.
func (s *SQLiteStore) GetCalculationByID(ctx context.Context, id string) (*model.CalculationRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, timestamp, direct_materials, direct_labor,
		       manufacturing_overhead, other_costs, total_units, result_json
		FROM calculations WHERE id = ?`, id)

	record, err := scanCalculation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: calculation %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteCalculation removes a single record.
func (s *SQLiteStore) DeleteCalculation(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM calculations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete calculation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: calculation %s", ErrNotFound, id)
	}
	return nil
}

// ClearCalculations removes all records.
func (s *SQLiteStore) ClearCalculations(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM calculations`); err != nil {
		return fmt.Errorf("failed to clear calculations: %w", err)
	}
	return nil
}

// CountCalculations returns the number of stored records.
func (s *SQLiteStore) CountCalculations(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM calculations`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count calculations: %w", err)
	}
	return count, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCalculation(row scanner) (*model.CalculationRecord, error) {
	var (
		record                               model.CalculationRecord
		name                                 sql.NullString
		timestamp                            time.Time
		materials, labor, overhead, other    string
		resultJSON                           string
	)
	if err := row.Scan(&record.ID, &name, &timestamp, &materials, &labor,
		&overhead, &other, &record.Input.TotalUnits, &resultJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan calculation: %w", err)
	}

	record.Name = name.String
	record.Timestamp = timestamp

	var err error
	if record.Input.DirectMaterials, err = decimal.NewFromString(materials); err != nil {
		return nil, fmt.Errorf("corrupt direct_materials value %q: %w", materials, err)
	}
	if record.Input.DirectLabor, err = decimal.NewFromString(labor); err != nil {
		return nil, fmt.Errorf("corrupt direct_labor value %q: %w", labor, err)
	}
	if record.Input.ManufacturingOverhead, err = decimal.NewFromString(overhead); err != nil {
		return nil, fmt.Errorf("corrupt manufacturing_overhead value %q: %w", overhead, err)
	}
	if record.Input.OtherCosts, err = decimal.NewFromString(other); err != nil {
		return nil, fmt.Errorf("corrupt other_costs value %q: %w", other, err)
	}

	var result model.HPPResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("corrupt result payload: %w", err)
	}
	record.Result = &result

	return &record, nil
}
