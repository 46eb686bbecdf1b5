package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidRecord indicates a calculation record that cannot be persisted.
var ErrInvalidRecord = errors.New("invalid calculation record")

// CalculationRecord is a persisted snapshot of one successful calculation,
// as stored in the history namespace. Records are appended and evicted,
// never edited.
type CalculationRecord struct {
	Timestamp time.Time  `json:"timestamp"`
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Input     CostInput  `json:"input"`
	Result    *HPPResult `json:"result"`
}

// Validate checks the record is complete enough to store.
func (r *CalculationRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRecord)
	}
	if r.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidRecord)
	}
	if r.Result == nil {
		return fmt.Errorf("%w: missing result", ErrInvalidRecord)
	}
	return nil
}
