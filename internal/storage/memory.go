package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/adiprasetya/hppcalc/internal/model"
)

// MemoryStore is an in-memory service.Store used when the backing store is
// unavailable ("operate memory-only, skip persistence") and as a test
// double. It honors the same record cap as the SQLite store.
type MemoryStore struct {
	prefs      *model.Preferences
	records    []model.CalculationRecord // newest first
	historyCap int
	mu         sync.RWMutex
}

// NewMemoryStore creates an in-memory store with the given history cap.
func NewMemoryStore(historyCap int) *MemoryStore {
	if historyCap < 1 {
		historyCap = DefaultHistoryCap
	}
	return &MemoryStore{historyCap: historyCap}
}

// SaveCalculation stores a record, newest first, trimming past the cap.
func (s *MemoryStore) SaveCalculation(ctx context.Context, record *model.CalculationRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Replace in place when the ID already exists.
	for i := range s.records {
		if s.records[i].ID == record.ID {
			s.records[i] = *record
			return nil
		}
	}

	s.records = append(s.records, *record)
	sort.SliceStable(s.records, func(i, j int) bool {
		return s.records[i].Timestamp.After(s.records[j].Timestamp)
	})
	if len(s.records) > s.historyCap {
		s.records = s.records[:s.historyCap]
	}
	return nil
}

// GetCalculations returns up to limit records, newest first.
func (s *MemoryStore) GetCalculations(ctx context.Context, limit int) ([]model.CalculationRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = s.historyCap
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.records)
	if n > limit {
		n = limit
	}
	out := make([]model.CalculationRecord, n)
	copy(out, s.records[:n])
	return out, nil
}

// GetCalculationByID returns a single record or ErrNotFound.
func (s *MemoryStore) GetCalculationByID(ctx context.Context, id string) (*model.CalculationRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.records {
		if s.records[i].ID == id {
			record := s.records[i]
			return &record, nil
		}
	}
	return nil, fmt.Errorf("%w: calculation %s", ErrNotFound, id)
}

// DeleteCalculation removes a single record.
func (s *MemoryStore) DeleteCalculation(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: calculation %s", ErrNotFound, id)
}

// ClearCalculations removes all records.
func (s *MemoryStore) ClearCalculations(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	return nil
}

// CountCalculations returns the number of stored records.
func (s *MemoryStore) CountCalculations(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// GetPreferences returns the stored preferences or ErrNotFound.
func (s *MemoryStore) GetPreferences(ctx context.Context) (*model.Preferences, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.prefs == nil {
		return nil, fmt.Errorf("%w: preferences", ErrNotFound)
	}
	prefs := *s.prefs
	return &prefs, nil
}

// SavePreferences stores the preferences document.
func (s *MemoryStore) SavePreferences(ctx context.Context, prefs *model.Preferences) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePreferences(prefs); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *prefs
	s.prefs = &copied
	return nil
}

// Migrate is a no-op for the in-memory store.
func (s *MemoryStore) Migrate(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
