// Package storage provides the data persistence layer backing the state
// container's calculation history and preferences.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DefaultHistoryCap bounds the persisted calculation history when no cap is
// configured.
const DefaultHistoryCap = 50

// SQLiteStore implements the service.Store interface using SQLite.
type SQLiteStore struct {
	db         *sql.DB
	dbPath     string
	historyCap int
}

// NewSQLiteStore creates a new SQLite store instance. historyCap bounds the
// number of calculation records retained; values below one fall back to
// DefaultHistoryCap.
func NewSQLiteStore(dbPath string, historyCap int) (*SQLiteStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}
	if historyCap < 1 {
		historyCap = DefaultHistoryCap
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{
		db:         db,
		dbPath:     dbPath,
		historyCap: historyCap,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// HistoryCap returns the configured record cap.
func (s *SQLiteStore) HistoryCap() int {
	return s.historyCap
}
