package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Veraticus/pay-the-piper/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// billCacheTTL bounds how stale a cached bulk bill read may be. Every write
// invalidates the cache synchronously, so the TTL only covers external
// writers to the same database file.
const billCacheTTL = 30 * time.Second

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	cacheExpiry time.Time
	db          *sql.DB
	billCache   []model.Bill
	dbPath      string
	cacheMutex  sync.RWMutex
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
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
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// invalidateBillCache drops the cached bulk read. Called synchronously from
// every bill create/update/delete.
func (s *SQLiteStorage) invalidateBillCache() {
	s.cacheMutex.Lock()
	s.billCache = nil
	s.cacheExpiry = time.Time{}
	s.cacheMutex.Unlock()
}

// cachedBills returns the cached bill rows if they are still fresh.
func (s *SQLiteStorage) cachedBills() ([]model.Bill, bool) {
	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()
	if s.billCache == nil || time.Now().After(s.cacheExpiry) {
		return nil, false
	}
	bills := make([]model.Bill, len(s.billCache))
	copy(bills, s.billCache)
	return bills, true
}

// storeBillCache replaces the cached bulk read.
func (s *SQLiteStorage) storeBillCache(bills []model.Bill) {
	cached := make([]model.Bill, len(bills))
	copy(cached, bills)
	s.cacheMutex.Lock()
	s.billCache = cached
	s.cacheExpiry = time.Now().Add(billCacheTTL)
	s.cacheMutex.Unlock()
}
