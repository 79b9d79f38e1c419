package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS bills (
					id TEXT PRIMARY KEY,
					title TEXT NOT NULL,
					description TEXT,
					notes TEXT,
					amount TEXT NOT NULL,
					category_id TEXT NOT NULL,
					category_name TEXT,
					due_date DATETIME NOT NULL,
					next_due_date DATETIME NOT NULL,
					frequency TEXT NOT NULL,
					is_recurring INTEGER NOT NULL DEFAULT 0,
					reminder_days INTEGER NOT NULL DEFAULT 0,
					reminders_per_day INTEGER NOT NULL DEFAULT 1,
					status TEXT NOT NULL,
					last_paid_date DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_bills_next_due_date ON bills(next_due_date)`,
				`CREATE INDEX idx_bills_category ON bills(category_id)`,

				`CREATE TABLE IF NOT EXISTS bill_categories (
					id TEXT PRIMARY KEY,
					name TEXT UNIQUE NOT NULL,
					icon TEXT,
					color TEXT,
					description TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS bill_payments (
					id TEXT PRIMARY KEY,
					bill_id TEXT NOT NULL,
					wallet_id TEXT NOT NULL,
					amount TEXT NOT NULL,
					paid_date DATETIME NOT NULL,
					notes TEXT,
					is_late INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY (bill_id) REFERENCES bills(id)
				)`,
				`CREATE INDEX idx_bill_payments_bill_id ON bill_payments(bill_id)`,
				`CREATE INDEX idx_bill_payments_paid_date ON bill_payments(paid_date)`,

				`CREATE TABLE IF NOT EXISTS bill_notifications (
					id TEXT PRIMARY KEY,
					bill_id TEXT NOT NULL,
					title TEXT NOT NULL,
					message TEXT,
					due_date DATETIME,
					type TEXT NOT NULL DEFAULT 'reminder',
					is_read INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (bill_id) REFERENCES bills(id)
				)`,
				`CREATE INDEX idx_bill_notifications_bill_id ON bill_notifications(bill_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Index payments by paid month for analytics",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_bill_payments_wallet_id ON bill_payments(wallet_id)`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
