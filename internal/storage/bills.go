package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/pay-the-piper/internal/common"
	"github.com/Veraticus/pay-the-piper/internal/model"
	"github.com/Veraticus/pay-the-piper/internal/schedule"
	"github.com/shopspring/decimal"
)

const billColumns = `id, title, description, notes, amount, category_id, category_name,
	due_date, next_due_date, frequency, is_recurring, reminder_days,
	reminders_per_day, status, last_paid_date, created_at`

// CreateBill persists a new bill. Missing derived fields are filled in:
// id, createdAt, nextDueDate (defaults to the anchor due date), the reminder
// cadence (display-only, floor of one), and the initial computed status.
func (s *SQLiteStorage) CreateBill(ctx context.Context, bill *model.Bill) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	// Zero means unset, not "no reminders".
	if bill.RemindersPerDay == 0 {
		bill.RemindersPerDay = 1
	}
	if err := validateBill(bill); err != nil {
		return err
	}

	now := time.Now()
	if bill.ID == "" {
		bill.ID = model.NewID()
	}
	if bill.CreatedAt.IsZero() {
		bill.CreatedAt = now
	}
	if bill.NextDueDate.IsZero() {
		bill.NextDueDate = bill.DueDate
	}
	bill.Status = schedule.ComputeStatus(*bill, now)

	query := `
		INSERT INTO bills (` + billColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		bill.ID, bill.Title, bill.Description, bill.Notes, bill.Amount.String(),
		bill.CategoryID, bill.CategoryName, bill.DueDate, bill.NextDueDate,
		string(bill.Frequency), bill.IsRecurring, bill.ReminderDays,
		bill.RemindersPerDay, string(bill.Status), nullableTime(bill.LastPaidDate),
		bill.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: failed to create bill: %v", common.ErrStorage, err)
	}

	s.invalidateBillCache()
	slog.Info("created bill", "id", bill.ID, "title", bill.Title, "next_due", bill.NextDueDate)
	return nil
}

// GetBill returns a single bill by id. The stored status is returned as-is;
// bulk reads are where recomputation happens.
func (s *SQLiteStorage) GetBill(ctx context.Context, id string) (*model.Bill, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	query := `SELECT ` + billColumns + ` FROM bills WHERE id = ?`
	bill, err := scanBill(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: bill %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query bill: %v", common.ErrStorage, err)
	}
	return bill, nil
}

// GetBills returns every bill with its status freshly recomputed from the
// clock. The recomputed status is not written back; the stored value only
// changes on explicit writes.
func (s *SQLiteStorage) GetBills(ctx context.Context) ([]model.Bill, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	bills, ok := s.cachedBills()
	if !ok {
		query := `SELECT ` + billColumns + ` FROM bills ORDER BY next_due_date, created_at`
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to query bills: %v", common.ErrStorage, err)
		}
		defer rows.Close()

		for rows.Next() {
			bill, scanErr := scanBill(rows)
			if scanErr != nil {
				return nil, fmt.Errorf("%w: failed to scan bill: %v", common.ErrStorage, scanErr)
			}
			bills = append(bills, *bill)
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("%w: error iterating bills: %v", common.ErrStorage, err)
		}

		s.storeBillCache(bills)
	}

	now := time.Now()
	for i := range bills {
		bills[i].Status = schedule.ComputeStatus(bills[i], now)
	}

	slog.Debug("retrieved bills", "count", len(bills), "cached", ok)
	return bills, nil
}

// UpdateBill rewrites the mutable fields of an existing bill. The anchor due
// date and creation timestamp never change after creation.
func (s *SQLiteStorage) UpdateBill(ctx context.Context, bill *model.Bill) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateBill(bill); err != nil {
		return err
	}
	if err := validateString(bill.ID, "bill.ID"); err != nil {
		return err
	}

	query := `
		UPDATE bills
		SET title = ?, description = ?, notes = ?, amount = ?, category_id = ?,
			category_name = ?, next_due_date = ?, frequency = ?, is_recurring = ?,
			reminder_days = ?, reminders_per_day = ?, status = ?, last_paid_date = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		bill.Title, bill.Description, bill.Notes, bill.Amount.String(),
		bill.CategoryID, bill.CategoryName, bill.NextDueDate,
		string(bill.Frequency), bill.IsRecurring, bill.ReminderDays,
		bill.RemindersPerDay, string(bill.Status), nullableTime(bill.LastPaidDate),
		bill.ID)
	if err != nil {
		return fmt.Errorf("%w: failed to update bill: %v", common.ErrStorage, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to check update result: %v", common.ErrStorage, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: bill %s", common.ErrNotFound, bill.ID)
	}

	s.invalidateBillCache()
	return nil
}

// DeleteBill removes a bill and cascades deletion of its payments and
// notifications in a single database transaction.
func (s *SQLiteStorage) DeleteBill(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", common.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete bill: %v", common.ErrStorage, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to check delete result: %v", common.ErrStorage, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: bill %s", common.ErrNotFound, id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM bill_payments WHERE bill_id = ?`, id); err != nil {
		return fmt.Errorf("%w: failed to delete payments: %v", common.ErrStorage, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM bill_notifications WHERE bill_id = ?`, id); err != nil {
		return fmt.Errorf("%w: failed to delete notifications: %v", common.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit delete: %v", common.ErrStorage, err)
	}

	s.invalidateBillCache()
	slog.Info("deleted bill with payment and notification history", "id", id)
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBill(row rowScanner) (*model.Bill, error) {
	var (
		bill      model.Bill
		amount    string
		frequency string
		status    string
		lastPaid  sql.NullTime
	)

	err := row.Scan(&bill.ID, &bill.Title, &bill.Description, &bill.Notes,
		&amount, &bill.CategoryID, &bill.CategoryName, &bill.DueDate,
		&bill.NextDueDate, &frequency, &bill.IsRecurring, &bill.ReminderDays,
		&bill.RemindersPerDay, &status, &lastPaid, &bill.CreatedAt)
	if err != nil {
		return nil, err
	}

	bill.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}
	bill.Frequency = model.Frequency(frequency)
	bill.Status = model.BillStatus(status)
	if lastPaid.Valid {
		t := lastPaid.Time
		bill.LastPaidDate = &t
	}
	return &bill, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
