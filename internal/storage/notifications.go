package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/pay-the-piper/internal/common"
	"github.com/Veraticus/pay-the-piper/internal/model"
)

// CreateNotification persists a reminder record for a bill.
func (s *SQLiteStorage) CreateNotification(ctx context.Context, notification *model.BillNotification) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateNotification(notification); err != nil {
		return err
	}

	if notification.ID == "" {
		notification.ID = model.NewID()
	}
	if notification.Type == "" {
		notification.Type = model.NotificationTypeReminder
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO bill_notifications (id, bill_id, title, message, due_date, type, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query,
		notification.ID, notification.BillID, notification.Title,
		notification.Message, notification.DueDate, notification.Type,
		notification.IsRead, notification.CreatedAt); err != nil {
		return fmt.Errorf("%w: failed to create notification: %v", common.ErrStorage, err)
	}
	return nil
}

// GetNotificationsForBill returns a bill's reminder records, newest first.
func (s *SQLiteStorage) GetNotificationsForBill(ctx context.Context, billID string) ([]model.BillNotification, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(billID, "billID"); err != nil {
		return nil, err
	}

	query := `
		SELECT id, bill_id, title, message, due_date, type, is_read, created_at
		FROM bill_notifications
		WHERE bill_id = ?
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, billID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query notifications: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var notifications []model.BillNotification
	for rows.Next() {
		var n model.BillNotification
		if err := rows.Scan(&n.ID, &n.BillID, &n.Title, &n.Message, &n.DueDate, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan notification: %v", common.ErrStorage, err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating notifications: %v", common.ErrStorage, err)
	}
	return notifications, nil
}

// MarkNotificationRead flags a notification as read.
func (s *SQLiteStorage) MarkNotificationRead(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `UPDATE bill_notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: failed to mark notification read: %v", common.ErrStorage, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to check update result: %v", common.ErrStorage, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: notification %s", common.ErrNotFound, id)
	}
	return nil
}
