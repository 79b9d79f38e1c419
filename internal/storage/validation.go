// Package storage provides the data persistence layer for the bill engine.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/pay-the-piper/internal/common"
	"github.com/Veraticus/pay-the-piper/internal/model"
)

// Validation errors.
var (
	ErrNilContext          = errors.New("context cannot be nil")
	ErrEmptyString         = errors.New("string parameter cannot be empty")
	ErrNilParameter        = errors.New("parameter cannot be nil")
	ErrInvalidBill         = fmt.Errorf("%w: invalid bill", common.ErrValidation)
	ErrInvalidCategory     = fmt.Errorf("%w: invalid category", common.ErrValidation)
	ErrInvalidPayment      = fmt.Errorf("%w: invalid payment", common.ErrValidation)
	ErrInvalidNotification = fmt.Errorf("%w: invalid notification", common.ErrValidation)
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateBill validates a bill before it is written.
func validateBill(bill *model.Bill) error {
	if bill == nil {
		return fmt.Errorf("%w: bill", ErrNilParameter)
	}
	if strings.TrimSpace(bill.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidBill)
	}
	if bill.Amount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidBill)
	}
	if strings.TrimSpace(bill.CategoryID) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidBill)
	}
	if !bill.Frequency.Valid() {
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidBill, bill.Frequency)
	}
	if bill.Frequency == model.FrequencyOneTime && bill.IsRecurring {
		return fmt.Errorf("%w: one-time bills cannot be recurring", ErrInvalidBill)
	}
	if bill.DueDate.IsZero() {
		return fmt.Errorf("%w: missing due date", ErrInvalidBill)
	}
	if bill.ReminderDays < 0 {
		return fmt.Errorf("%w: reminder days cannot be negative", ErrInvalidBill)
	}
	if bill.RemindersPerDay < 1 {
		return fmt.Errorf("%w: reminders per day must be at least 1", ErrInvalidBill)
	}
	return nil
}

// validateCategory validates a bill category.
func validateCategory(category *model.BillCategory) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	return nil
}

// validatePayment validates a payment record.
func validatePayment(payment *model.BillPayment) error {
	if payment == nil {
		return fmt.Errorf("%w: payment", ErrNilParameter)
	}
	if strings.TrimSpace(payment.BillID) == "" {
		return fmt.Errorf("%w: missing bill ID", ErrInvalidPayment)
	}
	if strings.TrimSpace(payment.WalletID) == "" {
		return fmt.Errorf("%w: missing wallet ID", ErrInvalidPayment)
	}
	if payment.Amount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", ErrInvalidPayment)
	}
	if payment.PaidDate.IsZero() {
		return fmt.Errorf("%w: missing paid date", ErrInvalidPayment)
	}
	return nil
}

// validateNotification validates a notification record.
func validateNotification(notification *model.BillNotification) error {
	if notification == nil {
		return fmt.Errorf("%w: notification", ErrNilParameter)
	}
	if strings.TrimSpace(notification.BillID) == "" {
		return fmt.Errorf("%w: missing bill ID", ErrInvalidNotification)
	}
	if strings.TrimSpace(notification.Title) == "" {
		return fmt.Errorf("%w: missing title", ErrInvalidNotification)
	}
	return nil
}
