package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/pay-the-piper/internal/common"
	"github.com/Veraticus/pay-the-piper/internal/model"
	"github.com/shopspring/decimal"
)

// SavePayment appends a settlement record to the payment history. Payments
// are immutable once written; there is no update path.
func (s *SQLiteStorage) SavePayment(ctx context.Context, payment *model.BillPayment) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePayment(payment); err != nil {
		return err
	}

	if payment.ID == "" {
		payment.ID = model.NewID()
	}

	query := `
		INSERT INTO bill_payments (id, bill_id, wallet_id, amount, paid_date, notes, is_late)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query,
		payment.ID, payment.BillID, payment.WalletID, payment.Amount.String(),
		payment.PaidDate, payment.Notes, payment.IsLate); err != nil {
		return fmt.Errorf("%w: failed to save payment: %v", common.ErrStorage, err)
	}

	slog.Info("recorded bill payment",
		"payment_id", payment.ID,
		"bill_id", payment.BillID,
		"amount", payment.Amount,
		"late", payment.IsLate)
	return nil
}

// GetPayments returns the full payment history in insertion order.
func (s *SQLiteStorage) GetPayments(ctx context.Context) ([]model.BillPayment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryPayments(ctx,
		`SELECT id, bill_id, wallet_id, amount, paid_date, notes, is_late
		 FROM bill_payments ORDER BY rowid`)
}

// GetPaymentsForBill returns one bill's payment history in insertion order.
func (s *SQLiteStorage) GetPaymentsForBill(ctx context.Context, billID string) ([]model.BillPayment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(billID, "billID"); err != nil {
		return nil, err
	}
	return s.queryPayments(ctx,
		`SELECT id, bill_id, wallet_id, amount, paid_date, notes, is_late
		 FROM bill_payments WHERE bill_id = ? ORDER BY rowid`, billID)
}

func (s *SQLiteStorage) queryPayments(ctx context.Context, query string, args ...any) ([]model.BillPayment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query payments: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var payments []model.BillPayment
	for rows.Next() {
		var (
			p      model.BillPayment
			amount string
		)
		if err := rows.Scan(&p.ID, &p.BillID, &p.WalletID, &amount, &p.PaidDate, &p.Notes, &p.IsLate); err != nil {
			return nil, fmt.Errorf("%w: failed to scan payment: %v", common.ErrStorage, err)
		}
		p.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid stored amount %q: %v", common.ErrStorage, amount, err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating payments: %v", common.ErrStorage, err)
	}
	return payments, nil
}
