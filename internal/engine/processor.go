// Package engine implements the bill lifecycle engine: creating bills,
// settling them against a wallet, and deriving analytics.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/pay-the-piper/internal/common"
	"github.com/Veraticus/pay-the-piper/internal/model"
	"github.com/Veraticus/pay-the-piper/internal/schedule"
	"github.com/Veraticus/pay-the-piper/internal/service"
	"github.com/shopspring/decimal"
)

// Processor orchestrates bill payments across the bill store and the
// wallet/transaction collaborator.
type Processor struct {
	storage   service.Storage
	ledger    service.Ledger
	now       func() time.Time
	retryOpts service.RetryOptions
}

// Option configures a Processor.
type Option func(*Processor)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) {
		p.now = now
	}
}

// WithRetryOptions overrides the retry policy for the ledger write.
func WithRetryOptions(opts service.RetryOptions) Option {
	return func(p *Processor) {
		p.retryOpts = opts
	}
}

// New creates a payment processor with the given dependencies.
func New(storage service.Storage, ledger service.Ledger, opts ...Option) *Processor {
	p := &Processor{
		storage: storage,
		ledger:  ledger,
		now:     time.Now,
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 100 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Multiplier:   2.0,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateBill persists a new bill and, when the bill carries a reminder
// window, records its reminder notification. Notification creation is
// best-effort: a failure there is logged and never aborts the create.
func (p *Processor) CreateBill(ctx context.Context, bill *model.Bill) error {
	if err := p.storage.CreateBill(ctx, bill); err != nil {
		return err
	}

	if bill.ReminderDays > 0 {
		notification := &model.BillNotification{
			BillID:  bill.ID,
			Title:   fmt.Sprintf("Upcoming bill: %s", bill.Title),
			Message: fmt.Sprintf("%s (%s) is due on %s", bill.Title, bill.Amount, bill.NextDueDate.Format("2006-01-02")),
			DueDate: bill.NextDueDate,
			Type:    model.NotificationTypeReminder,
		}
		if err := p.storage.CreateNotification(ctx, notification); err != nil {
			slog.Warn("failed to create reminder notification",
				"bill_id", bill.ID,
				"error", err)
		}
	}

	return nil
}

// MarkPaid settles a bill against a wallet. The amount defaults to the
// bill's nominal amount when nil. The bill and payment writes commit before
// the ledger write; if the ledger write fails after retries, those writes
// stand and the returned error wraps ErrLedgerInconsistency (and the
// underlying cause, so NotFound on a missing wallet stays matchable).
// Permanent ledger failures are not retried.
func (p *Processor) MarkPaid(ctx context.Context, billID, walletID string, amount *decimal.Decimal, notes string) (*model.BillPayment, error) {
	bill, err := p.storage.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	now := p.now()
	paid := bill.Amount
	if amount != nil {
		paid = *amount
	}

	payment := &model.BillPayment{
		ID:       model.NewID(),
		BillID:   bill.ID,
		WalletID: walletID,
		Amount:   paid,
		PaidDate: now,
		Notes:    notes,
		IsLate:   now.After(bill.NextDueDate),
	}

	bill.LastPaidDate = &payment.PaidDate
	bill.Status = model.StatusPaid

	if bill.IsRecurring {
		bill.NextDueDate = schedule.NextDueDate(bill.NextDueDate, bill.Frequency)
		// When the new cycle is already past the reminder window there is
		// no ambiguity: skip the paid grace period entirely.
		if bill.NextDueDate.Sub(now).Hours()/24 > float64(bill.ReminderDays) {
			bill.Status = model.StatusUpcoming
		}
	}

	if err := p.storage.UpdateBill(ctx, bill); err != nil {
		return nil, err
	}
	if err := p.storage.SavePayment(ctx, payment); err != nil {
		return nil, err
	}

	txn := &model.LedgerTransaction{
		WalletID:    walletID,
		CategoryID:  p.matchLedgerCategory(ctx, bill),
		Description: fmt.Sprintf("Bill payment: %s", bill.Title),
		Notes:       notes,
		Type:        model.TransactionExpense,
		Amount:      paid,
		Date:        now,
	}

	err = common.WithRetry(ctx, func() error {
		createErr := p.ledger.CreateTransaction(ctx, txn)
		if createErr != nil && !common.IsRetryable(createErr) {
			// Permanent failures (missing wallet, rejected entry) will not
			// get better with backoff.
			return &common.RetryableError{Err: createErr, Retryable: false}
		}
		return createErr
	}, p.retryOpts)
	if err != nil {
		// The bill and payment are already committed. Log this distinctly
		// from ordinary storage errors so reconciliation tooling can find it.
		slog.Error("bill marked paid without confirmed ledger transaction",
			"bill_id", bill.ID,
			"payment_id", payment.ID,
			"wallet_id", walletID,
			"amount", paid,
			"error", err)
		return payment, fmt.Errorf("%w: bill %s payment %s: %w",
			common.ErrLedgerInconsistency, bill.ID, payment.ID, err)
	}

	slog.Info("bill paid",
		"bill_id", bill.ID,
		"payment_id", payment.ID,
		"amount", paid,
		"late", payment.IsLate,
		"next_due", bill.NextDueDate,
		"status", bill.Status)
	return payment, nil
}

// SufficientFunds reports whether the wallet balance covers the amount.
// Advisory only: callers may proceed with the payment regardless.
func (p *Processor) SufficientFunds(ctx context.Context, walletID string, amount decimal.Decimal) (bool, error) {
	wallet, err := p.ledger.GetWallet(ctx, walletID)
	if err != nil {
		return false, err
	}
	return wallet.Balance.GreaterThanOrEqual(amount), nil
}

// matchLedgerCategory maps a bill's category name onto the ledger taxonomy.
// Fallback chain, in order: case-insensitive substring match in either
// direction, then the first ledger category whose name contains "bill" or
// "util", then the bill's own category id.
func (p *Processor) matchLedgerCategory(ctx context.Context, bill *model.Bill) string {
	categories, err := p.ledger.GetCategories(ctx)
	if err != nil {
		slog.Warn("failed to load ledger categories for matching",
			"bill_id", bill.ID,
			"error", err)
		return bill.CategoryID
	}

	name := strings.ToLower(strings.TrimSpace(bill.CategoryName))
	if name != "" {
		for _, cat := range categories {
			catName := strings.ToLower(cat.Name)
			if strings.Contains(catName, name) || strings.Contains(name, catName) {
				return cat.ID
			}
		}
	}

	for _, cat := range categories {
		catName := strings.ToLower(cat.Name)
		if strings.Contains(catName, "bill") || strings.Contains(catName, "util") {
			return cat.ID
		}
	}

	return bill.CategoryID
}
