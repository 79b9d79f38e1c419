// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/pay-the-piper/internal/model"
	"github.com/shopspring/decimal"
)

// Storage defines the contract for the bill persistence layer. It exclusively
// owns the bill, category, payment, and notification collections.
type Storage interface {
	// Bill operations
	CreateBill(ctx context.Context, bill *model.Bill) error
	GetBill(ctx context.Context, id string) (*model.Bill, error)
	GetBills(ctx context.Context) ([]model.Bill, error)
	UpdateBill(ctx context.Context, bill *model.Bill) error
	DeleteBill(ctx context.Context, id string) error

	// Category operations
	GetBillCategories(ctx context.Context) ([]model.BillCategory, error)
	GetBillCategoryByID(ctx context.Context, id string) (*model.BillCategory, error)
	CreateBillCategory(ctx context.Context, category *model.BillCategory) error
	SeedDefaultCategories(ctx context.Context) error

	// Payment history (append-only)
	SavePayment(ctx context.Context, payment *model.BillPayment) error
	GetPayments(ctx context.Context) ([]model.BillPayment, error)
	GetPaymentsForBill(ctx context.Context, billID string) ([]model.BillPayment, error)

	// Notifications
	CreateNotification(ctx context.Context, notification *model.BillNotification) error
	GetNotificationsForBill(ctx context.Context, billID string) ([]model.BillNotification, error)
	MarkNotificationRead(ctx context.Context, id string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Ledger is the wallet/transaction collaborator. It owns wallet balances and
// the transaction ledger; the bill engine only requests entries here.
type Ledger interface {
	CreateTransaction(ctx context.Context, txn *model.LedgerTransaction) error
	GetWallets(ctx context.Context) ([]model.Wallet, error)
	GetWallet(ctx context.Context, id string) (*model.Wallet, error)
	GetCategories(ctx context.Context) ([]model.LedgerCategory, error)
}

// CategorySummary contains aggregated statistics for one bill category.
type CategorySummary struct {
	Category string
	Amount   decimal.Decimal
	Count    int
}

// BillsAnalytics contains the summary figures derived from the current bill
// list and payment history.
type BillsAnalytics struct {
	CategoryBreakdown   []CategorySummary
	TotalPending        decimal.Decimal
	TotalOverdue        decimal.Decimal
	TotalPaidThisMonth  decimal.Decimal
	AverageMonthlyBills decimal.Decimal
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
