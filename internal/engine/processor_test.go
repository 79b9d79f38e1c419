package engine

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/pay-the-piper/internal/common"
	"github.com/Veraticus/pay-the-piper/internal/model"
	"github.com/Veraticus/pay-the-piper/internal/service"
	"github.com/Veraticus/pay-the-piper/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() service.RetryOptions {
	return service.RetryOptions{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
		MaxDelay:     2 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func testBill(dueDate time.Time) *model.Bill {
	return &model.Bill{
		Title:           "Electric",
		Amount:          decimal.NewFromInt(75),
		CategoryID:      "utilities",
		CategoryName:    "Utilities",
		Frequency:       model.FrequencyMonthly,
		IsRecurring:     true,
		DueDate:         dueDate,
		ReminderDays:    3,
		RemindersPerDay: 1,
	}
}

func TestMarkPaidRecordsPaymentAndLedgerEntry(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	mock := newMockLedger()
	mock.addWallet(model.Wallet{ID: "w1", Name: "Checking", Balance: decimal.NewFromInt(500)})

	now := time.Now()
	processor := New(store, mock, WithRetryOptions(fastRetry()))

	bill := testBill(now.AddDate(0, 0, 2))
	require.NoError(t, processor.CreateBill(ctx, bill))

	payment, err := processor.MarkPaid(ctx, bill.ID, "w1", nil, "july cycle")
	require.NoError(t, err)

	assert.Equal(t, bill.ID, payment.BillID)
	assert.Equal(t, "w1", payment.WalletID)
	assert.True(t, decimal.NewFromInt(75).Equal(payment.Amount), "amount defaults to the bill's nominal amount")
	assert.False(t, payment.IsLate)

	// The payment is appended to history.
	history, err := store.GetPaymentsForBill(ctx, bill.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, payment.ID, history[0].ID)

	// The bill advanced one calendar month.
	updated, err := store.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.LastPaidDate)
	assert.True(t, bill.DueDate.AddDate(0, 1, 0).Equal(updated.NextDueDate))

	// One expense landed in the ledger against the matched category.
	require.Len(t, mock.transactions, 1)
	assert.Equal(t, model.TransactionExpense, mock.transactions[0].Type)
	assert.Equal(t, "bills-utilities", mock.transactions[0].CategoryID)
	assert.True(t, decimal.NewFromInt(75).Equal(mock.transactions[0].Amount))

	wallet, err := mock.GetWallet(ctx, "w1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(425).Equal(wallet.Balance))
}

func TestMarkPaidOverrideAmountAndLateFlag(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	mock := newMockLedger()
	mock.addWallet(model.Wallet{ID: "w1", Balance: decimal.NewFromInt(100)})
	processor := New(store, mock, WithRetryOptions(fastRetry()))

	// Due yesterday: the payment is late.
	bill := testBill(time.Now().AddDate(0, 0, -1))
	require.NoError(t, processor.CreateBill(ctx, bill))

	partial := decimal.NewFromFloat(42.50)
	payment, err := processor.MarkPaid(ctx, bill.ID, "w1", &partial, "")
	require.NoError(t, err)

	assert.True(t, partial.Equal(payment.Amount))
	assert.True(t, payment.IsLate)
}

func TestMarkPaidAdvancesPastGraceWindow(t *testing.T) {
	// Paying an overdue monthly bill pushes the next cycle about a month
	// out, which exceeds a 3-day reminder window: the status flips straight
	// to upcoming rather than lingering at paid.
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	mock := newMockLedger()
	mock.addWallet(model.Wallet{ID: "w1", Balance: decimal.NewFromInt(100)})
	processor := New(store, mock, WithRetryOptions(fastRetry()))

	bill := testBill(time.Now().AddDate(0, 0, -1))
	require.NoError(t, processor.CreateBill(ctx, bill))

	_, err := processor.MarkPaid(ctx, bill.ID, "w1", nil, "")
	require.NoError(t, err)

	updated, err := store.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusUpcoming, updated.Status)
}

func TestMarkPaidKeepsPaidWhenNextCycleIsClose(t *testing.T) {
	// With a reminder window wider than the cycle, the new due date is
	// still inside it, so the optimistic paid status stands.
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	mock := newMockLedger()
	mock.addWallet(model.Wallet{ID: "w1", Balance: decimal.NewFromInt(100)})
	processor := New(store, mock, WithRetryOptions(fastRetry()))

	bill := testBill(time.Now().AddDate(0, 0, -1))
	bill.Frequency = model.FrequencyWeekly
	bill.ReminderDays = 10
	require.NoError(t, processor.CreateBill(ctx, bill))

	_, err := processor.MarkPaid(ctx, bill.ID, "w1", nil, "")
	require.NoError(t, err)

	updated, err := store.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, updated.Status)
}

func TestMarkPaidOneTimeBillNeverAdvances(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	mock := newMockLedger()
	mock.addWallet(model.Wallet{ID: "w1", Balance: decimal.NewFromInt(200)})
	processor := New(store, mock, WithRetryOptions(fastRetry()))

	due := time.Now().AddDate(0, 0, 5)
	bill := testBill(due)
	bill.Frequency = model.FrequencyOneTime
	bill.IsRecurring = false
	require.NoError(t, processor.CreateBill(ctx, bill))

	_, err := processor.MarkPaid(ctx, bill.ID, "w1", nil, "")
	require.NoError(t, err)

	updated, err := store.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPaid, updated.Status)
	assert.True(t, updated.NextDueDate.Equal(bill.DueDate), "one-time next due date must not move")
}

func TestMarkPaidUnknownBill(t *testing.T) {
	store := testutil.SetupTestDB(t)
	processor := New(store, newMockLedger(), WithRetryOptions(fastRetry()))

	_, err := processor.MarkPaid(context.Background(), "no-such-bill", "w1", nil, "")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMarkPaidLedgerFailureLeavesPaymentCommitted(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	mock := newMockLedger()
	mock.addWallet(model.Wallet{ID: "w1", Balance: decimal.NewFromInt(100)})
	mock.failCreates = 10 // more than the retry budget
	processor := New(store, mock, WithRetryOptions(fastRetry()))

	bill := testBill(time.Now().AddDate(0, 0, 2))
	require.NoError(t, processor.CreateBill(ctx, bill))

	payment, err := processor.MarkPaid(ctx, bill.ID, "w1", nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrLedgerInconsistency)
	require.NotNil(t, payment)

	// No rollback: bill and payment writes stand.
	history, histErr := store.GetPaymentsForBill(ctx, bill.ID)
	require.NoError(t, histErr)
	assert.Len(t, history, 1)

	updated, getErr := store.GetBill(ctx, bill.ID)
	require.NoError(t, getErr)
	assert.NotNil(t, updated.LastPaidDate)
}

func TestMarkPaidMissingWalletNotRetried(t *testing.T) {
	// A missing wallet is permanent: one ledger attempt, and the cause
	// stays matchable through the inconsistency wrap.
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	mock := newMockLedger() // no wallets registered
	processor := New(store, mock, WithRetryOptions(fastRetry()))

	bill := testBill(time.Now().AddDate(0, 0, 2))
	require.NoError(t, processor.CreateBill(ctx, bill))

	payment, err := processor.MarkPaid(ctx, bill.ID, "no-such-wallet", nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrLedgerInconsistency)
	assert.ErrorIs(t, err, common.ErrNotFound)
	require.NotNil(t, payment)
	assert.Equal(t, 1, mock.createCalls)
}

func TestMarkPaidRetriesLedgerWrite(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	mock := newMockLedger()
	mock.addWallet(model.Wallet{ID: "w1", Balance: decimal.NewFromInt(100)})
	mock.failCreates = 1 // first attempt fails, second succeeds
	processor := New(store, mock, WithRetryOptions(fastRetry()))

	bill := testBill(time.Now().AddDate(0, 0, 2))
	require.NoError(t, processor.CreateBill(ctx, bill))

	_, err := processor.MarkPaid(ctx, bill.ID, "w1", nil, "")
	require.NoError(t, err)
	assert.Equal(t, 2, mock.createCalls)
	assert.Len(t, mock.transactions, 1)
}

func TestSufficientFunds(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	mock := newMockLedger()
	mock.addWallet(model.Wallet{ID: "w1", Balance: decimal.NewFromInt(50)})
	processor := New(store, mock)

	ok, err := processor.SufficientFunds(ctx, "w1", decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = processor.SufficientFunds(ctx, "w1", decimal.NewFromInt(51))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = processor.SufficientFunds(ctx, "missing", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestMatchLedgerCategoryFallbackChain(t *testing.T) {
	processor := New(testutil.SetupTestDB(t), newMockLedger())

	tests := []struct {
		name         string
		categoryName string
		categoryID   string
		want         string
	}{
		{
			name:         "bill name contained in ledger name",
			categoryName: "Utilities",
			categoryID:   "utilities",
			want:         "bills-utilities",
		},
		{
			name:         "ledger name contained in bill name",
			categoryName: "Monthly Groceries Budget",
			categoryID:   "groceries",
			want:         "groceries",
		},
		{
			name:         "no substring match falls back to bill-ish category",
			categoryName: "Phone",
			categoryID:   "phone",
			want:         "bills-utilities",
		},
		{
			name:         "empty name skips substring matching",
			categoryName: "",
			categoryID:   "other",
			want:         "bills-utilities",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := &model.Bill{ID: "b1", CategoryID: tt.categoryID, CategoryName: tt.categoryName}
			assert.Equal(t, tt.want, processor.matchLedgerCategory(context.Background(), bill))
		})
	}
}

func TestMatchLedgerCategoryFinalFallback(t *testing.T) {
	mock := newMockLedger()
	mock.categories = []model.LedgerCategory{
		{ID: "groceries", Name: "Groceries"},
		{ID: "fun", Name: "Entertainment"},
	}
	processor := New(testutil.SetupTestDB(t), mock)

	bill := &model.Bill{ID: "b1", CategoryID: "insurance", CategoryName: "Insurance"}
	assert.Equal(t, "insurance", processor.matchLedgerCategory(context.Background(), bill))
}

func TestCreateBillWritesReminderNotification(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)
	processor := New(store, newMockLedger())

	bill := testBill(time.Now().AddDate(0, 0, 14))
	require.NoError(t, processor.CreateBill(ctx, bill))

	notifications, err := store.GetNotificationsForBill(ctx, bill.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationTypeReminder, notifications[0].Type)
	assert.False(t, notifications[0].IsRead)

	// No reminder window, no notification.
	quiet := testBill(time.Now().AddDate(0, 0, 14))
	quiet.ReminderDays = 0
	require.NoError(t, processor.CreateBill(ctx, quiet))

	notifications, err = store.GetNotificationsForBill(ctx, quiet.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}
