package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/pay-the-piper/internal/common"
	"github.com/Veraticus/pay-the-piper/internal/model"
	"github.com/Veraticus/pay-the-piper/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentHistoryPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	bill := newBill("Electric", time.Now().AddDate(0, 0, 3))
	require.NoError(t, store.CreateBill(ctx, bill))

	// Insertion order is payment order, regardless of paid dates.
	amounts := []int64{70, 72, 68}
	for i, amount := range amounts {
		payment := &model.BillPayment{
			BillID:   bill.ID,
			WalletID: "w1",
			Amount:   decimal.NewFromInt(amount),
			PaidDate: time.Now().AddDate(0, -i, 0),
		}
		require.NoError(t, store.SavePayment(ctx, payment))
	}

	history, err := store.GetPaymentsForBill(ctx, bill.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, amount := range amounts {
		assert.True(t, decimal.NewFromInt(amount).Equal(history[i].Amount))
	}

	all, err := store.GetPayments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSavePaymentValidation(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	assert.ErrorIs(t, store.SavePayment(ctx, &model.BillPayment{
		WalletID: "w1", Amount: decimal.NewFromInt(10), PaidDate: time.Now(),
	}), common.ErrValidation)

	assert.ErrorIs(t, store.SavePayment(ctx, &model.BillPayment{
		BillID: "b1", Amount: decimal.NewFromInt(10), PaidDate: time.Now(),
	}), common.ErrValidation)

	assert.ErrorIs(t, store.SavePayment(ctx, &model.BillPayment{
		BillID: "b1", WalletID: "w1", Amount: decimal.NewFromInt(-10), PaidDate: time.Now(),
	}), common.ErrValidation)
}

func TestNotificationLifecycle(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	bill := newBill("Water", time.Now().AddDate(0, 0, 4))
	require.NoError(t, store.CreateBill(ctx, bill))

	notification := &model.BillNotification{
		BillID:  bill.ID,
		Title:   "Upcoming bill: Water",
		Message: "Water is due soon",
		DueDate: bill.NextDueDate,
	}
	require.NoError(t, store.CreateNotification(ctx, notification))
	assert.Equal(t, model.NotificationTypeReminder, notification.Type)

	fetched, err := store.GetNotificationsForBill(ctx, bill.ID)
	require.NoError(t, err)
	require.Len(t, fetched, 1)
	assert.False(t, fetched[0].IsRead)

	require.NoError(t, store.MarkNotificationRead(ctx, fetched[0].ID))

	fetched, err = store.GetNotificationsForBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.True(t, fetched[0].IsRead)

	assert.ErrorIs(t, store.MarkNotificationRead(ctx, "missing"), common.ErrNotFound)
}
