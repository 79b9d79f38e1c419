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

func newBill(title string, dueDate time.Time) *model.Bill {
	return &model.Bill{
		Title:           title,
		Description:     "monthly service",
		Amount:          decimal.NewFromFloat(49.99),
		CategoryID:      "utilities",
		CategoryName:    "Utilities",
		Frequency:       model.FrequencyMonthly,
		IsRecurring:     true,
		DueDate:         dueDate,
		ReminderDays:    3,
		RemindersPerDay: 1,
	}
}

func TestCreateBillRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	due := time.Now().AddDate(0, 0, 10)
	bill := newBill("Internet", due)
	require.NoError(t, store.CreateBill(ctx, bill))

	// Create fills in the derived fields.
	assert.NotEmpty(t, bill.ID)
	assert.False(t, bill.CreatedAt.IsZero())
	assert.True(t, bill.DueDate.Equal(bill.NextDueDate), "next due date defaults to the anchor")
	assert.Equal(t, model.StatusUpcoming, bill.Status)

	fetched, err := store.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, bill.Title, fetched.Title)
	assert.Equal(t, bill.Description, fetched.Description)
	assert.True(t, bill.Amount.Equal(fetched.Amount))
	assert.Equal(t, bill.CategoryID, fetched.CategoryID)
	assert.Equal(t, bill.Frequency, fetched.Frequency)
	assert.True(t, bill.DueDate.Equal(fetched.DueDate))
	assert.Nil(t, fetched.LastPaidDate)
}

func TestCreateBillValidation(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	tests := []struct {
		name   string
		mutate func(*model.Bill)
	}{
		{"missing title", func(b *model.Bill) { b.Title = "  " }},
		{"negative amount", func(b *model.Bill) { b.Amount = decimal.NewFromInt(-1) }},
		{"missing category", func(b *model.Bill) { b.CategoryID = "" }},
		{"unknown frequency", func(b *model.Bill) { b.Frequency = "fortnightly" }},
		{"recurring one-time", func(b *model.Bill) { b.Frequency = model.FrequencyOneTime }},
		{"negative reminder days", func(b *model.Bill) { b.ReminderDays = -1 }},
		{"negative reminders per day", func(b *model.Bill) { b.RemindersPerDay = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bill := newBill("Broken", time.Now())
			tt.mutate(bill)
			err := store.CreateBill(ctx, bill)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestCreateBillDefaultsReminderCadence(t *testing.T) {
	// A caller that never touches RemindersPerDay (the add command builds
	// bills this way) must still get a valid bill with the floor of one.
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	bill := newBill("Electric", time.Now().AddDate(0, 0, 10))
	bill.RemindersPerDay = 0
	require.NoError(t, store.CreateBill(ctx, bill))

	fetched, err := store.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.RemindersPerDay)
}

func TestGetBillsRecomputesStatus(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	overdue := newBill("Rent", time.Now().AddDate(0, 0, -1))
	pending := newBill("Water", time.Now().AddDate(0, 0, 2))
	upcoming := newBill("Insurance", time.Now().AddDate(0, 0, 10))

	for _, b := range []*model.Bill{overdue, pending, upcoming} {
		require.NoError(t, store.CreateBill(ctx, b))
	}

	bills, err := store.GetBills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 3)

	statuses := make(map[string]model.BillStatus)
	for _, b := range bills {
		statuses[b.Title] = b.Status
	}
	assert.Equal(t, model.StatusOverdue, statuses["Rent"])
	assert.Equal(t, model.StatusPending, statuses["Water"])
	assert.Equal(t, model.StatusUpcoming, statuses["Insurance"])
}

func TestGetBillsCacheInvalidatedOnWrite(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	bill := newBill("Gym", time.Now().AddDate(0, 0, 10))
	require.NoError(t, store.CreateBill(ctx, bill))

	// Prime the cache.
	bills, err := store.GetBills(ctx)
	require.NoError(t, err)
	require.Len(t, bills, 1)

	// A write must be visible on the very next read.
	second := newBill("Phone", time.Now().AddDate(0, 0, 12))
	require.NoError(t, store.CreateBill(ctx, second))

	bills, err = store.GetBills(ctx)
	require.NoError(t, err)
	assert.Len(t, bills, 2)

	require.NoError(t, store.DeleteBill(ctx, second.ID))
	bills, err = store.GetBills(ctx)
	require.NoError(t, err)
	assert.Len(t, bills, 1)
}

func TestUpdateBill(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	bill := newBill("Streaming", time.Now().AddDate(0, 0, 10))
	require.NoError(t, store.CreateBill(ctx, bill))

	bill.Amount = decimal.NewFromFloat(15.99)
	bill.Notes = "price hike"
	paidAt := time.Now()
	bill.LastPaidDate = &paidAt
	require.NoError(t, store.UpdateBill(ctx, bill))

	fetched, err := store.GetBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(15.99).Equal(fetched.Amount))
	assert.Equal(t, "price hike", fetched.Notes)
	require.NotNil(t, fetched.LastPaidDate)
	assert.True(t, paidAt.Equal(*fetched.LastPaidDate))

	missing := newBill("Ghost", time.Now())
	missing.ID = "does-not-exist"
	assert.ErrorIs(t, store.UpdateBill(ctx, missing), common.ErrNotFound)
}

func TestDeleteBillCascades(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	bill := newBill("Cable", time.Now().AddDate(0, 0, 5))
	require.NoError(t, store.CreateBill(ctx, bill))

	payment := &model.BillPayment{
		BillID:   bill.ID,
		WalletID: "w1",
		Amount:   decimal.NewFromInt(49),
		PaidDate: time.Now(),
	}
	require.NoError(t, store.SavePayment(ctx, payment))

	notification := &model.BillNotification{
		BillID: bill.ID,
		Title:  "Upcoming bill: Cable",
	}
	require.NoError(t, store.CreateNotification(ctx, notification))

	require.NoError(t, store.DeleteBill(ctx, bill.ID))

	_, err := store.GetBill(ctx, bill.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	payments, err := store.GetPaymentsForBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)

	notifications, err := store.GetNotificationsForBill(ctx, bill.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)

	assert.ErrorIs(t, store.DeleteBill(ctx, bill.ID), common.ErrNotFound)
}

func TestGetBillNotFound(t *testing.T) {
	store := testutil.SetupTestDB(t)
	_, err := store.GetBill(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
