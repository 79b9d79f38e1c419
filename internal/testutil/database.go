// Package testutil provides shared helpers for tests that need real storage.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/pay-the-piper/internal/ledger"
	"github.com/Veraticus/pay-the-piper/internal/model"
	"github.com/Veraticus/pay-the-piper/internal/storage"
	"github.com/shopspring/decimal"
)

// SetupTestDB creates an in-memory bill store with migrations applied and
// the default categories seeded. Cleanup is registered automatically.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	if err := store.SeedDefaultCategories(ctx); err != nil {
		t.Fatalf("failed to seed categories: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// SetupTestLedger creates an in-memory ledger with one funded wallet and
// returns both. Cleanup is registered automatically.
func SetupTestLedger(t *testing.T, openingBalance decimal.Decimal) (*ledger.SQLiteLedger, *model.Wallet) {
	t.Helper()

	l, err := ledger.Open(":memory:")
	if err != nil {
		t.Fatalf("failed to create test ledger: %v", err)
	}

	wallet := &model.Wallet{Name: "Checking", Balance: openingBalance}
	if err := l.CreateWallet(context.Background(), wallet); err != nil {
		t.Fatalf("failed to create test wallet: %v", err)
	}

	t.Cleanup(func() {
		_ = l.Close()
	})

	return l, wallet
}
