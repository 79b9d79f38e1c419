package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/pay-the-piper/internal/config"
	"github.com/Veraticus/pay-the-piper/internal/engine"
	"github.com/Veraticus/pay-the-piper/internal/ledger"
	"github.com/Veraticus/pay-the-piper/internal/storage"
	"github.com/spf13/viper"
)

// initStorage initializes the bill store with migrations applied and the
// default category set seeded.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/piper/piper.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := store.SeedDefaultCategories(ctx); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	return store, nil
}

// initLedger opens the wallet/transaction ledger.
func initLedger() (*ledger.SQLiteLedger, error) {
	dbPath := viper.GetString("ledger.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/piper/ledger.db"
	}
	return ledger.Open(config.ExpandPath(dbPath))
}

// initEngine wires the payment processor together with its collaborators.
// The returned cleanup closes both stores.
func initEngine(ctx context.Context) (*engine.Processor, *storage.SQLiteStorage, *ledger.SQLiteLedger, func(), error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	l, err := initLedger()
	if err != nil {
		_ = store.Close()
		return nil, nil, nil, nil, err
	}

	cleanup := func() {
		_ = l.Close()
		_ = store.Close()
	}
	return engine.New(store, l), store, l, cleanup, nil
}
