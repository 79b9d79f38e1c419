// Package ledger implements the wallet/transaction collaborator. It owns
// wallet balances and the transaction ledger; the bill engine only requests
// entries here and never touches balances directly.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/pay-the-piper/internal/common"
	"github.com/Veraticus/pay-the-piper/internal/model"
	"github.com/shopspring/decimal"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteLedger implements the service.Ledger interface using SQLite.
type SQLiteLedger struct {
	db *sql.DB
}

// Open opens (and initializes) a ledger database at the given path.
func Open(dbPath string) (*SQLiteLedger, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: ledger database path", common.ErrMissingConfig)
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping ledger database: %w", err)
	}

	l := &SQLiteLedger{db: db}
	if err := l.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

// Close closes the ledger database connection.
func (l *SQLiteLedger) Close() error {
	return l.db.Close()
}

func (l *SQLiteLedger) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS wallets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			balance TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS ledger_categories (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ledger_transactions (
			id TEXT PRIMARY KEY,
			wallet_id TEXT NOT NULL,
			category_id TEXT,
			description TEXT,
			notes TEXT,
			type TEXT NOT NULL,
			amount TEXT NOT NULL,
			date DATETIME NOT NULL,
			FOREIGN KEY (wallet_id) REFERENCES wallets(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_transactions_wallet ON ledger_transactions(wallet_id)`,
	}
	for _, query := range queries {
		if _, err := l.db.Exec(query); err != nil {
			return fmt.Errorf("failed to initialize ledger schema: %w", err)
		}
	}
	return l.seedCategories()
}

// seedCategories installs the ledger's expense taxonomy on first run.
func (l *SQLiteLedger) seedCategories() error {
	var count int
	if err := l.db.QueryRow(`SELECT COUNT(*) FROM ledger_categories`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count ledger categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	defaults := []model.LedgerCategory{
		{ID: "groceries", Name: "Groceries"},
		{ID: "dining", Name: "Dining Out"},
		{ID: "bills-utilities", Name: "Bills & Utilities"},
		{ID: "rent", Name: "Rent & Housing"},
		{ID: "transport", Name: "Transport"},
		{ID: "entertainment", Name: "Entertainment"},
		{ID: "health", Name: "Health"},
		{ID: "misc", Name: "Miscellaneous"},
	}
	for _, cat := range defaults {
		if _, err := l.db.Exec(`INSERT INTO ledger_categories (id, name) VALUES (?, ?)`, cat.ID, cat.Name); err != nil {
			return fmt.Errorf("failed to seed ledger category %s: %w", cat.Name, err)
		}
	}
	return nil
}

// CreateTransaction records a ledger entry and adjusts the wallet balance
// inside one database transaction. Expense entries decrement the balance,
// income entries increment it.
func (l *SQLiteLedger) CreateTransaction(ctx context.Context, txn *model.LedgerTransaction) error {
	if ctx == nil {
		return errors.New("context cannot be nil")
	}
	if txn == nil {
		return fmt.Errorf("%w: transaction", common.ErrValidation)
	}
	if txn.WalletID == "" {
		return fmt.Errorf("%w: missing wallet ID", common.ErrValidation)
	}
	if txn.Amount.IsNegative() {
		return fmt.Errorf("%w: amount cannot be negative", common.ErrValidation)
	}
	if txn.ID == "" {
		txn.ID = model.NewID()
	}
	if txn.Date.IsZero() {
		txn.Date = time.Now()
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", common.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback() }()

	var balanceStr string
	err = tx.QueryRowContext(ctx, `SELECT balance FROM wallets WHERE id = ?`, txn.WalletID).Scan(&balanceStr)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: wallet %s", common.ErrNotFound, txn.WalletID)
	}
	if err != nil {
		return fmt.Errorf("%w: failed to load wallet: %v", common.ErrStorage, err)
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return fmt.Errorf("%w: invalid stored balance %q: %v", common.ErrStorage, balanceStr, err)
	}

	if txn.Type == model.TransactionIncome {
		balance = balance.Add(txn.Amount)
	} else {
		balance = balance.Sub(txn.Amount)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_transactions (id, wallet_id, category_id, description, notes, type, amount, date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.WalletID, txn.CategoryID, txn.Description, txn.Notes,
		string(txn.Type), txn.Amount.String(), txn.Date); err != nil {
		return fmt.Errorf("%w: failed to insert ledger transaction: %v", common.ErrStorage, err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance = ? WHERE id = ?`, balance.String(), txn.WalletID); err != nil {
		return fmt.Errorf("%w: failed to update wallet balance: %v", common.ErrStorage, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: failed to commit ledger transaction: %v", common.ErrStorage, err)
	}

	slog.Info("recorded ledger transaction",
		"transaction_id", txn.ID,
		"wallet_id", txn.WalletID,
		"type", txn.Type,
		"amount", txn.Amount,
		"balance", balance)
	return nil
}

// CreateWallet persists a new wallet with an opening balance.
func (l *SQLiteLedger) CreateWallet(ctx context.Context, wallet *model.Wallet) error {
	if wallet == nil {
		return fmt.Errorf("%w: wallet", common.ErrValidation)
	}
	if wallet.Name == "" {
		return fmt.Errorf("%w: missing wallet name", common.ErrValidation)
	}
	if wallet.ID == "" {
		wallet.ID = model.NewID()
	}
	if wallet.CreatedAt.IsZero() {
		wallet.CreatedAt = time.Now()
	}

	if _, err := l.db.ExecContext(ctx,
		`INSERT INTO wallets (id, name, balance, created_at) VALUES (?, ?, ?, ?)`,
		wallet.ID, wallet.Name, wallet.Balance.String(), wallet.CreatedAt); err != nil {
		return fmt.Errorf("%w: failed to create wallet: %v", common.ErrStorage, err)
	}

	slog.Info("created wallet", "id", wallet.ID, "name", wallet.Name, "balance", wallet.Balance)
	return nil
}

// GetWallet returns a single wallet by id.
func (l *SQLiteLedger) GetWallet(ctx context.Context, id string) (*model.Wallet, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: missing wallet ID", common.ErrValidation)
	}

	var (
		wallet  model.Wallet
		balance string
	)
	err := l.db.QueryRowContext(ctx,
		`SELECT id, name, balance, created_at FROM wallets WHERE id = ?`, id).
		Scan(&wallet.ID, &wallet.Name, &balance, &wallet.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: wallet %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query wallet: %v", common.ErrStorage, err)
	}

	wallet.Balance, err = decimal.NewFromString(balance)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid stored balance %q: %v", common.ErrStorage, balance, err)
	}
	return &wallet, nil
}

// GetWallets returns all wallets ordered by name.
func (l *SQLiteLedger) GetWallets(ctx context.Context) ([]model.Wallet, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, name, balance, created_at FROM wallets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query wallets: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var wallets []model.Wallet
	for rows.Next() {
		var (
			wallet  model.Wallet
			balance string
		)
		if err := rows.Scan(&wallet.ID, &wallet.Name, &balance, &wallet.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: failed to scan wallet: %v", common.ErrStorage, err)
		}
		wallet.Balance, err = decimal.NewFromString(balance)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid stored balance %q: %v", common.ErrStorage, balance, err)
		}
		wallets = append(wallets, wallet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating wallets: %v", common.ErrStorage, err)
	}
	return wallets, nil
}

// GetCategories returns the ledger's category taxonomy in stable id order.
// The bill engine's fuzzy category match walks this list in order, so the
// ordering is part of the contract.
func (l *SQLiteLedger) GetCategories(ctx context.Context) ([]model.LedgerCategory, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT id, name FROM ledger_categories ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query ledger categories: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var categories []model.LedgerCategory
	for rows.Next() {
		var cat model.LedgerCategory
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("%w: failed to scan ledger category: %v", common.ErrStorage, err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating ledger categories: %v", common.ErrStorage, err)
	}
	return categories, nil
}

// GetTransactions returns the ledger history for a wallet, newest first.
func (l *SQLiteLedger) GetTransactions(ctx context.Context, walletID string) ([]model.LedgerTransaction, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, wallet_id, category_id, description, notes, type, amount, date
		 FROM ledger_transactions WHERE wallet_id = ? ORDER BY date DESC`, walletID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query ledger transactions: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	var txns []model.LedgerTransaction
	for rows.Next() {
		var (
			txn    model.LedgerTransaction
			ttype  string
			amount string
		)
		if err := rows.Scan(&txn.ID, &txn.WalletID, &txn.CategoryID, &txn.Description,
			&txn.Notes, &ttype, &amount, &txn.Date); err != nil {
			return nil, fmt.Errorf("%w: failed to scan ledger transaction: %v", common.ErrStorage, err)
		}
		txn.Type = model.TransactionType(ttype)
		txn.Amount, err = decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid stored amount %q: %v", common.ErrStorage, amount, err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: error iterating ledger transactions: %v", common.ErrStorage, err)
	}
	return txns, nil
}
