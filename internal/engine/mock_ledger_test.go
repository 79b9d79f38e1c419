package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/Veraticus/pay-the-piper/internal/common"
	"github.com/Veraticus/pay-the-piper/internal/model"
)

// mockLedger is a test double for the wallet/transaction collaborator.
type mockLedger struct {
	mu           sync.Mutex
	wallets      map[string]model.Wallet
	categories   []model.LedgerCategory
	transactions []model.LedgerTransaction
	failCreates  int // fail this many CreateTransaction calls before succeeding
	createCalls  int
}

func newMockLedger() *mockLedger {
	return &mockLedger{
		wallets: make(map[string]model.Wallet),
		categories: []model.LedgerCategory{
			{ID: "groceries", Name: "Groceries"},
			{ID: "bills-utilities", Name: "Bills & Utilities"},
			{ID: "rent", Name: "Rent & Housing"},
		},
	}
}

func (m *mockLedger) addWallet(wallet model.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[wallet.ID] = wallet
}

func (m *mockLedger) CreateTransaction(_ context.Context, txn *model.LedgerTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.createCalls <= m.failCreates {
		return fmt.Errorf("%w: ledger unavailable", common.ErrStorage)
	}

	wallet, ok := m.wallets[txn.WalletID]
	if !ok {
		return fmt.Errorf("%w: wallet %s", common.ErrNotFound, txn.WalletID)
	}
	if txn.Type == model.TransactionIncome {
		wallet.Balance = wallet.Balance.Add(txn.Amount)
	} else {
		wallet.Balance = wallet.Balance.Sub(txn.Amount)
	}
	m.wallets[txn.WalletID] = wallet
	m.transactions = append(m.transactions, *txn)
	return nil
}

func (m *mockLedger) GetWallets(_ context.Context) ([]model.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wallets := make([]model.Wallet, 0, len(m.wallets))
	for _, w := range m.wallets {
		wallets = append(wallets, w)
	}
	return wallets, nil
}

func (m *mockLedger) GetWallet(_ context.Context, id string) (*model.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wallet, ok := m.wallets[id]
	if !ok {
		return nil, fmt.Errorf("%w: wallet %s", common.ErrNotFound, id)
	}
	return &wallet, nil
}

func (m *mockLedger) GetCategories(_ context.Context) ([]model.LedgerCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.categories, nil
}
