package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes ledger entry directions.
type TransactionType string

// Ledger transaction types.
const (
	TransactionExpense TransactionType = "expense"
	TransactionIncome  TransactionType = "income"
)

// Wallet holds a spendable balance in the ledger. Wallet balances are owned
// by the ledger collaborator; the bill engine never mutates them directly.
type Wallet struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Balance   decimal.Decimal
}

// LedgerCategory is an entry in the ledger's own category taxonomy, distinct
// from bill categories. Bill payments are matched against these names.
type LedgerCategory struct {
	ID   string
	Name string
}

// LedgerTransaction is a single entry in the wallet ledger.
type LedgerTransaction struct {
	Date        time.Time
	ID          string
	WalletID    string
	CategoryID  string
	Description string
	Notes       string
	Type        TransactionType
	Amount      decimal.Decimal
}
