package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillPayment is an immutable record of one settlement event. The amount
// actually paid may differ from the bill's nominal amount.
type BillPayment struct {
	PaidDate time.Time
	ID       string
	BillID   string
	WalletID string
	Notes    string
	Amount   decimal.Decimal
	IsLate   bool // paidDate was after the bill's nextDueDate at payment time
}
