// Package model defines the core domain records used throughout the application.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Frequency describes how often a bill recurs.
type Frequency string

// Recurrence frequency constants.
const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
	FrequencyOneTime Frequency = "one-time"
)

// Valid reports whether f is a recognized frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyYearly, FrequencyOneTime:
		return true
	default:
		return false
	}
}

// BillStatus indicates where a bill sits in its payment cycle.
// Status is derived, never ground truth: it is recomputed from dates on
// every bulk read.
type BillStatus string

// Bill status constants.
const (
	StatusUpcoming BillStatus = "upcoming"
	StatusPending  BillStatus = "pending"
	StatusOverdue  BillStatus = "overdue"
	StatusPaid     BillStatus = "paid"
)

// Bill represents a scheduled payment obligation.
type Bill struct {
	CreatedAt       time.Time
	DueDate         time.Time // original anchor date, immutable after creation
	NextDueDate     time.Time // advances each payment cycle; fixed for one-time bills
	LastPaidDate    *time.Time
	ID              string
	Title           string
	Description     string
	Notes           string
	CategoryID      string
	CategoryName    string // denormalized for display and ledger category matching
	Frequency       Frequency
	Status          BillStatus
	Amount          decimal.Decimal
	ReminderDays    int
	RemindersPerDay int
	IsRecurring     bool
}

// NewID returns a fresh opaque identifier for any engine record.
func NewID() string {
	return uuid.NewString()
}
