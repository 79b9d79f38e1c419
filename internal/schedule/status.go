package schedule

import (
	"time"

	"github.com/Veraticus/pay-the-piper/internal/model"
)

const (
	// paidGraceWindow keeps a bill at "paid" for a day after settlement so
	// clock or timezone skew cannot flap it back to pending/overdue.
	paidGraceWindow = 24 * time.Hour

	// cycleReevaluateFraction is how far into the minimum cycle length a
	// recurring paid bill must be before its status is derived from dates
	// again.
	cycleReevaluateFraction = 0.8
)

// minCycleDays is the shortest plausible gap between payments per frequency.
func minCycleDays(frequency model.Frequency) float64 {
	switch frequency {
	case model.FrequencyWeekly:
		return 7
	case model.FrequencyMonthly:
		return 28
	default:
		return 350
	}
}

// ComputeStatus derives a bill's status from its dates and the current time.
// Pure and deterministic: identical (bill, now) inputs always yield the same
// result. Priority order, first match wins:
//
//  1. Paid within the last 24 hours: paid.
//  2. Stored status paid: terminal for one-time bills; for recurring bills,
//     stays paid until 80% of the minimum cycle length has elapsed.
//  3. Otherwise by days until the next due date: negative is overdue, within
//     the reminder window is pending, further out is upcoming.
func ComputeStatus(bill model.Bill, now time.Time) model.BillStatus {
	if bill.LastPaidDate != nil && now.Sub(*bill.LastPaidDate) < paidGraceWindow {
		return model.StatusPaid
	}

	if bill.Status == model.StatusPaid {
		if !bill.IsRecurring {
			return model.StatusPaid
		}
		if bill.LastPaidDate != nil {
			daysSincePayment := now.Sub(*bill.LastPaidDate).Hours() / 24
			if daysSincePayment < cycleReevaluateFraction*minCycleDays(bill.Frequency) {
				return model.StatusPaid
			}
		}
	}

	daysUntilDue := bill.NextDueDate.Sub(now).Hours() / 24
	switch {
	case daysUntilDue < 0:
		return model.StatusOverdue
	case daysUntilDue <= float64(bill.ReminderDays):
		return model.StatusPending
	default:
		return model.StatusUpcoming
	}
}
