package engine

import (
	"time"

	"github.com/Veraticus/pay-the-piper/internal/model"
	"github.com/Veraticus/pay-the-piper/internal/service"
	"github.com/shopspring/decimal"
)

// Analytics derives summary figures from the current bill list and payment
// history. The bill statuses must already be current (GetBills recomputes
// them on read). Pure: no storage access, no side effects.
func Analytics(bills []model.Bill, payments []model.BillPayment, now time.Time) service.BillsAnalytics {
	result := service.BillsAnalytics{
		TotalPending:        decimal.Zero,
		TotalOverdue:        decimal.Zero,
		TotalPaidThisMonth:  decimal.Zero,
		AverageMonthlyBills: decimal.Zero,
	}

	total := decimal.Zero
	byCategory := make(map[string]int)

	for _, bill := range bills {
		switch bill.Status {
		case model.StatusPending:
			result.TotalPending = result.TotalPending.Add(bill.Amount)
		case model.StatusOverdue:
			result.TotalOverdue = result.TotalOverdue.Add(bill.Amount)
		}

		total = total.Add(bill.Amount)

		// Breakdown preserves first-appearance order of category names.
		idx, seen := byCategory[bill.CategoryName]
		if !seen {
			byCategory[bill.CategoryName] = len(result.CategoryBreakdown)
			result.CategoryBreakdown = append(result.CategoryBreakdown, service.CategorySummary{
				Category: bill.CategoryName,
				Amount:   bill.Amount,
				Count:    1,
			})
		} else {
			result.CategoryBreakdown[idx].Amount = result.CategoryBreakdown[idx].Amount.Add(bill.Amount)
			result.CategoryBreakdown[idx].Count++
		}
	}

	if len(bills) > 0 {
		result.AverageMonthlyBills = total.Div(decimal.NewFromInt(int64(len(bills)))).Round(2)
	}

	for _, payment := range payments {
		if payment.PaidDate.Year() == now.Year() && payment.PaidDate.Month() == now.Month() {
			result.TotalPaidThisMonth = result.TotalPaidThisMonth.Add(payment.Amount)
		}
	}

	return result
}
