// Package schedule contains the pure date arithmetic behind the bill
// lifecycle: advancing due dates across recurring cycles and deriving a
// bill's status from the clock. Nothing in this package touches storage.
package schedule

import (
	"time"

	"github.com/Veraticus/pay-the-piper/internal/model"
)

// NextDueDate advances a due date by one cycle of the given frequency.
// One-time bills never advance; their due date is returned unchanged.
// Monthly advancement uses Go's calendar normalization, so a Jan 31 due
// date lands on Mar 2 or 3. The clamp behavior only needs to be consistent.
func NextDueDate(current time.Time, frequency model.Frequency) time.Time {
	switch frequency {
	case model.FrequencyWeekly:
		return current.AddDate(0, 0, 7)
	case model.FrequencyMonthly:
		return current.AddDate(0, 1, 0)
	case model.FrequencyYearly:
		return current.AddDate(1, 0, 0)
	default:
		return current
	}
}
