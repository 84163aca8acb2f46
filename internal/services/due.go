package services

import (
	"time"

	"financas/internal/core"
)

// DueSoonDays is the window, in days from today, in which an active
// recurring expense is flagged as due soon.
const DueSoonDays = 7

// DaysUntilDue counts calendar days from today to the next due date.
// Overdue expenses give a negative count.
func DaysUntilDue(r core.RecurringExpense, now time.Time) int {
	return r.NextDueDate.DaysUntil(now)
}

// IsDueSoon holds for active expenses due within DueSoonDays, overdue ones
// included. Paused expenses are never due soon.
func IsDueSoon(r core.RecurringExpense, now time.Time) bool {
	if r.Status != core.Active {
		return false
	}
	return DaysUntilDue(r, now) <= DueSoonDays
}
