package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanops/loan-service/internal/models"
)

// tolerance below which a receipt difference is treated as fully settled.
var tolerance = decimal.RequireFromString("0.01")

// Reconcile is a post-pass over a completed schedule that compares recorded
// interest receipts against each period's cash due and annotates the entries
// with a payment status. The schedule amounts themselves are never modified.
// now supplies "today" for the days-past-due calculation.
func Reconcile(entries []models.ScheduleEntry, payments []models.Payment, now time.Time) []models.ScheduleEntry {
	annotated := make([]models.ScheduleEntry, len(entries))
	for i, entry := range entries {
		amountPaid := decimal.Zero
		var lastPayment *time.Time
		for _, p := range payments {
			if p.PaymentType != models.PaymentInterest || p.PeriodNumber != entry.PeriodNumber {
				continue
			}
			amountPaid = amountPaid.Add(p.Amount)
			if lastPayment == nil || p.PaymentDate.After(*lastPayment) {
				d := p.PaymentDate
				lastPayment = &d
			}
		}

		switch {
		case amountPaid.GreaterThanOrEqual(entry.CashDue.Sub(tolerance)):
			entry.PaymentStatus = models.StatusPaid
		case amountPaid.GreaterThan(tolerance):
			entry.PaymentStatus = models.StatusPartiallyPaid
		default:
			entry.PaymentStatus = models.StatusUnpaid
		}

		entry.AmountPaid = amountPaid
		entry.PaymentDate = lastPayment
		entry.DaysPastDue = 0
		if entry.PaymentStatus != models.StatusPaid && now.After(entry.PaymentDueDate) {
			entry.DaysPastDue = int(now.Sub(entry.PaymentDueDate).Hours() / 24)
		}

		annotated[i] = entry
	}
	return annotated
}
