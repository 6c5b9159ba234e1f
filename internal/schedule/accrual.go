package schedule

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanops/loan-service/internal/models"
)

// Accrue computes interest for one period given a possibly-changing principal
// balance. Prepayment events inside [periodStart, periodEnd] split the period
// into segments of constant principal: each event's amount is deducted after
// the segment it closes is priced, so it affects only subsequent segments.
// Returns total interest, the ending principal, the segment breakdown and the
// events observed in the period.
func Accrue(periodStart, periodEnd time.Time, startingPrincipal, effectiveRate decimal.Decimal, prepayments []models.Payment) (decimal.Decimal, decimal.Decimal, []models.Segment, []models.Payment, error) {
	inPeriod := make([]models.Payment, 0)
	for _, p := range prepayments {
		if !p.PaymentDate.Before(periodStart) && !p.PaymentDate.After(periodEnd) {
			inPeriod = append(inPeriod, p)
		}
	}
	sort.SliceStable(inPeriod, func(i, j int) bool {
		return inPeriod[i].PaymentDate.Before(inPeriod[j].PaymentDate)
	})

	segments := make([]models.Segment, 0, len(inPeriod)+1)
	totalInterest := decimal.Zero
	principal := startingPrincipal
	segmentStart := periodStart

	appendSegment := func(start, end time.Time) error {
		days := inclusiveDays(start, end)
		interest, err := PeriodInterest(principal, effectiveRate, days, models.Actual360)
		if err != nil {
			return err
		}
		segments = append(segments, models.Segment{
			StartDate: start,
			EndDate:   end,
			Days:      days,
			Principal: principal,
			Interest:  interest,
		})
		totalInterest = totalInterest.Add(interest)
		return nil
	}

	for _, event := range inPeriod {
		if err := appendSegment(segmentStart, event.PaymentDate); err != nil {
			return decimal.Zero, decimal.Zero, nil, nil, err
		}
		principal = principal.Sub(event.Amount)
		segmentStart = event.PaymentDate.AddDate(0, 0, 1)
	}
	if err := appendSegment(segmentStart, periodEnd); err != nil {
		return decimal.Zero, decimal.Zero, nil, nil, err
	}

	return totalInterest, principal, segments, inPeriod, nil
}
