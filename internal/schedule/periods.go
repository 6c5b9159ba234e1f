package schedule

import (
	"time"

	"github.com/loanops/loan-service/internal/calendar"
	"github.com/loanops/loan-service/internal/models"
)

// periodEndDate resolves the accrual end date for a (year, month) under the
// loan's period-end convention.
func periodEndDate(year int, month time.Month, holidays calendar.HolidaySet, convention models.PeriodEndConvention) (time.Time, error) {
	switch convention {
	case models.LastBusinessDay:
		return calendar.LastBusinessDayOfMonth(year, month, holidays), nil
	case models.CalendarMonthEnd:
		return calendar.CalendarMonthEnd(year, month), nil
	default:
		return time.Time{}, &ConfigurationError{Reason: "unrecognized period end convention: " + string(convention)}
	}
}

func inclusiveDays(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

// GeneratePeriods partitions the origination-to-maturity span into ordered,
// non-overlapping accrual periods. Period 1 runs from origination to the
// period-end date of origination's month; each middle period starts the day
// after the previous one ends and runs to its month's period-end date; the
// final period is truncated to the maturity date. A loan starting and
// maturing in the same month yields a single period ending at maturity.
//
// Under last_business_day a month's period end can precede its calendar end
// (the trailing days fall on a weekend or holiday). Those days accrue into
// the next period, so the next period's end is taken from the following
// month. Every calendar day between origination and maturity lands in
// exactly one period.
func GeneratePeriods(origination, maturity time.Time, holidays calendar.HolidaySet, convention models.PeriodEndConvention) ([]models.Period, error) {
	firstEnd, err := periodEndDate(origination.Year(), origination.Month(), holidays, convention)
	if err != nil {
		return nil, err
	}

	if origination.Year() == maturity.Year() && origination.Month() == maturity.Month() {
		return []models.Period{{
			PeriodNumber:   1,
			StartDate:      origination,
			EndDate:        maturity,
			PaymentDueDate: maturity,
			Days:           inclusiveDays(origination, maturity),
		}}, nil
	}

	if firstEnd.Before(origination) {
		// Origination falls in its month's weekend/holiday tail, after the
		// period end. The first period accrues through the next month.
		next := calendar.Date(origination.Year(), origination.Month()+1, 1)
		if next.Year() == maturity.Year() && next.Month() == maturity.Month() {
			return []models.Period{{
				PeriodNumber:   1,
				StartDate:      origination,
				EndDate:        maturity,
				PaymentDueDate: maturity,
				Days:           inclusiveDays(origination, maturity),
			}}, nil
		}
		firstEnd, err = periodEndDate(next.Year(), next.Month(), holidays, convention)
		if err != nil {
			return nil, err
		}
	}

	periods := []models.Period{{
		PeriodNumber:   1,
		StartDate:      origination,
		EndDate:        firstEnd,
		PaymentDueDate: firstEnd,
		Days:           inclusiveDays(origination, firstEnd),
	}}

	maturityMonthStart := calendar.Date(maturity.Year(), maturity.Month(), 1)
	currentStart := firstEnd.AddDate(0, 0, 1)
	for currentStart.Before(maturityMonthStart) {
		currentEnd, err := periodEndDate(currentStart.Year(), currentStart.Month(), holidays, convention)
		if err != nil {
			return nil, err
		}
		if currentEnd.Before(currentStart) {
			// The start sits in its month's weekend/holiday tail, past the
			// period end already. The period accrues through the next month.
			next := calendar.Date(currentStart.Year(), currentStart.Month()+1, 1)
			if !next.Before(maturityMonthStart) {
				break
			}
			currentEnd, err = periodEndDate(next.Year(), next.Month(), holidays, convention)
			if err != nil {
				return nil, err
			}
		}
		periods = append(periods, models.Period{
			PeriodNumber:   len(periods) + 1,
			StartDate:      currentStart,
			EndDate:        currentEnd,
			PaymentDueDate: currentEnd,
			Days:           inclusiveDays(currentStart, currentEnd),
		})
		currentStart = currentEnd.AddDate(0, 0, 1)
	}

	periods = append(periods, models.Period{
		PeriodNumber:   len(periods) + 1,
		StartDate:      currentStart,
		EndDate:        maturity,
		PaymentDueDate: maturity,
		Days:           inclusiveDays(currentStart, maturity),
	})

	return periods, nil
}
