package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanops/loan-service/internal/calendar"
	"github.com/loanops/loan-service/internal/models"
)

func TestPeriodGenerationMidMonthStart(t *testing.T) {
	holidays := calendar.HolidaysForYears(2025, 2025)
	periods, err := GeneratePeriods(
		calendar.Date(2025, time.January, 15),
		calendar.Date(2025, time.March, 31),
		holidays,
		models.LastBusinessDay,
	)
	require.NoError(t, err)
	require.Len(t, periods, 3)

	// First period: Jan 15-31.
	assert.Equal(t, calendar.Date(2025, time.January, 15), periods[0].StartDate)
	assert.Equal(t, calendar.Date(2025, time.January, 31), periods[0].EndDate)
	assert.Equal(t, 17, periods[0].Days)

	// Last period: Mar 1-31, truncated to maturity.
	assert.Equal(t, calendar.Date(2025, time.March, 1), periods[2].StartDate)
	assert.Equal(t, calendar.Date(2025, time.March, 31), periods[2].EndDate)
}

func TestSinglePeriodLoan(t *testing.T) {
	holidays := calendar.HolidaysForYears(2025, 2025)
	periods, err := GeneratePeriods(
		calendar.Date(2025, time.January, 15),
		calendar.Date(2025, time.January, 31),
		holidays,
		models.LastBusinessDay,
	)
	require.NoError(t, err)
	require.Len(t, periods, 1)
	assert.Equal(t, calendar.Date(2025, time.January, 15), periods[0].StartDate)
	assert.Equal(t, calendar.Date(2025, time.January, 31), periods[0].EndDate)
}

func assertContiguousCoverage(t *testing.T, periods []models.Period, origination, maturity time.Time) {
	t.Helper()
	assert.Equal(t, origination, periods[0].StartDate)
	assert.Equal(t, maturity, periods[len(periods)-1].EndDate)

	totalDays := 0
	for i, p := range periods {
		assert.Equal(t, i+1, p.PeriodNumber)
		assert.Equal(t, p.EndDate, p.PaymentDueDate)
		assert.Equal(t, inclusiveDays(p.StartDate, p.EndDate), p.Days)
		assert.Positive(t, p.Days, "period %d must cover at least one day", p.PeriodNumber)
		if i > 0 {
			assert.Equal(t, periods[i-1].EndDate.AddDate(0, 0, 1), p.StartDate,
				"period %d must start the day after period %d ends", p.PeriodNumber, i)
		}
		totalDays += p.Days
	}
	assert.Equal(t, inclusiveDays(origination, maturity), totalDays)
}

func TestPeriodsContiguousAndCoverTerm(t *testing.T) {
	// The 2025-2026 span crosses several months whose last calendar days fall
	// on a weekend (August 2025, January and May 2026).
	origination := calendar.Date(2025, time.January, 15)
	maturity := calendar.Date(2026, time.April, 30)
	holidays := calendar.HolidaysForYears(2025, 2026)

	for _, convention := range []models.PeriodEndConvention{models.CalendarMonthEnd, models.LastBusinessDay} {
		t.Run(string(convention), func(t *testing.T) {
			periods, err := GeneratePeriods(origination, maturity, holidays, convention)
			require.NoError(t, err)
			assertContiguousCoverage(t, periods, origination, maturity)
		})
	}
}

func TestWeekendMonthTailAccruesIntoNextPeriod(t *testing.T) {
	// August 31, 2025 is a Sunday: the month's last business day is Friday the
	// 29th, so the 30th and 31st belong to the period that runs through September.
	holidays := calendar.HolidaysForYears(2025, 2025)
	origination := calendar.Date(2025, time.August, 15)
	maturity := calendar.Date(2025, time.October, 31)

	periods, err := GeneratePeriods(origination, maturity, holidays, models.LastBusinessDay)
	require.NoError(t, err)
	require.Len(t, periods, 3)

	assert.Equal(t, calendar.Date(2025, time.August, 29), periods[0].EndDate)
	assert.Equal(t, calendar.Date(2025, time.August, 30), periods[1].StartDate)
	assert.Equal(t, calendar.Date(2025, time.September, 30), periods[1].EndDate)
	assert.Equal(t, 32, periods[1].Days)
	assert.Equal(t, calendar.Date(2025, time.October, 1), periods[2].StartDate)

	assertContiguousCoverage(t, periods, origination, maturity)

	// When the next month is the maturity month, the tail folds into the
	// final period instead.
	short, err := GeneratePeriods(origination, calendar.Date(2025, time.September, 30), holidays, models.LastBusinessDay)
	require.NoError(t, err)
	require.Len(t, short, 2)
	assert.Equal(t, calendar.Date(2025, time.August, 30), short[1].StartDate)
	assertContiguousCoverage(t, short, origination, calendar.Date(2025, time.September, 30))
}

func TestOriginationInWeekendMonthTail(t *testing.T) {
	// Originating on Saturday August 30, 2025 lands after the month's last
	// business day; the first period accrues through September.
	holidays := calendar.HolidaysForYears(2025, 2025)
	origination := calendar.Date(2025, time.August, 30)

	periods, err := GeneratePeriods(origination, calendar.Date(2025, time.October, 31), holidays, models.LastBusinessDay)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	assert.Equal(t, calendar.Date(2025, time.September, 30), periods[0].EndDate)
	assertContiguousCoverage(t, periods, origination, calendar.Date(2025, time.October, 31))

	// With maturity in the very next month the loan collapses to one period.
	single, err := GeneratePeriods(origination, calendar.Date(2025, time.September, 30), holidays, models.LastBusinessDay)
	require.NoError(t, err)
	require.Len(t, single, 1)
	assertContiguousCoverage(t, single, origination, calendar.Date(2025, time.September, 30))
}

func TestPeriodGenerationUnknownConvention(t *testing.T) {
	_, err := GeneratePeriods(
		calendar.Date(2025, time.January, 15),
		calendar.Date(2025, time.March, 31),
		calendar.HolidaysForYears(2025, 2025),
		models.PeriodEndConvention("quarterly"),
	)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}
