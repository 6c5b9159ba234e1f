package schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanops/loan-service/internal/calendar"
	"github.com/loanops/loan-service/internal/models"
)

// RateTable maps SOFR reset dates to annual index rates, keyed by ISO date.
type RateTable map[string]decimal.Decimal

// NewRateTable builds a rate table from stored observations. Later duplicates
// for the same reset date win, matching the append-only store semantics.
func NewRateTable(observations []models.RateObservation) RateTable {
	table := make(RateTable, len(observations))
	for _, obs := range observations {
		table[obs.ResetDate.Format("2006-01-02")] = obs.Rate
	}
	return table
}

// Lookup returns the index rate fixed on the given reset date.
func (t RateTable) Lookup(resetDate time.Time) (decimal.Decimal, bool) {
	rate, ok := t[resetDate.Format("2006-01-02")]
	return rate, ok
}

// ResetDate returns the date the floating index rate for a period is fixed,
// always 2 business days before the period start.
func ResetDate(periodStart time.Time, holidays calendar.HolidaySet) time.Time {
	return calendar.AddBusinessDays(periodStart, -2, holidays)
}

// EffectiveRate clamps the index rate to [floor, ceiling] and adds the margin.
func EffectiveRate(indexRate, margin, floor, ceiling decimal.Decimal) decimal.Decimal {
	clamped := indexRate
	if clamped.GreaterThan(ceiling) {
		clamped = ceiling
	}
	if clamped.LessThan(floor) {
		clamped = floor
	}
	return margin.Add(clamped)
}
