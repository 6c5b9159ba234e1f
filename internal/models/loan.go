package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodEndConvention selects how the end date of an accrual period is resolved.
type PeriodEndConvention string

const (
	LastBusinessDay  PeriodEndConvention = "last_business_day"
	CalendarMonthEnd PeriodEndConvention = "calendar_month_end"
)

// DayCountConvention converts a day span into a fraction of a year.
type DayCountConvention string

const (
	Actual360 DayCountConvention = "actual/360"
	Actual365 DayCountConvention = "actual/365"
	Thirty360 DayCountConvention = "30/360"
)

// Loan represents a floating-rate, interest-only loan indexed to term SOFR.
// The configuration is read-only once a schedule computation starts; all
// derived state lives in the schedule entries.
type Loan struct {
	LoanID              string              `json:"loan_id"`
	Borrower            string              `json:"borrower"`
	Principal           decimal.Decimal     `json:"principal"`
	Margin              decimal.Decimal     `json:"margin"`
	OriginationDate     time.Time           `json:"origination_date"`
	MaturityDate        time.Time           `json:"maturity_date"`
	SOFRFloor           decimal.Decimal     `json:"sofr_floor"`
	SOFRCeiling         decimal.Decimal     `json:"sofr_ceiling"`
	PeriodEndConvention PeriodEndConvention `json:"period_end_convention"`
	PIKRate             decimal.Decimal     `json:"pik_rate"`
	InterestPrepayment  decimal.Decimal     `json:"interest_prepayment"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}
