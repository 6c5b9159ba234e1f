package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is one accrual period of a loan. Periods are contiguous and
// non-overlapping: period k starts the day after period k-1 ends, period 1
// starts at origination and the last period ends exactly at maturity.
type Period struct {
	PeriodNumber   int       `json:"period_number"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	PaymentDueDate time.Time `json:"payment_due_date"`
	Days           int       `json:"days"`
}

// Segment is a sub-interval of a period with a constant principal balance.
// Segments arise only when principal prepayments land inside the period;
// together they partition the period exactly.
type Segment struct {
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	Days      int             `json:"days"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
}
