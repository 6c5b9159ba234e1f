package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType distinguishes cash interest receipts from principal paydowns.
type PaymentType string

const (
	PaymentInterest            PaymentType = "interest"
	PaymentPrincipalPrepayment PaymentType = "principal_prepayment"
)

// PaymentStatus classifies how a period's cash due compares to receipts.
type PaymentStatus string

const (
	StatusPaid          PaymentStatus = "Paid"
	StatusPartiallyPaid PaymentStatus = "Partially Paid"
	StatusUnpaid        PaymentStatus = "Unpaid"
)

// Payment is one recorded receipt for a loan. PeriodNumber is zero for
// principal prepayments, which attach to whichever period their date falls in.
type Payment struct {
	PaymentID    string          `json:"payment_id"`
	LoanID       string          `json:"loan_id"`
	PaymentDate  time.Time       `json:"payment_date"`
	Amount       decimal.Decimal `json:"amount"`
	PaymentType  PaymentType     `json:"payment_type"`
	PeriodNumber int             `json:"period_number,omitempty"`
	Notes        string          `json:"notes,omitempty"`
}

// RateObservation is one published term SOFR fixing keyed by its reset date.
type RateObservation struct {
	ResetDate time.Time       `json:"reset_date"`
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source,omitempty"`
	DateAdded time.Time       `json:"date_added,omitempty"`
}

// PIKElection records a borrower's choice to capitalize interest for one period.
type PIKElection struct {
	LoanID       string    `json:"loan_id"`
	PeriodNumber int       `json:"period_number"`
	Elected      bool      `json:"pik_elected"`
	DateAdded    time.Time `json:"date_added,omitempty"`
}
