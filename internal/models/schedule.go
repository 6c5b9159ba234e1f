package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleEntry is the engine's output for one accrual period. Entries are
// immutable once emitted; the reconciler's annotation pass only fills the
// payment-status fields.
//
// Invariants across a schedule: PrincipalEnding of entry k equals
// PrincipalBeginning of entry k+1, PrepaidBalanceEnd of k equals
// PrepaidBalanceStart of k+1, and for every entry
// InterestOwed == PrepaidApplied + PIKAmount + CashDue.
type ScheduleEntry struct {
	Period

	PrincipalBeginning decimal.Decimal `json:"principal_beginning"`
	SOFRResetDate      time.Time       `json:"sofr_reset_date"`
	SOFRRate           decimal.Decimal `json:"sofr_rate"`
	EffectiveRate      decimal.Decimal `json:"effective_rate"`
	InterestOwed       decimal.Decimal `json:"interest_owed"`

	PrepaidBalanceStart decimal.Decimal `json:"prepaid_balance_start"`
	PrepaidApplied      decimal.Decimal `json:"prepaid_applied"`
	PrepaidBalanceEnd   decimal.Decimal `json:"prepaid_balance_end"`

	PIKElected bool            `json:"pik_elected"`
	PIKRate    decimal.Decimal `json:"pik_rate"`
	PIKAmount  decimal.Decimal `json:"pik_amount"`

	CashDue         decimal.Decimal `json:"cash_due"`
	PrincipalEnding decimal.Decimal `json:"principal_ending"`

	Segments    []Segment `json:"segments,omitempty"`
	Prepayments []Payment `json:"prepayments,omitempty"`

	// Reconciliation annotations, set by the payment reconciler pass.
	PaymentStatus PaymentStatus   `json:"payment_status,omitempty"`
	AmountPaid    decimal.Decimal `json:"amount_paid,omitempty"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	DaysPastDue   int             `json:"days_past_due,omitempty"`
}
