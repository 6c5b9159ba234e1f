package schedule

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/loanops/loan-service/internal/calendar"
	"github.com/loanops/loan-service/internal/models"
)

// Inputs are the read-only snapshots a schedule computation consumes. They are
// fully loaded before the per-period fold begins; the engine performs no I/O.
type Inputs struct {
	Rates        RateTable
	PIKElections map[int]bool
	Payments     []models.Payment
}

// Engine computes the interest schedule for one loan. Each invocation owns its
// own state; callers may run engines for different loans in parallel, but one
// schedule is always computed strictly period by period.
type Engine struct {
	loan     models.Loan
	holidays calendar.HolidaySet
	periods  []models.Period
	log      *logrus.Logger
}

// state carries the two running balances threaded through the period fold.
type state struct {
	principal decimal.Decimal
	prepaid   decimal.Decimal
}

// NewEngine validates the loan configuration, builds the holiday set covering
// the loan term and generates the accrual periods. Configuration errors are
// surfaced here, before any schedule math runs.
func NewEngine(loan models.Loan, log *logrus.Logger) (*Engine, error) {
	if err := validate(loan); err != nil {
		return nil, err
	}

	holidays := calendar.HolidaysForYears(loan.OriginationDate.Year(), loan.MaturityDate.Year())
	periods, err := GeneratePeriods(loan.OriginationDate, loan.MaturityDate, holidays, loan.PeriodEndConvention)
	if err != nil {
		return nil, err
	}

	return &Engine{
		loan:     loan,
		holidays: holidays,
		periods:  periods,
		log:      log,
	}, nil
}

func validate(loan models.Loan) error {
	if !loan.OriginationDate.Before(loan.MaturityDate) {
		return &ConfigurationError{Reason: "origination date must be before maturity date"}
	}
	if !loan.Principal.IsPositive() {
		return &ConfigurationError{Reason: "principal must be positive"}
	}
	if loan.SOFRFloor.GreaterThan(loan.SOFRCeiling) {
		return &ConfigurationError{Reason: "SOFR floor exceeds ceiling"}
	}
	if loan.PIKRate.IsNegative() {
		return &ConfigurationError{Reason: "PIK rate must not be negative"}
	}
	if loan.InterestPrepayment.IsNegative() {
		return &ConfigurationError{Reason: "interest prepayment must not be negative"}
	}
	switch loan.PeriodEndConvention {
	case models.LastBusinessDay, models.CalendarMonthEnd:
	default:
		return &ConfigurationError{Reason: "unrecognized period end convention: " + string(loan.PeriodEndConvention)}
	}
	return nil
}

// Periods returns the generated accrual periods.
func (e *Engine) Periods() []models.Period {
	return e.periods
}

// RequiredResetDates derives the SOFR reset dates the schedule needs, one per
// period. Useful as a preflight check before pulling rates.
func (e *Engine) RequiredResetDates() []time.Time {
	dates := make([]time.Time, len(e.periods))
	for i, p := range e.periods {
		dates[i] = ResetDate(p.StartDate, e.holidays)
	}
	return dates
}

// Calculate walks the periods in order, threading the principal and
// prepaid-interest balances forward, and emits one schedule entry per period.
// Missing rates abort the computation before any entry is produced; no partial
// schedule is ever returned.
func (e *Engine) Calculate(in Inputs) ([]models.ScheduleEntry, error) {
	if err := e.checkRates(in.Rates); err != nil {
		return nil, err
	}

	prepayments := make([]models.Payment, 0)
	for _, p := range in.Payments {
		if p.PaymentType == models.PaymentPrincipalPrepayment {
			prepayments = append(prepayments, p)
		}
	}

	st := state{
		principal: e.loan.Principal,
		prepaid:   e.loan.InterestPrepayment,
	}

	entries := make([]models.ScheduleEntry, 0, len(e.periods))
	for _, period := range e.periods {
		next, entry, err := e.step(st, period, in, prepayments)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
		st = next
	}
	return entries, nil
}

func (e *Engine) checkRates(rates RateTable) error {
	var missing []time.Time
	for _, d := range e.RequiredResetDates() {
		if _, ok := rates.Lookup(d); !ok {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		return &MissingRateError{Dates: missing}
	}
	return nil
}

// step computes one period's entry from the incoming state and returns the
// state for the next period. Keeping the transition explicit makes a single
// period testable in isolation from an arbitrary starting balance.
func (e *Engine) step(st state, period models.Period, in Inputs, prepayments []models.Payment) (state, models.ScheduleEntry, error) {
	resetDate := ResetDate(period.StartDate, e.holidays)
	sofrRate, _ := in.Rates.Lookup(resetDate)
	effectiveRate := EffectiveRate(sofrRate, e.loan.Margin, e.loan.SOFRFloor, e.loan.SOFRCeiling)

	interestOwed, principalAfterPrepayment, segments, observed, err := Accrue(
		period.StartDate, period.EndDate, st.principal, effectiveRate, prepayments)
	if err != nil {
		return st, models.ScheduleEntry{}, err
	}

	prepaidStart := st.prepaid
	prepaidApplied := decimal.Min(prepaidStart, interestOwed)
	prepaidEnd := prepaidStart.Sub(prepaidApplied)

	elected := in.PIKElections[period.PeriodNumber]

	// Prepaid interest draws down before PIK capitalization is considered: a
	// non-zero balance at period start blocks PIK regardless of the election.
	pikPermitted := elected && prepaidStart.IsZero()
	if elected && !pikPermitted {
		e.log.WithFields(logrus.Fields{
			"loan_id": e.loan.LoanID,
			"period":  period.PeriodNumber,
		}).Info("PIK election overridden by prepaid interest balance")
	}

	pikAmount := decimal.Zero
	principalEnding := principalAfterPrepayment
	if pikPermitted {
		pikAmount, err = PeriodInterest(interestOwed, e.loan.PIKRate, period.Days, models.Actual360)
		if err != nil {
			return st, models.ScheduleEntry{}, err
		}
		if pikAmount.GreaterThan(interestOwed) {
			e.log.WithFields(logrus.Fields{
				"loan_id":    e.loan.LoanID,
				"period":     period.PeriodNumber,
				"pik_amount": pikAmount,
			}).Warn("PIK amount exceeds interest owed, capping")
			pikAmount = interestOwed
		}
		principalEnding = principalAfterPrepayment.Add(pikAmount)
	}

	cashDue := interestOwed.Sub(prepaidApplied).Sub(pikAmount)

	entry := models.ScheduleEntry{
		Period:              period,
		PrincipalBeginning:  st.principal,
		SOFRResetDate:       resetDate,
		SOFRRate:            sofrRate,
		EffectiveRate:       effectiveRate,
		InterestOwed:        interestOwed,
		PrepaidBalanceStart: prepaidStart,
		PrepaidApplied:      prepaidApplied,
		PrepaidBalanceEnd:   prepaidEnd,
		PIKElected:          pikPermitted,
		PIKRate:             e.loan.PIKRate,
		PIKAmount:           pikAmount,
		CashDue:             cashDue,
		PrincipalEnding:     principalEnding,
		Segments:            segments,
		Prepayments:         observed,
	}

	return state{principal: principalEnding, prepaid: prepaidEnd}, entry, nil
}
