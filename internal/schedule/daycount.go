package schedule

import (
	"github.com/shopspring/decimal"

	"github.com/loanops/loan-service/internal/models"
)

var (
	days360 = decimal.NewFromInt(360)
	days365 = decimal.NewFromInt(365)
)

// PeriodInterest computes simple interest for a period under the given
// day-count convention: principal x rate x days / basis. The schedule engine
// always accrues on actual/360; the other bases exist as general-purpose
// primitives.
func PeriodInterest(principal, annualRate decimal.Decimal, days int, convention models.DayCountConvention) (decimal.Decimal, error) {
	d := decimal.NewFromInt(int64(days))
	switch convention {
	case models.Actual360, models.Thirty360:
		return principal.Mul(annualRate).Mul(d).Div(days360), nil
	case models.Actual365:
		return principal.Mul(annualRate).Mul(d).Div(days365), nil
	default:
		return decimal.Zero, &ConfigurationError{Reason: "unsupported day count convention: " + string(convention)}
	}
}
