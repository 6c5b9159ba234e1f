package csvstore

import (
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanops/loan-service/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewStore(t.TempDir(), log)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMissingFilesReadAsEmpty(t *testing.T) {
	store := newTestStore(t)

	rates, err := store.LoadRates()
	require.NoError(t, err)
	assert.Empty(t, rates)

	elections, err := store.LoadPIKElections("LOAN-001")
	require.NoError(t, err)
	assert.Empty(t, elections)

	payments, err := store.LoadPayments("LOAN-001")
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestRateRoundTrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AddRate(date(2025, time.January, 13), decimal.RequireFromString("0.045"), "CME"))
	require.NoError(t, store.AddRate(date(2025, time.January, 30), decimal.RequireFromString("0.0455"), "CME"))

	rates, err := store.LoadRates()
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, date(2025, time.January, 13), rates[0].ResetDate)
	assert.True(t, rates[0].Rate.Equal(decimal.RequireFromString("0.045")))
	assert.Equal(t, "CME", rates[0].Source)
}

func TestDuplicateRateAppends(t *testing.T) {
	store := newTestStore(t)
	day := date(2025, time.January, 13)

	require.NoError(t, store.AddRate(day, decimal.RequireFromString("0.045"), "CME"))
	require.NoError(t, store.AddRate(day, decimal.RequireFromString("0.046"), "CME"))

	rates, err := store.LoadRates()
	require.NoError(t, err)
	require.Len(t, rates, 2)
	// The later row wins when the observations are folded into a rate table.
	assert.True(t, rates[1].Rate.Equal(decimal.RequireFromString("0.046")))
}

func TestPIKElectionsScopedToLoan(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.AddPIKElection("LOAN-001", 1, true))
	require.NoError(t, store.AddPIKElection("LOAN-001", 2, false))
	require.NoError(t, store.AddPIKElection("LOAN-002", 1, false))

	elections, err := store.LoadPIKElections("LOAN-001")
	require.NoError(t, err)
	assert.Equal(t, map[int]bool{1: true, 2: false}, elections)
}

func TestPaymentIDsAreSequential(t *testing.T) {
	store := newTestStore(t)

	first, err := store.AddPayment(models.Payment{
		LoanID:      "LOAN-001",
		PaymentDate: date(2025, time.February, 15),
		Amount:      decimal.RequireFromString("100000"),
		PaymentType: models.PaymentPrincipalPrepayment,
	})
	require.NoError(t, err)
	assert.Equal(t, "LOAN-001-PAY-001", first.PaymentID)

	second, err := store.AddPayment(models.Payment{
		LoanID:       "LOAN-001",
		PaymentDate:  date(2025, time.February, 28),
		Amount:       decimal.RequireFromString("5833.33"),
		PaymentType:  models.PaymentInterest,
		PeriodNumber: 2,
		Notes:        "Period 2 payment",
	})
	require.NoError(t, err)
	assert.Equal(t, "LOAN-001-PAY-002", second.PaymentID)

	payments, err := store.LoadPayments("LOAN-001")
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, 0, payments[0].PeriodNumber)
	assert.Equal(t, 2, payments[1].PeriodNumber)
	assert.Equal(t, "Period 2 payment", payments[1].Notes)
}
