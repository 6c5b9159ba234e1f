package service

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanops/loan-service/internal/calendar"
	"github.com/loanops/loan-service/internal/config"
	"github.com/loanops/loan-service/internal/models"
	"github.com/loanops/loan-service/internal/schedule"
)

type fakeStore struct {
	users     map[string]*models.User
	loans     map[string]models.Loan
	rates     []models.RateObservation
	elections map[string]map[int]bool
	payments  []models.Payment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[string]*models.User),
		loans:     make(map[string]models.Loan),
		elections: make(map[string]map[int]bool),
	}
}

func (f *fakeStore) CreateUser(user *models.User) error {
	user.ID = int64(len(f.users) + 1)
	f.users[user.Email] = user
	return nil
}

func (f *fakeStore) FindUserByEmail(email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return user, nil
}

func (f *fakeStore) CreateLoan(loan *models.Loan) error {
	f.loans[loan.LoanID] = *loan
	return nil
}

func (f *fakeStore) FindLoanByID(loanID string) (*models.Loan, error) {
	loan, ok := f.loans[loanID]
	if !ok {
		return nil, fmt.Errorf("loan not found: %s", loanID)
	}
	return &loan, nil
}

func (f *fakeStore) ListLoans() ([]models.Loan, error) {
	loans := make([]models.Loan, 0, len(f.loans))
	for _, l := range f.loans {
		loans = append(loans, l)
	}
	return loans, nil
}

func (f *fakeStore) LoadRates() ([]models.RateObservation, error) {
	return f.rates, nil
}

func (f *fakeStore) AddRate(resetDate time.Time, rate decimal.Decimal, source string) error {
	f.rates = append(f.rates, models.RateObservation{ResetDate: resetDate, Rate: rate, Source: source})
	return nil
}

func (f *fakeStore) LoadPIKElections(loanID string) (map[int]bool, error) {
	return f.elections[loanID], nil
}

func (f *fakeStore) AddPIKElection(loanID string, periodNumber int, elected bool) error {
	if f.elections[loanID] == nil {
		f.elections[loanID] = make(map[int]bool)
	}
	f.elections[loanID][periodNumber] = elected
	return nil
}

func (f *fakeStore) LoadPayments(loanID string) ([]models.Payment, error) {
	var out []models.Payment
	for _, p := range f.payments {
		if p.LoanID == loanID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) AddPayment(payment models.Payment) (models.Payment, error) {
	payment.PaymentID = fmt.Sprintf("%s-PAY-%03d", payment.LoanID, len(f.payments)+1)
	f.payments = append(f.payments, payment)
	return payment, nil
}

func newTestService(store Store) *Service {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewService(store, log, &config.Config{JWTSecret: "test-secret"})
}

func validLoan() models.Loan {
	return models.Loan{
		Borrower:        "Acme Corp",
		Principal:       decimal.RequireFromString("1000000"),
		Margin:          decimal.RequireFromString("0.025"),
		OriginationDate: calendar.Date(2025, time.January, 15),
		MaturityDate:    calendar.Date(2025, time.March, 31),
	}
}

func TestCreateLoanAppliesDefaults(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)

	loan, periods, err := svc.CreateLoan(validLoan())
	require.NoError(t, err)

	assert.Regexp(t, `^LOAN-[0-9A-F]{8}$`, loan.LoanID)
	assert.Equal(t, models.LastBusinessDay, loan.PeriodEndConvention)
	assert.True(t, loan.SOFRCeiling.Equal(decimal.NewFromInt(1)))
	assert.Len(t, periods, 3)

	stored, err := store.FindLoanByID(loan.LoanID)
	require.NoError(t, err)
	assert.Equal(t, loan.LoanID, stored.LoanID)
}

func TestCreateLoanRejectsInvalidConfiguration(t *testing.T) {
	svc := newTestService(newFakeStore())

	bad := validLoan()
	bad.MaturityDate = bad.OriginationDate.AddDate(0, -1, 0)
	_, _, err := svc.CreateLoan(bad)

	var cfgErr *schedule.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestRecordPaymentValidation(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	loan, _, err := svc.CreateLoan(validLoan())
	require.NoError(t, err)

	_, err = svc.RecordPayment(models.Payment{
		LoanID:      loan.LoanID,
		PaymentDate: calendar.Date(2025, time.January, 31),
		Amount:      decimal.RequireFromString("100"),
		PaymentType: "refund",
	})
	assert.ErrorContains(t, err, "unknown payment type")

	_, err = svc.RecordPayment(models.Payment{
		LoanID:      loan.LoanID,
		PaymentDate: calendar.Date(2025, time.January, 31),
		Amount:      decimal.Zero,
		PaymentType: models.PaymentInterest,
	})
	assert.ErrorContains(t, err, "must be positive")

	_, err = svc.RecordPayment(models.Payment{
		LoanID:      "LOAN-MISSING",
		PaymentDate: calendar.Date(2025, time.January, 31),
		Amount:      decimal.RequireFromString("100"),
		PaymentType: models.PaymentInterest,
	})
	assert.ErrorContains(t, err, "not found")

	payment, err := svc.RecordPayment(models.Payment{
		LoanID:       loan.LoanID,
		PaymentDate:  calendar.Date(2025, time.January, 31),
		Amount:       decimal.RequireFromString("3305.56"),
		PaymentType:  models.PaymentInterest,
		PeriodNumber: 1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, payment.PaymentID)
}

func TestCalculateScheduleUsesStoredInputs(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	loan, _, err := svc.CreateLoan(validLoan())
	require.NoError(t, err)

	dates, err := svc.RequiredResetDates(loan.LoanID)
	require.NoError(t, err)
	for _, d := range dates {
		require.NoError(t, svc.AddRate(d, decimal.RequireFromString("0.0450"), "test"))
	}

	entries, err := svc.CalculateSchedule(loan.LoanID, false)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.True(t, entries[0].EffectiveRate.Equal(decimal.RequireFromString("0.0700")))
}

func TestCalculateScheduleMissingRates(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store)
	loan, _, err := svc.CreateLoan(validLoan())
	require.NoError(t, err)

	_, err = svc.CalculateSchedule(loan.LoanID, false)
	var missing *schedule.MissingRateError
	require.ErrorAs(t, err, &missing)
	assert.Len(t, missing.Dates, 3)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(newFakeStore())

	user, err := svc.Register("analyst", "analyst@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	token, err := svc.Login("analyst@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.Login("analyst@example.com", "wrong")
	assert.Error(t, err)
}
