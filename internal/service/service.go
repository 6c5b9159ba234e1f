package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/loanops/loan-service/internal/config"
	"github.com/loanops/loan-service/internal/models"
	"github.com/loanops/loan-service/internal/schedule"
)

// Store is the persistence contract the service depends on. The Postgres
// repository satisfies all of it; the CSV store covers the rate, election and
// payment subset for file-backed deployments.
type Store interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)

	CreateLoan(loan *models.Loan) error
	FindLoanByID(loanID string) (*models.Loan, error)
	ListLoans() ([]models.Loan, error)

	LoadRates() ([]models.RateObservation, error)
	AddRate(resetDate time.Time, rate decimal.Decimal, source string) error

	LoadPIKElections(loanID string) (map[int]bool, error)
	AddPIKElection(loanID string, periodNumber int, elected bool) error

	LoadPayments(loanID string) ([]models.Payment, error)
	AddPayment(payment models.Payment) (models.Payment, error)
}

// defaultCeiling stands in for "no ceiling" when a loan omits one.
var defaultCeiling = decimal.NewFromInt(1)

// Service handles business logic
type Service struct {
	store  Store
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service
func NewService(store Store, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{store: store, log: log, config: cfg}
}

// Register creates a new user with hashed password
func (s *Service) Register(username, email, password string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Email)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.store.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

// CreateLoan validates and stores a new loan configuration, returning the
// stored loan and its generated accrual periods. Missing optional fields get
// defaults: a generated loan ID, last-business-day period ends and no
// effective SOFR ceiling.
func (s *Service) CreateLoan(loan models.Loan) (*models.Loan, []models.Period, error) {
	if loan.LoanID == "" {
		loan.LoanID = fmt.Sprintf("LOAN-%s", strings.ToUpper(uuid.NewString()[:8]))
	}
	if loan.PeriodEndConvention == "" {
		loan.PeriodEndConvention = models.LastBusinessDay
	}
	if loan.SOFRCeiling.IsZero() {
		loan.SOFRCeiling = defaultCeiling
	}

	engine, err := schedule.NewEngine(loan, s.log)
	if err != nil {
		return nil, nil, err
	}

	if err := s.store.CreateLoan(&loan); err != nil {
		return nil, nil, err
	}

	s.log.Infof("Loan created: %s (%d periods)", loan.LoanID, len(engine.Periods()))
	return &loan, engine.Periods(), nil
}

// GetLoan retrieves a stored loan configuration
func (s *Service) GetLoan(loanID string) (*models.Loan, error) {
	return s.store.FindLoanByID(loanID)
}

// ListLoans retrieves every stored loan configuration
func (s *Service) ListLoans() ([]models.Loan, error) {
	return s.store.ListLoans()
}

// RequiredResetDates returns the SOFR reset dates a loan's schedule needs
func (s *Service) RequiredResetDates(loanID string) ([]time.Time, error) {
	loan, err := s.store.FindLoanByID(loanID)
	if err != nil {
		return nil, err
	}
	engine, err := schedule.NewEngine(*loan, s.log)
	if err != nil {
		return nil, err
	}
	return engine.RequiredResetDates(), nil
}

// AddRate stores a SOFR fixing
func (s *Service) AddRate(resetDate time.Time, rate decimal.Decimal, source string) error {
	return s.store.AddRate(resetDate, rate, source)
}

// ListRates returns all stored SOFR observations
func (s *Service) ListRates() ([]models.RateObservation, error) {
	return s.store.LoadRates()
}

// AddPIKElection records a capitalization election for one loan period
func (s *Service) AddPIKElection(loanID string, periodNumber int, elected bool) error {
	if _, err := s.store.FindLoanByID(loanID); err != nil {
		return err
	}
	return s.store.AddPIKElection(loanID, periodNumber, elected)
}

// RecordPayment stores an interest receipt or principal prepayment
func (s *Service) RecordPayment(payment models.Payment) (models.Payment, error) {
	if _, err := s.store.FindLoanByID(payment.LoanID); err != nil {
		return models.Payment{}, err
	}
	switch payment.PaymentType {
	case models.PaymentInterest, models.PaymentPrincipalPrepayment:
	default:
		return models.Payment{}, fmt.Errorf("unknown payment type: %s", payment.PaymentType)
	}
	if !payment.Amount.IsPositive() {
		return models.Payment{}, fmt.Errorf("payment amount must be positive")
	}
	return s.store.AddPayment(payment)
}

// CalculateSchedule loads a loan's stored inputs as read-only snapshots and
// runs the schedule engine. With reconcile set, recorded interest receipts
// are compared against each period's cash due and the entries annotated.
func (s *Service) CalculateSchedule(loanID string, reconcile bool) ([]models.ScheduleEntry, error) {
	loan, err := s.store.FindLoanByID(loanID)
	if err != nil {
		return nil, err
	}

	engine, err := schedule.NewEngine(*loan, s.log)
	if err != nil {
		return nil, err
	}

	observations, err := s.store.LoadRates()
	if err != nil {
		return nil, err
	}
	elections, err := s.store.LoadPIKElections(loanID)
	if err != nil {
		return nil, err
	}
	payments, err := s.store.LoadPayments(loanID)
	if err != nil {
		return nil, err
	}

	entries, err := engine.Calculate(schedule.Inputs{
		Rates:        schedule.NewRateTable(observations),
		PIKElections: elections,
		Payments:     payments,
	})
	if err != nil {
		return nil, err
	}

	if reconcile {
		entries = schedule.Reconcile(entries, payments, time.Now().UTC())
	}
	return entries, nil
}

// PastDueEntries returns the reconciled entries of a loan that are past due,
// used by the nightly reminder job.
func (s *Service) PastDueEntries(loanID string) ([]models.ScheduleEntry, error) {
	entries, err := s.CalculateSchedule(loanID, true)
	if err != nil {
		return nil, err
	}
	var pastDue []models.ScheduleEntry
	for _, e := range entries {
		if e.DaysPastDue > 0 {
			pastDue = append(pastDue, e)
		}
	}
	return pastDue, nil
}
