package repository

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanops/loan-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO loans.users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM loans.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateLoan stores a new loan configuration
func (r *Repository) CreateLoan(loan *models.Loan) error {
	query := `
		INSERT INTO loans.loans (loan_id, borrower, principal, margin, origination_date, maturity_date,
			sofr_floor, sofr_ceiling, period_end_convention, pik_rate, interest_prepayment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRow(query,
		loan.LoanID, loan.Borrower, loan.Principal, loan.Margin,
		loan.OriginationDate, loan.MaturityDate,
		loan.SOFRFloor, loan.SOFRCeiling, string(loan.PeriodEndConvention),
		loan.PIKRate, loan.InterestPrepayment).
		Scan(&loan.CreatedAt, &loan.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create loan: %w", err)
	}
	return nil
}

// FindLoanByID retrieves a loan configuration by its identifier
func (r *Repository) FindLoanByID(loanID string) (*models.Loan, error) {
	loan := &models.Loan{}
	var convention string
	query := `
		SELECT loan_id, borrower, principal, margin, origination_date, maturity_date,
			sofr_floor, sofr_ceiling, period_end_convention, pik_rate, interest_prepayment,
			created_at, updated_at
		FROM loans.loans
		WHERE loan_id = $1`
	err := r.db.QueryRow(query, loanID).Scan(
		&loan.LoanID, &loan.Borrower, &loan.Principal, &loan.Margin,
		&loan.OriginationDate, &loan.MaturityDate,
		&loan.SOFRFloor, &loan.SOFRCeiling, &convention,
		&loan.PIKRate, &loan.InterestPrepayment,
		&loan.CreatedAt, &loan.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("loan not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find loan: %w", err)
	}
	loan.PeriodEndConvention = models.PeriodEndConvention(convention)
	return loan, nil
}

// ListLoans retrieves every stored loan configuration
func (r *Repository) ListLoans() ([]models.Loan, error) {
	query := `
		SELECT loan_id, borrower, principal, margin, origination_date, maturity_date,
			sofr_floor, sofr_ceiling, period_end_convention, pik_rate, interest_prepayment,
			created_at, updated_at
		FROM loans.loans
		ORDER BY loan_id`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var result []models.Loan
	for rows.Next() {
		var loan models.Loan
		var convention string
		if err := rows.Scan(
			&loan.LoanID, &loan.Borrower, &loan.Principal, &loan.Margin,
			&loan.OriginationDate, &loan.MaturityDate,
			&loan.SOFRFloor, &loan.SOFRCeiling, &convention,
			&loan.PIKRate, &loan.InterestPrepayment,
			&loan.CreatedAt, &loan.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loan.PeriodEndConvention = models.PeriodEndConvention(convention)
		result = append(result, loan)
	}
	return result, rows.Err()
}

// LoadRates reads every stored SOFR observation
func (r *Repository) LoadRates() ([]models.RateObservation, error) {
	query := `
		SELECT reset_date, term_sofr_1m, source, date_added
		FROM loans.sofr_rates
		ORDER BY date_added, reset_date`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to load rates: %w", err)
	}
	defer rows.Close()

	var observations []models.RateObservation
	for rows.Next() {
		var obs models.RateObservation
		if err := rows.Scan(&obs.ResetDate, &obs.Rate, &obs.Source, &obs.DateAdded); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}
		observations = append(observations, obs)
	}
	return observations, rows.Err()
}

// AddRate appends a SOFR fixing
func (r *Repository) AddRate(resetDate time.Time, rate decimal.Decimal, source string) error {
	query := `
		INSERT INTO loans.sofr_rates (reset_date, term_sofr_1m, source, date_added)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)`
	if _, err := r.db.Exec(query, resetDate, rate, source); err != nil {
		return fmt.Errorf("failed to add rate: %w", err)
	}
	return nil
}

// LoadPIKElections reads the PIK elections for one loan; the latest row for a
// period wins
func (r *Repository) LoadPIKElections(loanID string) (map[int]bool, error) {
	query := `
		SELECT period_number, pik_elected
		FROM loans.pik_elections
		WHERE loan_id = $1
		ORDER BY date_added`
	rows, err := r.db.Query(query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load PIK elections: %w", err)
	}
	defer rows.Close()

	elections := make(map[int]bool)
	for rows.Next() {
		var period int
		var elected bool
		if err := rows.Scan(&period, &elected); err != nil {
			return nil, fmt.Errorf("failed to scan PIK election: %w", err)
		}
		elections[period] = elected
	}
	return elections, rows.Err()
}

// AddPIKElection records an election for one loan period
func (r *Repository) AddPIKElection(loanID string, periodNumber int, elected bool) error {
	query := `
		INSERT INTO loans.pik_elections (loan_id, period_number, pik_elected, date_added)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)`
	if _, err := r.db.Exec(query, loanID, periodNumber, elected); err != nil {
		return fmt.Errorf("failed to add PIK election: %w", err)
	}
	return nil
}

// LoadPayments reads every recorded payment for one loan
func (r *Repository) LoadPayments(loanID string) ([]models.Payment, error) {
	query := `
		SELECT payment_id, loan_id, payment_date, amount, payment_type, period_number, notes
		FROM loans.payments
		WHERE loan_id = $1
		ORDER BY payment_date, payment_id`
	rows, err := r.db.Query(query, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		var paymentType string
		if err := rows.Scan(&p.PaymentID, &p.LoanID, &p.PaymentDate, &p.Amount,
			&paymentType, &p.PeriodNumber, &p.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.PaymentType = models.PaymentType(paymentType)
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// AddPayment records a new payment with a sequential {loan_id}-PAY-NNN ID
func (r *Repository) AddPayment(payment models.Payment) (models.Payment, error) {
	existing, err := r.LoadPayments(payment.LoanID)
	if err != nil {
		return models.Payment{}, err
	}
	next := 1
	for _, p := range existing {
		parts := strings.Split(p.PaymentID, "-PAY-")
		if len(parts) != 2 {
			continue
		}
		if n, err := strconv.Atoi(parts[1]); err == nil && n >= next {
			next = n + 1
		}
	}
	payment.PaymentID = fmt.Sprintf("%s-PAY-%03d", payment.LoanID, next)

	query := `
		INSERT INTO loans.payments (payment_id, loan_id, payment_date, amount, payment_type, period_number, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.Exec(query, payment.PaymentID, payment.LoanID, payment.PaymentDate,
		payment.Amount, string(payment.PaymentType), payment.PeriodNumber, payment.Notes); err != nil {
		return models.Payment{}, fmt.Errorf("failed to add payment: %w", err)
	}
	return payment, nil
}
