package csvstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanops/loan-service/internal/models"
)

var paymentsHeader = []string{"payment_id", "loan_id", "payment_date", "amount", "payment_type", "period_number", "notes"}

// LoadPayments reads every recorded payment for one loan.
func (s *Store) LoadPayments(loanID string) ([]models.Payment, error) {
	rows, err := s.readAll(paymentsFile)
	if err != nil {
		return nil, err
	}

	payments := make([]models.Payment, 0)
	for _, row := range rows {
		if len(row) < 7 || row[1] != loanID {
			continue
		}
		paymentDate, err := time.Parse(dateFormat, row[2])
		if err != nil {
			return nil, fmt.Errorf("invalid payment date %q: %w", row[2], err)
		}
		amount, err := decimal.NewFromString(row[3])
		if err != nil {
			return nil, fmt.Errorf("invalid payment amount %q: %w", row[3], err)
		}
		periodNumber := 0
		if row[5] != "" {
			periodNumber, err = strconv.Atoi(row[5])
			if err != nil {
				return nil, fmt.Errorf("invalid period number %q: %w", row[5], err)
			}
		}
		payments = append(payments, models.Payment{
			PaymentID:    row[0],
			LoanID:       loanID,
			PaymentDate:  paymentDate,
			Amount:       amount,
			PaymentType:  models.PaymentType(row[4]),
			PeriodNumber: periodNumber,
			Notes:        row[6],
		})
	}
	return payments, nil
}

// AddPayment records a new payment with a sequential {loan_id}-PAY-NNN ID
// derived from the rows already on file.
func (s *Store) AddPayment(payment models.Payment) (models.Payment, error) {
	existing, err := s.LoadPayments(payment.LoanID)
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

	periodField := ""
	if payment.PeriodNumber > 0 {
		periodField = strconv.Itoa(payment.PeriodNumber)
	}
	row := []string{
		payment.PaymentID,
		payment.LoanID,
		payment.PaymentDate.Format(dateFormat),
		payment.Amount.StringFixed(2),
		string(payment.PaymentType),
		periodField,
		payment.Notes,
	}
	if err := s.appendRow(paymentsFile, paymentsHeader, row); err != nil {
		return models.Payment{}, err
	}
	s.log.Infof("Payment recorded: %s %s on %s", payment.LoanID,
		payment.Amount.StringFixed(2), payment.PaymentDate.Format(dateFormat))
	return payment, nil
}
