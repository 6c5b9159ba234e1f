package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/loanops/loan-service/internal/config"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendPaymentReminder sends an upcoming or past-due interest payment notice
func (s *Sender) SendPaymentReminder(to, borrower, loanID string, dueDate time.Time, cashDue decimal.Decimal, daysPastDue int) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if daysPastDue > 0 {
		e.Subject = fmt.Sprintf("Overdue Interest Payment - %s", loanID)
	} else {
		e.Subject = fmt.Sprintf("Upcoming Interest Payment - %s", loanID)
	}

	body := fmt.Sprintf("Dear %s,\n\n", borrower)
	if daysPastDue > 0 {
		body += fmt.Sprintf(
			"The interest payment of $%s on loan %s was due on %s and is now %d days past due.\n"+
				"Please remit payment as soon as possible.\n",
			cashDue.StringFixed(2), loanID, dueDate.Format("2006-01-02"), daysPastDue,
		)
	} else {
		body += fmt.Sprintf(
			"This is a reminder that an interest payment of $%s on loan %s is due on %s.\n",
			cashDue.StringFixed(2), loanID, dueDate.Format("2006-01-02"),
		)
	}
	body += "\nBest regards,\nLoan Servicing"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
