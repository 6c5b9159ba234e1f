// Package export renders completed schedules as CSV or fixed-width text.
// The engine itself never formats or writes files; these are the consumers of
// its output.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanops/loan-service/internal/models"
)

const dateFormat = "2006-01-02"

var hundred = decimal.NewFromInt(100)

var csvColumns = []string{
	"period_number",
	"start_date",
	"end_date",
	"payment_due_date",
	"days",
	"sofr_reset_date",
	"sofr_rate",
	"effective_rate",
	"interest_owed",
	"prepaid_applied",
	"pik_amount",
	"cash_due",
	"principal_beginning",
	"principal_ending",
}

// WriteScheduleCSV writes a schedule with loan details as comment lines above
// the header row.
func WriteScheduleCSV(w io.Writer, loan *models.Loan, entries []models.ScheduleEntry) error {
	if loan != nil {
		fmt.Fprintf(w, "# Loan ID: %s\n", loan.LoanID)
		fmt.Fprintf(w, "# Borrower: %s\n", loan.Borrower)
		fmt.Fprintf(w, "# Principal: $%s\n", loan.Principal.StringFixed(2))
		fmt.Fprintf(w, "# Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
		fmt.Fprintln(w, "#")
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, e := range entries {
		row := []string{
			fmt.Sprintf("%d", e.PeriodNumber),
			e.StartDate.Format(dateFormat),
			e.EndDate.Format(dateFormat),
			e.PaymentDueDate.Format(dateFormat),
			fmt.Sprintf("%d", e.Days),
			e.SOFRResetDate.Format(dateFormat),
			e.SOFRRate.StringFixed(5),
			e.EffectiveRate.StringFixed(5),
			e.InterestOwed.StringFixed(2),
			e.PrepaidApplied.StringFixed(2),
			e.PIKAmount.StringFixed(2),
			e.CashDue.StringFixed(2),
			e.PrincipalBeginning.StringFixed(2),
			e.PrincipalEnding.StringFixed(2),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteScheduleText writes a schedule as a fixed-width table.
func WriteScheduleText(w io.Writer, loan *models.Loan, entries []models.ScheduleEntry) error {
	if loan != nil {
		fmt.Fprintf(w, "Loan ID: %s\n", loan.LoanID)
		fmt.Fprintf(w, "Borrower: %s\n", loan.Borrower)
		fmt.Fprintf(w, "Principal: $%s\n", loan.Principal.StringFixed(2))
		fmt.Fprintf(w, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))
	}

	header := fmt.Sprintf("%-6s %-12s %-12s %-5s %-12s %-10s %-10s %-14s %-14s %-14s\n",
		"Period", "Start Date", "End Date", "Days", "SOFR Reset", "SOFR %", "Eff %", "Interest", "Cash Due", "Principal End")
	fmt.Fprint(w, header)
	for i := 0; i < len(header)-1; i++ {
		fmt.Fprint(w, "=")
	}
	fmt.Fprintln(w)

	for _, e := range entries {
		fmt.Fprintf(w, "%-6d %-12s %-12s %-5d %-12s %-10s %-10s %-14s %-14s %-14s\n",
			e.PeriodNumber,
			e.StartDate.Format(dateFormat),
			e.EndDate.Format(dateFormat),
			e.Days,
			e.SOFRResetDate.Format(dateFormat),
			e.SOFRRate.Mul(hundred).StringFixed(3),
			e.EffectiveRate.Mul(hundred).StringFixed(3),
			"$"+e.InterestOwed.StringFixed(2),
			"$"+e.CashDue.StringFixed(2),
			"$"+e.PrincipalEnding.StringFixed(2),
		)
	}
	return nil
}

// ExportScheduleCSV writes the CSV rendering to a file.
func ExportScheduleCSV(path string, loan *models.Loan, entries []models.ScheduleEntry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()
	return WriteScheduleCSV(file, loan, entries)
}

// ExportScheduleText writes the text rendering to a file.
func ExportScheduleText(path string, loan *models.Loan, entries []models.ScheduleEntry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()
	return WriteScheduleText(file, loan, entries)
}
