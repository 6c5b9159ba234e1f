// loanctl works against plain CSV files on disk, without the API server or a
// database. It covers the day-to-day servicing loop: create a loan, load SOFR
// fixings, record elections and payments, and export the schedule.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/loanops/loan-service/internal/export"
	"github.com/loanops/loan-service/internal/models"
	"github.com/loanops/loan-service/internal/schedule"
	"github.com/loanops/loan-service/internal/store/csvstore"
)

const dateFormat = "2006-01-02"

var hundred = decimal.NewFromInt(100)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logger.SetLevel(logrus.WarnLevel)

	var err error
	switch os.Args[1] {
	case "create":
		err = createCommand(os.Args[2:], logger)
	case "add-rate":
		err = addRateCommand(os.Args[2:], logger)
	case "list-rates":
		err = listRatesCommand(os.Args[2:], logger)
	case "pik-elect":
		err = pikElectCommand(os.Args[2:], logger)
	case "add-payment":
		err = addPaymentCommand(os.Args[2:], logger)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: loanctl <command> [flags]")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  create       Create a loan and export its interest schedule")
	fmt.Fprintln(os.Stderr, "  add-rate     Record a SOFR fixing")
	fmt.Fprintln(os.Stderr, "  list-rates   List stored SOFR fixings")
	fmt.Fprintln(os.Stderr, "  pik-elect    Record a PIK election for a loan period")
	fmt.Fprintln(os.Stderr, "  add-payment  Record an interest receipt or principal prepayment")
}

// percent converts a whole-percentage flag value (4.5 means 4.5%) to a rate.
func percent(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Div(hundred)
}

func createCommand(args []string, logger *logrus.Logger) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	loanID := fs.String("loan-id", "", "Unique loan identifier")
	borrower := fs.String("borrower", "", "Borrower name")
	principal := fs.Float64("principal", 0, "Loan amount")
	margin := fs.Float64("margin", 0, "Margin over SOFR (in %)")
	originationDate := fs.String("origination-date", "", "Origination date (YYYY-MM-DD)")
	maturityDate := fs.String("maturity-date", "", "Maturity date (YYYY-MM-DD)")
	floor := fs.Float64("floor", 0, "SOFR floor (in %)")
	ceiling := fs.Float64("ceiling", 100, "SOFR ceiling (in %)")
	convention := fs.String("convention", "last_business_day", "Period end convention (last_business_day or calendar_month_end)")
	pikRate := fs.Float64("pik-rate", 0, "PIK capitalization rate (in %)")
	prepaid := fs.Float64("prepaid", 0, "Interest prepayment held at origination")
	dataDir := fs.String("data-dir", "data", "CSV data directory")
	outputDir := fs.String("output-dir", "output", "Schedule export directory")
	fs.Parse(args)

	origination, err := time.Parse(dateFormat, *originationDate)
	if err != nil {
		return fmt.Errorf("invalid origination date: %w", err)
	}
	maturity, err := time.Parse(dateFormat, *maturityDate)
	if err != nil {
		return fmt.Errorf("invalid maturity date: %w", err)
	}

	loan := models.Loan{
		LoanID:              *loanID,
		Borrower:            *borrower,
		Principal:           decimal.NewFromFloat(*principal),
		Margin:              percent(*margin),
		OriginationDate:     origination,
		MaturityDate:        maturity,
		SOFRFloor:           percent(*floor),
		SOFRCeiling:         percent(*ceiling),
		PeriodEndConvention: models.PeriodEndConvention(*convention),
		PIKRate:             percent(*pikRate),
		InterestPrepayment:  decimal.NewFromFloat(*prepaid),
	}

	engine, err := schedule.NewEngine(loan, logger)
	if err != nil {
		return err
	}

	fmt.Printf("Loan created: %s\n", loan.LoanID)
	fmt.Printf("  Borrower: %s\n", loan.Borrower)
	fmt.Printf("  Principal: $%s\n", loan.Principal.StringFixed(2))
	fmt.Printf("  Periods: %d\n", len(engine.Periods()))

	fmt.Println("\nRequired SOFR reset dates:")
	for _, d := range engine.RequiredResetDates() {
		fmt.Printf("  %s\n", d.Format(dateFormat))
	}

	store := csvstore.NewStore(*dataDir, logger)
	observations, err := store.LoadRates()
	if err != nil {
		return err
	}
	elections, err := store.LoadPIKElections(loan.LoanID)
	if err != nil {
		return err
	}
	payments, err := store.LoadPayments(loan.LoanID)
	if err != nil {
		return err
	}

	entries, err := engine.Calculate(schedule.Inputs{
		Rates:        schedule.NewRateTable(observations),
		PIKElections: elections,
		Payments:     payments,
	})
	if err != nil {
		var missing *schedule.MissingRateError
		if errors.As(err, &missing) {
			fmt.Printf("\nMissing %d SOFR rates. Add them with:\n", len(missing.Dates))
			fmt.Println("  loanctl add-rate -date <date> -rate <rate>")
			return nil
		}
		return err
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	csvFile := filepath.Join(*outputDir, fmt.Sprintf("%s_schedule.csv", loan.LoanID))
	txtFile := filepath.Join(*outputDir, fmt.Sprintf("%s_schedule.txt", loan.LoanID))
	if err := export.ExportScheduleCSV(csvFile, &loan, entries); err != nil {
		return err
	}
	if err := export.ExportScheduleText(txtFile, &loan, entries); err != nil {
		return err
	}

	totalInterest := decimal.Zero
	for _, e := range entries {
		totalInterest = totalInterest.Add(e.InterestOwed)
	}
	fmt.Println("\nInterest schedule generated:")
	fmt.Printf("  Total interest: $%s\n", totalInterest.StringFixed(2))
	fmt.Printf("  Exported to:\n  - %s\n  - %s\n", csvFile, txtFile)
	return nil
}

func addRateCommand(args []string, logger *logrus.Logger) error {
	fs := flag.NewFlagSet("add-rate", flag.ExitOnError)
	dateStr := fs.String("date", "", "Reset date (YYYY-MM-DD)")
	rate := fs.Float64("rate", 0, "SOFR rate (in %)")
	source := fs.String("source", "manual", "Rate source")
	dataDir := fs.String("data-dir", "data", "CSV data directory")
	fs.Parse(args)

	resetDate, err := time.Parse(dateFormat, *dateStr)
	if err != nil {
		return fmt.Errorf("invalid reset date: %w", err)
	}

	store := csvstore.NewStore(*dataDir, logger)
	if err := store.AddRate(resetDate, percent(*rate), *source); err != nil {
		return err
	}
	fmt.Printf("Added SOFR rate: %s = %.3f%%\n", *dateStr, *rate)
	return nil
}

func listRatesCommand(args []string, logger *logrus.Logger) error {
	fs := flag.NewFlagSet("list-rates", flag.ExitOnError)
	dataDir := fs.String("data-dir", "data", "CSV data directory")
	fs.Parse(args)

	store := csvstore.NewStore(*dataDir, logger)
	observations, err := store.LoadRates()
	if err != nil {
		return err
	}
	if len(observations) == 0 {
		fmt.Println("No SOFR rates found. Add rates with:")
		fmt.Println("  loanctl add-rate -date <date> -rate <rate>")
		return nil
	}

	sort.Slice(observations, func(i, j int) bool {
		return observations[i].ResetDate.Before(observations[j].ResetDate)
	})
	fmt.Printf("Available SOFR rates (%d total):\n\n", len(observations))
	fmt.Printf("%-15s %-10s %s\n", "Date", "Rate", "Source")
	for _, o := range observations {
		fmt.Printf("%-15s %9s%% %s\n", o.ResetDate.Format(dateFormat), o.Rate.Mul(hundred).StringFixed(3), o.Source)
	}
	return nil
}

func pikElectCommand(args []string, logger *logrus.Logger) error {
	fs := flag.NewFlagSet("pik-elect", flag.ExitOnError)
	loanID := fs.String("loan-id", "", "Loan identifier")
	period := fs.Int("period", 0, "Period number")
	elected := fs.Bool("elected", true, "Whether PIK is elected for the period")
	dataDir := fs.String("data-dir", "data", "CSV data directory")
	fs.Parse(args)

	if *loanID == "" || *period <= 0 {
		return fmt.Errorf("loan-id and a positive period are required")
	}

	store := csvstore.NewStore(*dataDir, logger)
	if err := store.AddPIKElection(*loanID, *period, *elected); err != nil {
		return err
	}
	fmt.Printf("Recorded PIK election: %s period %d elected=%t\n", *loanID, *period, *elected)
	return nil
}

func addPaymentCommand(args []string, logger *logrus.Logger) error {
	fs := flag.NewFlagSet("add-payment", flag.ExitOnError)
	loanID := fs.String("loan-id", "", "Loan identifier")
	dateStr := fs.String("date", "", "Payment date (YYYY-MM-DD)")
	amount := fs.Float64("amount", 0, "Payment amount")
	paymentType := fs.String("type", string(models.PaymentInterest), "Payment type (interest or principal_prepayment)")
	period := fs.Int("period", 0, "Period number (interest payments)")
	notes := fs.String("notes", "", "Free-form notes")
	dataDir := fs.String("data-dir", "data", "CSV data directory")
	fs.Parse(args)

	paymentDate, err := time.Parse(dateFormat, *dateStr)
	if err != nil {
		return fmt.Errorf("invalid payment date: %w", err)
	}
	if *loanID == "" {
		return fmt.Errorf("loan-id is required")
	}

	store := csvstore.NewStore(*dataDir, logger)
	payment, err := store.AddPayment(models.Payment{
		LoanID:       *loanID,
		PaymentDate:  paymentDate,
		Amount:       decimal.NewFromFloat(*amount),
		PaymentType:  models.PaymentType(*paymentType),
		PeriodNumber: *period,
		Notes:        *notes,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Recorded payment %s: $%s %s on %s\n", payment.PaymentID, payment.Amount.StringFixed(2), payment.PaymentType, *dateStr)
	return nil
}
