package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/loanops/loan-service/internal/config"
	"github.com/loanops/loan-service/internal/handler"
	"github.com/loanops/loan-service/internal/integrations/sofr"
	"github.com/loanops/loan-service/internal/middleware"
	"github.com/loanops/loan-service/internal/repository"
	"github.com/loanops/loan-service/internal/service"
	"github.com/loanops/loan-service/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, logger, cfg)
	h := handler.NewHandler(svc)
	sofrClient := sofr.NewClient(cfg, logger)
	sender := email.NewSender(cfg, logger)

	// Nightly job: pull published SOFR fixings, then email past-due notices
	c := cron.New()
	if _, err := c.AddFunc(cfg.CronSpec, func() {
		syncFixings(svc, sofrClient, logger)
		sendPastDueNotices(svc, sender, cfg, logger)
	}); err != nil {
		logger.Fatalf("Failed to schedule nightly job: %v", err)
	}
	c.Start()
	defer c.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// SOFR feed endpoint
	r.HandleFunc("/sofr-fixings", func(w http.ResponseWriter, r *http.Request) {
		fixings, err := sofrClient.FetchFixings()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to fetch fixings: %v", err), http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(fixings)
	}).Methods("GET")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/loans", h.CreateLoan).Methods("POST")
	authRouter.HandleFunc("/loans", h.ListLoans).Methods("GET")
	authRouter.HandleFunc("/loans/{loanID}", h.GetLoan).Methods("GET")
	authRouter.HandleFunc("/loans/{loanID}/schedule", h.GetSchedule).Methods("GET")
	authRouter.HandleFunc("/loans/{loanID}/reset-dates", h.GetResetDates).Methods("GET")
	authRouter.HandleFunc("/loans/{loanID}/pik-elections", h.AddPIKElection).Methods("POST")
	authRouter.HandleFunc("/loans/{loanID}/payments", h.AddPayment).Methods("POST")
	authRouter.HandleFunc("/rates", h.AddRate).Methods("POST")
	authRouter.HandleFunc("/rates", h.ListRates).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}

// syncFixings stores any feed fixings not already on file.
func syncFixings(svc *service.Service, client *sofr.Client, logger *logrus.Logger) {
	fixings, err := client.FetchFixings()
	if err != nil {
		logger.Errorf("SOFR feed sync failed: %v", err)
		return
	}
	for _, f := range fixings {
		if err := svc.AddRate(f.ResetDate, f.Rate, f.Source); err != nil {
			logger.Errorf("Failed to store fixing for %s: %v", f.ResetDate.Format("2006-01-02"), err)
		}
	}
}

// sendPastDueNotices emails the servicing desk for every loan with an overdue
// interest payment.
func sendPastDueNotices(svc *service.Service, sender *email.Sender, cfg *config.Config, logger *logrus.Logger) {
	loans, err := svc.ListLoans()
	if err != nil {
		logger.Errorf("Failed to list loans for past-due check: %v", err)
		return
	}
	for _, loan := range loans {
		entries, err := svc.PastDueEntries(loan.LoanID)
		if err != nil {
			logger.Errorf("Past-due check failed for %s: %v", loan.LoanID, err)
			continue
		}
		for _, e := range entries {
			if err := sender.SendPaymentReminder(cfg.OpsEmail, loan.Borrower, loan.LoanID, e.PaymentDueDate, e.CashDue, e.DaysPastDue); err != nil {
				logger.Errorf("Failed to send past-due notice for %s period %d: %v", loan.LoanID, e.PeriodNumber, err)
			}
		}
	}
}
