package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/loanops/loan-service/internal/models"
	"github.com/loanops/loan-service/internal/schedule"
	"github.com/loanops/loan-service/internal/service"
)

const dateFormat = "2006-01-02"

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var cfgErr *schedule.ConfigurationError
	var missingErr *schedule.MissingRateError
	switch {
	case errors.As(err, &cfgErr):
		status = http.StatusBadRequest
	case errors.As(err, &missingErr):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.svc.Register(req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

type createLoanRequest struct {
	LoanID              string          `json:"loan_id"`
	Borrower            string          `json:"borrower"`
	Principal           decimal.Decimal `json:"principal"`
	Margin              decimal.Decimal `json:"margin"`
	OriginationDate     string          `json:"origination_date"`
	MaturityDate        string          `json:"maturity_date"`
	SOFRFloor           decimal.Decimal `json:"sofr_floor"`
	SOFRCeiling         decimal.Decimal `json:"sofr_ceiling"`
	PeriodEndConvention string          `json:"period_end_convention"`
	PIKRate             decimal.Decimal `json:"pik_rate"`
	InterestPrepayment  decimal.Decimal `json:"interest_prepayment"`
}

// CreateLoan handles loan creation
func (h *Handler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req createLoanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	origination, err := time.Parse(dateFormat, req.OriginationDate)
	if err != nil {
		http.Error(w, "Invalid origination date", http.StatusBadRequest)
		return
	}
	maturity, err := time.Parse(dateFormat, req.MaturityDate)
	if err != nil {
		http.Error(w, "Invalid maturity date", http.StatusBadRequest)
		return
	}

	loan, periods, err := h.svc.CreateLoan(models.Loan{
		LoanID:              req.LoanID,
		Borrower:            req.Borrower,
		Principal:           req.Principal,
		Margin:              req.Margin,
		OriginationDate:     origination,
		MaturityDate:        maturity,
		SOFRFloor:           req.SOFRFloor,
		SOFRCeiling:         req.SOFRCeiling,
		PeriodEndConvention: models.PeriodEndConvention(req.PeriodEndConvention),
		PIKRate:             req.PIKRate,
		InterestPrepayment:  req.InterestPrepayment,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"loan":    loan,
		"periods": periods,
	})
}

// ListLoans returns every stored loan
func (h *Handler) ListLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.svc.ListLoans()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loans)
}

// GetLoan returns one loan configuration
func (h *Handler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.svc.GetLoan(mux.Vars(r)["loanID"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, loan)
}

// GetSchedule computes and returns a loan's interest schedule
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	reconcile := r.URL.Query().Get("reconcile") == "true"
	entries, err := h.svc.CalculateSchedule(mux.Vars(r)["loanID"], reconcile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// GetResetDates returns the SOFR reset dates a loan's schedule requires
func (h *Handler) GetResetDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.svc.RequiredResetDates(mux.Vars(r)["loanID"])
	if err != nil {
		writeError(w, err)
		return
	}
	formatted := make([]string, len(dates))
	for i, d := range dates {
		formatted[i] = d.Format(dateFormat)
	}
	writeJSON(w, http.StatusOK, formatted)
}

// AddRate stores a SOFR fixing
func (h *Handler) AddRate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ResetDate string          `json:"reset_date"`
		Rate      decimal.Decimal `json:"rate"`
		Source    string          `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	resetDate, err := time.Parse(dateFormat, req.ResetDate)
	if err != nil {
		http.Error(w, "Invalid reset date", http.StatusBadRequest)
		return
	}
	if req.Source == "" {
		req.Source = "CME"
	}
	if err := h.svc.AddRate(resetDate, req.Rate, req.Source); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// ListRates returns all stored SOFR observations
func (h *Handler) ListRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.svc.ListRates()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

// AddPIKElection records a capitalization election
func (h *Handler) AddPIKElection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PeriodNumber int  `json:"period_number"`
		PIKElected   bool `json:"pik_elected"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.svc.AddPIKElection(mux.Vars(r)["loanID"], req.PeriodNumber, req.PIKElected); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// AddPayment records an interest receipt or principal prepayment
func (h *Handler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentDate  string          `json:"payment_date"`
		Amount       decimal.Decimal `json:"amount"`
		PaymentType  string          `json:"payment_type"`
		PeriodNumber int             `json:"period_number"`
		Notes        string          `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	paymentDate, err := time.Parse(dateFormat, req.PaymentDate)
	if err != nil {
		http.Error(w, "Invalid payment date", http.StatusBadRequest)
		return
	}

	payment, err := h.svc.RecordPayment(models.Payment{
		LoanID:       mux.Vars(r)["loanID"],
		PaymentDate:  paymentDate,
		Amount:       req.Amount,
		PaymentType:  models.PaymentType(req.PaymentType),
		PeriodNumber: req.PeriodNumber,
		Notes:        req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}
