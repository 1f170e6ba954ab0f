package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"loan-engine/internal/api/handler/dto"
	"loan-engine/internal/domain/loan"
	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoanHandler struct {
	service loan.LoanService
	logger  *slog.Logger
}

func NewLoanHandler(s loan.LoanService, l *slog.Logger) *LoanHandler {
	return &LoanHandler{
		service: s,
		logger:  l.With("component", "LoanHandler"),
	}
}

// CreateLoan handles the creation of a loan without going through a request.
//
// @Summary Create a new loan
// @Description Creates an active loan for an existing client. Frequency defaults to biweekly and startDate to today.
// @Tags Loans
// @Accept json
// @Produce json
// @Param request body dto.CreateLoanRequest true "Loan creation request payload"
// @Success 201 {object} dto.LoanResponse "Loan successfully created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload or validation error"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [post]
// @Security BearerAuth
func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}
	in, err := req.ToInput()
	if err != nil {
		respondError(w, err)
		return
	}

	created, err := h.service.CreateLoan(r.Context(), in)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to create loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewLoanResponse(created))
}

// ListLoans lists loans, optionally filtered.
//
// @Summary List loans
// @Tags Loans
// @Produce json
// @Param clientId query string false "Only loans of this client" Format(uuid)
// @Param status query string false "Only loans in this status" Enums(pending, active, completed, delinquent)
// @Success 200 {array} dto.LoanResponse "Loans"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans [get]
// @Security BearerAuth
func (h *LoanHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	var filter loan.ListFilter
	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("clientId")); raw != "" {
		clientID, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, apperrors.NewValidationError("clientId", "clientId must be a valid UUID"))
			return
		}
		filter.ClientID = &clientID
	}
	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status := loan.Status(strings.ToLower(raw))
		if !status.IsValid() {
			respondError(w, apperrors.NewValidationError("status", fmt.Sprintf("unknown loan status %q", raw)))
			return
		}
		filter.Status = &status
	}

	loans, err := h.service.ListLoans(r.Context(), filter)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list loans", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanListResponse(loans))
}

// GetLoan retrieves the details of a specific loan.
//
// @Summary Retrieve loan details
// @Tags Loans
// @Produce json
// @Param loanID path string true "Loan ID" Format(uuid)
// @Success 200 {object} dto.LoanResponse "Loan details successfully retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID} [get]
// @Security BearerAuth
func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuidFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	l, err := h.service.GetLoan(r.Context(), loanID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get loan", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(l))
}

// GetPayments returns the payment ledger of a loan, oldest first.
//
// @Summary List loan payments
// @Tags Loans
// @Produce json
// @Param loanID path string true "Loan ID" Format(uuid)
// @Success 200 {array} dto.PaymentResponse "Payments in the order they were recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/payments [get]
// @Security BearerAuth
func (h *LoanHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuidFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	payments, err := h.service.GetPayments(r.Context(), loanID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to list payments", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewPaymentListResponse(payments))
}

// QuotePayment previews the automatic split of an amount.
//
// @Summary Preview a payment allocation
// @Description Shows how an automatic payment of the given amount would be split between interest and principal. Nothing is recorded.
// @Tags Loans
// @Produce json
// @Param loanID path string true "Loan ID" Format(uuid)
// @Param amount query string true "Payment amount" Example(150.00)
// @Success 200 {object} dto.QuoteResponse "Allocation preview"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID or amount"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/quote [get]
// @Security BearerAuth
func (h *LoanHandler) QuotePayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuidFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	raw := strings.TrimSpace(r.URL.Query().Get("amount"))
	if raw == "" {
		respondError(w, apperrors.NewValidationError("amount", "amount query parameter is required"))
		return
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		respondError(w, apperrors.NewValidationError("amount", "invalid numeric format for amount"))
		return
	}

	alloc, err := h.service.QuotePayment(r.Context(), loanID, amount)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to quote payment", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewQuoteResponse(loanID, amount, alloc))
}

// MakePayment records a payment against a loan.
//
// @Summary Make a loan payment
// @Description Applies a payment. In automatic mode amountTotal is split interest first; in manual mode the caller gives amountInterest and amountPrincipal. Send an Idempotency-Key header to make retries safe.
// @Tags Loans
// @Accept json
// @Produce json
// @Param loanID path string true "Loan ID" Format(uuid)
// @Param Idempotency-Key header string false "Client chosen key for safe retries"
// @Param request body dto.MakePaymentRequest true "Payment request payload"
// @Success 201 {object} dto.MakePaymentResponse "Payment recorded"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID, payload or allocation"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan already completed or idempotency conflict"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/payments [post]
// @Security BearerAuth
func (h *LoanHandler) MakePayment(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuidFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.MakePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err))
		return
	}
	in, err := req.ToInput(loanID)
	if err != nil {
		respondError(w, err)
		return
	}

	res, err := h.service.MakePayment(r.Context(), in)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to apply payment", slog.Any("error", err), slog.String("loanID", loanID.String()))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Payment applied", slog.String("loanID", loanID.String()), slog.String("paymentID", res.Payment.ID.String()))
	respondJSON(w, http.StatusCreated, dto.NewMakePaymentResponse(res))
}

// MarkDelinquent flags an active loan as delinquent.
//
// @Summary Mark a loan delinquent
// @Tags Loans
// @Produce json
// @Param loanID path string true "Loan ID" Format(uuid)
// @Success 200 {object} dto.LoanResponse "Loan after the change"
// @Failure 400 {object} dto.ErrorResponse "Invalid loan ID"
// @Failure 404 {object} dto.ErrorResponse "Loan not found"
// @Failure 409 {object} dto.ErrorResponse "Loan already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /loans/{loanID}/delinquent [post]
// @Security BearerAuth
func (h *LoanHandler) MarkDelinquent(w http.ResponseWriter, r *http.Request) {
	loanID, err := uuidFromURL(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	l, err := h.service.MarkDelinquent(r.Context(), loanID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to mark loan delinquent", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewLoanResponse(l))
}
