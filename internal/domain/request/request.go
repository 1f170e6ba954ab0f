package request

import (
	"fmt"
	"strings"
	"time"

	"loan-engine/internal/domain/loan"
	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type LoanRequest struct {
	ID                 uuid.UUID
	ClientID           uuid.UUID
	ApplicantName      string
	Phone              string
	Email              string
	Address            string
	Occupation         string
	MonthlyIncome      loan.Money
	Purpose            string
	AmountRequested    loan.Money
	FrequencyRequested loan.Frequency
	Status             Status
	Observations       string
	DecidedBy          string
	DecidedAt          *time.Time
	LoanID             *uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type SubmitInput struct {
	ClientID           uuid.UUID
	ApplicantName      string
	Phone              string
	Email              string
	Address            string
	Occupation         string
	MonthlyIncome      loan.Money
	Purpose            string
	AmountRequested    loan.Money
	FrequencyRequested loan.Frequency
}

// Terms are the operator chosen conditions of an approval. An empty
// Frequency means the frequency the applicant asked for.
type Terms struct {
	PrincipalApproved loan.Money
	RatePercent       loan.Money
	Frequency         loan.Frequency
	Observations      string
}

// Limits bound what an operator may approve.
type Limits struct {
	MaxApprovalRatio decimal.Decimal
	MaxInterestRate  decimal.Decimal
}

func DefaultLimits() Limits {
	return Limits{
		MaxApprovalRatio: decimal.RequireFromString("1.2"),
		MaxInterestRate:  loan.MaxInterestRatePercent,
	}
}

// ParseLimits reads limits from their configured string form. Blank values keep the defaults.
func ParseLimits(maxApprovalRatio, maxInterestRate string) (Limits, error) {
	limits := DefaultLimits()
	if strings.TrimSpace(maxApprovalRatio) != "" {
		ratio, err := decimal.NewFromString(maxApprovalRatio)
		if err != nil || !ratio.IsPositive() {
			return Limits{}, fmt.Errorf("invalid max approval ratio %q", maxApprovalRatio)
		}
		limits.MaxApprovalRatio = ratio
	}
	if strings.TrimSpace(maxInterestRate) != "" {
		rate, err := decimal.NewFromString(maxInterestRate)
		if err != nil || !rate.IsPositive() || rate.GreaterThan(loan.MaxInterestRatePercent) {
			return Limits{}, fmt.Errorf("invalid max interest rate %q", maxInterestRate)
		}
		limits.MaxInterestRate = rate
	}
	return limits, nil
}

func NewLoanRequest(in SubmitInput, now time.Time) (*LoanRequest, error) {
	if in.ClientID == uuid.Nil {
		return nil, apperrors.NewValidationError("clientId", "client id is required")
	}
	name := strings.TrimSpace(in.ApplicantName)
	if name == "" {
		return nil, apperrors.NewValidationError("applicantName", "applicant name cannot be empty")
	}
	if !in.AmountRequested.IsPositive() {
		return nil, apperrors.NewValidationError("amountRequested", "amount requested must be greater than zero")
	}
	if in.MonthlyIncome.IsNegative() {
		return nil, apperrors.NewValidationError("monthlyIncome", "monthly income cannot be negative")
	}
	freq := in.FrequencyRequested
	if !freq.IsValid() {
		freq = loan.DefaultFrequency
	}

	return &LoanRequest{
		ID:                 uuid.New(),
		ClientID:           in.ClientID,
		ApplicantName:      name,
		Phone:              strings.TrimSpace(in.Phone),
		Email:              strings.TrimSpace(in.Email),
		Address:            strings.TrimSpace(in.Address),
		Occupation:         strings.TrimSpace(in.Occupation),
		MonthlyIncome:      loan.RoundMoney(in.MonthlyIncome),
		Purpose:            strings.TrimSpace(in.Purpose),
		AmountRequested:    loan.RoundMoney(in.AmountRequested),
		FrequencyRequested: freq,
		Status:             StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// Approve turns a pending request into an active loan and marks the request
// approved. req is only modified when approval succeeds.
func Approve(req *LoanRequest, terms Terms, limits Limits, approver string, now time.Time) (*loan.Loan, error) {
	if req.Status != StatusPending {
		return nil, fmt.Errorf("%w: request %s is already %s", apperrors.ErrConflict, req.ID, req.Status)
	}

	principal := loan.RoundMoney(terms.PrincipalApproved)
	if !principal.IsPositive() {
		return nil, fmt.Errorf("%w: approved amount must be greater than zero", apperrors.ErrInvalidInput)
	}
	ceiling := loan.RoundMoney(req.AmountRequested.Mul(limits.MaxApprovalRatio))
	if principal.GreaterThan(ceiling) {
		return nil, fmt.Errorf("%w: approved amount %s exceeds %s (%s x requested %s)",
			apperrors.ErrInvalidInput, principal, ceiling, limits.MaxApprovalRatio, req.AmountRequested)
	}
	if err := loan.ValidateRateScale(terms.RatePercent); err != nil {
		return nil, err
	}
	if !terms.RatePercent.IsPositive() || terms.RatePercent.GreaterThan(limits.MaxInterestRate) {
		return nil, fmt.Errorf("%w: interest rate %s must be greater than 0 and at most %s",
			apperrors.ErrInvalidInput, terms.RatePercent, limits.MaxInterestRate)
	}

	freq := terms.Frequency
	if freq == "" {
		freq = req.FrequencyRequested
	}

	l, err := loan.NewLoan(req.ClientID, principal, terms.RatePercent, freq, now)
	if err != nil {
		return nil, err
	}
	requestID := req.ID
	l.RequestID = &requestID

	decidedAt := now
	req.Status = StatusApproved
	req.DecidedBy = approver
	req.DecidedAt = &decidedAt
	req.LoanID = &l.ID
	req.Observations = strings.TrimSpace(terms.Observations)
	req.UpdatedAt = now

	return l, nil
}

func (r *LoanRequest) Reject(reason, decidedBy string, now time.Time) error {
	if r.Status != StatusPending {
		return fmt.Errorf("%w: request %s is already %s", apperrors.ErrConflict, r.ID, r.Status)
	}
	decidedAt := now
	r.Status = StatusRejected
	r.DecidedBy = decidedBy
	r.DecidedAt = &decidedAt
	r.Observations = strings.TrimSpace(reason)
	r.UpdatedAt = now
	return nil
}
