package loan

import (
	"fmt"
	"time"

	"loan-engine/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
	StatusDelinquent Status = "delinquent"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusDelinquent:
		return true
	}
	return false
}

// MaxInterestRatePercent is the hard ceiling on a loan's per-period rate.
var MaxInterestRatePercent = decimal.NewFromInt(50)

// RateDecimalPlaces is the precision interest rates are stored with.
const RateDecimalPlaces = 2

// ValidateRateScale rejects rates that cannot be stored without rounding.
func ValidateRateScale(ratePercent Money) error {
	if !ratePercent.Equal(ratePercent.Round(RateDecimalPlaces)) {
		return fmt.Errorf("%w: interest rate %s has more than %d decimal places",
			apperrors.ErrInvalidInput, ratePercent, RateDecimalPlaces)
	}
	return nil
}

type Loan struct {
	ID                  uuid.UUID
	ClientID            uuid.UUID
	RequestID           *uuid.UUID
	PrincipalOriginal   Money
	PrincipalRemaining  Money
	InterestRatePercent Money
	Frequency           Frequency
	Status              Status
	DateCreated         time.Time
	DateLastPayment     *time.Time
	DateNextPaymentDue  time.Time
	UpdatedAt           time.Time
}

// ValidateTerms checks principal and rate against the lending limits.
func ValidateTerms(principal, ratePercent Money) error {
	if !principal.IsPositive() {
		return fmt.Errorf("%w: principal %s must be greater than zero", apperrors.ErrInvalidInput, principal)
	}
	if err := ValidateRateScale(ratePercent); err != nil {
		return err
	}
	if !ratePercent.IsPositive() || ratePercent.GreaterThan(MaxInterestRatePercent) {
		return fmt.Errorf("%w: interest rate %s must be greater than 0 and at most %s",
			apperrors.ErrInvalidInput, ratePercent, MaxInterestRatePercent)
	}
	return nil
}

// NewLoan builds an active loan whose first payment falls one period after start.
func NewLoan(clientID uuid.UUID, principal, ratePercent Money, f Frequency, start time.Time) (*Loan, error) {
	if clientID == uuid.Nil {
		return nil, fmt.Errorf("%w: client id is required", apperrors.ErrInvalidInput)
	}
	principal = RoundMoney(principal)
	if err := ValidateTerms(principal, ratePercent); err != nil {
		return nil, err
	}
	ratePercent = ratePercent.Round(RateDecimalPlaces)
	if !f.IsValid() {
		f = DefaultFrequency
	}
	if start.IsZero() {
		start = time.Now()
	}

	return &Loan{
		ID:                  uuid.New(),
		ClientID:            clientID,
		PrincipalOriginal:   principal,
		PrincipalRemaining:  principal,
		InterestRatePercent: ratePercent,
		Frequency:           f,
		Status:              StatusActive,
		DateCreated:         start,
		DateNextPaymentDue:  NextDueDate(start, f),
		UpdatedAt:           start,
	}, nil
}

// ApplyPayment returns the state of l after a allocation is paid on paymentDate.
// l itself is not modified.
func ApplyPayment(l Loan, a Allocation, paymentDate time.Time) (Loan, error) {
	if l.Status == StatusCompleted {
		return Loan{}, fmt.Errorf("%w: loan %s", apperrors.ErrLoanCompleted, l.ID)
	}
	if a.PrincipalPortion.IsNegative() {
		return Loan{}, fmt.Errorf("%w: principal portion %s is negative", apperrors.ErrInvariantViolation, a.PrincipalPortion)
	}

	remaining := l.PrincipalRemaining.Sub(a.PrincipalPortion)
	if remaining.IsNegative() {
		return Loan{}, fmt.Errorf("%w: payment of %s principal would leave loan %s at %s",
			apperrors.ErrInvariantViolation, a.PrincipalPortion, l.ID, remaining)
	}

	paid := paymentDate
	l.PrincipalRemaining = remaining
	l.DateLastPayment = &paid
	l.DateNextPaymentDue = NextDueDate(paymentDate, l.Frequency)
	l.UpdatedAt = time.Now()

	if remaining.IsZero() {
		l.Status = StatusCompleted
	} else {
		l.Status = StatusActive
	}
	return l, nil
}

// MarkDelinquent moves an active loan to delinquent. It reports false when the
// loan was already delinquent.
func (l *Loan) MarkDelinquent() (bool, error) {
	switch l.Status {
	case StatusDelinquent:
		return false, nil
	case StatusActive:
		l.Status = StatusDelinquent
		l.UpdatedAt = time.Now()
		return true, nil
	case StatusCompleted:
		return false, fmt.Errorf("%w: loan %s", apperrors.ErrLoanCompleted, l.ID)
	}
	return false, fmt.Errorf("%w: loan %s in status %s cannot become delinquent", apperrors.ErrConflict, l.ID, l.Status)
}

// IsOverdue reports whether the next due date plus graceDays is before asOf.
func (l *Loan) IsOverdue(asOf time.Time, graceDays int) bool {
	if l.Status != StatusActive {
		return false
	}
	return l.DateNextPaymentDue.AddDate(0, 0, graceDays).Before(asOf)
}
