package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ClientEventPayload struct {
	ClientID     uuid.UUID `json:"clientId"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	Address      string    `json:"address,omitempty"`
	IsDelinquent bool      `json:"isDelinquent"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type ClientCreatedEvent struct {
	Timestamp time.Time          `json:"timestamp"`
	Payload   ClientEventPayload `json:"payload"`
}

type ClientUpdatedEvent struct {
	Timestamp time.Time          `json:"timestamp"`
	Payload   ClientEventPayload `json:"payload"`
}

type PaymentAppliedEvent struct {
	PaymentID          uuid.UUID       `json:"paymentId"`
	LoanID             uuid.UUID       `json:"loanId"`
	ClientID           uuid.UUID       `json:"clientId"`
	AmountTotal        decimal.Decimal `json:"amountTotal"`
	AmountInterest     decimal.Decimal `json:"amountInterest"`
	AmountPrincipal    decimal.Decimal `json:"amountPrincipal"`
	InterestShortfall  decimal.Decimal `json:"interestShortfall"`
	AmountExcess       decimal.Decimal `json:"amountExcess"`
	PrincipalRemaining decimal.Decimal `json:"principalRemaining"`
	LoanStatus         string          `json:"loanStatus"`
	Timestamp          time.Time       `json:"timestamp"`
}

type LoanStatusChangedEvent struct {
	LoanID    uuid.UUID `json:"loanId"`
	ClientID  uuid.UUID `json:"clientId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	Timestamp time.Time `json:"timestamp"`
}

type LoanRequestDecidedEvent struct {
	RequestID uuid.UUID  `json:"requestId"`
	ClientID  uuid.UUID  `json:"clientId"`
	Decision  string     `json:"decision"`
	DecidedBy string     `json:"decidedBy"`
	LoanID    *uuid.UUID `json:"loanId,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}
