package loan

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ListFilter struct {
	ClientID *uuid.UUID
	Status   *Status
}

// Repository persists loans. The InTx variants run inside a caller owned
// transaction so a loan update and its ledger entry commit together.
type Repository interface {
	CreateLoan(ctx context.Context, loan *Loan) error

	CreateLoanInTx(ctx context.Context, tx pgx.Tx, loan *Loan) error

	GetLoanByID(ctx context.Context, loanID uuid.UUID) (*Loan, error)

	// GetLoanForUpdate locks the loan row until tx ends.
	GetLoanForUpdate(ctx context.Context, tx pgx.Tx, loanID uuid.UUID) (*Loan, error)

	UpdateLoanInTx(ctx context.Context, tx pgx.Tx, loan *Loan) error

	ListLoans(ctx context.Context, filter ListFilter) ([]*Loan, error)

	ListOverdueLoanIDs(ctx context.Context, dueBefore time.Time) ([]uuid.UUID, error)

	BeginTx(ctx context.Context) (pgx.Tx, error)

	CommitTx(ctx context.Context, tx pgx.Tx) error

	RollbackTx(ctx context.Context, tx pgx.Tx) error
}

type LedgerRepository interface {
	InsertPaymentInTx(ctx context.Context, tx pgx.Tx, payment *PaymentEvent) error

	ListPaymentsByLoanID(ctx context.Context, loanID uuid.UUID) ([]*PaymentEvent, error)
}
